package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Contractor struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	CompanyID uuid.UUID `gorm:"type:uuid;index;not null"`

	Name  string `gorm:"not null"`
	Phone string
	Trade string `gorm:"type:varchar(50)"` // masonry, electrical, plumbing...
	Notes string

	IsActive bool `gorm:"default:true"`

	Entries     []ContractorEntry      `gorm:"foreignKey:ContractorID"`
	Payments    []ContractorPayment    `gorm:"foreignKey:ContractorID"`
	Allocations []ContractorAllocation `gorm:"foreignKey:ContractorID"`

	gorm.Model
}

func (c *Contractor) BeforeCreate(tx *gorm.DB) (err error) {
	c.ID = uuid.New()
	return
}

// ContractorEntry is one unit of billed contractor work.
type ContractorEntry struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	CompanyID    uuid.UUID `gorm:"type:uuid;index;not null"`
	ContractorID uuid.UUID `gorm:"type:uuid;index;not null"`

	Description string
	Amount      float64 `gorm:"type:decimal(14,2);not null"`
	PaidAmount  float64 `gorm:"type:decimal(14,2);default:0.0"` // paid at entry time
	Date        string  `gorm:"type:varchar(10);index;not null"`

	CreatedAt int64 `gorm:"autoCreateTime:nano;index"`

	Contractor Contractor `gorm:"foreignKey:ContractorID"`
}

func (e *ContractorEntry) BeforeCreate(tx *gorm.DB) (err error) {
	e.ID = uuid.New()
	return
}

type ContractorPayment struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	CompanyID    uuid.UUID `gorm:"type:uuid;index;not null"`
	ContractorID uuid.UUID `gorm:"type:uuid;index;not null"`

	Amount float64 `gorm:"type:decimal(14,2);not null"`
	Date   string  `gorm:"type:varchar(10);index;not null"`
	Method string  `gorm:"type:varchar(20)"`
	Notes  string

	CreatedAt int64 `gorm:"autoCreateTime:nano"`

	Contractor Contractor `gorm:"foreignKey:ContractorID"`
}

func (p *ContractorPayment) BeforeCreate(tx *gorm.DB) (err error) {
	p.ID = uuid.New()
	return
}

// ContractorAllocation records how much of one entry's due has been
// settled by one payment. Rows with a nil PaymentID cover the portion
// paid at entry time. The table is fully derived: deleted and rebuilt
// wholesale whenever the contractor's entries or payments change.
type ContractorAllocation struct {
	ID           uuid.UUID  `gorm:"type:uuid;primary_key"`
	CompanyID    uuid.UUID  `gorm:"type:uuid;index;not null"`
	ContractorID uuid.UUID  `gorm:"type:uuid;index;not null"`
	EntryID      uuid.UUID  `gorm:"type:uuid;index;not null"`
	PaymentID    *uuid.UUID `gorm:"type:uuid;index"`

	Amount float64 `gorm:"type:decimal(14,2);not null"`
}

func (a *ContractorAllocation) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return
}
