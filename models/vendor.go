package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Vendor struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	CompanyID uuid.UUID `gorm:"type:uuid;index;not null"`

	Name    string `gorm:"not null"`
	Phone   string
	Address string
	Notes   string

	IsActive bool `gorm:"default:true"`

	Entries  []PurchaseEntry `gorm:"foreignKey:VendorID"`
	Payments []VendorPayment `gorm:"foreignKey:VendorID"`

	gorm.Model
}

func (v *Vendor) BeforeCreate(tx *gorm.DB) (err error) {
	v.ID = uuid.New()
	return
}

// PurchaseEntry is one vendor ledger line: a purchase of a stock item with
// an amount paid at entry time. The stored PaidAmount/Remaining are the
// system of record for billing totals; the FIFO-reconciled view is derived
// at read time.
type PurchaseEntry struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	CompanyID   uuid.UUID `gorm:"type:uuid;index;not null"`
	VendorID    uuid.UUID `gorm:"type:uuid;index;not null"`
	StockItemID uuid.UUID `gorm:"type:uuid;index;not null"`

	Quantity   float64 `gorm:"type:decimal(12,3);not null"`
	UnitPrice  float64 `gorm:"type:decimal(12,2);not null"`
	TotalPrice float64 `gorm:"type:decimal(14,2);not null"`
	PaidAmount float64 `gorm:"type:decimal(14,2);default:0.0"`
	Remaining  float64 `gorm:"type:decimal(14,2);default:0.0"`

	Date  string `gorm:"type:varchar(10);index;not null"` // YYYY-MM-DD
	Notes string

	CreatedAt int64 `gorm:"autoCreateTime:nano;index"` // insertion order for same-date FIFO ties

	Vendor    Vendor    `gorm:"foreignKey:VendorID"`
	StockItem StockItem `gorm:"foreignKey:StockItemID"`
}

func (e *PurchaseEntry) BeforeCreate(tx *gorm.DB) (err error) {
	e.ID = uuid.New()
	return
}

// VendorPayment is a standalone payment against a vendor, not tied to one
// purchase entry. The FIFO resolver distributes it oldest debt first.
type VendorPayment struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	CompanyID uuid.UUID `gorm:"type:uuid;index;not null"`
	VendorID  uuid.UUID `gorm:"type:uuid;index;not null"`

	Amount float64 `gorm:"type:decimal(14,2);not null"`
	Date   string  `gorm:"type:varchar(10);index;not null"` // YYYY-MM-DD
	Method string  `gorm:"type:varchar(20)"`                // cash, bank, upi, cheque
	Notes  string

	CreatedAt int64 `gorm:"autoCreateTime:nano"`

	Vendor Vendor `gorm:"foreignKey:VendorID"`
}

func (p *VendorPayment) BeforeCreate(tx *gorm.DB) (err error) {
	p.ID = uuid.New()
	return
}
