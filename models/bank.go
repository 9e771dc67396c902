package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BankAccount running totals are mutated only by the bank ledger service.
// Invariant: CurrentBalance = OpeningBalance + TotalInflow - TotalOutflow,
// and never negative.
type BankAccount struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	CompanyID uuid.UUID `gorm:"type:uuid;index;not null"`

	Name          string `gorm:"not null"`
	BankName      string
	AccountNumber string `gorm:"type:varchar(50)"`

	OpeningBalance float64 `gorm:"type:decimal(14,2);default:0.0"`
	CurrentBalance float64 `gorm:"type:decimal(14,2);default:0.0"`
	TotalInflow    float64 `gorm:"type:decimal(14,2);default:0.0"`
	TotalOutflow   float64 `gorm:"type:decimal(14,2);default:0.0"`

	IsActive bool `gorm:"default:true"`

	Transactions []BankTransaction `gorm:"foreignKey:AccountID"`

	gorm.Model
}

func (a *BankAccount) BeforeCreate(tx *gorm.DB) (err error) {
	a.ID = uuid.New()
	return
}

const (
	TransactionInflow  = "inflow"
	TransactionOutflow = "outflow"
)

type BankTransaction struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	CompanyID uuid.UUID `gorm:"type:uuid;index;not null"`
	AccountID uuid.UUID `gorm:"type:uuid;index;not null"`

	Type   string  `gorm:"type:varchar(10);not null"` // 'inflow' or 'outflow'
	Amount float64 `gorm:"type:decimal(14,2);not null"`
	Date   string  `gorm:"type:varchar(10);index;not null"` // YYYY-MM-DD

	Source      string `gorm:"not null"`
	Destination string `gorm:"not null"`
	Mode        string `gorm:"type:varchar(20)"` // cash, cheque, transfer, upi

	// Only legal on outflows: the project this outflow funds.
	ProjectID *uuid.UUID `gorm:"type:uuid;index"`

	Notes string

	Account BankAccount `gorm:"foreignKey:AccountID"`
	Project *Project    `gorm:"foreignKey:ProjectID"`

	gorm.Model
}

func (t *BankTransaction) BeforeCreate(tx *gorm.DB) (err error) {
	t.ID = uuid.New()
	return
}
