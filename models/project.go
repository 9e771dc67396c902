package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Project struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	CompanyID uuid.UUID `gorm:"type:uuid;index;not null"`

	Name     string `gorm:"not null"`
	Location string
	Client   string
	Notes    string

	// Cumulative funds made available to the project via bank outflows.
	// Mutated only by the bank ledger service; never negative.
	Balance float64 `gorm:"type:decimal(14,2);default:0.0"`

	IsActive bool `gorm:"default:true"`

	gorm.Model
}

func (p *Project) BeforeCreate(tx *gorm.DB) (err error) {
	p.ID = uuid.New()
	return
}
