package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Machinery is a plain asset register entry; no ledger logic attaches to it.
type Machinery struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	CompanyID uuid.UUID `gorm:"type:uuid;index;not null"`

	Name       string `gorm:"not null"`
	Identifier string `gorm:"type:varchar(50)"` // registration / serial number
	Status     string `gorm:"type:varchar(20);default:'idle'"` // idle, on_site, maintenance
	Notes      string

	ProjectID *uuid.UUID `gorm:"type:uuid;index"` // current deployment

	IsActive bool `gorm:"default:true"`

	gorm.Model
}

func (m *Machinery) BeforeCreate(tx *gorm.DB) (err error) {
	m.ID = uuid.New()
	return
}
