package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StockItem holds the running quantity of one consumable material.
// Purchase entries increase Quantity, usage records decrease it; neither
// side may drive it negative.
type StockItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	CompanyID uuid.UUID `gorm:"type:uuid;index;not null"`

	Name     string  `gorm:"not null"`
	Unit     string  `gorm:"type:varchar(20)"` // kg, bag, ton, piece
	Quantity float64 `gorm:"type:decimal(12,3);default:0.0"`

	IsActive bool `gorm:"default:true"`

	gorm.Model
}

func (s *StockItem) BeforeCreate(tx *gorm.DB) (err error) {
	s.ID = uuid.New()
	return
}

// StockUsage records material consumed on site.
type StockUsage struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	CompanyID   uuid.UUID  `gorm:"type:uuid;index;not null"`
	StockItemID uuid.UUID  `gorm:"type:uuid;index;not null"`
	ProjectID   *uuid.UUID `gorm:"type:uuid;index"`

	Quantity float64 `gorm:"type:decimal(12,3);not null"`
	Date     string  `gorm:"type:varchar(10);index;not null"` // YYYY-MM-DD
	Notes    string

	StockItem StockItem `gorm:"foreignKey:StockItemID"`

	gorm.Model
}

func (u *StockUsage) BeforeCreate(tx *gorm.DB) (err error) {
	u.ID = uuid.New()
	return
}
