package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Company struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key"`
	Name       string    `gorm:"not null"`
	Address    string
	OwnerPhone string

	DuesReminders         bool `gorm:"default:true"`
	WhatsAppNotifications bool `gorm:"default:false"`
	SMSNotifications      bool `gorm:"default:false"`

	Users        []User        `gorm:"foreignKey:CompanyID"`
	Projects     []Project     `gorm:"foreignKey:CompanyID"`
	Vendors      []Vendor      `gorm:"foreignKey:CompanyID"`
	Contractors  []Contractor  `gorm:"foreignKey:CompanyID"`
	Employees    []Employee    `gorm:"foreignKey:CompanyID"`
	BankAccounts []BankAccount `gorm:"foreignKey:CompanyID"`

	gorm.Model
}

func (c *Company) BeforeCreate(tx *gorm.DB) (err error) {
	c.ID = uuid.New()
	return
}
