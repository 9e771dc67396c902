package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	AuditActionCreate = "create"
	AuditActionUpdate = "update"
	AuditActionDelete = "delete"
)

// AuditLog records who changed what. Writes are best-effort: a failed
// audit write never fails the operation it describes.
type AuditLog struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CompanyID uuid.UUID `gorm:"type:uuid;index;not null"`

	ActorID   uuid.UUID `gorm:"type:uuid;index;not null"`
	ActorRole string    `gorm:"type:varchar(20)"`

	Action   string    `gorm:"type:varchar(10);not null"` // create, update, delete
	Module   string    `gorm:"type:varchar(30);index;not null"`
	EntityID uuid.UUID `gorm:"type:uuid;index"`

	Description string
	OldValue    string `gorm:"type:jsonb"`
	NewValue    string `gorm:"type:jsonb"`

	CreatedAt time.Time
}

func (l *AuditLog) BeforeCreate(tx *gorm.DB) (err error) {
	l.ID = uuid.New()
	return
}
