// services/audit_service.go
package services

import (
	"encoding/json"
	"time"

	"buildtrack-backend/config"
	"buildtrack-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Actor identifies who is performing an operation, as resolved by the
// auth middleware.
type Actor struct {
	ID        uuid.UUID
	CompanyID uuid.UUID
	Role      string
	// Site managers carry the single project they may touch.
	ProjectID *uuid.UUID
}

// AuditEntry describes one successful mutation.
type AuditEntry struct {
	Actor       Actor
	Action      string // models.AuditActionCreate / Update / Delete
	Module      string // "bank", "vendor", "contractor", "payroll", ...
	EntityID    uuid.UUID
	Description string
	OldValue    interface{}
	NewValue    interface{}
}

// WriteAudit persists an audit record. Best effort: failures are logged
// and swallowed so the primary operation's result stands.
func WriteAudit(db *gorm.DB, entry AuditEntry) {
	log := models.AuditLog{
		CompanyID:   entry.Actor.CompanyID,
		ActorID:     entry.Actor.ID,
		ActorRole:   entry.Actor.Role,
		Action:      entry.Action,
		Module:      entry.Module,
		EntityID:    entry.EntityID,
		Description: entry.Description,
		CreatedAt:   time.Now(),
	}
	if entry.OldValue != nil {
		if b, err := json.Marshal(entry.OldValue); err == nil {
			log.OldValue = string(b)
		}
	}
	if entry.NewValue != nil {
		if b, err := json.Marshal(entry.NewValue); err == nil {
			log.NewValue = string(b)
		}
	}

	if err := db.Create(&log).Error; err != nil {
		config.LogError(config.GetLogger(), "audit", "WriteAudit", entry.Module, err)
	}
}
