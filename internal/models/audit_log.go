package models

import (
	"time"

	"gorm.io/datatypes"
)

// AuditLog is an append-only record of who changed what.
type AuditLog struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID *uint  `gorm:"index" json:"user_id"`
	Action string `gorm:"size:50;index;not null" json:"action"`

	Entity   string         `gorm:"size:50;index:idx_audit_entity" json:"entity"`
	EntityID *uint          `gorm:"index:idx_audit_entity" json:"entity_id"`
	Metadata datatypes.JSON `json:"metadata"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
}
