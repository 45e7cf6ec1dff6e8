package models

import (
	"time"

	"gorm.io/datatypes"
)

// Audit actions.
const (
	AuditLogin        = "LOGIN"
	AuditCreated      = "CREATED"
	AuditStageChanged = "STAGE_CHANGED"
)

// AuditEntry records a user-visible mutation. Writes are best-effort; a
// failed audit insert never fails the triggering operation.
type AuditEntry struct {
	ID         string         `gorm:"type:varchar(64);primaryKey" json:"id"`
	EntityType string         `gorm:"type:varchar(30);not null;index" json:"entityType"`
	EntityID   string         `gorm:"type:varchar(64);not null;index" json:"entityId"`
	Action     string         `gorm:"type:varchar(30);not null" json:"action"`
	UserID     string         `gorm:"type:varchar(64);not null;index" json:"userId"`
	Details    datatypes.JSON `gorm:"type:jsonb" json:"details"`
	CreatedAt  time.Time      `gorm:"type:timestamptz;autoCreateTime;index" json:"createdAt"`
}

func (AuditEntry) TableName() string {
	return "audit_trail"
}
