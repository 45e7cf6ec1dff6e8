package handler

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"forecastcrm/internal/models"
	"forecastcrm/internal/repository"
)

// recordAudit inserts an audit entry without failing the caller; audit loss
// is logged and swallowed.
func recordAudit(ctx context.Context, repo repository.Repository, logger *zap.Logger, entityType, entityID, action, userID string, details map[string]any) {
	raw, err := json.Marshal(details)
	if err != nil {
		raw = []byte("{}")
	}
	entry := &models.AuditEntry{
		ID:         uuid.NewString(),
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		UserID:     userID,
		Details:    datatypes.JSON(raw),
		CreatedAt:  time.Now().UTC(),
	}
	if err := repo.InsertAuditEntry(ctx, entry); err != nil && logger != nil {
		logger.Warn("audit insert failed",
			zap.String("entity_type", entityType),
			zap.String("entity_id", entityID),
			zap.String("action", action),
			zap.Error(err))
	}
}
