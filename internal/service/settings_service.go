package service

import (
	"context"
	"fmt"

	"forecastcrm/internal/models"
	"forecastcrm/internal/repository"
)

// SettingsService reads and updates the global settings row. A missing row
// reads as the defaults without being created.
type SettingsService struct {
	Repo repository.Repository
}

func (s *SettingsService) Get(ctx context.Context) (*models.Setting, error) {
	setting, err := s.Repo.GetSetting(ctx)
	if err != nil {
		return nil, err
	}
	if setting == nil {
		return &models.Setting{
			ID:           models.SettingsID,
			AIMode:       "mock",
			ModelVersion: "1.0.0",
		}, nil
	}
	return setting, nil
}

// UpdateAIMode is admin-only; the handler enforces the role and this
// validates the value.
func (s *SettingsService) UpdateAIMode(ctx context.Context, aiMode string) error {
	if aiMode != "mock" && aiMode != "live" {
		return fmt.Errorf("aiMode must be mock or live: %w", ErrValidation)
	}
	setting, err := s.Get(ctx)
	if err != nil {
		return err
	}
	setting.AIMode = aiMode
	return s.Repo.UpsertSetting(ctx, setting)
}
