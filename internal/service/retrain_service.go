package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"forecastcrm/internal/clock"
	"forecastcrm/internal/models"
	"forecastcrm/internal/repository"
	"forecastcrm/internal/scoring"
)

type RetrainResult struct {
	Message      string `json:"message"`
	Trained      bool   `json:"trained"`
	DealCount    int    `json:"dealCount"`
	UpdatedDeals int    `json:"updatedDeals,omitempty"`
}

// RetrainService re-scores the active pipeline against the labeled WON/LOST
// population and stamps a new model version. The "training" is the
// deterministic rule model recomputed with fresh activity counts.
type RetrainService struct {
	Repo   repository.Repository
	Logger *zap.Logger
	Clock  clock.Clock

	// MinLabeledDeals gates retraining; below it nothing is written.
	MinLabeledDeals int
}

func (s *RetrainService) minLabeled() int {
	if s.MinLabeledDeals <= 0 {
		return 5
	}
	return s.MinLabeledDeals
}

// Retrain runs one full retrain pass. Callers enforce the role gate; REP
// users are rejected here as a backstop.
func (s *RetrainService) Retrain(ctx context.Context, user *models.User) (*RetrainResult, error) {
	if user == nil || user.Role == models.RoleRep {
		return nil, fmt.Errorf("retrain requires manager or admin: %w", ErrForbidden)
	}

	labeled, err := s.Repo.ListDeals(ctx, repository.ListDealsParams{Stages: models.TerminalStages, Limit: repository.NoLimit})
	if err != nil {
		return nil, err
	}
	if len(labeled) < s.minLabeled() {
		return &RetrainResult{
			Message:   fmt.Sprintf("Not enough labeled data for training (need at least %d WON/LOST deals)", s.minLabeled()),
			Trained:   false,
			DealCount: len(labeled),
		}, nil
	}

	active, err := s.Repo.ListDeals(ctx, repository.ListDealsParams{Stages: models.OpenStages, Limit: repository.NoLimit})
	if err != nil {
		return nil, err
	}

	now := clock.OrSystem(s.Clock).Now()
	for _, deal := range active {
		count, err := s.Repo.CountActivitiesByDealID(ctx, deal.ID)
		if err != nil {
			return nil, err
		}
		prob := scoring.CloseProbability(deal, int(count), now)
		if err := s.Repo.UpdateDealScore(ctx, deal.ID, prob, scoring.RiskLevel(prob)); err != nil {
			return nil, err
		}
	}

	setting := &models.Setting{
		ID:            models.SettingsID,
		AIMode:        "mock",
		ModelVersion:  fmt.Sprintf("1.0.%d", now.UnixMilli()),
		LastTrainedAt: &now,
	}
	if existing, err := s.Repo.GetSetting(ctx); err != nil {
		return nil, err
	} else if existing != nil {
		setting.AIMode = existing.AIMode
	}
	if err := s.Repo.UpsertSetting(ctx, setting); err != nil {
		return nil, err
	}

	if s.Logger != nil {
		s.Logger.Info("model retrained",
			zap.Int("labeled_deals", len(labeled)),
			zap.Int("updated_deals", len(active)),
			zap.String("model_version", setting.ModelVersion))
	}
	return &RetrainResult{
		Message:      "Model retrained successfully (mock mode)",
		Trained:      true,
		DealCount:    len(labeled),
		UpdatedDeals: len(active),
	}, nil
}
