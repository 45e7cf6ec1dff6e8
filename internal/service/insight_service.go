package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"forecastcrm/internal/clock"
	"forecastcrm/internal/insight"
	"forecastcrm/internal/models"
	"forecastcrm/internal/repository"
	"forecastcrm/internal/scoring"
)

// InsightService runs the rule engine for a single deal and persists the
// result: one insight row per deal plus the score written back onto the deal.
type InsightService struct {
	Repo         repository.Repository
	Logger       *zap.Logger
	Clock        clock.Clock
	ModelVersion string
}

// Generate scores the deal, narrates it and replaces any previous insight.
func (s *InsightService) Generate(ctx context.Context, dealID string) (*models.Insight, error) {
	deal, err := s.Repo.GetDealByID(ctx, dealID)
	if err != nil {
		return nil, err
	}
	if deal == nil {
		return nil, fmt.Errorf("deal %s: %w", dealID, ErrNotFound)
	}
	activities, err := s.Repo.ListActivitiesByDealID(ctx, dealID)
	if err != nil {
		return nil, err
	}

	now := clock.OrSystem(s.Clock).Now()
	prob := scoring.CloseProbability(*deal, len(activities), now)
	risk := scoring.RiskLevel(prob)

	factors, err := json.Marshal(insight.RiskFactors(*deal, activities, now))
	if err != nil {
		return nil, err
	}
	actions, err := json.Marshal(insight.NextBestActions(deal.Stage))
	if err != nil {
		return nil, err
	}

	// Regeneration keeps the existing row's id so the returned insight
	// matches what is persisted.
	id := uuid.NewString()
	if existing, err := s.Repo.GetInsightByDealID(ctx, dealID); err != nil {
		return nil, err
	} else if existing != nil {
		id = existing.ID
	}

	item := &models.Insight{
		ID:               id,
		DealID:           dealID,
		CloseProbability: prob,
		RiskLevel:        risk,
		RiskFactors:      datatypes.JSON(factors),
		NextBestActions:  datatypes.JSON(actions),
		EmailDraft:       insight.EmailDraft(*deal),
		Summary:          insight.Summary(*deal, activities, now),
		ModelVersion:     s.ModelVersion,
		CreatedAt:        now,
	}
	if err := s.Repo.UpsertInsight(ctx, item); err != nil {
		return nil, err
	}
	if err := s.Repo.UpdateDealScore(ctx, dealID, prob, risk); err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.Info("insight generated",
			zap.String("deal_id", dealID),
			zap.Float64("close_probability", prob),
			zap.String("risk_level", risk))
	}
	return item, nil
}
