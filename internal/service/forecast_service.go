package service

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"forecastcrm/internal/clock"
	"forecastcrm/internal/models"
	"forecastcrm/internal/repository"
	"forecastcrm/internal/scope"
	"forecastcrm/internal/scoring"
)

// Default probability applied to unscored deals in the weighted pipeline sum.
const unscoredPipelineProb = 0.3

type HistoricalMonth struct {
	Month     string          `json:"month"`
	MonthDate time.Time       `json:"monthDate"`
	Actual    decimal.Decimal `json:"actual"`
}

type ForecastMonth struct {
	Month       string          `json:"month"`
	MonthDate   time.Time       `json:"monthDate"`
	Predicted   decimal.Decimal `json:"predicted"`
	Optimistic  decimal.Decimal `json:"optimistic"`
	Pessimistic decimal.Decimal `json:"pessimistic"`
	Confidence  int             `json:"confidence"`
}

type ForecastSummary struct {
	TotalPipeline    decimal.Decimal `json:"totalPipeline"`
	WeightedPipeline decimal.Decimal `json:"weightedPipeline"`
	TotalForecast    decimal.Decimal `json:"totalForecast"`
}

type ForecastResult struct {
	Historical []HistoricalMonth `json:"historical"`
	Forecast   []ForecastMonth   `json:"forecast"`
	Summary    ForecastSummary   `json:"summary"`
}

// ForecastService projects revenue for the coming months by blending the
// weighted active pipeline with the trailing months' actuals, and persists
// one snapshot per (month, caller scope).
type ForecastService struct {
	Repo   repository.Repository
	Logger *zap.Logger
	Clock  clock.Clock

	// Horizon months forward and back. Zero means 6.
	Horizon int
	// PipelineWeight is the blend weight on the weighted pipeline; the
	// remainder goes to the historical average. Zero means 0.7.
	PipelineWeight float64
	// AssumedActivityCount feeds scoring for deals without a cached
	// probability. Zero means 3.
	AssumedActivityCount int

	ModelVersion string
}

func (s *ForecastService) horizon() int {
	if s.Horizon <= 0 {
		return 6
	}
	return s.Horizon
}

func (s *ForecastService) pipelineWeight() float64 {
	if s.PipelineWeight <= 0 || s.PipelineWeight > 1 {
		return 0.7
	}
	return s.PipelineWeight
}

func (s *ForecastService) assumedActivityCount() int {
	if s.AssumedActivityCount <= 0 {
		return 3
	}
	return s.AssumedActivityCount
}

// Forecast builds the full projection for the caller's scope.
func (s *ForecastService) Forecast(ctx context.Context, user *models.User) (*ForecastResult, error) {
	visible, err := scope.Resolve(ctx, s.Repo, user)
	if err != nil {
		return nil, err
	}
	deals, err := s.Repo.ListDeals(ctx, repository.ListDealsParams{OwnerIDs: visible.OwnerIDs, Limit: repository.NoLimit})
	if err != nil {
		return nil, err
	}

	var active, won []models.Deal
	for _, d := range deals {
		switch {
		case d.Stage == models.StageWon:
			won = append(won, d)
		case d.IsTerminal():
		default:
			active = append(active, d)
		}
	}

	now := clock.OrSystem(s.Clock).Now()
	horizon := s.horizon()

	historical := make([]HistoricalMonth, 0, horizon)
	totalActual := decimal.Zero
	nonZeroMonths := 0
	for i := horizon - 1; i >= 0; i-- {
		start, end := monthBounds(now, -i)
		actual := decimal.Zero
		for _, d := range won {
			closed := d.ClosedAt()
			if !closed.Before(start) && closed.Before(end) {
				actual = actual.Add(d.Amount)
			}
		}
		if actual.IsPositive() {
			nonZeroMonths++
		}
		totalActual = totalActual.Add(actual)
		historical = append(historical, HistoricalMonth{
			Month:     start.Format(monthLabelFormat),
			MonthDate: start,
			Actual:    actual,
		})
	}
	if nonZeroMonths == 0 {
		nonZeroMonths = 1
	}
	avgHistorical := totalActual.Div(decimal.NewFromInt(int64(nonZeroMonths)))

	weight := decimal.NewFromFloat(s.pipelineWeight())
	histWeight := decimal.NewFromInt(1).Sub(weight)

	forecast := make([]ForecastMonth, 0, horizon)
	totalForecast := decimal.Zero
	for i := 1; i <= horizon; i++ {
		start, end := monthBounds(now, i)

		weighted := decimal.Zero
		for _, d := range active {
			if d.ExpectedCloseDate == nil {
				continue
			}
			closeDate := *d.ExpectedCloseDate
			if closeDate.Before(start) || !closeDate.Before(end) {
				continue
			}
			weighted = weighted.Add(d.Amount.Mul(decimal.NewFromFloat(s.dealProbability(d, now))))
		}

		predicted := weighted.Mul(weight).Add(avgHistorical.Mul(histWeight)).Round(0)
		confidence := math.Max(0.4, math.Min(0.9, 1-float64(i)*0.08))
		month := ForecastMonth{
			Month:       start.Format(monthLabelFormat),
			MonthDate:   start,
			Predicted:   predicted,
			Optimistic:  predicted.Mul(decimal.NewFromFloat(1 + (1-confidence)*0.5)).Round(0),
			Pessimistic: predicted.Mul(decimal.NewFromFloat(confidence)).Round(0),
			Confidence:  int(math.Round(confidence * 100)),
		}
		totalForecast = totalForecast.Add(month.Predicted)
		forecast = append(forecast, month)

		if err := s.saveSnapshot(ctx, user, month); err != nil {
			return nil, err
		}
	}

	weightedPipeline := decimal.Zero
	for _, d := range active {
		prob := unscoredPipelineProb
		if d.CloseProbability != nil {
			prob = *d.CloseProbability
		}
		weightedPipeline = weightedPipeline.Add(d.Amount.Mul(decimal.NewFromFloat(prob)))
	}

	result := &ForecastResult{
		Historical: historical,
		Forecast:   forecast,
		Summary: ForecastSummary{
			TotalPipeline:    sumAmounts(active),
			WeightedPipeline: weightedPipeline.Round(0),
			TotalForecast:    totalForecast,
		},
	}
	if s.Logger != nil {
		s.Logger.Info("forecast computed",
			zap.Int("active_deals", len(active)),
			zap.Int("months", horizon),
			zap.String("total_forecast", totalForecast.String()))
	}
	return result, nil
}

// dealProbability prefers the cached score and otherwise scores on the spot
// with an assumed engagement level, since activity counts are not loaded
// per deal on this path.
func (s *ForecastService) dealProbability(d models.Deal, now time.Time) float64 {
	if d.CloseProbability != nil {
		return *d.CloseProbability
	}
	return scoring.CloseProbability(d, s.assumedActivityCount(), now)
}

func (s *ForecastService) saveSnapshot(ctx context.Context, user *models.User, month ForecastMonth) error {
	snap := &models.ForecastSnapshot{
		ID:               uuid.NewString(),
		PeriodMonth:      month.Month,
		PeriodStart:      month.MonthDate,
		PredictedRevenue: month.Predicted,
		Optimistic:       month.Optimistic,
		Pessimistic:      month.Pessimistic,
		Confidence:       month.Confidence,
		ModelVersion:     s.ModelVersion,
		CreatedAt:        clock.OrSystem(s.Clock).Now(),
	}
	if user != nil {
		if user.Role == models.RoleRep {
			snap.OwnerID = user.ID
		}
		if user.TeamID != nil {
			snap.TeamID = *user.TeamID
		}
	}
	return s.Repo.UpsertForecastSnapshot(ctx, snap)
}
