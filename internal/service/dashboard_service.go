package service

import (
	"context"
	"encoding/json"
	"math"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"forecastcrm/internal/cache"
	"forecastcrm/internal/clock"
	"forecastcrm/internal/models"
	"forecastcrm/internal/repository"
	"forecastcrm/internal/scope"
)

const monthLabelFormat = "Jan 06"

// DashboardStats is the aggregate snapshot behind the landing page.
type DashboardStats struct {
	TotalPipeline    decimal.Decimal   `json:"totalPipeline"`
	WonRevenue       decimal.Decimal   `json:"wonRevenue"`
	WinRate          int               `json:"winRate"`
	AvgDealSize      decimal.Decimal   `json:"avgDealSize"`
	ActiveDealsCount int               `json:"activeDealsCount"`
	WonDealsCount    int               `json:"wonDealsCount"`
	LostDealsCount   int               `json:"lostDealsCount"`
	PipelineByStage  []StageBreakdown  `json:"pipelineByStage"`
	RecentActivities []models.Activity `json:"recentActivities"`
	MonthlyRevenue   []MonthRevenue    `json:"monthlyRevenue"`
}

type StageBreakdown struct {
	Stage string          `json:"stage"`
	Count int             `json:"count"`
	Value decimal.Decimal `json:"value"`
}

type MonthRevenue struct {
	Month   string          `json:"month"`
	Revenue decimal.Decimal `json:"revenue"`
}

// DashboardService computes per-caller pipeline aggregates, cached briefly
// per user because the landing page polls.
type DashboardService struct {
	Repo   repository.Repository
	Logger *zap.Logger
	Clock  clock.Clock
	Cache  cache.Store
	TTL    time.Duration
}

func (s *DashboardService) Stats(ctx context.Context, user *models.User) (*DashboardStats, error) {
	if s.Cache != nil && user != nil {
		if raw, found, err := s.Cache.Get(ctx, dashboardCacheKey(user.ID)); err == nil && found {
			var cached DashboardStats
			if json.Unmarshal(raw, &cached) == nil {
				return &cached, nil
			}
		}
	}

	visible, err := scope.Resolve(ctx, s.Repo, user)
	if err != nil {
		return nil, err
	}
	deals, err := s.Repo.ListDeals(ctx, repository.ListDealsParams{OwnerIDs: visible.OwnerIDs, Limit: repository.NoLimit})
	if err != nil {
		return nil, err
	}

	var active, won, lost []models.Deal
	for _, d := range deals {
		switch d.Stage {
		case models.StageWon:
			won = append(won, d)
		case models.StageLost:
			lost = append(lost, d)
		default:
			active = append(active, d)
		}
	}

	stats := &DashboardStats{
		TotalPipeline:    sumAmounts(active),
		WonRevenue:       sumAmounts(won),
		ActiveDealsCount: len(active),
		WonDealsCount:    len(won),
		LostDealsCount:   len(lost),
		AvgDealSize:      decimal.Zero,
	}
	if len(won)+len(lost) > 0 {
		stats.WinRate = int(math.Round(float64(len(won)) / float64(len(won)+len(lost)) * 100))
	}
	if len(active) > 0 {
		stats.AvgDealSize = stats.TotalPipeline.Div(decimal.NewFromInt(int64(len(active)))).Round(0)
	}

	for _, stage := range models.OpenStages {
		row := StageBreakdown{Stage: stage, Value: decimal.Zero}
		for _, d := range active {
			if d.Stage == stage {
				row.Count++
				row.Value = row.Value.Add(d.Amount)
			}
		}
		stats.PipelineByStage = append(stats.PipelineByStage, row)
	}

	actParams := repository.ListActivitiesParams{Limit: 10}
	if user != nil && user.Role == models.RoleRep {
		actParams.CreatedBy = &user.ID
	}
	recent, err := s.Repo.ListRecentActivities(ctx, actParams)
	if err != nil {
		return nil, err
	}
	stats.RecentActivities = recent
	if stats.RecentActivities == nil {
		stats.RecentActivities = []models.Activity{}
	}

	now := clock.OrSystem(s.Clock).Now()
	stats.MonthlyRevenue = monthlyRevenue(won, now)

	if s.Cache != nil && user != nil {
		if raw, err := json.Marshal(stats); err == nil {
			ttl := s.TTL
			if ttl <= 0 {
				ttl = 30 * time.Second
			}
			if err := s.Cache.Set(ctx, dashboardCacheKey(user.ID), raw, ttl); err != nil && s.Logger != nil {
				s.Logger.Warn("dashboard cache set failed", zap.Error(err))
			}
		}
	}
	return stats, nil
}

// monthlyRevenue buckets won deals by effective close month over the
// trailing six months, oldest first.
func monthlyRevenue(won []models.Deal, now time.Time) []MonthRevenue {
	out := make([]MonthRevenue, 0, 6)
	for i := 5; i >= 0; i-- {
		start, end := monthBounds(now, -i)
		total := decimal.Zero
		for _, d := range won {
			closed := d.ClosedAt()
			if !closed.Before(start) && closed.Before(end) {
				total = total.Add(d.Amount)
			}
		}
		out = append(out, MonthRevenue{Month: start.Format(monthLabelFormat), Revenue: total})
	}
	return out
}

// monthBounds returns [start, nextStart) for the month offset months away
// from now, normalized the way time.Date handles month overflow.
func monthBounds(now time.Time, offset int) (time.Time, time.Time) {
	start := time.Date(now.Year(), now.Month()+time.Month(offset), 1, 0, 0, 0, 0, now.Location())
	end := start.AddDate(0, 1, 0)
	return start, end
}

func sumAmounts(deals []models.Deal) decimal.Decimal {
	total := decimal.Zero
	for _, d := range deals {
		total = total.Add(d.Amount)
	}
	return total
}

func dashboardCacheKey(userID string) string {
	return "dashboard:stats:" + userID
}
