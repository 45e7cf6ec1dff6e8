package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"forecastcrm/internal/clock"
	"forecastcrm/internal/models"
	"forecastcrm/internal/repository"
)

func floatPtr(f float64) *float64 { return &f }
func strPtr(s string) *string     { return &s }
func timePtr(t time.Time) *time.Time {
	return &t
}

func TestForecast(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	repo := newStubRepo()
	repo.deals = []models.Deal{
		{
			ID:                "deal-scored",
			Stage:             models.StageNegotiation,
			Amount:            decimal.NewFromInt(100000),
			CloseProbability:  floatPtr(0.7),
			ExpectedCloseDate: timePtr(time.Date(2025, 7, 10, 0, 0, 0, 0, time.UTC)),
			OwnerID:           "user-rep",
			CreatedAt:         now.AddDate(0, 0, -30),
			UpdatedAt:         now,
		},
		{
			ID:        "deal-undated",
			Stage:     models.StageQualified,
			Amount:    decimal.NewFromInt(40000),
			OwnerID:   "user-rep",
			CreatedAt: now.AddDate(0, 0, -10),
			UpdatedAt: now,
		},
		{
			ID:        "deal-won-may",
			Stage:     models.StageWon,
			Amount:    decimal.NewFromInt(90000),
			OwnerID:   "user-rep",
			CreatedAt: now.AddDate(0, -2, 0),
			UpdatedAt: time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			ID:        "deal-won-jun",
			Stage:     models.StageWon,
			Amount:    decimal.NewFromInt(30000),
			OwnerID:   "user-rep",
			CreatedAt: now.AddDate(0, -1, 0),
			UpdatedAt: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			ID:        "deal-lost",
			Stage:     models.StageLost,
			Amount:    decimal.NewFromInt(999999),
			OwnerID:   "user-rep",
			CreatedAt: now.AddDate(0, -1, 0),
			UpdatedAt: now,
		},
	}

	svc := &ForecastService{Repo: repo, Clock: clock.Fixed(now), ModelVersion: "mock-1.0"}
	admin := &models.User{ID: "user-admin", Role: models.RoleAdmin}
	got, err := svc.Forecast(context.Background(), admin)
	if err != nil {
		t.Fatalf("Forecast error: %v", err)
	}

	if len(got.Historical) != 6 {
		t.Fatalf("historical months = %d, want 6", len(got.Historical))
	}
	if got.Historical[0].Month != "Jan 25" || got.Historical[5].Month != "Jun 25" {
		t.Fatalf("historical range = %s..%s", got.Historical[0].Month, got.Historical[5].Month)
	}
	if !got.Historical[4].Actual.Equal(decimal.NewFromInt(90000)) {
		t.Fatalf("May actual = %s, want 90000", got.Historical[4].Actual)
	}
	if !got.Historical[5].Actual.Equal(decimal.NewFromInt(30000)) {
		t.Fatalf("Jun actual = %s, want 30000", got.Historical[5].Actual)
	}
	if !got.Historical[0].Actual.IsZero() {
		t.Fatalf("Jan actual = %s, want 0", got.Historical[0].Actual)
	}

	if len(got.Forecast) != 6 {
		t.Fatalf("forecast months = %d, want 6", len(got.Forecast))
	}
	// Two non-zero trailing months average to 60000; July blends the
	// 70000 weighted pipeline at 0.7 with that average at 0.3.
	jul := got.Forecast[0]
	if jul.Month != "Jul 25" {
		t.Fatalf("first forecast month = %s, want Jul 25", jul.Month)
	}
	if !jul.Predicted.Equal(decimal.NewFromInt(67000)) {
		t.Fatalf("Jul predicted = %s, want 67000", jul.Predicted)
	}
	if jul.Confidence != 90 {
		t.Fatalf("Jul confidence = %d, want 90 (capped)", jul.Confidence)
	}
	if !jul.Optimistic.Equal(decimal.NewFromInt(70350)) {
		t.Fatalf("Jul optimistic = %s, want 70350", jul.Optimistic)
	}
	if !jul.Pessimistic.Equal(decimal.NewFromInt(60300)) {
		t.Fatalf("Jul pessimistic = %s, want 60300", jul.Pessimistic)
	}

	aug := got.Forecast[1]
	if !aug.Predicted.Equal(decimal.NewFromInt(18000)) {
		t.Fatalf("Aug predicted = %s, want 18000", aug.Predicted)
	}
	if aug.Confidence != 84 {
		t.Fatalf("Aug confidence = %d, want 84", aug.Confidence)
	}
	if last := got.Forecast[5]; last.Confidence != 52 {
		t.Fatalf("last confidence = %d, want 52", last.Confidence)
	}

	if !got.Summary.TotalPipeline.Equal(decimal.NewFromInt(140000)) {
		t.Fatalf("totalPipeline = %s, want 140000", got.Summary.TotalPipeline)
	}
	// Unscored deals enter the weighted pipeline at the default 0.3.
	if !got.Summary.WeightedPipeline.Equal(decimal.NewFromInt(82000)) {
		t.Fatalf("weightedPipeline = %s, want 82000", got.Summary.WeightedPipeline)
	}
	if !got.Summary.TotalForecast.Equal(decimal.NewFromInt(157000)) {
		t.Fatalf("totalForecast = %s, want 157000", got.Summary.TotalForecast)
	}

	if len(repo.upsertedSnapshots) != 6 {
		t.Fatalf("snapshots upserted = %d, want 6", len(repo.upsertedSnapshots))
	}
	first := repo.upsertedSnapshots[0]
	if first.PeriodMonth != "Jul 25" || first.OwnerID != "" || first.TeamID != "" {
		t.Fatalf("admin snapshot scope = %+v", first)
	}
	if first.ModelVersion != "mock-1.0" {
		t.Fatalf("snapshot modelVersion = %q", first.ModelVersion)
	}

	if len(repo.dealListParams) != 1 || repo.dealListParams[0].Limit != repository.NoLimit {
		t.Fatalf("deal list params = %+v, want one unbounded read", repo.dealListParams)
	}
}

func TestForecastRepSnapshotScope(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	repo := newStubRepo()
	svc := &ForecastService{Repo: repo, Clock: clock.Fixed(now)}
	rep := &models.User{ID: "user-rep", Role: models.RoleRep, TeamID: strPtr("team-1")}
	got, err := svc.Forecast(context.Background(), rep)
	if err != nil {
		t.Fatalf("Forecast error: %v", err)
	}
	// No won deals: the single assumed non-zero month keeps the average at 0.
	for _, m := range got.Forecast {
		if !m.Predicted.IsZero() {
			t.Fatalf("empty pipeline predicted = %s, want 0", m.Predicted)
		}
	}
	if len(repo.upsertedSnapshots) != 6 {
		t.Fatalf("snapshots upserted = %d, want 6", len(repo.upsertedSnapshots))
	}
	for _, snap := range repo.upsertedSnapshots {
		if snap.OwnerID != "user-rep" || snap.TeamID != "team-1" {
			t.Fatalf("rep snapshot scope = owner %q team %q", snap.OwnerID, snap.TeamID)
		}
	}
}
