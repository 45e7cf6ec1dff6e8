package service

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"forecastcrm/internal/cache"
	"forecastcrm/internal/clock"
	"forecastcrm/internal/models"
	"forecastcrm/internal/repository"
)

func TestDashboardStats(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	repo := newStubRepo()
	repo.deals = []models.Deal{
		{ID: "deal-a", Stage: models.StageQualified, Amount: decimal.NewFromInt(100000), OwnerID: "user-rep", UpdatedAt: now},
		{ID: "deal-b", Stage: models.StageProposal, Amount: decimal.NewFromInt(50000), OwnerID: "user-rep", UpdatedAt: now},
		{ID: "deal-w1", Stage: models.StageWon, Amount: decimal.NewFromInt(200000), OwnerID: "user-rep", UpdatedAt: time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC)},
		{ID: "deal-w2", Stage: models.StageWon, Amount: decimal.NewFromInt(100000), OwnerID: "user-rep", UpdatedAt: time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC)},
		{ID: "deal-l1", Stage: models.StageLost, Amount: decimal.NewFromInt(75000), OwnerID: "user-rep", UpdatedAt: now},
	}
	repo.recent = []models.Activity{
		{ID: "act-1", Type: models.ActivityCall, CreatedBy: "user-rep", OccurredAt: now},
		{ID: "act-2", Type: models.ActivityEmail, CreatedBy: "user-rep2", OccurredAt: now},
	}

	svc := &DashboardService{Repo: repo, Clock: clock.Fixed(now)}
	admin := &models.User{ID: "user-admin", Role: models.RoleAdmin}
	got, err := svc.Stats(context.Background(), admin)
	if err != nil {
		t.Fatalf("Stats error: %v", err)
	}

	if !got.TotalPipeline.Equal(decimal.NewFromInt(150000)) {
		t.Fatalf("totalPipeline = %s, want 150000", got.TotalPipeline)
	}
	if !got.WonRevenue.Equal(decimal.NewFromInt(300000)) {
		t.Fatalf("wonRevenue = %s, want 300000", got.WonRevenue)
	}
	if got.WinRate != 67 {
		t.Fatalf("winRate = %d, want 67", got.WinRate)
	}
	if !got.AvgDealSize.Equal(decimal.NewFromInt(75000)) {
		t.Fatalf("avgDealSize = %s, want 75000", got.AvgDealSize)
	}
	if got.ActiveDealsCount != 2 || got.WonDealsCount != 2 || got.LostDealsCount != 1 {
		t.Fatalf("counts = %d/%d/%d, want 2/2/1", got.ActiveDealsCount, got.WonDealsCount, got.LostDealsCount)
	}

	if len(got.PipelineByStage) != 4 {
		t.Fatalf("pipelineByStage rows = %d, want 4", len(got.PipelineByStage))
	}
	qualified := got.PipelineByStage[1]
	if qualified.Stage != models.StageQualified || qualified.Count != 1 || !qualified.Value.Equal(decimal.NewFromInt(100000)) {
		t.Fatalf("qualified row = %+v", qualified)
	}
	empty := got.PipelineByStage[0]
	if empty.Stage != models.StageProspecting || empty.Count != 0 || !empty.Value.IsZero() {
		t.Fatalf("prospecting row = %+v", empty)
	}

	if len(got.RecentActivities) != 2 {
		t.Fatalf("recentActivities = %d, want 2 for admin", len(got.RecentActivities))
	}

	if len(got.MonthlyRevenue) != 6 {
		t.Fatalf("monthlyRevenue rows = %d, want 6", len(got.MonthlyRevenue))
	}
	if got.MonthlyRevenue[0].Month != "Jan 25" || got.MonthlyRevenue[5].Month != "Jun 25" {
		t.Fatalf("month range = %s..%s", got.MonthlyRevenue[0].Month, got.MonthlyRevenue[5].Month)
	}
	if !got.MonthlyRevenue[4].Revenue.Equal(decimal.NewFromInt(100000)) {
		t.Fatalf("May revenue = %s, want 100000", got.MonthlyRevenue[4].Revenue)
	}
	if !got.MonthlyRevenue[5].Revenue.Equal(decimal.NewFromInt(200000)) {
		t.Fatalf("Jun revenue = %s, want 200000", got.MonthlyRevenue[5].Revenue)
	}

	// Aggregates must read the full deal set, not a capped page.
	if len(repo.dealListParams) != 1 || repo.dealListParams[0].Limit != repository.NoLimit {
		t.Fatalf("deal list params = %+v, want one unbounded read", repo.dealListParams)
	}
}

func TestDashboardStatsMarshalsBareNumbers(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	repo := newStubRepo()
	repo.deals = []models.Deal{
		{ID: "deal-a", Stage: models.StageQualified, Amount: decimal.NewFromInt(150000), OwnerID: "user-rep", UpdatedAt: now},
	}
	svc := &DashboardService{Repo: repo, Clock: clock.Fixed(now)}
	got, err := svc.Stats(context.Background(), &models.User{ID: "user-admin", Role: models.RoleAdmin})
	if err != nil {
		t.Fatalf("Stats error: %v", err)
	}
	raw, err := json.Marshal(got)
	if err != nil {
		t.Fatalf("marshal error: %v", err)
	}
	if !strings.Contains(string(raw), `"totalPipeline":150000`) {
		t.Fatalf("totalPipeline not a bare number: %s", raw)
	}
	if strings.Contains(string(raw), `"totalPipeline":"`) {
		t.Fatalf("totalPipeline quoted: %s", raw)
	}
	var round struct {
		TotalPipeline float64 `json:"totalPipeline"`
	}
	if err := json.Unmarshal(raw, &round); err != nil {
		t.Fatalf("numeric round trip failed: %v", err)
	}
	if round.TotalPipeline != 150000 {
		t.Fatalf("round trip = %v, want 150000", round.TotalPipeline)
	}
}

func TestDashboardStatsRepScoping(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	repo := newStubRepo()
	repo.deals = []models.Deal{
		{ID: "deal-mine", Stage: models.StageQualified, Amount: decimal.NewFromInt(10000), OwnerID: "user-rep", UpdatedAt: now},
		{ID: "deal-other", Stage: models.StageQualified, Amount: decimal.NewFromInt(99999), OwnerID: "user-rep2", UpdatedAt: now},
	}
	repo.recent = []models.Activity{
		{ID: "act-1", Type: models.ActivityCall, CreatedBy: "user-rep", OccurredAt: now},
		{ID: "act-2", Type: models.ActivityEmail, CreatedBy: "user-rep2", OccurredAt: now},
	}

	svc := &DashboardService{Repo: repo, Clock: clock.Fixed(now)}
	rep := &models.User{ID: "user-rep", Role: models.RoleRep}
	got, err := svc.Stats(context.Background(), rep)
	if err != nil {
		t.Fatalf("Stats error: %v", err)
	}
	if got.ActiveDealsCount != 1 || !got.TotalPipeline.Equal(decimal.NewFromInt(10000)) {
		t.Fatalf("rep sees %d deals worth %s, want own deal only", got.ActiveDealsCount, got.TotalPipeline)
	}
	if len(got.RecentActivities) != 1 || got.RecentActivities[0].CreatedBy != "user-rep" {
		t.Fatalf("rep recentActivities = %+v, want own only", got.RecentActivities)
	}
}

func TestDashboardStatsCached(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	repo := newStubRepo()
	repo.deals = []models.Deal{
		{ID: "deal-a", Stage: models.StageQualified, Amount: decimal.NewFromInt(10000), OwnerID: "user-rep", UpdatedAt: now},
	}
	svc := &DashboardService{
		Repo:  repo,
		Clock: clock.Fixed(now),
		Cache: cache.NewMemoryStore(),
		TTL:   time.Minute,
	}
	admin := &models.User{ID: "user-admin", Role: models.RoleAdmin}

	first, err := svc.Stats(context.Background(), admin)
	if err != nil {
		t.Fatalf("Stats error: %v", err)
	}
	repo.deals = append(repo.deals, models.Deal{
		ID: "deal-b", Stage: models.StageProposal, Amount: decimal.NewFromInt(5000), OwnerID: "user-rep", UpdatedAt: now,
	})
	second, err := svc.Stats(context.Background(), admin)
	if err != nil {
		t.Fatalf("Stats error: %v", err)
	}
	if !second.TotalPipeline.Equal(first.TotalPipeline) {
		t.Fatalf("second read = %s, want cached %s", second.TotalPipeline, first.TotalPipeline)
	}
}
