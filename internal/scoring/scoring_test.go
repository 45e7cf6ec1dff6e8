package scoring

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"forecastcrm/internal/models"
)

func TestCloseProbability(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		name          string
		stage         string
		amount        int64
		activityCount int
		ageDays       int
		want          float64
	}{
		{"prospecting base", models.StageProspecting, 50000, 0, 10, 0.15},
		{"qualified base", models.StageQualified, 50000, 0, 10, 0.30},
		{"proposal base", models.StageProposal, 50000, 0, 10, 0.50},
		{"negotiation base", models.StageNegotiation, 50000, 0, 10, 0.70},
		{"won is certain", models.StageWon, 50000, 0, 10, 1.0},
		{"lost is zero", models.StageLost, 50000, 0, 10, 0.0},
		{"unknown stage fallback", "DISCOVERY", 50000, 0, 10, 0.25},
		{"six activities bump", models.StageQualified, 50000, 6, 10, 0.35},
		{"eleven activities bump twice", models.StageQualified, 50000, 11, 10, 0.40},
		{"large deal penalty", models.StageProposal, 250000, 0, 10, 0.47},
		{"huge deal penalty stacks", models.StageProposal, 600000, 0, 10, 0.42},
		{"boundary amount not large", models.StageProposal, 200000, 0, 10, 0.50},
		{"stale deal penalty", models.StageQualified, 50000, 0, 100, 0.25},
		{"all adjustments", models.StageNegotiation, 600000, 12, 100, 0.67},
		{"won stays capped", models.StageWon, 50000, 12, 10, 0.95},
		{"lost floors at 0.05 with penalties", models.StageLost, 600000, 0, 100, 0.05},
	}
	for _, tc := range cases {
		deal := models.Deal{
			Stage:     tc.stage,
			Amount:    decimal.NewFromInt(tc.amount),
			CreatedAt: now.AddDate(0, 0, -tc.ageDays),
		}
		got := CloseProbability(deal, tc.activityCount, now)
		if got != tc.want {
			t.Fatalf("%s: CloseProbability = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestRiskLevel(t *testing.T) {
	cases := []struct {
		prob float64
		want string
	}{
		{0.95, models.RiskLow},
		{0.65, models.RiskLow},
		{0.64, models.RiskMedium},
		{0.35, models.RiskMedium},
		{0.34, models.RiskHigh},
		{0.0, models.RiskHigh},
	}
	for _, tc := range cases {
		if got := RiskLevel(tc.prob); got != tc.want {
			t.Fatalf("RiskLevel(%v) = %q, want %q", tc.prob, got, tc.want)
		}
	}
}

func TestDaysBetween(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		then time.Time
		want int
	}{
		{now.AddDate(0, 0, -3), 3},
		{now.Add(-36 * time.Hour), 1},
		{now, 0},
		{now.Add(12 * time.Hour), -1},
		{now.AddDate(0, 0, 2), -2},
	}
	for _, tc := range cases {
		if got := DaysBetween(tc.then, now); got != tc.want {
			t.Fatalf("DaysBetween(%v) = %d, want %d", tc.then, got, tc.want)
		}
	}
}
