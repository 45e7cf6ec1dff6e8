// Package scoring holds the deterministic close-probability model. The same
// inputs always produce the same score; no randomness, no external calls.
package scoring

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"forecastcrm/internal/models"
)

// stageBaseProbs anchors the score to the pipeline stage. Unknown stages
// fall back to 0.25.
var stageBaseProbs = map[string]float64{
	models.StageProspecting: 0.15,
	models.StageQualified:   0.30,
	models.StageProposal:    0.50,
	models.StageNegotiation: 0.70,
	models.StageWon:         1.0,
	models.StageLost:        0.0,
}

var (
	largeDealAmount = decimal.NewFromInt(200000)
	hugeDealAmount  = decimal.NewFromInt(500000)
)

// CloseProbability scores a deal from its stage base, adjusted for
// engagement, deal size and age, clamped to [0.05, 0.95] by each adjustment
// and rounded to two decimals.
func CloseProbability(deal models.Deal, activityCount int, now time.Time) float64 {
	prob, ok := stageBaseProbs[deal.Stage]
	if !ok {
		prob = 0.25
	}
	if activityCount > 5 {
		prob = math.Min(prob+0.05, 0.95)
	}
	if activityCount > 10 {
		prob = math.Min(prob+0.05, 0.95)
	}
	if deal.Amount.GreaterThan(largeDealAmount) {
		prob = math.Max(prob-0.03, 0.05)
	}
	if deal.Amount.GreaterThan(hugeDealAmount) {
		prob = math.Max(prob-0.05, 0.05)
	}
	if DaysBetween(deal.CreatedAt, now) > 90 {
		prob = math.Max(prob-0.05, 0.05)
	}
	return math.Round(prob*100) / 100
}

// RiskLevel maps a close probability to its risk band.
func RiskLevel(prob float64) string {
	if prob >= 0.65 {
		return models.RiskLow
	}
	if prob >= 0.35 {
		return models.RiskMedium
	}
	return models.RiskHigh
}

// DaysBetween is the whole number of elapsed days from then to now,
// floored so partial days in either direction round down.
func DaysBetween(then, now time.Time) int {
	return int(math.Floor(now.Sub(then).Hours() / 24))
}
