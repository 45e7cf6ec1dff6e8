package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Deal stages. WON and LOST are terminal for forecasting purposes: they are
// excluded from the active pipeline and feed historical actuals instead.
const (
	StageProspecting = "PROSPECTING"
	StageQualified   = "QUALIFIED"
	StageProposal    = "PROPOSAL"
	StageNegotiation = "NEGOTIATION"
	StageWon         = "WON"
	StageLost        = "LOST"
)

// OpenStages is the fixed stage order used by pipeline breakdowns.
var OpenStages = []string{StageProspecting, StageQualified, StageProposal, StageNegotiation}

// TerminalStages are the labeled outcomes usable as retraining ground truth.
var TerminalStages = []string{StageWon, StageLost}

// Risk bands derived from close probability.
const (
	RiskLow    = "LOW"
	RiskMedium = "MEDIUM"
	RiskHigh   = "HIGH"
)

type Deal struct {
	ID        string `gorm:"type:varchar(64);primaryKey" json:"id"`
	AccountID string `gorm:"type:varchar(64);not null;index" json:"accountId"`
	Name      string `gorm:"type:varchar(200);not null" json:"name"`
	Stage     string `gorm:"type:varchar(20);not null;index;default:'PROSPECTING'" json:"stage"`

	// Amount is held as numeric to avoid float drift in pipeline sums.
	Amount   decimal.Decimal `gorm:"type:numeric(20,2);not null" json:"amount"`
	Currency string          `gorm:"type:varchar(10);not null;default:'USD'" json:"currency"`

	ExpectedCloseDate *time.Time `gorm:"type:timestamptz;index" json:"expectedCloseDate"`
	OwnerID           string     `gorm:"type:varchar(64);not null;index" json:"ownerId"`

	// Cached scoring output, written back by insight generation and retrain.
	CloseProbability *float64 `gorm:"type:double precision" json:"closeProbability,omitempty"`
	RiskLevel        *string  `gorm:"type:varchar(10)" json:"riskLevel,omitempty"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime;index" json:"createdAt"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime;index" json:"updatedAt"`
}

func (Deal) TableName() string {
	return "deals"
}

// IsTerminal reports whether the deal has a labeled outcome.
func (d Deal) IsTerminal() bool {
	return d.Stage == StageWon || d.Stage == StageLost
}

// ClosedAt is the effective close timestamp used for revenue bucketing:
// last update, falling back to creation.
func (d Deal) ClosedAt() time.Time {
	if !d.UpdatedAt.IsZero() {
		return d.UpdatedAt
	}
	return d.CreatedAt
}
