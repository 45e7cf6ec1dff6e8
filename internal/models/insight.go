package models

import (
	"time"

	"gorm.io/datatypes"
)

// EmailDraft is the canned follow-up email attached to an insight.
type EmailDraft struct {
	Subject string `gorm:"type:text" json:"subject"`
	Body    string `gorm:"type:text" json:"body"`
}

// Insight is the current rule-engine output for a deal. At most one row per
// deal; regeneration replaces all fields rather than merging.
type Insight struct {
	ID     string `gorm:"type:varchar(64);primaryKey" json:"id"`
	DealID string `gorm:"type:varchar(64);not null;uniqueIndex" json:"dealId"`

	CloseProbability float64 `gorm:"type:double precision;not null" json:"closeProbability"`
	RiskLevel        string  `gorm:"type:varchar(10);not null" json:"riskLevel"`

	RiskFactors     datatypes.JSON `gorm:"type:jsonb;not null" json:"riskFactors"`
	NextBestActions datatypes.JSON `gorm:"type:jsonb;not null" json:"nextBestActions"`

	EmailDraft EmailDraft `gorm:"embedded;embeddedPrefix:email_" json:"emailDraft"`
	Summary    string     `gorm:"type:text" json:"summary"`

	ModelVersion string    `gorm:"type:varchar(50);not null" json:"modelVersion"`
	CreatedAt    time.Time `gorm:"type:timestamptz;autoCreateTime" json:"createdAt"`
}

func (Insight) TableName() string {
	return "deal_insights"
}
