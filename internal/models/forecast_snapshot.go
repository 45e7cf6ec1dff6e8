package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ForecastSnapshot is the latest projection for one forward month and one
// caller scope. The (period, owner, team) key is replaced on every forecast
// run; no history is kept.
type ForecastSnapshot struct {
	ID string `gorm:"type:varchar(64);not null" json:"id"`

	// Owner and team are empty strings rather than NULLs for org-wide
	// scope so the unique index can replace org-wide rows on conflict.
	PeriodMonth string `gorm:"type:varchar(20);not null;uniqueIndex:uniq_forecast_scope" json:"periodMonth"`
	OwnerID     string `gorm:"type:varchar(64);not null;default:'';uniqueIndex:uniq_forecast_scope" json:"ownerId"`
	TeamID      string `gorm:"type:varchar(64);not null;default:'';uniqueIndex:uniq_forecast_scope" json:"teamId"`

	PeriodStart time.Time `gorm:"type:timestamptz;not null" json:"periodStart"`

	PredictedRevenue decimal.Decimal `gorm:"type:numeric(20,2);not null" json:"predictedRevenue"`
	Optimistic       decimal.Decimal `gorm:"type:numeric(20,2);not null" json:"optimistic"`
	Pessimistic      decimal.Decimal `gorm:"type:numeric(20,2);not null" json:"pessimistic"`

	// Confidence is a rounded percentage, 0-100.
	Confidence int `gorm:"not null" json:"confidence"`

	ModelVersion string    `gorm:"type:varchar(50);not null" json:"modelVersion"`
	CreatedAt    time.Time `gorm:"type:timestamptz;autoCreateTime" json:"createdAt"`
}

func (ForecastSnapshot) TableName() string {
	return "forecast_snapshots"
}
