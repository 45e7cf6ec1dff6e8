package models

import "time"

// SettingsID is the single global settings row.
const SettingsID = "settings-global"

// Setting holds the AI-layer runtime state: mode, model version stamp and
// the last successful retrain time.
type Setting struct {
	ID            string     `gorm:"type:varchar(64);primaryKey" json:"id"`
	AIMode        string     `gorm:"column:ai_mode;type:varchar(20);not null;default:'mock'" json:"aiMode"`
	ModelVersion  string     `gorm:"type:varchar(50);not null;default:'1.0.0'" json:"modelVersion"`
	LastTrainedAt *time.Time `gorm:"type:timestamptz" json:"lastTrainedAt"`
	CreatedAt     time.Time  `gorm:"type:timestamptz;autoCreateTime" json:"createdAt"`
	UpdatedAt     time.Time  `gorm:"type:timestamptz;autoUpdateTime" json:"updatedAt"`
}

func (Setting) TableName() string {
	return "settings"
}
