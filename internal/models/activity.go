package models

import "time"

// Activity types.
const (
	ActivityCall    = "CALL"
	ActivityEmail   = "EMAIL"
	ActivityMeeting = "MEETING"
	ActivityNote    = "NOTE"
)

// Activity is an immutable touchpoint on a deal.
type Activity struct {
	ID         string    `gorm:"type:varchar(64);primaryKey" json:"id"`
	DealID     string    `gorm:"type:varchar(64);not null;index" json:"dealId"`
	Type       string    `gorm:"type:varchar(20);not null;default:'NOTE'" json:"type"`
	Content    string    `gorm:"type:text" json:"content"`
	OccurredAt time.Time `gorm:"type:timestamptz;not null;index" json:"occurredAt"`
	CreatedBy  string    `gorm:"type:varchar(64);not null;index" json:"createdBy"`
}

func (Activity) TableName() string {
	return "activities"
}
