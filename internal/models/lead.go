package models

import "time"

// Lead statuses.
const (
	LeadNew       = "NEW"
	LeadConverted = "CONVERTED"
)

type Lead struct {
	ID        string  `gorm:"type:varchar(64);primaryKey" json:"id"`
	AccountID *string `gorm:"type:varchar(64);index" json:"accountId"`
	ContactID *string `gorm:"type:varchar(64)" json:"contactId"`
	Source    string  `gorm:"type:varchar(100)" json:"source"`
	Status    string  `gorm:"type:varchar(20);not null;default:'NEW'" json:"status"`
	Score     int     `gorm:"not null;default:0" json:"score"`
	OwnerID   string  `gorm:"type:varchar(64);not null;index" json:"ownerId"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime;index" json:"createdAt"`
}

func (Lead) TableName() string {
	return "leads"
}
