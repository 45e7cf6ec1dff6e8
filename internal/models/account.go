package models

import "time"

type Account struct {
	ID       string `gorm:"type:varchar(64);primaryKey" json:"id"`
	Name     string `gorm:"type:varchar(200);not null" json:"name"`
	Domain   string `gorm:"type:varchar(200)" json:"domain"`
	Industry string `gorm:"type:varchar(100)" json:"industry"`
	Country  string `gorm:"type:varchar(100)" json:"country"`
	OwnerID  string `gorm:"type:varchar(64);not null;index" json:"ownerId"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime;index" json:"createdAt"`
}

func (Account) TableName() string {
	return "accounts"
}
