package models

import "time"

// User roles. REP sees only their own records, MANAGER sees their team,
// ADMIN sees everything.
const (
	RoleRep     = "REP"
	RoleManager = "MANAGER"
	RoleAdmin   = "ADMIN"
)

type User struct {
	ID           string  `gorm:"type:varchar(64);primaryKey" json:"id"`
	Name         string  `gorm:"type:varchar(200);not null" json:"name"`
	Email        string  `gorm:"type:varchar(200);not null;uniqueIndex" json:"email"`
	PasswordHash string  `gorm:"type:text;not null" json:"-"`
	Role         string  `gorm:"type:varchar(20);not null;index;default:'REP'" json:"role"`
	TeamID       *string `gorm:"type:varchar(64);index" json:"teamId"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime" json:"createdAt"`
}

func (User) TableName() string {
	return "users"
}
