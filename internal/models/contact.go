package models

type Contact struct {
	ID        string `gorm:"type:varchar(64);primaryKey" json:"id"`
	AccountID string `gorm:"type:varchar(64);not null;index" json:"accountId"`
	Name      string `gorm:"type:varchar(200);not null" json:"name"`
	Email     string `gorm:"type:varchar(200)" json:"email"`
	Phone     string `gorm:"type:varchar(50)" json:"phone"`
	Title     string `gorm:"type:varchar(200)" json:"title"`
}

func (Contact) TableName() string {
	return "contacts"
}
