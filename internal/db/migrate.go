package db

import (
	"forecastcrm/internal/models"
)

func AutoMigrate(db *DB) error {
	if db == nil || db.Gorm == nil || db.SQL == nil {
		return nil
	}

	return db.Gorm.AutoMigrate(
		&models.Team{},
		&models.User{},
		&models.Account{},
		&models.Contact{},
		&models.Deal{},
		&models.Activity{},
		&models.Insight{},
		&models.ForecastSnapshot{},
		&models.Lead{},
		&models.AuditEntry{},
		&models.Setting{},
	)
}
