package db

import (
	"gorm.io/gorm"

	types "github.com/planora/planora-backend/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		// Identity + auth
		&types.User{},
		&types.UserToken{},

		// Plans
		&types.MarketingPlan{},
	)
}
