package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"homehelp_backend/internal/config"
	"homehelp_backend/internal/models"
)

var gormDB *gorm.DB

// ConnectGorm opens (or reuses) the GORM connection from the configured DSN.
func ConnectGorm() (*gorm.DB, error) {
	if gormDB != nil {
		return gormDB, nil
	}

	cfg := config.GetConfig()

	db, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to GORM: %w", err)
	}

	gormDB = db
	return db, nil
}

// AutoMigrate migrates every model. uuid_generate_v4 defaults require the
// uuid-ossp extension, so it is created first.
func AutoMigrate(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		return fmt.Errorf("failed to create uuid-ossp extension: %w", err)
	}

	return db.AutoMigrate(
		&models.User{},
		&models.Worker{},
		&models.Payment{},
		&models.WorkerContact{},
		&models.Notification{},
	)
}
