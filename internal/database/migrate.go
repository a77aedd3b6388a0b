package database

import (
	"integoreport/internal/models"
	"integoreport/pkg/logger"
)

// Migrate 执行数据库迁移
func Migrate() error {
	appLogger := logger.GetLogger()
	appLogger.Info("Starting database migration...")

	err := DB.AutoMigrate(
		&models.RosterEntry{},
		&models.ClientDataset{},
		&models.PullLog{},
	)
	if err != nil {
		appLogger.Errorf("Database migration failed: %v", err)
		return err
	}

	appLogger.Info("Database migration completed successfully")
	return nil
}
