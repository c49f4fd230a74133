package db

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"go_gizmo/internal/model"
)

// Migrate runs database migrations for all models
func Migrate(gdb *gorm.DB, logger *logrus.Entry) error {
	models := model.All()
	logger.Info("Starting database migration...")

	if err := gdb.AutoMigrate(models...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	logger.WithField("tables", len(models)).Info("Database migration completed")
	return nil
}
