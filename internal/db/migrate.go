package db

import (
	"fmt"

	"github.com/deliciousroute/deliciousroute-backend/internal/db/migrations"
	"github.com/deliciousroute/deliciousroute-backend/pkg/logger"
	"gorm.io/gorm"
)

// Migrate applies pending versioned migrations to the global DB
func Migrate() error {
	return MigrateDB(DB)
}

// MigrateDB applies pending versioned migrations to gdb, picking the SQL
// dialect from its gorm dialector.
func MigrateDB(gdb *gorm.DB) error {
	dialect, err := migrations.ParseDialect(gdb.Dialector.Name())
	if err != nil {
		return err
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	logger.Info("Running database migrations...", map[string]interface{}{
		"dialect": string(dialect),
	})

	if err := migrations.MigrateUp(sqlDB, dialect); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	logger.Info("Database migrations completed successfully")
	return nil
}
