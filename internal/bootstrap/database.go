package bootstrap

import (
	"fmt"

	"github.com/jonesrussell/gopress/internal/config"
	"github.com/jonesrussell/gopress/internal/database"
	"github.com/jonesrussell/gopress/internal/logger"
)

// SetupDatabase creates a database connection and applies migrations.
func SetupDatabase(cfg *config.Config, log logger.Logger) (*database.DB, error) {
	db, err := database.New(cfg.Database, log)
	if err != nil {
		return nil, fmt.Errorf("database connection: %w", err)
	}

	if err := db.Migrate(); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			log.Error("Failed to close database", logger.Error(closeErr))
		}
		return nil, fmt.Errorf("database migration: %w", err)
	}

	return db, nil
}
