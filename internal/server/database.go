package server

import (
	"fmt"
	"log/slog"

	"github.com/fundloop/fundloop/internal/config"
	"github.com/fundloop/fundloop/internal/db"
	"gorm.io/gorm"
)

// Open connects to the configured database and brings its schema and
// built-in roles up to date.
func Open(cfg *config.Config) (*gorm.DB, error) {
	// Propagate app log level to database if not explicitly set
	if cfg.Database.LogLevel == "" {
		cfg.Database.LogLevel = cfg.Log.Level
	}

	database, err := db.New(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	slog.Info("Database initialized", "driver", cfg.Database.Driver)

	if err := db.Migrate(database); err != nil {
		_ = db.Close(database)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.Info("Database migrations completed")

	return database, nil
}
