package database

import (
	"fmt"

	"birthdaybot-api/internal/config"

	"gorm.io/gorm"
)

// Supported database drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// NewConnection opens the database selected by the configuration.
// PostgreSQL is the production driver; SQLite (pure Go) keeps small
// deployments free of an external database server.
func NewConnection(cfg config.DatabaseConfig) (*gorm.DB, error) {
	switch cfg.Driver {
	case DriverPostgres:
		return NewPostgresConnection(cfg)
	case DriverSQLite:
		return NewSQLiteConnection(cfg)
	default:
		return nil, fmt.Errorf("unsupported database driver: %q", cfg.Driver)
	}
}

// HealthCheck verifies that the database connection is alive
func HealthCheck(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("database instance is nil")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if sqlDB == nil {
		return fmt.Errorf("underlying sql.DB is nil")
	}

	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	return nil
}
