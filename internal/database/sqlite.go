package database

import (
	"fmt"

	"birthdaybot-api/internal/config"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewSQLiteConnection opens a SQLite database at the configured path,
// or an in-memory one for ":memory:". The driver is pure Go, so no
// cgo toolchain or system library is needed.
func NewSQLiteConnection(cfg config.DatabaseConfig) (*gorm.DB, error) {
	path := cfg.Path
	if path == "" {
		return nil, fmt.Errorf("sqlite driver requires database.path")
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// A single connection sidesteps SQLite write contention, and every
	// in-memory connection would otherwise see its own empty database.
	sqlDB.SetMaxOpenConns(1)

	// Test connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	return db, nil
}
