package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"birthdaybot-api/internal/config"
)

func TestNewConnection_SQLite(t *testing.T) {
	cfg := config.DatabaseConfig{
		Driver: DriverSQLite,
		Path:   ":memory:",
	}

	db, err := NewConnection(cfg)
	require.NoError(t, err)
	require.NotNil(t, db)

	assert.NoError(t, HealthCheck(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	defer sqlDB.Close()

	// A single connection keeps every session on the same in-memory DB
	// and serializes writes on file-backed ones.
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
}

func TestNewConnection_UnsupportedDriver(t *testing.T) {
	cfg := config.DatabaseConfig{Driver: "oracle"}

	db, err := NewConnection(cfg)
	assert.Error(t, err)
	assert.Nil(t, db)
	assert.Contains(t, err.Error(), "unsupported database driver")
}

func TestNewSQLiteConnection_MissingPath(t *testing.T) {
	cfg := config.DatabaseConfig{Driver: DriverSQLite}

	db, err := NewSQLiteConnection(cfg)
	assert.Error(t, err)
	assert.Nil(t, db)
	assert.Contains(t, err.Error(), "database.path")
}

func TestHealthCheck_NilDatabase(t *testing.T) {
	err := HealthCheck(nil)
	assert.Error(t, err)
}

func TestHealthCheck_ClosedConnection(t *testing.T) {
	cfg := config.DatabaseConfig{
		Driver: DriverSQLite,
		Path:   ":memory:",
	}

	db, err := NewConnection(cfg)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	assert.Error(t, HealthCheck(db))
}
