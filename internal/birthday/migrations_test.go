package birthday

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func openMigrationTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	return db
}

func TestRunMigrations_CreatesSchema(t *testing.T) {
	db := openMigrationTestDB(t)

	require.NoError(t, RunMigrations(db))
	assert.True(t, db.Migrator().HasTable("birthday_records"))
}

func TestRunMigrations_EnforcesOwnerNameUniqueness(t *testing.T) {
	db := openMigrationTestDB(t)
	require.NoError(t, RunMigrations(db))

	first := BirthdayRecord{
		ID:        "rec-1",
		OwnerID:   "42",
		Name:      "Masha",
		NameLower: "masha",
		Day:       14,
		Month:     2,
	}
	require.NoError(t, db.Create(&first).Error)

	// Same owner and normalized name must be rejected by the unique index.
	duplicate := BirthdayRecord{
		ID:        "rec-2",
		OwnerID:   "42",
		Name:      "MASHA",
		NameLower: "masha",
		Day:       1,
		Month:     3,
	}
	assert.Error(t, db.Create(&duplicate).Error)

	// The same normalized name under another owner is fine.
	other := BirthdayRecord{
		ID:        "rec-3",
		OwnerID:   "7",
		Name:      "masha",
		NameLower: "masha",
		Day:       1,
		Month:     3,
	}
	assert.NoError(t, db.Create(&other).Error)
}

func TestRunMigrations_Idempotent(t *testing.T) {
	db := openMigrationTestDB(t)

	require.NoError(t, RunMigrations(db))
	require.NoError(t, RunMigrations(db))
}

func TestRunMigrations_ClosedConnection(t *testing.T) {
	db := openMigrationTestDB(t)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	err = RunMigrations(db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to auto-migrate")
}

func TestDropTables(t *testing.T) {
	db := openMigrationTestDB(t)
	require.NoError(t, RunMigrations(db))

	require.NoError(t, DropTables(db))
	assert.False(t, db.Migrator().HasTable("birthday_records"))

	// Dropping an absent table is not an error.
	assert.NoError(t, DropTables(db))
}
