package birthday

import (
	"fmt"

	"gorm.io/gorm"
)

// RunMigrations performs auto-migration for the birthday tables
func RunMigrations(db *gorm.DB) error {
	err := db.AutoMigrate(&BirthdayRecord{})
	if err != nil {
		return fmt.Errorf("failed to auto-migrate birthday tables: %w", err)
	}

	if err := createIndexes(db); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	return nil
}

// createIndexes creates the lookup and uniqueness indexes. The unique
// index on (owner_id, name_lower) enforces per-owner case-insensitive
// name uniqueness and is the conflict target of Upsert; the statements
// are portable across PostgreSQL and SQLite.
func createIndexes(db *gorm.DB) error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_birthday_records_owner_id ON birthday_records(owner_id)",
		"CREATE INDEX IF NOT EXISTS idx_birthday_records_month_day ON birthday_records(month, day)",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_birthday_records_owner_name ON birthday_records(owner_id, name_lower)",
	}

	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			return fmt.Errorf("failed to create birthday index: %w", err)
		}
	}

	return nil
}

// DropTables drops the birthday tables (for testing cleanup)
func DropTables(db *gorm.DB) error {
	if err := db.Exec("DROP TABLE IF EXISTS birthday_records").Error; err != nil {
		return fmt.Errorf("failed to drop table birthday_records: %w", err)
	}

	return nil
}
