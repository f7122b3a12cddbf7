package birthday

import (
	"strings"
	"time"

	"birthdaybot-api/internal/common"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// gormBirthdayRepository implements the BirthdayRepository interface using GORM
type gormBirthdayRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewGormBirthdayRepository creates a new GORM-based birthday repository
func NewGormBirthdayRepository(db *gorm.DB, logger *zap.Logger) BirthdayRepository {
	return &gormBirthdayRepository{
		db:     db,
		logger: logger,
	}
}

// Upsert inserts a record or replaces the owner's existing record with
// the same name. The conflict target is (owner_id, name_lower), so
// matching is case-insensitive; a replace refreshes the stored casing
// and resets last_notified_year so the next occurrence is reminded
// again.
func (r *gormBirthdayRepository) Upsert(ownerID, name string, day, month int, year *int) error {
	r.logger.Debug("Upserting birthday record",
		zap.String("ownerID", ownerID),
		zap.String("name", name))

	name = strings.TrimSpace(name)
	if err := ValidateRecordInput(ownerID, name, day, month); err != nil {
		return err
	}

	record := BirthdayRecord{
		ID:        common.RecordID(common.NewID()),
		OwnerID:   common.ChatID(ownerID),
		Name:      name,
		NameLower: NormalizeName(name),
		Day:       day,
		Month:     month,
		Year:      year,
	}

	err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "owner_id"}, {Name: "name_lower"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"name":               name,
			"day":                day,
			"month":              month,
			"year":               year,
			"last_notified_year": nil,
			"updated_at":         time.Now(),
		}),
	}).Create(&record).Error

	if err != nil {
		return WrapRepositoryError(err, "upsert birthday record")
	}

	r.logger.Info("Birthday record saved",
		zap.String("ownerID", ownerID),
		zap.String("name", name))
	return nil
}

// Delete removes the owner's record matching name case-insensitively
// and returns the number of rows removed (0 or 1). A miss is not an
// error; the caller decides what zero means.
func (r *gormBirthdayRepository) Delete(ownerID, name string) (int64, error) {
	r.logger.Debug("Deleting birthday record",
		zap.String("ownerID", ownerID),
		zap.String("name", name))

	result := r.db.
		Where("owner_id = ? AND name_lower = ?", ownerID, NormalizeName(name)).
		Delete(&BirthdayRecord{})

	if result.Error != nil {
		return 0, WrapRepositoryError(result.Error, "delete birthday record")
	}

	if result.RowsAffected > 0 {
		r.logger.Info("Birthday record deleted",
			zap.String("ownerID", ownerID),
			zap.String("name", name))
	}
	return result.RowsAffected, nil
}

// List returns the owner's records ordered by month, day, then name.
func (r *gormBirthdayRepository) List(ownerID string) ([]RecordSummary, error) {
	r.logger.Debug("Listing birthday records", zap.String("ownerID", ownerID))

	var records []BirthdayRecord
	err := r.db.
		Where("owner_id = ?", ownerID).
		Order("month, day, name_lower").
		Find(&records).Error

	if err != nil {
		return nil, WrapRepositoryError(err, "list birthday records")
	}

	summaries := make([]RecordSummary, 0, len(records))
	for _, rec := range records {
		summaries = append(summaries, RecordSummary{
			Name:  rec.Name,
			Day:   rec.Day,
			Month: rec.Month,
			Year:  rec.Year,
		})
	}

	r.logger.Debug("Retrieved birthday records", zap.Int("count", len(summaries)))
	return summaries, nil
}

// AllOwners returns every owner with at least one stored record.
func (r *gormBirthdayRepository) AllOwners() ([]string, error) {
	r.logger.Debug("Getting owners with birthday records")

	var owners []string
	err := r.db.Model(&BirthdayRecord{}).
		Distinct().
		Order("owner_id").
		Pluck("owner_id", &owners).Error

	if err != nil {
		return nil, WrapRepositoryError(err, "get record owners")
	}

	r.logger.Debug("Retrieved record owners", zap.Int("count", len(owners)))
	return owners, nil
}

// RecordsFor returns the owner's full rows for the reminder sweep.
func (r *gormBirthdayRepository) RecordsFor(ownerID string) ([]BirthdayRecord, error) {
	r.logger.Debug("Getting records for owner", zap.String("ownerID", ownerID))

	var records []BirthdayRecord
	err := r.db.
		Where("owner_id = ?", ownerID).
		Order("month, day, name_lower").
		Find(&records).Error

	if err != nil {
		return nil, WrapRepositoryError(err, "get records for owner")
	}

	return records, nil
}

// MarkNotified stores the occurrence year a reminder was delivered for.
// Repeating the write with the same year is a no-op in effect, so the
// sweep can safely retry.
func (r *gormBirthdayRepository) MarkNotified(recordID string, year int) error {
	r.logger.Debug("Marking record notified",
		zap.String("recordID", recordID),
		zap.Int("year", year))

	result := r.db.Model(&BirthdayRecord{}).
		Where("id = ?", recordID).
		Updates(map[string]interface{}{
			"last_notified_year": year,
			"updated_at":         time.Now(),
		})

	if result.Error != nil {
		return WrapRepositoryError(result.Error, "mark record notified")
	}

	if result.RowsAffected == 0 {
		return common.NotFoundError{Resource: "BirthdayRecord", ID: recordID}
	}

	r.logger.Info("Record marked notified",
		zap.String("recordID", recordID),
		zap.Int("year", year))
	return nil
}

// WithTransaction executes a function within a database transaction
func (r *gormBirthdayRepository) WithTransaction(fn func(BirthdayRepository) error) error {
	r.logger.Debug("Starting transaction")

	return r.db.Transaction(func(tx *gorm.DB) error {
		txRepo := &gormBirthdayRepository{
			db:     tx,
			logger: r.logger,
		}

		err := fn(txRepo)
		if err != nil {
			r.logger.Debug("Transaction failed, rolling back", zap.Error(err))
			return err
		}

		r.logger.Debug("Transaction completed successfully")
		return nil
	})
}
