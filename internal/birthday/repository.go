package birthday

import "errors"

// Repository errors
var (
	ErrRecordNotFound = errors.New("birthday record not found")
)

// BirthdayRepository defines the interface for birthday record data
// access. Command-side operations are scoped to one owner; the sweep
// operations walk every owner.
type BirthdayRepository interface {
	// Command operations
	Upsert(ownerID, name string, day, month int, year *int) error
	Delete(ownerID, name string) (int64, error)
	List(ownerID string) ([]RecordSummary, error)

	// Sweep operations
	AllOwners() ([]string, error)
	RecordsFor(ownerID string) ([]BirthdayRecord, error)
	MarkNotified(recordID string, year int) error

	// Transaction support
	WithTransaction(fn func(BirthdayRepository) error) error
}
