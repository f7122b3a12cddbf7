package birthday

import (
	"strings"
	"time"

	"birthdaybot-api/internal/common"
)

// BirthdayRecord is a stored birthday, one row per owner and name.
// NameLower carries the lowercase rendering of Name; together with
// OwnerID it backs the unique index that makes names case-insensitively
// unique per owner on every supported database.
type BirthdayRecord struct {
	ID               common.RecordID `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"required"`
	OwnerID          common.ChatID   `json:"owner_id" gorm:"type:varchar(64);not null;index" validate:"required"`
	Name             string          `json:"name" gorm:"type:varchar(255);not null" validate:"required"`
	NameLower        string          `json:"-" gorm:"column:name_lower;type:varchar(255);not null"`
	Day              int             `json:"day" gorm:"type:smallint;not null"`
	Month            int             `json:"month" gorm:"type:smallint;not null"`
	Year             *int            `json:"year,omitempty" gorm:"type:smallint"`
	LastNotifiedYear *int            `json:"last_notified_year,omitempty" gorm:"type:smallint"`
	CreatedAt        time.Time       `json:"created_at" gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt        time.Time       `json:"updated_at" gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP"`
}

// RecordSummary is the list projection of a record: what /list shows
// and nothing else. Notification state and identifiers stay internal.
type RecordSummary struct {
	Name  string `json:"name"`
	Day   int    `json:"day"`
	Month int    `json:"month"`
	Year  *int   `json:"year,omitempty"`
}

// DueReminder is the sweep projection handed to the messenger for a
// record inside the reminder window.
type DueReminder struct {
	RecordID   common.RecordID
	ChatID     common.ChatID
	Name       string
	Occurrence time.Time
	DaysLeft   int
}

// ReminderMessenger delivers reminder messages for due records. The
// chatbot service implements it; the scheduler depends on it so the
// sweep never touches the transport directly.
type ReminderMessenger interface {
	SendReminder(reminder DueReminder) error
}

// Date returns the record's date in display form.
func (r BirthdayRecord) Date() Date {
	return Date{Day: r.Day, Month: r.Month, Year: r.Year}
}

// NextOccurrence returns the record's next occurrence relative to today.
func (r BirthdayRecord) NextOccurrence(today time.Time) time.Time {
	return NextOccurrence(r.Day, r.Month, today)
}

// NotifiedFor reports whether a reminder already went out for the given
// occurrence year.
func (r BirthdayRecord) NotifiedFor(year int) bool {
	return r.LastNotifiedYear != nil && *r.LastNotifiedYear == year
}

// Date returns the summary's date in display form.
func (s RecordSummary) Date() Date {
	return Date{Day: s.Day, Month: s.Month, Year: s.Year}
}

// TableName returns the table name for the BirthdayRecord model
func (BirthdayRecord) TableName() string {
	return "birthday_records"
}

// NormalizeName lowercases a display name for the uniqueness key.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// ValidateRecordInput checks caller-supplied upsert fields before they
// reach the database.
func ValidateRecordInput(ownerID, name string, day, month int) error {
	if strings.TrimSpace(ownerID) == "" {
		return NewRecordValidationError("owner_id", ownerID, "owner id is required")
	}
	if strings.TrimSpace(name) == "" {
		return NewRecordValidationError("name", name, "name cannot be empty")
	}
	if !ValidDayMonth(day, month) {
		return NewRecordValidationError("date", Date{Day: day, Month: month}.String(), "day and month do not form a valid date")
	}
	return nil
}
