package birthday

import (
	"sort"
	"strings"

	"birthdaybot-api/internal/common"
)

// recordKey is the uniqueness key of the store: one record per owner
// and lowercased name.
type recordKey struct {
	ownerID   string
	nameLower string
}

// MockBirthdayRepository provides a map-backed mock implementation for testing
type MockBirthdayRepository struct {
	records      map[recordKey]*BirthdayRecord
	upsertError  error
	deleteError  error
	listError    error
	ownersError  error
	recordsError error
	markError    error
	markCalls    int
}

// NewMockBirthdayRepository creates a new mock repository
func NewMockBirthdayRepository() *MockBirthdayRepository {
	return &MockBirthdayRepository{
		records: make(map[recordKey]*BirthdayRecord),
	}
}

func (m *MockBirthdayRepository) Upsert(ownerID, name string, day, month int, year *int) error {
	if m.upsertError != nil {
		return m.upsertError
	}

	name = strings.TrimSpace(name)
	if err := ValidateRecordInput(ownerID, name, day, month); err != nil {
		return err
	}

	key := recordKey{ownerID: ownerID, nameLower: NormalizeName(name)}
	record, exists := m.records[key]
	if !exists {
		record = &BirthdayRecord{
			ID:      common.RecordID(common.NewID()),
			OwnerID: common.ChatID(ownerID),
		}
		m.records[key] = record
	}

	record.Name = name
	record.NameLower = key.nameLower
	record.Day = day
	record.Month = month
	record.Year = year
	record.LastNotifiedYear = nil
	return nil
}

func (m *MockBirthdayRepository) Delete(ownerID, name string) (int64, error) {
	if m.deleteError != nil {
		return 0, m.deleteError
	}

	key := recordKey{ownerID: ownerID, nameLower: NormalizeName(name)}
	if _, exists := m.records[key]; !exists {
		return 0, nil
	}
	delete(m.records, key)
	return 1, nil
}

func (m *MockBirthdayRepository) List(ownerID string) ([]RecordSummary, error) {
	if m.listError != nil {
		return nil, m.listError
	}

	records, err := m.RecordsFor(ownerID)
	if err != nil {
		return nil, err
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
	return summaries, nil
}

func (m *MockBirthdayRepository) AllOwners() ([]string, error) {
	if m.ownersError != nil {
		return nil, m.ownersError
	}

	seen := make(map[string]bool)
	var owners []string
	for key := range m.records {
		if !seen[key.ownerID] {
			seen[key.ownerID] = true
			owners = append(owners, key.ownerID)
		}
	}
	sort.Strings(owners)
	return owners, nil
}

func (m *MockBirthdayRepository) RecordsFor(ownerID string) ([]BirthdayRecord, error) {
	if m.recordsError != nil {
		return nil, m.recordsError
	}

	var records []BirthdayRecord
	for key, rec := range m.records {
		if key.ownerID == ownerID {
			records = append(records, *rec)
		}
	}

	// Same ordering contract as the real store: month, day, lowercased name.
	sort.Slice(records, func(i, j int) bool {
		if records[i].Month != records[j].Month {
			return records[i].Month < records[j].Month
		}
		if records[i].Day != records[j].Day {
			return records[i].Day < records[j].Day
		}
		return records[i].NameLower < records[j].NameLower
	})
	return records, nil
}

func (m *MockBirthdayRepository) MarkNotified(recordID string, year int) error {
	m.markCalls++
	if m.markError != nil {
		return m.markError
	}

	for _, rec := range m.records {
		if string(rec.ID) == recordID {
			y := year
			rec.LastNotifiedYear = &y
			return nil
		}
	}
	return common.NotFoundError{Resource: "BirthdayRecord", ID: recordID}
}

// Transaction support
func (m *MockBirthdayRepository) WithTransaction(fn func(BirthdayRepository) error) error {
	// For mock, just execute the function with the same repository
	return fn(m)
}

// Test helper methods

func (m *MockBirthdayRepository) SetUpsertError(err error) {
	m.upsertError = err
}

func (m *MockBirthdayRepository) SetDeleteError(err error) {
	m.deleteError = err
}

func (m *MockBirthdayRepository) SetListError(err error) {
	m.listError = err
}

func (m *MockBirthdayRepository) SetOwnersError(err error) {
	m.ownersError = err
}

func (m *MockBirthdayRepository) SetRecordsError(err error) {
	m.recordsError = err
}

func (m *MockBirthdayRepository) SetMarkError(err error) {
	m.markError = err
}

// Record returns the stored record for an owner and name, if present.
func (m *MockBirthdayRepository) Record(ownerID, name string) (*BirthdayRecord, bool) {
	rec, exists := m.records[recordKey{ownerID: ownerID, nameLower: NormalizeName(name)}]
	return rec, exists
}

func (m *MockBirthdayRepository) RecordCount() int {
	return len(m.records)
}

func (m *MockBirthdayRepository) MarkNotifiedCalls() int {
	return m.markCalls
}
