package birthday

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDate(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

func intPtr(v int) *int {
	return &v
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		expectedDay   int
		expectedMonth int
		expectedYear  *int
		expectedError bool
	}{
		{
			name:          "day and month with dot separator",
			input:         "14.02",
			expectedDay:   14,
			expectedMonth: 2,
		},
		{
			name:          "day and month with dash separator",
			input:         "14-02",
			expectedDay:   14,
			expectedMonth: 2,
		},
		{
			name:          "day and month with slash separator",
			input:         "14/02",
			expectedDay:   14,
			expectedMonth: 2,
		},
		{
			name:          "surrounding whitespace is trimmed",
			input:         "  14.02  ",
			expectedDay:   14,
			expectedMonth: 2,
		},
		{
			name:          "unpadded day and month",
			input:         "1.1",
			expectedDay:   1,
			expectedMonth: 1,
		},
		{
			name:          "day month and year",
			input:         "14.02.2004",
			expectedDay:   14,
			expectedMonth: 2,
			expectedYear:  intPtr(2004),
		},
		{
			name:          "day month and year with slashes",
			input:         "14/02/2004",
			expectedDay:   14,
			expectedMonth: 2,
			expectedYear:  intPtr(2004),
		},
		{
			name:          "strict ISO date",
			input:         "2004-02-14",
			expectedDay:   14,
			expectedMonth: 2,
			expectedYear:  intPtr(2004),
		},
		{
			name:          "leap day without year",
			input:         "29.02",
			expectedDay:   29,
			expectedMonth: 2,
		},
		{
			name:          "leap day with non-leap year still accepted",
			input:         "29.02.1999",
			expectedDay:   29,
			expectedMonth: 2,
			expectedYear:  intPtr(1999),
		},
		{
			name:          "february 31st rejected",
			input:         "31.02",
			expectedError: true,
		},
		{
			name:          "april 31st rejected",
			input:         "31.04",
			expectedError: true,
		},
		{
			name:          "month out of range rejected",
			input:         "14.13",
			expectedError: true,
		},
		{
			name:          "day zero rejected",
			input:         "0.01",
			expectedError: true,
		},
		{
			name:          "comma separator rejected",
			input:         "14,02",
			expectedError: true,
		},
		{
			name:          "unpadded ISO rejected",
			input:         "2004-2-14",
			expectedError: true,
		},
		{
			name:          "single component rejected",
			input:         "14",
			expectedError: true,
		},
		{
			name:          "non-numeric component rejected",
			input:         "fourteenth.02",
			expectedError: true,
		},
		{
			name:          "free text rejected",
			input:         "next tuesday",
			expectedError: true,
		},
		{
			name:          "empty input rejected",
			input:         "",
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			date, err := ParseDate(tt.input)

			if tt.expectedError {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidDateFormat)
				assert.True(t, IsDateFormatError(err))
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expectedDay, date.Day)
			assert.Equal(t, tt.expectedMonth, date.Month)
			if tt.expectedYear == nil {
				assert.Nil(t, date.Year)
			} else {
				require.NotNil(t, date.Year)
				assert.Equal(t, *tt.expectedYear, *date.Year)
			}
		})
	}
}

func TestParseDate_SeparatorsYieldIdenticalResult(t *testing.T) {
	inputs := []string{"14.02", "14-02", "14/02"}

	for _, input := range inputs {
		date, err := ParseDate(input)
		require.NoError(t, err, "input %q", input)
		assert.Equal(t, 14, date.Day)
		assert.Equal(t, 2, date.Month)
		assert.Nil(t, date.Year)
	}
}

func TestDateString(t *testing.T) {
	tests := []struct {
		name     string
		date     Date
		expected string
	}{
		{
			name:     "without year",
			date:     Date{Day: 14, Month: 2},
			expected: "14.02",
		},
		{
			name:     "with year",
			date:     Date{Day: 14, Month: 2, Year: intPtr(2004)},
			expected: "14.02.2004",
		},
		{
			name:     "single digits are zero padded",
			date:     Date{Day: 1, Month: 1},
			expected: "01.01",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.date.String())
		})
	}
}

func TestParseDate_RoundTrip(t *testing.T) {
	// Formatting a parsed DD.MM input reproduces the input.
	inputs := []string{"03.07", "14.02", "29.02", "31.12"}

	for _, input := range inputs {
		date, err := ParseDate(input)
		require.NoError(t, err)
		assert.Equal(t, input, date.String())
	}
}

func TestNextOccurrence(t *testing.T) {
	tests := []struct {
		name     string
		day      int
		month    int
		today    time.Time
		expected time.Time
	}{
		{
			name:     "birthday today resolves to today",
			day:      14,
			month:    2,
			today:    testDate(2024, 2, 14),
			expected: testDate(2024, 2, 14),
		},
		{
			name:     "birthday yesterday rolls to next year",
			day:      14,
			month:    2,
			today:    testDate(2024, 2, 15),
			expected: testDate(2025, 2, 14),
		},
		{
			name:     "birthday tomorrow stays in current year",
			day:      14,
			month:    2,
			today:    testDate(2024, 2, 13),
			expected: testDate(2024, 2, 14),
		},
		{
			name:     "year rollover near new year",
			day:      1,
			month:    1,
			today:    testDate(2024, 12, 30),
			expected: testDate(2025, 1, 1),
		},
		{
			name:     "leap day in a leap year",
			day:      29,
			month:    2,
			today:    testDate(2024, 1, 1),
			expected: testDate(2024, 2, 29),
		},
		{
			name:     "leap day in a non-leap year falls back to march first",
			day:      29,
			month:    2,
			today:    testDate(2025, 6, 15),
			expected: testDate(2026, 3, 1),
		},
		{
			name:     "leap day fallback occurring today",
			day:      29,
			month:    2,
			today:    testDate(2025, 3, 1),
			expected: testDate(2025, 3, 1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			occurrence := NextOccurrence(tt.day, tt.month, tt.today)
			assert.True(t, occurrence.Equal(tt.expected),
				"expected %s, got %s", tt.expected, occurrence)
		})
	}
}

func TestNextOccurrence_TimeOfDayDoesNotPushToNextYear(t *testing.T) {
	// A sweep running at 09:00 on the birthday itself must still see
	// the occurrence as today.
	today := time.Date(2024, 2, 14, 9, 0, 0, 0, time.UTC)

	occurrence := NextOccurrence(14, 2, today)

	assert.True(t, occurrence.Equal(testDate(2024, 2, 14)))
	assert.Equal(t, 0, DaysUntil(occurrence, today))
}

func TestDaysUntil(t *testing.T) {
	tests := []struct {
		name       string
		occurrence time.Time
		today      time.Time
		expected   int
	}{
		{
			name:       "same day",
			occurrence: testDate(2024, 2, 14),
			today:      testDate(2024, 2, 14),
			expected:   0,
		},
		{
			name:       "tomorrow",
			occurrence: testDate(2024, 2, 15),
			today:      testDate(2024, 2, 14),
			expected:   1,
		},
		{
			name:       "three days ahead",
			occurrence: testDate(2024, 2, 17),
			today:      testDate(2024, 2, 14),
			expected:   3,
		},
		{
			name:       "across a year boundary",
			occurrence: testDate(2025, 1, 1),
			today:      testDate(2024, 12, 30),
			expected:   2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DaysUntil(tt.occurrence, tt.today))
		})
	}
}

func TestValidDayMonth(t *testing.T) {
	assert.True(t, ValidDayMonth(29, 2))
	assert.True(t, ValidDayMonth(31, 12))
	assert.False(t, ValidDayMonth(31, 2))
	assert.False(t, ValidDayMonth(32, 1))
	assert.False(t, ValidDayMonth(1, 13))
	assert.False(t, ValidDayMonth(0, 1))
	assert.False(t, ValidDayMonth(15, 0))
}
