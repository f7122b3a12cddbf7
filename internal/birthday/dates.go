package birthday

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// leapRefYear anchors day/month validation. 2000 is a leap year, so
// Feb 29 stays valid no matter which year the user supplied (the year
// is stored for display only).
const leapRefYear = 2000

// dateSeparators are the accepted separators for day-first input.
var dateSeparators = [...]string{".", "-", "/"}

// isoDatePattern matches strict ISO input: exactly four, two, and two
// digits. Unpadded variants like 2004-2-14 fall through to the
// day-first branch and fail range validation there.
var isoDatePattern = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)

// Date is a parsed birthday date. Year is nil when the user omitted it.
type Date struct {
	Day   int
	Month int
	Year  *int
}

// String renders DD.MM, or DD.MM.YYYY when the year is known. This is
// the format echoed back in confirmations and list entries.
func (d Date) String() string {
	if d.Year != nil {
		return fmt.Sprintf("%02d.%02d.%d", d.Day, d.Month, *d.Year)
	}
	return fmt.Sprintf("%02d.%02d", d.Day, d.Month)
}

// ParseDate parses user-entered birthday dates. Accepted forms, first
// match wins:
//
//	YYYY-MM-DD (strict ISO)
//	DD.MM, DD-MM, DD/MM
//	DD.MM.YYYY, DD-MM-YYYY, DD/MM/YYYY
//
// Whitespace around the input is ignored. The day/month pair must form
// a valid calendar date; anything else fails with a DateFormatError
// that unwraps to ErrInvalidDateFormat.
func ParseDate(text string) (Date, error) {
	s := strings.TrimSpace(text)

	if m := isoDatePattern.FindStringSubmatch(s); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		return newDate(day, month, &year, text)
	}

	for _, sep := range dateSeparators {
		parts := strings.Split(s, sep)
		switch len(parts) {
		case 2:
			day, errD := strconv.Atoi(parts[0])
			month, errM := strconv.Atoi(parts[1])
			if errD != nil || errM != nil {
				continue
			}
			return newDate(day, month, nil, text)
		case 3:
			day, errD := strconv.Atoi(parts[0])
			month, errM := strconv.Atoi(parts[1])
			year, errY := strconv.Atoi(parts[2])
			if errD != nil || errM != nil || errY != nil {
				continue
			}
			return newDate(day, month, &year, text)
		}
	}

	return Date{}, NewDateFormatError(text)
}

// newDate validates the day/month pair and builds the Date.
func newDate(day, month int, year *int, input string) (Date, error) {
	if !ValidDayMonth(day, month) {
		return Date{}, NewDateFormatError(input)
	}
	return Date{Day: day, Month: month, Year: year}, nil
}

// ValidDayMonth reports whether day/month name a real calendar date.
// The check round-trips through time.Date in the leap reference year:
// an invalid pair such as Feb 31 normalizes to a different day and is
// rejected, while Feb 29 survives.
func ValidDayMonth(day, month int) bool {
	check := time.Date(leapRefYear, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return check.Day() == day && check.Month() == time.Month(month)
}

// NextOccurrence returns the first occurrence of day/month on or after
// today, at midnight in today's location. A birthday falling on today
// resolves to today, not next year. Feb 29 in a non-leap candidate year
// normalizes to March 1 through time.Date, which keeps the function
// total for every stored record.
func NextOccurrence(day, month int, today time.Time) time.Time {
	loc := today.Location()
	todayStart := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, loc)

	candidate := time.Date(today.Year(), time.Month(month), day, 0, 0, 0, 0, loc)
	if candidate.Before(todayStart) {
		candidate = time.Date(today.Year()+1, time.Month(month), day, 0, 0, 0, 0, loc)
	}
	return candidate
}

// DaysUntil counts whole days from today to occurrence, comparing
// midnights. Rounding absorbs DST transitions that make a calendar day
// 23 or 25 hours long. Non-negative when occurrence came from
// NextOccurrence with the same today.
func DaysUntil(occurrence, today time.Time) int {
	a := time.Date(occurrence.Year(), occurrence.Month(), occurrence.Day(), 0, 0, 0, 0, occurrence.Location())
	b := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())
	return int(math.Round(a.Sub(b).Hours() / 24))
}
