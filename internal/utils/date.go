package utils

import (
	"fmt"
	"time"

	"github.com/julianstephens/rindful/internal/constants"
)

// Calendar date helpers. Dates are YYYY-MM-DD strings in the owner's local
// calendar; arithmetic runs on UTC midnights so DST shifts never move a day.

// ParseDate parses a YYYY-MM-DD date as UTC midnight.
func ParseDate(date string) (time.Time, error) {
	t, err := time.Parse(constants.DateFormat, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", date)
	}
	return t, nil
}

// IsValidDate reports whether date is a real calendar date in YYYY-MM-DD form.
func IsValidDate(date string) bool {
	if len(date) != len(constants.DateFormat) {
		return false
	}
	_, err := ParseDate(date)
	return err == nil
}

// AddDays shifts date by n calendar days.
func AddDays(date string, n int) (string, error) {
	t, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 0, n).Format(constants.DateFormat), nil
}

// DaysBetween returns to - from in whole days.
func DaysBetween(from, to string) (int, error) {
	a, err := ParseDate(from)
	if err != nil {
		return 0, err
	}
	b, err := ParseDate(to)
	if err != nil {
		return 0, err
	}
	return int(b.Sub(a).Hours() / 24), nil
}

// Weekday returns 0 for Sunday through 6 for Saturday.
func Weekday(date string) (int, error) {
	t, err := ParseDate(date)
	if err != nil {
		return 0, err
	}
	return int(t.Weekday()), nil
}

// WeekStart returns the Sunday on or before date.
func WeekStart(date string) (string, error) {
	t, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 0, -int(t.Weekday())).Format(constants.DateFormat), nil
}

// DateRange lists every date from start to end inclusive, ascending.
func DateRange(start, end string) ([]string, error) {
	a, err := ParseDate(start)
	if err != nil {
		return nil, err
	}
	b, err := ParseDate(end)
	if err != nil {
		return nil, err
	}
	var dates []string
	for d := a; !d.After(b); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d.Format(constants.DateFormat))
	}
	return dates, nil
}

// LastNDays returns the n dates ending at today, oldest first.
func LastNDays(today string, n int) ([]string, error) {
	if n <= 0 {
		return nil, nil
	}
	start, err := AddDays(today, -(n - 1))
	if err != nil {
		return nil, err
	}
	return DateRange(start, today)
}
