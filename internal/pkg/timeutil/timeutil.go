// Package timeutil provides the clock-face arithmetic used by the booking
// engine. All times are venue-local "HH:MM" strings or minute-of-day
// offsets; no timezone conversion happens anywhere in this package.
package timeutil

import (
	"errors"
	"fmt"
	"time"
)

// ErrFormat is returned for malformed time or date strings.
var ErrFormat = errors.New("invalid time format")

// ToMinutes converts "HH:MM" to a minute-of-day offset.
func ToMinutes(hhmm string) (int, error) {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrFormat, hhmm)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// FromMinutes converts a minute-of-day offset back to "HH:MM", zero-padded.
// Values outside [0, 1440) are a caller bug; no modulo wrapping is applied.
func FromMinutes(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// AddMinutes shifts an "HH:MM" time by delta minutes.
func AddMinutes(hhmm string, delta int) (string, error) {
	m, err := ToMinutes(hhmm)
	if err != nil {
		return "", err
	}
	return FromMinutes(m + delta), nil
}

// DurationLabel renders the span between two minute offsets as "2h 30m",
// "2h" or "45m". Zero or negative spans are the caller's bug to prevent.
func DurationLabel(startMinutes, endMinutes int) string {
	total := endMinutes - startMinutes
	h := total / 60
	m := total % 60
	switch {
	case h > 0 && m > 0:
		return fmt.Sprintf("%dh %dm", h, m)
	case h > 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dm", m)
	}
}

// ParseDate parses a "YYYY-MM-DD" date.
func ParseDate(date string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrFormat, date)
	}
	return t, nil
}

// IsWeekend reports whether a date falls on Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// DaysUntil returns the number of whole days from now until the given
// date, rounding partial days up. Past dates yield negative values.
func DaysUntil(date time.Time, now time.Time) int {
	diff := date.Sub(now)
	days := int(diff.Hours() / 24)
	if diff > 0 && diff%(24*time.Hour) != 0 {
		days++
	}
	return days
}
