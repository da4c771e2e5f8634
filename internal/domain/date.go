// Package domain defines the core entities, repository ports and calendar
// conventions shared by every adapter.
package domain

import (
	"errors"
	"time"
)

// ErrInvalidDate indicates input that cannot be parsed into a calendar date.
var ErrInvalidDate = errors.New("invalid date format")

const dayFormat = "2006-01-02"

// NormalizeDay truncates t to the start of its UTC calendar day. The same
// normalization is applied when goals are written and when they are queried,
// so stored and queried days compare exactly.
func NormalizeDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDay parses an ISO-8601 date string ("2006-01-02", or a full RFC 3339
// timestamp which is truncated to its day) and normalizes it. Anything else
// fails with ErrInvalidDate.
func ParseDay(s string) (time.Time, error) {
	if t, err := time.Parse(dayFormat, s); err == nil {
		return NormalizeDay(t), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return NormalizeDay(t), nil
	}
	return time.Time{}, ErrInvalidDate
}

// FormatDay renders a normalized day as its ISO-8601 date string.
func FormatDay(t time.Time) string {
	return t.UTC().Format(dayFormat)
}
