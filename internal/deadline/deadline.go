// Package deadline turns user input into an absolute countdown deadline.
package deadline

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrUnrecognized is returned when input matches none of the accepted forms.
var ErrUnrecognized = errors.New("unrecognized deadline")

// Absolute layouts tried in order. Layouts without a zone are read as local time.
//
//nolint:gochecknoglobals // immutable lookup table.
var layouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// minEpochMillisDigits separates epoch milliseconds from small integers that
// are more likely a typo than a date in 1970.
const minEpochMillisDigits = 10

// Parse resolves s relative to now. Accepted forms:
//
//	2026-12-31T23:59:59Z   RFC 3339 (also without zone, or with a space)
//	2026-12-31             midnight, local time
//	90m, +1h30m, 72h       offset from now
//	1798761599000          epoch milliseconds
func Parse(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty input", ErrUnrecognized)
	}

	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, s, now.Location()); err == nil {
			return t, nil
		}
	}

	if d, err := time.ParseDuration(strings.TrimPrefix(s, "+")); err == nil {
		if d < 0 {
			return time.Time{}, fmt.Errorf("%w: negative offset %q", ErrUnrecognized, s)
		}
		return now.Add(d), nil
	}

	if len(s) >= minEpochMillisDigits {
		if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
			return time.UnixMilli(ms).In(now.Location()), nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrUnrecognized, s)
}
