// Package timestamp normalizes state timestamps to canonical UTC instants.
//
// Encoded timestamps are RFC 3339 strings in UTC. Decode also accepts the
// ISO-8601 variants other producers emit, including offset-naive values,
// which are interpreted as UTC.
package timestamp

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrMalformed is returned when a string is not a recognizable timestamp.
var ErrMalformed = errors.New("malformed timestamp")

// Layout is the canonical encoded form.
const Layout = time.RFC3339Nano

// Layouts carrying an explicit offset.
var awareLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999-0700",
	"2006-01-02T15:04:05.999999999-07",
}

// Layouts without an offset; parsed as UTC.
var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

// Encode renders t as an RFC 3339 UTC string with nanosecond precision.
// Instants whose UTC year falls outside 0000-9999 have no RFC 3339 form and
// fail with ErrMalformed.
func Encode(t time.Time) (string, error) {
	u := t.UTC()
	if y := u.Year(); y < 0 || y > 9999 {
		return "", fmt.Errorf("%w: year %d out of range", ErrMalformed, y)
	}
	return u.Format(Layout), nil
}

// Decode parses an ISO-8601 timestamp and returns it in UTC. A space may
// replace the date/time separator. Values without an offset are taken to be
// UTC already.
func Decode(s string) (time.Time, error) {
	value := strings.TrimSpace(s)
	if len(value) > 10 && value[10] == ' ' {
		value = value[:10] + "T" + value[11:]
	}

	for _, layout := range awareLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrMalformed, s)
}

// FromNaive treats the wall clock of t as UTC, discarding its location. It is
// the Go counterpart of an offset-naive datetime handed over by the engine.
func FromNaive(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}
