package timeutil

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// All parsing of wire-format booking dates ("YYYY-MM-DD") and times of
// day ("HH:MM") goes through this package so the formats are enforced in
// exactly one place. Callers must propagate ErrMalformedTime, never
// coerce malformed input.

// ErrMalformedTime is returned for any date or time-of-day string that
// does not match the expected wire format.
var ErrMalformedTime = errors.New("malformed time")

const (
	// DateLayout is the wire format of a booking date.
	DateLayout = "2006-01-02"
)

var timeOfDayRe = regexp.MustCompile(`^([01][0-9]|2[0-3]):([0-5][0-9])$`)

// Clock abstracts the current time so expiry and transition logic can be
// tested against a fixed instant.
type Clock interface {
	Now() time.Time
}

// RealClock is the production Clock.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// ParseTimeOfDay parses a strict "HH:MM" string into minutes since
// midnight.
func ParseTimeOfDay(raw string) (int, error) {
	m := timeOfDayRe.FindStringSubmatch(raw)
	if m == nil {
		return 0, fmt.Errorf("%w: %q is not a valid HH:MM time", ErrMalformedTime, raw)
	}
	hours, _ := strconv.Atoi(m[1])
	minutes, _ := strconv.Atoi(m[2])
	return hours*60 + minutes, nil
}

// ParseDate parses a strict "YYYY-MM-DD" string as midnight in loc.
func ParseDate(raw string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, raw, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q is not a valid YYYY-MM-DD date", ErrMalformedTime, raw)
	}
	return t, nil
}

// Combine resolves a booking date and a time of day into a single
// comparable instant in loc.
func Combine(date, timeOfDay string, loc *time.Location) (time.Time, error) {
	day, err := ParseDate(date, loc)
	if err != nil {
		return time.Time{}, err
	}
	minutes, err := ParseTimeOfDay(timeOfDay)
	if err != nil {
		return time.Time{}, err
	}
	return day.Add(time.Duration(minutes) * time.Minute), nil
}

// Compare reports whether a is before (-1), equal to (0) or after (+1) b.
// Conflict and expiry comparisons go through here so the ordering
// semantics live next to the parsing they depend on.
func Compare(a, b time.Time) int {
	return a.Compare(b)
}
