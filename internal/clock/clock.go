// Package clock provides a minute-resolution time of day with 24-hour
// wraparound arithmetic.
//
// Prayer times arrive from the provider as bare "HH:MM" strings with no date
// attached, so all derived-window math happens on this type rather than on
// time.Time. Adding minutes past 23:59 rolls to 00:00 without carrying a day.
package clock

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MinutesPerDay is the size of the wraparound cycle.
const MinutesPerDay = 24 * 60

// ErrMalformed is returned (wrapped in a *ParseError) for strings that are not
// a valid HH:MM time of day.
var ErrMalformed = errors.New("malformed time of day")

// ParseError reports the raw value that failed to parse.
type ParseError struct {
	Value  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid time %q: %s", e.Value, e.Reason)
}

// Unwrap lets errors.Is match ErrMalformed.
func (e *ParseError) Unwrap() error {
	return ErrMalformed
}

// Time is a time of day in [00:00, 23:59]. The zero value is midnight.
type Time struct {
	m int // minutes since midnight, always in [0, MinutesPerDay)
}

// New returns the time hour:minute, rejecting values outside the clock face.
func New(hour, minute int) (Time, error) {
	if hour < 0 || hour > 23 {
		return Time{}, &ParseError{Value: fmt.Sprintf("%d:%d", hour, minute), Reason: "hour out of range"}
	}
	if minute < 0 || minute > 59 {
		return Time{}, &ParseError{Value: fmt.Sprintf("%d:%d", hour, minute), Reason: "minute out of range"}
	}
	return Time{m: hour*60 + minute}, nil
}

// FromMinutes maps any minute count onto the clock, wrapping in both directions.
func FromMinutes(minutes int) Time {
	m := minutes % MinutesPerDay
	if m < 0 {
		m += MinutesPerDay
	}
	return Time{m: m}
}

// FromTime drops everything but the wall-clock hour and minute of t.
func FromTime(t time.Time) Time {
	return Time{m: t.Hour()*60 + t.Minute()}
}

// Parse reads "HH:MM". A trailing timezone label such as " (BST)", which the
// Al Adhan API sometimes appends, is ignored. The hour may be one digit; the
// minute must be two.
func Parse(raw string) (Time, error) {
	s := strings.TrimSpace(raw)
	if idx := strings.Index(s, " "); idx != -1 {
		s = s[:idx]
	}

	hh, mm, ok := strings.Cut(s, ":")
	if !ok {
		return Time{}, &ParseError{Value: raw, Reason: "expected HH:MM"}
	}
	if len(hh) < 1 || len(hh) > 2 || len(mm) != 2 {
		return Time{}, &ParseError{Value: raw, Reason: "expected HH:MM"}
	}
	if !digits(hh) || !digits(mm) {
		return Time{}, &ParseError{Value: raw, Reason: "expected digits"}
	}

	hour, err := strconv.Atoi(hh)
	if err != nil || hour < 0 || hour > 23 {
		return Time{}, &ParseError{Value: raw, Reason: "hour must be 00-23"}
	}
	minute, err := strconv.Atoi(mm)
	if err != nil || minute < 0 || minute > 59 {
		return Time{}, &ParseError{Value: raw, Reason: "minute must be 00-59"}
	}

	return Time{m: hour*60 + minute}, nil
}

func digits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// MustParse is like Parse but panics on error. Intended for literals in tests
// and tables.
func MustParse(s string) Time {
	t, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return t
}

// Hour returns the hour in [0, 23].
func (t Time) Hour() int { return t.m / 60 }

// Minute returns the minute in [0, 59].
func (t Time) Minute() int { return t.m % 60 }

// Minutes returns minutes since midnight.
func (t Time) Minutes() int { return t.m }

// Add returns t shifted by delta minutes, wrapping modulo 24h.
func (t Time) Add(delta int) Time {
	return FromMinutes(t.m + delta)
}

// On anchors t to the calendar day of date in loc.
func (t Time) On(date time.Time, loc *time.Location) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, loc)
}

// String returns the canonical zero-padded "HH:MM" form.
func (t Time) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// MarshalText implements encoding.TextMarshaler.
func (t Time) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Time) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
