package prayer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/smokyabdulrahman/islamic-hub/internal/api"
	"github.com/smokyabdulrahman/islamic-hub/internal/clock"
)

// ErrNoSchedule means the provider did not supply a complete set of canonical
// times. No windows or active period are derived from partial data.
var ErrNoSchedule = errors.New("no schedule available")

// TimeError ties a malformed provider value to the prayer it belongs to.
type TimeError struct {
	Name string
	Err  error
}

func (e *TimeError) Error() string {
	return fmt.Sprintf("failed to parse time for %s: %v", e.Name, e.Err)
}

func (e *TimeError) Unwrap() error { return e.Err }

// CanonicalTimes is one day's provider timings for one location. Sunset is
// optional because some calculation conventions report it separately from
// Maghrib and some responses omit it.
type CanonicalTimes struct {
	Fajr    clock.Time
	Sunrise clock.Time
	Dhuhr   clock.Time
	Asr     clock.Time
	Maghrib clock.Time
	Isha    clock.Time

	Sunset    clock.Time
	HasSunset bool

	// Imsak, Midnight, Firstthird and Lastthird when the provider sent them.
	extras map[string]clock.Time
}

// NewCanonicalTimes validates and converts a provider response. A blank
// required field yields ErrNoSchedule; an unparseable one yields a *TimeError
// wrapping clock.ErrMalformed.
func NewCanonicalTimes(t api.Timings) (CanonicalTimes, error) {
	var c CanonicalTimes

	required := []struct {
		name string
		raw  string
		dst  *clock.Time
	}{
		{Fajr, t.Fajr, &c.Fajr},
		{Sunrise, t.Sunrise, &c.Sunrise},
		{Dhuhr, t.Dhuhr, &c.Dhuhr},
		{Asr, t.Asr, &c.Asr},
		{Maghrib, t.Maghrib, &c.Maghrib},
		{Isha, t.Isha, &c.Isha},
	}
	for _, r := range required {
		if strings.TrimSpace(r.raw) == "" {
			return CanonicalTimes{}, fmt.Errorf("%w: %s missing from provider response", ErrNoSchedule, r.name)
		}
		v, err := clock.Parse(r.raw)
		if err != nil {
			return CanonicalTimes{}, &TimeError{Name: r.name, Err: err}
		}
		*r.dst = v
	}

	if strings.TrimSpace(t.Sunset) != "" {
		v, err := clock.Parse(t.Sunset)
		if err != nil {
			return CanonicalTimes{}, &TimeError{Name: Sunset, Err: err}
		}
		c.Sunset, c.HasSunset = v, true
	}

	optional := []struct {
		name string
		raw  string
	}{
		{Imsak, t.Imsak},
		{Midnight, t.Midnight},
		{Firstthird, t.Firstthird},
		{Lastthird, t.Lastthird},
	}
	for _, o := range optional {
		if strings.TrimSpace(o.raw) == "" {
			continue
		}
		v, err := clock.Parse(o.raw)
		if err != nil {
			return CanonicalTimes{}, &TimeError{Name: o.name, Err: err}
		}
		if c.extras == nil {
			c.extras = make(map[string]clock.Time, len(optional))
		}
		c.extras[o.name] = v
	}

	return c, nil
}

// SunsetReference is the instant the sunset forbidden window hangs off:
// Sunset when supplied, otherwise Maghrib.
func (c CanonicalTimes) SunsetReference() clock.Time {
	if c.HasSunset {
		return c.Sunset
	}
	return c.Maghrib
}

// Boundaries returns the five period boundaries used by Resolve.
func (c CanonicalTimes) Boundaries() Boundaries {
	return Boundaries{
		Fajr:    c.Fajr,
		Dhuhr:   c.Dhuhr,
		Asr:     c.Asr,
		Maghrib: c.Maghrib,
		Isha:    c.Isha,
	}
}

// Time looks up any selectable name: provider timings first, then the
// representative instant of a derived nafl window.
func (c CanonicalTimes) Time(name string) (clock.Time, bool) {
	switch name {
	case Fajr:
		return c.Fajr, true
	case Sunrise:
		return c.Sunrise, true
	case Dhuhr:
		return c.Dhuhr, true
	case Asr:
		return c.Asr, true
	case Maghrib:
		return c.Maghrib, true
	case Isha:
		return c.Isha, true
	case Sunset:
		return c.Sunset, c.HasSunset
	case Ishraq:
		return IshraqWindow(c.Sunrise, c.Dhuhr).Time, true
	case Chasht:
		return ChashtWindow(c.Sunrise, c.Dhuhr).Time, true
	case Zawal:
		return ZawalWindow(c.Dhuhr).Time, true
	case Awwabin:
		return AwwabinWindow(c.Maghrib, c.Isha).Time, true
	case Tahajjud:
		return TahajjudStart(c.Isha, c.Fajr), true
	}
	t, ok := c.extras[name]
	return t, ok
}
