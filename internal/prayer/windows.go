package prayer

import "github.com/smokyabdulrahman/islamic-hub/internal/clock"

// Fixed minute offsets for the derived windows. These are customary
// approximations, not astronomical values, and must stay literal.
const (
	ishraqAfterSunrise   = 15
	ishraqBeforeDhuhr    = 10
	chashtAfterSunrise   = 45
	chashtBeforeDhuhr    = 15
	zawalMargin          = 10
	awwabinAfterMaghrib  = 5
	sunriseForbiddenSpan = 20
	sunsetForbiddenLead  = 10
	sunsetForbiddenTrail = 20
)

// Range is a start-end pair on the clock face. End may be numerically
// earlier than Start when the range crosses midnight.
type Range struct {
	Start clock.Time
	End   clock.Time
}

// Window is a named period with a representative instant and an optional
// display range. Canonical prayers have no range.
type Window struct {
	Name  string
	Time  clock.Time
	Range *Range
	// Icon overrides Icons[Name] when set.
	Icon string
}

func rangeOf(start, end clock.Time) *Range {
	return &Range{Start: start, End: end}
}

// IshraqWindow starts 15 minutes after sunrise and lasts until 10 minutes before Dhuhr.
func IshraqWindow(sunrise, dhuhr clock.Time) Window {
	start := sunrise.Add(ishraqAfterSunrise)
	return Window{Name: Ishraq, Time: start, Range: rangeOf(start, dhuhr.Add(-ishraqBeforeDhuhr))}
}

// ChashtWindow starts 45 minutes after sunrise and lasts until 15 minutes before Dhuhr.
func ChashtWindow(sunrise, dhuhr clock.Time) Window {
	start := sunrise.Add(chashtAfterSunrise)
	return Window{Name: Chasht, Time: start, Range: rangeOf(start, dhuhr.Add(-chashtBeforeDhuhr))}
}

// ZawalWindow spans ten minutes either side of Dhuhr.
func ZawalWindow(dhuhr clock.Time) Window {
	start := dhuhr.Add(-zawalMargin)
	return Window{Name: Zawal, Time: start, Range: rangeOf(start, dhuhr.Add(zawalMargin))}
}

// AwwabinWindow runs from five minutes after Maghrib until Isha.
func AwwabinWindow(maghrib, isha clock.Time) Window {
	start := maghrib.Add(awwabinAfterMaghrib)
	return Window{Name: Awwabin, Time: start, Range: rangeOf(start, isha)}
}

// TahajjudStart is Isha plus two thirds of the night, where the night runs
// from Isha to the following Fajr. A zero or negative night clamps to Isha.
func TahajjudStart(isha, fajr clock.Time) clock.Time {
	ishaMin := isha.Minutes()
	fajrMin := fajr.Minutes()
	if fajrMin < ishaMin {
		fajrMin += clock.MinutesPerDay
	}

	night := fajrMin - ishaMin
	if night < 0 {
		night = 0
	}
	return isha.Add(night * 2 / 3)
}

// TahajjudWindow runs from TahajjudStart until Fajr.
func TahajjudWindow(isha, fajr clock.Time) Window {
	start := TahajjudStart(isha, fajr)
	return Window{Name: Tahajjud, Time: start, Range: rangeOf(start, fajr)}
}

// SunriseForbiddenWindow covers the twenty minutes from sunrise.
func SunriseForbiddenWindow(sunrise clock.Time) Window {
	return Window{Name: Sunrise, Time: sunrise, Range: rangeOf(sunrise, sunrise.Add(sunriseForbiddenSpan))}
}

// SunsetForbiddenWindow covers ten minutes before sunset to twenty after.
func SunsetForbiddenWindow(sunset clock.Time) Window {
	start := sunset.Add(-sunsetForbiddenLead)
	return Window{Name: Sunset, Time: start, Range: rangeOf(start, sunset.Add(sunsetForbiddenTrail)), Icon: "🌇"}
}

// NaflWindows returns the five derived windows in display order.
func NaflWindows(c CanonicalTimes) []Window {
	return []Window{
		IshraqWindow(c.Sunrise, c.Dhuhr),
		ChashtWindow(c.Sunrise, c.Dhuhr),
		ZawalWindow(c.Dhuhr),
		AwwabinWindow(c.Maghrib, c.Isha),
		TahajjudWindow(c.Isha, c.Fajr),
	}
}

// ForbiddenWindows returns the sunrise, zenith and sunset windows.
func ForbiddenWindows(c CanonicalTimes) []Window {
	return []Window{
		SunriseForbiddenWindow(c.Sunrise),
		ZawalWindow(c.Dhuhr),
		SunsetForbiddenWindow(c.SunsetReference()),
	}
}
