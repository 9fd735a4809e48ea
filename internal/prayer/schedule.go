package prayer

import "github.com/smokyabdulrahman/islamic-hub/internal/clock"

// Settings are the user preferences that shape a schedule. Method and School
// are passed through to the provider; only TimeFormat affects local output.
type Settings struct {
	Method     int
	School     int
	TimeFormat TimeFormat
}

// Snapshot is one immutable view of a day's schedule. Callers replace their
// snapshot wholesale; the slices are never modified after Rebuild returns.
type Snapshot struct {
	Canonical CanonicalTimes
	Settings  Settings
	Now       clock.Time

	Daily     []Window // Fajr, Sunrise, Dhuhr, Asr, Maghrib, Isha
	Nafl      []Window // Ishraq, Chasht, Zawal, Awwabin, Tahajjud
	Forbidden []Window // Sunrise, Zawal, Sunset
	Active    Period
}

// Entry is one presentation row.
type Entry struct {
	Label  string
	Icon   string
	Time   string
	Range  string // empty when the window has no range
	Active bool
}

// Rebuild derives every window and the active period from c.
func Rebuild(c CanonicalTimes, s Settings, now clock.Time) Snapshot {
	return Snapshot{
		Canonical: c,
		Settings:  s,
		Now:       now,
		Daily: []Window{
			{Name: Fajr, Time: c.Fajr},
			{Name: Sunrise, Time: c.Sunrise},
			{Name: Dhuhr, Time: c.Dhuhr},
			{Name: Asr, Time: c.Asr},
			{Name: Maghrib, Time: c.Maghrib},
			{Name: Isha, Time: c.Isha},
		},
		Nafl:      NaflWindows(c),
		Forbidden: ForbiddenWindows(c),
		Active:    Resolve(c.Boundaries(), now),
	}
}

// At re-resolves the active period for a new instant without recomputing
// the windows.
func (s Snapshot) At(now clock.Time) Snapshot {
	s.Now = now
	s.Active = Resolve(s.Canonical.Boundaries(), now)
	return s
}

// WithTimeFormat returns a copy rendered with a different time format.
func (s Snapshot) WithTimeFormat(f TimeFormat) Snapshot {
	s.Settings.TimeFormat = f
	return s
}

// Entries formats windows for display using the snapshot's settings.
func (s Snapshot) Entries(windows []Window) []Entry {
	active := s.Active.String()
	entries := make([]Entry, 0, len(windows))
	for _, w := range windows {
		icon := w.Icon
		if icon == "" {
			icon = Icons[w.Name]
		}
		e := Entry{
			Label:  w.Name,
			Icon:   icon,
			Time:   FormatClock(w.Time, s.Settings.TimeFormat),
			Active: w.Name == active,
		}
		if w.Range != nil {
			e.Range = FormatRange(*w.Range, s.Settings.TimeFormat)
		}
		entries = append(entries, e)
	}
	return entries
}
