package prayer

import (
	"fmt"
	"slices"
	"time"
)

// Names of every time the schedule knows about.
const (
	Fajr       = "Fajr"
	Sunrise    = "Sunrise"
	Dhuhr      = "Dhuhr"
	Asr        = "Asr"
	Sunset     = "Sunset"
	Maghrib    = "Maghrib"
	Isha       = "Isha"
	Imsak      = "Imsak"
	Midnight   = "Midnight"
	Firstthird = "Firstthird"
	Lastthird  = "Lastthird"

	Ishraq   = "Ishraq"
	Chasht   = "Chasht"
	Zawal    = "Zawal"
	Awwabin  = "Awwabin"
	Tahajjud = "Tahajjud"
)

// Prayer represents a single prayer with its name and time.
type Prayer struct {
	Name string
	Time time.Time
}

// AllPrayerNames lists every name that can be selected for display: the
// provider's timings in chronological order, then the derived nafl windows.
var AllPrayerNames = []string{
	Fajr, Sunrise, Dhuhr, Asr, Sunset, Maghrib, Isha,
	Imsak, Midnight, Firstthird, Lastthird,
	Ishraq, Chasht, Zawal, Awwabin, Tahajjud,
}

// DefaultPrayerNames are the prayers tracked by default.
var DefaultPrayerNames = []string{
	Fajr, Sunrise, Dhuhr, Asr, Maghrib, Isha,
}

// NaflNames are the derived voluntary windows in display order.
var NaflNames = []string{Ishraq, Chasht, Zawal, Awwabin, Tahajjud}

// ShortNames maps full prayer names to short abbreviations.
var ShortNames = map[string]string{
	Fajr:       "F",
	Sunrise:    "S",
	Dhuhr:      "D",
	Asr:        "A",
	Sunset:     "St",
	Maghrib:    "M",
	Isha:       "I",
	Imsak:      "Im",
	Midnight:   "Mi",
	Firstthird: "F3",
	Lastthird:  "L3",
	Ishraq:     "Ish",
	Chasht:     "Ch",
	Zawal:      "Z",
	Awwabin:    "Aw",
	Tahajjud:   "T",
}

// Icons is the fixed name to icon table used by every presentation layer.
var Icons = map[string]string{
	Fajr:       "🌅",
	Sunrise:    "🌄",
	Dhuhr:      "☀️",
	Asr:        "🌤️",
	Sunset:     "🌆",
	Maghrib:    "🌇",
	Isha:       "🌙",
	Imsak:      "🌌",
	Midnight:   "🌃",
	Firstthird: "✨",
	Lastthird:  "⭐",
	Ishraq:     "🌅",
	Chasht:     "🌤️",
	Zawal:      "☀️",
	Awwabin:    "🌆",
	Tahajjud:   "⭐",
}

// Prayers anchors the selected names to date in loc. Optional timings the
// provider left out are skipped.
func (c CanonicalTimes) Prayers(date time.Time, loc *time.Location, selected []string) ([]Prayer, error) {
	prayers := make([]Prayer, 0, len(selected))
	for _, name := range selected {
		if !slices.Contains(AllPrayerNames, name) {
			return nil, fmt.Errorf("unknown prayer name: %s", name)
		}
		t, ok := c.Time(name)
		if !ok {
			continue
		}
		prayers = append(prayers, Prayer{Name: name, Time: t.On(date, loc)})
	}
	return prayers, nil
}

// NextPrayer finds the earliest prayer strictly after now.
// If all prayers for today have passed, it returns nil (caller should fetch tomorrow's Fajr).
func NextPrayer(prayers []Prayer, now time.Time) *Prayer {
	var next *Prayer
	for i := range prayers {
		if !prayers[i].Time.After(now) {
			continue
		}
		if next == nil || prayers[i].Time.Before(next.Time) {
			next = &prayers[i]
		}
	}
	return next
}

// TimeRemaining returns the duration until the given prayer time.
func TimeRemaining(prayer Prayer, now time.Time) time.Duration {
	return prayer.Time.Sub(now)
}

// FormatRemaining formats a duration as "Xh Ym" or "Ym" if less than an hour.
func FormatRemaining(d time.Duration) string {
	if d < 0 {
		return "0m"
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60

	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}
