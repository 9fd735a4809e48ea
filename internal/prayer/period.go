package prayer

import "github.com/smokyabdulrahman/islamic-hub/internal/clock"

// Period names which obligatory prayer's time is currently running.
type Period int

const (
	PeriodFajr Period = iota
	PeriodDhuhr
	PeriodAsr
	PeriodMaghrib
	PeriodIsha
)

// String returns the prayer name for the period.
func (p Period) String() string {
	switch p {
	case PeriodFajr:
		return Fajr
	case PeriodDhuhr:
		return Dhuhr
	case PeriodAsr:
		return Asr
	case PeriodMaghrib:
		return Maghrib
	case PeriodIsha:
		return Isha
	default:
		return "Unknown"
	}
}

// Boundaries are the five start times that split the day into periods.
type Boundaries struct {
	Fajr    clock.Time
	Dhuhr   clock.Time
	Asr     clock.Time
	Maghrib clock.Time
	Isha    clock.Time
}

// Resolve returns the period containing now. Each prayer owns
// [its start, next prayer's start). Isha owns both [Isha, 24:00) and
// [00:00, Fajr), so the five periods cover the whole day with no gap.
func Resolve(b Boundaries, now clock.Time) Period {
	order := [...]struct {
		period Period
		start  clock.Time
	}{
		{PeriodFajr, b.Fajr},
		{PeriodDhuhr, b.Dhuhr},
		{PeriodAsr, b.Asr},
		{PeriodMaghrib, b.Maghrib},
		{PeriodIsha, b.Isha},
	}

	n := now.Minutes()
	for i := 0; i < len(order)-1; i++ {
		if n >= order[i].start.Minutes() && n < order[i+1].start.Minutes() {
			return order[i].period
		}
	}
	return PeriodIsha
}
