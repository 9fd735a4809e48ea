// Package tui implements the live prayer schedule view behind `islamic-hub watch`.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/smokyabdulrahman/islamic-hub/internal/clock"
	"github.com/smokyabdulrahman/islamic-hub/internal/prayer"
)

// fetchTimeout bounds a single Loader call.
const fetchTimeout = 30 * time.Second

// Schedule is what a Loader produces: one day's snapshot plus the header
// lines shown above it.
type Schedule struct {
	Snapshot  prayer.Snapshot
	Location  string
	Gregorian string
	Hijri     string
	// TZ is the provider's zone; the clock is read in it on every tick.
	TZ *time.Location
}

// Loader fetches and rebuilds the schedule. It is called once at start and
// again on every refresh.
type Loader func(ctx context.Context) (Schedule, error)

type tickMsg time.Time

type loadedMsg struct {
	gen      int
	schedule Schedule
	err      error
}

type Model struct {
	load Loader
	now  func() time.Time
	keys KeyMap
	help help.Model

	schedule Schedule
	loaded   bool
	// day is the date, in the schedule's zone, the schedule was loaded for.
	day time.Time

	// gen numbers each fetch; only the newest one may replace the schedule.
	gen        int
	refreshing bool
	err        error

	quitting bool
	width    int
}

// NewModel returns a model that has not loaded anything yet. now may be nil,
// in which case time.Now is used.
func NewModel(load Loader, now func() time.Time) Model {
	if now == nil {
		now = time.Now
	}
	return Model{
		load:       load,
		now:        now,
		keys:       DefaultKeyMap(),
		help:       help.New(),
		gen:        1,
		refreshing: true,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.fetch(m.gen), m.tick())
}

// tick fires on the next wall-clock minute boundary.
func (m Model) tick() tea.Cmd {
	return tea.Tick(untilNextMinute(m.now()), func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func untilNextMinute(now time.Time) time.Duration {
	return now.Truncate(time.Minute).Add(time.Minute).Sub(now)
}

func (m Model) fetch(gen int) tea.Cmd {
	load := m.load
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		s, err := load(ctx)
		return loadedMsg{gen: gen, schedule: s, err: err}
	}
}

func (m Model) localDate(t time.Time) time.Time {
	if m.schedule.TZ != nil {
		t = t.In(m.schedule.TZ)
	}
	y, mo, d := t.Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, t.Location())
}

// clockAt converts t into the schedule's zone at minute resolution.
func (m Model) clockAt(t time.Time) clock.Time {
	if m.schedule.TZ != nil {
		t = t.In(m.schedule.TZ)
	}
	return clock.FromTime(t)
}

// Schedule returns the schedule currently on screen.
func (m Model) Schedule() Schedule { return m.schedule }

// Err returns the most recent refresh error, if the last fetch failed.
func (m Model) Err() error { return m.err }
