package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/smokyabdulrahman/islamic-hub/internal/prayer"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var parts []string
	if m.loaded {
		parts = append(parts, m.viewHeader(), m.viewSchedule())
	} else if m.err == nil {
		parts = append(parts, titleStyle.Render("Loading prayer times..."))
	} else {
		parts = append(parts, titleStyle.Render("Prayer Times"))
	}

	if status := m.viewStatus(); status != "" {
		parts = append(parts, status)
	}
	parts = append(parts, helpStyle.Render(m.help.View(m.keys)))

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) viewHeader() string {
	s := m.schedule
	lines := []string{titleStyle.Render("Prayer Times")}
	for _, l := range []string{s.Location, s.Gregorian, s.Hijri} {
		if l != "" {
			lines = append(lines, subtitleStyle.Render(l))
		}
	}
	snap := s.Snapshot
	now := prayer.FormatClock(snap.Now, snap.Settings.TimeFormat)
	lines = append(lines, subtitleStyle.Render(fmt.Sprintf("%s  ·  now in %s", now, snap.Active)))
	if name, wait, ok := nextDaily(snap); ok {
		lines = append(lines, subtitleStyle.Render(fmt.Sprintf("next: %s in %s", name, prayer.FormatRemaining(wait))))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) viewSchedule() string {
	snap := m.schedule.Snapshot
	sections := []struct {
		title   string
		windows []prayer.Window
	}{
		{"Daily", snap.Daily},
		{"Nafl", snap.Nafl},
		{"Forbidden", snap.Forbidden},
	}

	var out []string
	for _, sec := range sections {
		out = append(out, sectionStyle.Render(sec.title))
		out = append(out, renderEntries(snap.Entries(sec.windows))...)
	}
	return lipgloss.JoinVertical(lipgloss.Left, out...)
}

func renderEntries(entries []prayer.Entry) []string {
	labelW, timeW := 0, 0
	for _, e := range entries {
		labelW = max(labelW, lipgloss.Width(e.Label))
		timeW = max(timeW, lipgloss.Width(e.Time))
	}

	rows := make([]string, 0, len(entries))
	for _, e := range entries {
		line := fmt.Sprintf("%s %-*s  %*s", e.Icon, labelW, e.Label, timeW, e.Time)
		if e.Range != "" {
			line += "  " + rangeStyle.Render(e.Range)
		}
		if e.Active {
			rows = append(rows, activeRowStyle.Render(line))
		} else {
			rows = append(rows, rowStyle.Render(line))
		}
	}
	return rows
}

func (m Model) viewStatus() string {
	switch {
	case m.err != nil:
		return errorStyle.Render("refresh failed: " + m.err.Error())
	case m.refreshing && m.loaded:
		return statusStyle.Render("refreshing...")
	default:
		return ""
	}
}

// nextDaily returns the first daily window after the snapshot's clock,
// wrapping to tomorrow's Fajr once Isha has started.
func nextDaily(snap prayer.Snapshot) (string, time.Duration, bool) {
	if len(snap.Daily) == 0 {
		return "", 0, false
	}
	now := snap.Now.Minutes()
	best, bestWait := "", -1
	for _, w := range snap.Daily {
		wait := w.Time.Minutes() - now
		if wait <= 0 {
			wait += 24 * 60
		}
		if bestWait < 0 || wait < bestWait {
			best, bestWait = w.Name, wait
		}
	}
	return best, time.Duration(bestWait) * time.Minute, true
}

