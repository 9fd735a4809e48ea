package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/smokyabdulrahman/islamic-hub/internal/logger"
	"github.com/smokyabdulrahman/islamic-hub/internal/prayer"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Refresh):
			m.gen++
			m.refreshing = true
			return m, m.fetch(m.gen)
		case key.Matches(msg, m.keys.Clock):
			if m.loaded {
				next := prayer.Format24Hour
				if m.schedule.Snapshot.Settings.TimeFormat == prayer.Format24Hour {
					next = prayer.Format12Hour
				}
				m.schedule.Snapshot = m.schedule.Snapshot.WithTimeFormat(next)
			}
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}

	case tickMsg:
		if !m.loaded {
			return m, m.tick()
		}
		now := m.now()
		m.schedule.Snapshot = m.schedule.Snapshot.At(m.clockAt(now))
		if !m.refreshing && !m.localDate(now).Equal(m.day) {
			logger.Info("date changed, refetching schedule", "day", m.localDate(now).Format("2006-01-02"))
			m.gen++
			m.refreshing = true
			return m, tea.Batch(m.fetch(m.gen), m.tick())
		}
		return m, m.tick()

	case loadedMsg:
		if msg.gen != m.gen {
			logger.Debug("dropping stale schedule", "gen", msg.gen, "current", m.gen)
			return m, nil
		}
		m.refreshing = false
		if msg.err != nil {
			logger.Warn("schedule refresh failed", "err", msg.err)
			m.err = msg.err
			return m, nil
		}
		tf := msg.schedule.Snapshot.Settings.TimeFormat
		if m.loaded {
			// keep a format the user toggled locally
			tf = m.schedule.Snapshot.Settings.TimeFormat
		}
		m.schedule = msg.schedule
		now := m.now()
		m.schedule.Snapshot = m.schedule.Snapshot.WithTimeFormat(tf).At(m.clockAt(now))
		m.day = m.localDate(now)
		m.loaded = true
		m.err = nil
	}

	return m, nil
}
