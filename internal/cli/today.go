package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/islamic-hub/internal/clock"
	"github.com/smokyabdulrahman/islamic-hub/internal/display"
	"github.com/smokyabdulrahman/islamic-hub/internal/prayer"
)

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func runToday(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}

	day, err := s.loadDay(commandContext(cmd), nowFunc())
	if err != nil {
		return err
	}

	selected, err := selectedPrayers(s.cfg.PrayerNames())
	if err != nil {
		return err
	}
	daily := dailyWindows(day.Snapshot, selected)

	prayers, err := day.Snapshot.Canonical.Prayers(day.Now, day.Zone, windowNames(daily))
	if err != nil {
		return err
	}
	next := prayer.NextPrayer(prayers, day.Now)

	out := cmd.OutOrStdout()
	if FlagJSON {
		return printTodayJSON(out, s, day, daily, next)
	}

	printTodayRich(out, day, daily, next)
	return nil
}

// dailyWindows resolves the selected names, skipping the nafl windows that
// get their own section.
func dailyWindows(snap prayer.Snapshot, selected []string) []prayer.Window {
	byName := make(map[string]prayer.Window, len(snap.Daily))
	for _, w := range snap.Daily {
		byName[w.Name] = w
	}

	var out []prayer.Window
	for _, name := range selected {
		if isNafl(name) {
			continue
		}
		if w, ok := byName[name]; ok {
			out = append(out, w)
			continue
		}
		t, ok := snap.Canonical.Time(name)
		if !ok {
			// Sunset and the reference times are optional in responses.
			continue
		}
		out = append(out, prayer.Window{Name: name, Time: t})
	}
	return out
}

func isNafl(name string) bool {
	for _, n := range prayer.NaflNames {
		if n == name {
			return true
		}
	}
	return false
}

func windowNames(ws []prayer.Window) []string {
	names := make([]string, len(ws))
	for i, w := range ws {
		names[i] = w.Name
	}
	return names
}

// printTodayRich renders the colored terminal output for today's schedule.
func printTodayRich(w io.Writer, day *daySchedule, daily []prayer.Window, next *prayer.Prayer) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s\n", display.Bold("Prayer Times"))
	fmt.Fprintln(w)

	fmt.Fprintf(w, "  %s\n", day.Label)
	fmt.Fprintf(w, "  %s\n", day.Zone.String())
	fmt.Fprintf(w, "  %s\n", formatGregorianDate(day.Now, day.Result))
	if hijri := day.Result.DateInfo.Hijri.Format(); hijri != "" {
		fmt.Fprintf(w, "  %s\n", hijri)
	}

	snap := day.Snapshot
	sections := []struct {
		title   string
		color   func(string) string
		entries []prayer.Entry
	}{
		{"Daily", display.Green, snap.Entries(daily)},
		{"Nafl", display.Yellow, snap.Entries(snap.Nafl)},
		{"Forbidden", display.Red, snap.Entries(snap.Forbidden)},
	}

	var nextSuffix string
	if next != nil {
		nextSuffix = "  <- next in " + prayer.FormatRemaining(prayer.TimeRemaining(*next, day.Now))
	}

	for _, sec := range sections {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "  %s\n", sec.color(sec.title))
		printEntries(w, sec.entries, func(e prayer.Entry) string {
			if sec.title == "Daily" && next != nil && e.Label == next.Name {
				return nextSuffix
			}
			return ""
		})
	}
	fmt.Fprintln(w)
}

func printEntries(w io.Writer, entries []prayer.Entry, suffix func(prayer.Entry) string) {
	labelW, timeW := 0, 0
	for _, e := range entries {
		labelW = max(labelW, display.Width(e.Label))
		timeW = max(timeW, display.Width(e.Time))
	}

	for _, e := range entries {
		line := fmt.Sprintf("%s %s  %s", e.Icon, padRight(e.Label, labelW), padLeft(e.Time, timeW))
		if e.Range != "" {
			line += "  " + display.Gray(e.Range)
		}

		extra := suffix(e)
		switch {
		case e.Active:
			fmt.Fprintf(w, "  %s%s\n", display.Accent(line), display.Accent(extra))
		case extra != "":
			fmt.Fprintf(w, "  %s%s\n", line, display.Cyan(extra))
		default:
			fmt.Fprintf(w, "  %s\n", line)
		}
	}
}

// formatGregorianDate returns a formatted Gregorian date string.
// Prefers API data; falls back to formatting `now`.
func formatGregorianDate(now time.Time, result *fetchResult) string {
	if s := result.DateInfo.Gregorian.Format(); s != "" {
		return s
	}
	return now.Format("Monday, 2 January 2006")
}

// padRight pads a string to the given display width with spaces.
func padRight(s string, width int) string {
	if n := display.Width(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

func padLeft(s string, width int) string {
	if n := display.Width(s); n < width {
		return strings.Repeat(" ", width-n) + s
	}
	return s
}

// todayJSON is the JSON output structure for the root command.
type todayJSON struct {
	Location  todayJSONLocation `json:"location"`
	Date      todayJSONDate     `json:"date"`
	Timings   map[string]string `json:"timings"`
	Nafl      []windowJSON      `json:"nafl"`
	Forbidden []windowJSON      `json:"forbidden"`
	Current   string            `json:"current"`
	Next      *todayJSONNext    `json:"next"`
}

type todayJSONLocation struct {
	Label     string  `json:"label"`
	City      string  `json:"city,omitempty"`
	Country   string  `json:"country,omitempty"`
	Timezone  string  `json:"timezone"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type todayJSONDate struct {
	Gregorian string `json:"gregorian"`
	Hijri     string `json:"hijri"`
}

type windowJSON struct {
	Name  string `json:"name"`
	Time  string `json:"time"`
	Range string `json:"range,omitempty"`
}

type todayJSONNext struct {
	Prayer    string `json:"prayer"`
	Time      string `json:"time"`
	Remaining string `json:"remaining"`
}

func jsonLocation(s *session, label string, tz *time.Location, lat, lon float64) todayJSONLocation {
	return todayJSONLocation{
		Label:     label,
		City:      s.loc.City,
		Country:   s.loc.Country,
		Timezone:  tz.String(),
		Latitude:  lat,
		Longitude: lon,
	}
}

func windowsJSON(entries []prayer.Entry) []windowJSON {
	out := make([]windowJSON, len(entries))
	for i, e := range entries {
		out[i] = windowJSON{Name: strings.ToLower(e.Label), Time: e.Time, Range: e.Range}
	}
	return out
}

// printTodayJSON renders structured JSON output.
func printTodayJSON(w io.Writer, s *session, day *daySchedule, daily []prayer.Window, next *prayer.Prayer) error {
	snap := day.Snapshot
	timings := make(map[string]string, len(daily))
	for _, e := range snap.Entries(daily) {
		timings[strings.ToLower(e.Label)] = e.Time
	}

	out := todayJSON{
		Location: jsonLocation(s, day.Label, day.Zone, day.Result.Meta.Latitude, day.Result.Meta.Longitude),
		Date: todayJSONDate{
			Gregorian: formatGregorianDate(day.Now, day.Result),
			Hijri:     day.Result.DateInfo.Hijri.Format(),
		},
		Timings:   timings,
		Nafl:      windowsJSON(snap.Entries(snap.Nafl)),
		Forbidden: windowsJSON(snap.Entries(snap.Forbidden)),
		Current:   strings.ToLower(snap.Active.String()),
	}

	if next != nil {
		out.Next = &todayJSONNext{
			Prayer:    strings.ToLower(next.Name),
			Time:      prayer.FormatClock(clock.FromTime(next.Time), snap.Settings.TimeFormat),
			Remaining: prayer.FormatRemaining(prayer.TimeRemaining(*next, day.Now)),
		}
	}

	return writeJSON(w, out)
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
