package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/islamic-hub/internal/clock"
	"github.com/smokyabdulrahman/islamic-hub/internal/display"
	"github.com/smokyabdulrahman/islamic-hub/internal/prayer"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [days]",
		Short: "Show prayer times for multiple days",
		Long:  "Display a grid of prayer times for N days (default: 7).\nColumns follow the configured prayers and may include derived windows such as Ishraq or Tahajjud.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, args, 7)
		},
	}
}

func newWeekCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "week",
		Short: "Show prayer times for the next 7 days",
		Long:  "Alias for 'list 7'.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, nil, 7)
		},
	}
}

func newMonthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "month",
		Short: "Show prayer times for the next 30 days",
		Long:  "Alias for 'list 30'.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, nil, 30)
		},
	}
}

// scheduledDay is one calendar day rebuilt into a snapshot.
type scheduledDay struct {
	Date     time.Time
	Snapshot prayer.Snapshot
	Hijri    string
}

// runList is the handler for list, week and month.
func runList(cmd *cobra.Command, args []string, defaultDays int) error {
	days := defaultDays
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			return fmt.Errorf("invalid number of days: %q (must be a positive integer)", args[0])
		}
		days = n
	}

	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	selected, err := selectedPrayers(s.cfg.PrayerNames())
	if err != nil {
		return err
	}

	sched, zone, label, err := s.loadDays(cmd, days)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if FlagJSON {
		return printListJSON(out, s, sched, selected, label, zone)
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "  %s\n", display.Boldf("Prayer Times - %d Days", days))
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  %s\n", label)
	fmt.Fprintln(out)

	headers := append([]string{"Date"}, selected...)
	tbl := display.NewTable(headers)
	today := nowFunc().In(zone).Format("2006-01-02")
	for i, d := range sched {
		row := []string{d.Date.Format("Mon 02 Jan")}
		for _, name := range selected {
			row = append(row, timeOf(d.Snapshot, name))
		}
		tbl.AddRow(row)
		if d.Date.Format("2006-01-02") == today {
			tbl.SetHighlightRow(i)
		}
	}

	fmt.Fprint(out, tbl.Render())
	fmt.Fprintln(out)
	return nil
}

// loadDays fetches the calendar for days starting today and rebuilds each
// day. It also returns the provider zone and the location label.
func (s *session) loadDays(cmd *cobra.Command, days int) ([]scheduledDay, *time.Location, string, error) {
	now := nowFunc()
	raw, err := s.fetchCalendarDays(commandContext(cmd), now, days)
	if err != nil {
		return nil, nil, "", err
	}

	zone, err := s.zone(raw[0].Meta)
	if err != nil {
		return nil, nil, "", err
	}

	out := make([]scheduledDay, 0, len(raw))
	for _, dd := range raw {
		c, err := prayer.NewCanonicalTimes(dd.Timings)
		if err != nil {
			return nil, nil, "", fmt.Errorf("%s: %w", dd.Date.Format("2006-01-02"), err)
		}
		out = append(out, scheduledDay{
			Date:     dd.Date.In(zone),
			Snapshot: prayer.Rebuild(c, s.settings, clock.FromTime(now.In(zone))),
			Hijri:    dd.DateInfo.Hijri.Format(),
		})
	}

	return out, zone, buildLocationStr(s.loc, raw[0].Meta), nil
}

// timeOf formats one named time from a day's snapshot, or "" when the
// provider did not send it.
func timeOf(snap prayer.Snapshot, name string) string {
	t, ok := snap.Canonical.Time(name)
	if !ok {
		return ""
	}
	return prayer.FormatClock(t, snap.Settings.TimeFormat)
}

// listJSONOutput is the JSON structure for the list command.
type listJSONOutput struct {
	Location todayJSONLocation `json:"location"`
	Days     []listJSONDay     `json:"days"`
}

type listJSONDay struct {
	Date    string            `json:"date"`
	Hijri   string            `json:"hijri"`
	Timings map[string]string `json:"timings"`
}

func printListJSON(w io.Writer, s *session, sched []scheduledDay, selected []string, label string, zone *time.Location) error {
	out := listJSONOutput{Location: jsonLocation(s, label, zone, s.loc.Lat, s.loc.Lon)}

	for _, d := range sched {
		timings := make(map[string]string, len(selected))
		for _, name := range selected {
			timings[strings.ToLower(name)] = timeOf(d.Snapshot, name)
		}
		out.Days = append(out.Days, listJSONDay{
			Date:    d.Date.Format("02 Jan 2006"),
			Hijri:   d.Hijri,
			Timings: timings,
		})
	}

	return writeJSON(w, out)
}
