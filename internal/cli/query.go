package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/islamic-hub/internal/display"
	"github.com/smokyabdulrahman/islamic-hub/internal/prayer"
)

var flagQueryDays string

func newQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query <prayer>",
		Short: "Query a specific prayer time",
		Long: "Query a specific prayer time for today, or across multiple days with --days.\n\nValid prayer names: " +
			strings.Join(prayer.AllPrayerNames, ", "),
		Args: cobra.ExactArgs(1),
		RunE: runQuery,
	}

	cmd.Flags().StringVar(&flagQueryDays, "days", "", "Number of days to show (or 'week'/'month')")

	return cmd
}

// parseDays accepts a positive integer, "week" or "month".
func parseDays(s string) (int, error) {
	switch s {
	case "":
		return 1, nil
	case "week":
		return 7, nil
	case "month":
		return 30, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid --days value %q: must be a positive integer, 'week', or 'month'", s)
	}
	return n, nil
}

func runQuery(cmd *cobra.Command, args []string) error {
	prayerName := canonicalName(args[0])
	if prayerName == "" {
		return fmt.Errorf("unknown prayer %q; valid names: %s", args[0], strings.Join(prayer.AllPrayerNames, ", "))
	}

	days, err := parseDays(flagQueryDays)
	if err != nil {
		return err
	}

	s, err := openSession(cmd)
	if err != nil {
		return err
	}

	// Single day: use the daily endpoint.
	if days == 1 {
		return runQuerySingleDay(cmd, s, prayerName)
	}
	// Multi-day: use the calendar endpoint.
	return runQueryMultiDay(cmd, s, prayerName, days)
}

func runQuerySingleDay(cmd *cobra.Command, s *session, prayerName string) error {
	day, err := s.loadDay(commandContext(cmd), nowFunc())
	if err != nil {
		return err
	}

	timeStr := timeOf(day.Snapshot, prayerName)
	if timeStr == "" {
		return fmt.Errorf("no timing found for %s", prayerName)
	}
	rangeStr := rangeOf(day.Snapshot, prayerName)

	out := cmd.OutOrStdout()
	if FlagJSON {
		return writeJSON(out, queryJSONSingle{
			Prayer: strings.ToLower(prayerName),
			Time:   timeStr,
			Range:  rangeStr,
			Date:   day.Now.Format("02 Jan 2006"),
			Hijri:  day.Result.DateInfo.Hijri.Format(),
		})
	}

	if rangeStr != "" {
		fmt.Fprintf(out, "%s %s (%s)\n", prayerName, timeStr, rangeStr)
		return nil
	}
	fmt.Fprintf(out, "%s %s\n", prayerName, timeStr)
	return nil
}

// rangeOf returns the display range of a derived window, or "".
func rangeOf(snap prayer.Snapshot, name string) string {
	for _, w := range snap.Nafl {
		if w.Name == name && w.Range != nil {
			return prayer.FormatRange(*w.Range, snap.Settings.TimeFormat)
		}
	}
	return ""
}

func runQueryMultiDay(cmd *cobra.Command, s *session, prayerName string, days int) error {
	sched, zone, label, err := s.loadDays(cmd, days)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if FlagJSON {
		return printQueryJSON(out, s, sched, prayerName, label, zone)
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "  %s\n", display.Boldf("%s Times - %d Days", prayerName, days))
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  %s\n", label)
	fmt.Fprintln(out)

	tbl := display.NewTable([]string{"Date", prayerName})
	today := nowFunc().In(zone).Format("2006-01-02")
	for i, d := range sched {
		tbl.AddRow([]string{d.Date.Format("Mon 02 Jan"), timeOf(d.Snapshot, prayerName)})
		if d.Date.Format("2006-01-02") == today {
			tbl.SetHighlightRow(i)
		}
	}

	fmt.Fprint(out, tbl.Render())
	fmt.Fprintln(out)
	return nil
}

type queryJSONSingle struct {
	Prayer string `json:"prayer"`
	Time   string `json:"time"`
	Range  string `json:"range,omitempty"`
	Date   string `json:"date"`
	Hijri  string `json:"hijri"`
}

type queryJSONMulti struct {
	Location todayJSONLocation `json:"location"`
	Prayer   string            `json:"prayer"`
	Days     []queryJSONDay    `json:"days"`
}

type queryJSONDay struct {
	Date  string `json:"date"`
	Hijri string `json:"hijri"`
	Time  string `json:"time"`
}

func printQueryJSON(w io.Writer, s *session, sched []scheduledDay, prayerName, label string, zone *time.Location) error {
	out := queryJSONMulti{
		Location: jsonLocation(s, label, zone, s.loc.Lat, s.loc.Lon),
		Prayer:   strings.ToLower(prayerName),
	}
	for _, d := range sched {
		out.Days = append(out.Days, queryJSONDay{
			Date:  d.Date.Format("02 Jan 2006"),
			Hijri: d.Hijri,
			Time:  timeOf(d.Snapshot, prayerName),
		})
	}
	return writeJSON(w, out)
}
