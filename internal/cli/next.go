package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/islamic-hub/internal/logger"
	"github.com/smokyabdulrahman/islamic-hub/internal/prayer"
)

var (
	flagFormat  string
	flagPrayers string
)

func newNextCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "next",
		Short: "Show the next prayer with countdown",
		Long: "Display the next upcoming prayer time with a countdown, suitable for status bars.\n\n" +
			"Custom templates may use .Name, .ShortName, .Time, .Remaining, .Hours, .Minutes and .Current.",
		RunE: runNext,
	}

	cmd.Flags().StringVar(&flagFormat, "format", prayer.FormatFull, "Display format: time-remaining, next-prayer-time, name-and-time, name-and-remaining, short-name-and-time, short-name-and-remaining, current-and-next, full, or a custom Go template")
	cmd.Flags().StringVar(&flagPrayers, "prayers", "", "Comma-separated list of prayers to track (overrides config)")

	return cmd
}

func runNext(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}

	// Priority: --prayers flag > environment/config > defaults.
	names := s.cfg.PrayerNames()
	if cmd.Flags().Changed("prayers") && flagPrayers != "" {
		names = nil
		for _, n := range strings.Split(flagPrayers, ",") {
			if n = strings.TrimSpace(n); n != "" {
				names = append(names, n)
			}
		}
	}
	selected, err := selectedPrayers(names)
	if err != nil {
		return err
	}

	ctx := commandContext(cmd)
	day, err := s.loadDay(ctx, nowFunc())
	if err != nil {
		return err
	}

	prayers, err := day.Snapshot.Canonical.Prayers(day.Now, day.Zone, selected)
	if err != nil {
		return err
	}
	next := prayer.NextPrayer(prayers, day.Now)

	// Everything today has passed: look at tomorrow.
	if next == nil {
		tomorrow := day.Now.AddDate(0, 0, 1)
		tDay, err := s.loadDay(ctx, tomorrow)
		if err != nil {
			// Keep the status bar readable rather than failing it.
			logger.Warn("failed to fetch tomorrow's times", "err", err)
			if len(prayers) > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "%s --:--", prayers[len(prayers)-1].Name)
				return nil
			}
			return fmt.Errorf("failed to fetch tomorrow's times: %w", err)
		}

		tomorrowPrayers, err := tDay.Snapshot.Canonical.Prayers(tomorrow.In(day.Zone), day.Zone, selected)
		if err != nil {
			return err
		}
		next = prayer.NextPrayer(tomorrowPrayers, day.Now)
	}

	if next == nil {
		return fmt.Errorf("could not determine next prayer")
	}

	output := prayer.FormatOutput(*next, day.Snapshot.Active, day.Now, flagFormat, day.Snapshot.Settings.TimeFormat)
	fmt.Fprint(cmd.OutOrStdout(), output)
	return nil
}
