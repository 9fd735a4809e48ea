package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/islamic-hub/internal/tui"
)

// runProgram drives the watch view. Tests replace it to avoid a terminal.
var runProgram = func(m tea.Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Live view of today's schedule",
		Long:  "Show today's schedule and keep the active period current. Press r to refetch, t to switch clocks, q to quit.",
		Args:  cobra.NoArgs,
		RunE:  runWatch,
	}
}

func runWatch(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}

	if err := runProgram(tui.NewModel(s.scheduleLoader(), nowFunc)); err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	return nil
}

// scheduleLoader adapts loadDay to the watch view.
func (s *session) scheduleLoader() tui.Loader {
	return func(ctx context.Context) (tui.Schedule, error) {
		day, err := s.loadDay(ctx, nowFunc())
		if err != nil {
			return tui.Schedule{}, err
		}
		return tui.Schedule{
			Snapshot:  day.Snapshot,
			Location:  day.Label,
			Gregorian: formatGregorianDate(day.Now, day.Result),
			Hijri:     day.Result.DateInfo.Hijri.Format(),
			TZ:        day.Zone,
		}, nil
	}
}
