package cli

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/islamic-hub/internal/cache"
	"github.com/smokyabdulrahman/islamic-hub/internal/config"
	"github.com/smokyabdulrahman/islamic-hub/internal/geo"
	"github.com/smokyabdulrahman/islamic-hub/internal/logger"
)

// currentLocation is the picker value that re-enables IP detection.
const currentLocation = "current"

func newLocationCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "location [current | <city> <country>]",
		Short: "Choose the location used for prayer times",
		Long: "Without arguments, pick a city from a list. Pass a city and country to set\n" +
			"one directly, or \"current\" to detect the location from your IP again.",
		Args: func(cmd *cobra.Command, args []string) error {
			switch len(args) {
			case 0, 2:
				return nil
			case 1:
				if args[0] == currentLocation {
					return nil
				}
				return fmt.Errorf("expected \"current\" or <city> <country>, got %q", args[0])
			default:
				return fmt.Errorf("accepts at most 2 args, received %d", len(args))
			}
		},
		RunE: runLocation,
	}
}

func runLocation(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	choice := currentLocation
	var picked geo.Preset
	switch len(args) {
	case 2:
		choice, picked = "", geo.Preset{City: args[0], Country: args[1]}
	case 0:
		choice = presetKey(geo.Preset{City: cfg.City, Country: cfg.Country})
		if cfg.City == "" {
			choice = currentLocation
		}
		if err := runForm(newLocationForm(&choice)); err != nil {
			return fmt.Errorf("interactive form error: %w", err)
		}
		if choice != currentLocation {
			p, ok := presetByKey(choice)
			if !ok {
				return fmt.Errorf("unknown location %q", choice)
			}
			picked = p
		}
	}

	out := cmd.OutOrStdout()
	cfg.Latitude, cfg.Longitude = 0, 0

	if choice == currentLocation {
		cfg.City, cfg.Country = "", ""
		if err := cfg.Save(); err != nil {
			return err
		}
		if c, err := cache.New(cfg.CacheDir); err == nil {
			if err := c.ClearGeo(); err != nil {
				logger.Warn("failed to clear cached location", "err", err)
			}
		}
		fmt.Fprintln(out, "Location: current location (detected from IP)")
		return nil
	}

	cfg.City, cfg.Country = picked.City, picked.Country
	if err := cfg.Save(); err != nil {
		return err
	}
	fmt.Fprintf(out, "Location: %s\n", geo.Location{City: picked.City, Country: picked.Country}.Label())
	return nil
}

func presetKey(p geo.Preset) string {
	return p.City + "|" + p.Country
}

func presetByKey(k string) (geo.Preset, bool) {
	for _, p := range geo.Presets {
		if presetKey(p) == k {
			return p, true
		}
	}
	return geo.Preset{}, false
}

func newLocationForm(choice *string) *huh.Form {
	opts := []huh.Option[string]{huh.NewOption("Current location", currentLocation)}
	for _, p := range geo.Presets {
		opts = append(opts, huh.NewOption(p.City+", "+p.Country, presetKey(p)))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Location").
				Options(opts...).
				Value(choice),
		),
	)
}
