package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/islamic-hub/internal/config"
)

// runForm shows an interactive form. Tests replace it to skip the terminal.
var runForm = func(f *huh.Form) error { return f.Run() }

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or modify configuration",
		Long:  "Display current configuration, or use subcommands to modify it.\nWhen run without subcommands, shows the current configuration.",
		RunE:  runConfigShow,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the current configuration",
		Args:  cobra.NoArgs,
		RunE:  runConfigShow,
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a config value",
		Long: fmt.Sprintf("Set a configuration value. Valid keys: %s\n\nExamples:\n  islamic-hub config set city Riyadh\n  islamic-hub config set country \"Saudi Arabia\"\n  islamic-hub config set method 4\n  islamic-hub config set time_format 24h\n  islamic-hub config set prayers Fajr,Ishraq,Dhuhr,Asr,Maghrib,Isha,Tahajjud",
			strings.Join(config.ValidKeys, ", ")),
		Args: cobra.ExactArgs(2),
		RunE: runConfigSet,
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "get <key>",
		Short: "Print a single config value",
		Args:  cobra.ExactArgs(1),
		RunE:  runConfigGet,
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Reset config to defaults",
		Long:  "Delete the config file and restore all settings to defaults.",
		Args:  cobra.NoArgs,
		RunE:  runConfigReset,
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print config file path",
		Args:  cobra.NoArgs,
		RunE:  runConfigPath,
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "edit",
		Short: "Edit calculation settings interactively",
		Long:  "Pick the calculation method, Asr school and clock format from a form.",
		Args:  cobra.NoArgs,
		RunE:  runConfigEdit,
	})

	return cmd
}

// runConfigShow displays the current configuration.
func runConfigShow(cmd *cobra.Command, args []string) error {
	path, err := config.Path()
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "  Configuration (%s)\n\n", path)

	for _, key := range config.ValidKeys {
		val, _ := cfg.Get(key)
		shown := val
		if shown == "" {
			shown = "(not set)"
		}
		if key == "method" && val != "" {
			shown = formatMethodValue(val)
		}
		if key == "school" && val != "" {
			shown = formatSchoolValue(val)
		}
		fmt.Fprintf(out, "  %-14s %s\n", key, shown)
	}
	return nil
}

// runConfigSet sets a config key to the given value.
func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Set(key, value); err != nil {
		return err
	}
	if err := cfg.Save(); err != nil {
		return err
	}

	stored, _ := cfg.Get(key)
	fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, stored)
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	val, err := cfg.Get(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), val)
	return nil
}

// runConfigReset deletes the config file.
func runConfigReset(cmd *cobra.Command, args []string) error {
	if err := config.Reset(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Configuration reset to defaults.")
	return nil
}

// runConfigPath prints the config file path.
func runConfigPath(cmd *cobra.Command, args []string) error {
	path, err := config.Path()
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}

// settingsForm holds the values bound to the edit form.
type settingsForm struct {
	Method     int
	School     int
	TimeFormat string
}

func newSettingsForm(fm *settingsForm) *huh.Form {
	methods := make([]huh.Option[int], 0, len(CalculationMethods))
	for _, m := range CalculationMethods {
		methods = append(methods, huh.NewOption(fmt.Sprintf("%d  %s", m.ID, m.Name), m.ID))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Calculation method").
				Options(methods...).
				Value(&fm.Method),
			huh.NewSelect[int]().
				Title("Asr school").
				Options(
					huh.NewOption("Standard (Shafi, Maliki, Hanbali)", 0),
					huh.NewOption("Hanafi", 1),
				).
				Value(&fm.School),
			huh.NewSelect[string]().
				Title("Clock").
				Options(
					huh.NewOption("12-hour", "12h"),
					huh.NewOption("24-hour", "24h"),
				).
				Value(&fm.TimeFormat),
		),
	)
}

func runConfigEdit(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	tf := cfg.TimeFormat
	if tf == "" {
		tf = config.DefaultTimeFormat
	}
	fm := &settingsForm{
		Method:     cfg.MethodOrDefault(config.DefaultMethod),
		School:     cfg.SchoolOrDefault(config.DefaultSchool),
		TimeFormat: tf,
	}

	if err := runForm(newSettingsForm(fm)); err != nil {
		return fmt.Errorf("interactive form error: %w", err)
	}

	for key, val := range map[string]string{
		"method":      strconv.Itoa(fm.Method),
		"school":      strconv.Itoa(fm.School),
		"time_format": fm.TimeFormat,
	} {
		if err := cfg.Set(key, val); err != nil {
			return err
		}
	}
	if err := cfg.Save(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Saved: method %s, school %s, %s clock\n",
		formatMethodValue(strconv.Itoa(fm.Method)), formatSchoolValue(strconv.Itoa(fm.School)), fm.TimeFormat)
	return nil
}

// formatMethodValue adds the method name to the numeric value.
func formatMethodValue(val string) string {
	for _, m := range CalculationMethods {
		if strconv.Itoa(m.ID) == val {
			return fmt.Sprintf("%s (%s)", val, m.Name)
		}
	}
	return val
}

// formatSchoolValue adds the school name to the numeric value.
func formatSchoolValue(val string) string {
	switch val {
	case "0":
		return "0 (Standard)"
	case "1":
		return "1 (Hanafi)"
	default:
		return val
	}
}

// CalculationMethods lists all supported Al Adhan API calculation methods.
var CalculationMethods = []struct {
	ID   int
	Name string
}{
	{0, "Shia Ithna-Ashari (Jafari)"},
	{1, "University of Islamic Sciences, Karachi"},
	{2, "Islamic Society of North America (ISNA)"},
	{3, "Muslim World League (MWL)"},
	{4, "Umm Al-Qura University, Makkah"},
	{5, "Egyptian General Authority of Survey"},
	{7, "Institute of Geophysics, University of Tehran"},
	{8, "Gulf Region"},
	{9, "Kuwait"},
	{10, "Qatar"},
	{11, "Majlis Ugama Islam Singapura (Singapore)"},
	{12, "Union Organization Islamic de France"},
	{13, "Diyanet Isleri Baskanligi, Turkey (experimental)"},
	{14, "Spiritual Administration of Muslims of Russia"},
	{15, "Moonsighting Committee Worldwide"},
	{16, "Dubai (experimental)"},
	{17, "JAKIM (Malaysia)"},
	{18, "Tunisia"},
	{19, "Algeria"},
	{20, "KEMENAG (Indonesia)"},
	{21, "Morocco"},
	{22, "Comunidade Islamica de Lisboa (Portugal)"},
	{23, "Ministry of Awqaf, Jordan"},
}

func newMethodsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "methods",
		Short: "List all calculation methods",
		Long:  "Print the table of all supported Al Adhan API calculation methods.",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Supported calculation methods:")
			fmt.Fprintln(out)
			fmt.Fprintf(out, "  %-4s %s\n", "ID", "Name")
			fmt.Fprintf(out, "  %-4s %s\n", "──", "────")
			for _, m := range CalculationMethods {
				marker := ""
				if m.ID == config.DefaultMethod {
					marker = "  (default)"
				}
				fmt.Fprintf(out, "  %-4d %s%s\n", m.ID, m.Name, marker)
			}
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Use --method <ID> or `config set method <ID>` to select a calculation method.")
			return nil
		},
	}
}
