package cli

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/smokyabdulrahman/islamic-hub/internal/cache"
	"github.com/smokyabdulrahman/islamic-hub/internal/config"
	"github.com/smokyabdulrahman/islamic-hub/internal/geo"
)

// stubForm replaces runForm for the duration of a test.
func stubForm(t *testing.T, fn func(*huh.Form) error) {
	t.Helper()
	orig := runForm
	runForm = fn
	t.Cleanup(func() { runForm = orig })
}

func TestConfigSetGet(t *testing.T) {
	setupCLI(t, at(13, 0))

	out, err := runCLI(t, "config", "set", "time_format", "24H")
	if err != nil {
		t.Fatalf("config set failed: %v", err)
	}
	if out != "Set time_format = 24h\n" {
		t.Errorf("config set = %q", out)
	}

	out, err = runCLI(t, "config", "get", "time_format")
	if err != nil {
		t.Fatalf("config get failed: %v", err)
	}
	if out != "24h\n" {
		t.Errorf("config get = %q, want 24h", out)
	}
}

func TestConfigSet_Invalid(t *testing.T) {
	setupCLI(t, at(13, 0))

	tests := [][]string{
		{"config", "set", "method", "42"},
		{"config", "set", "school", "2"},
		{"config", "set", "prayers", "Fajr,Brunch"},
		{"config", "set", "colour", "blue"},
	}
	for _, args := range tests {
		if _, err := runCLI(t, args...); err == nil {
			t.Errorf("%v: expected error", args)
		}
	}
}

func TestConfigShowAndPath(t *testing.T) {
	setupCLI(t, at(13, 0))

	if _, err := runCLI(t, "config", "set", "method", "4"); err != nil {
		t.Fatal(err)
	}

	out, err := runCLI(t, "config")
	if err != nil {
		t.Fatalf("config failed: %v", err)
	}
	for _, want := range []string{"Configuration (", "Umm Al-Qura", "(not set)"} {
		if !strings.Contains(out, want) {
			t.Errorf("config output missing %q:\n%s", want, out)
		}
	}

	path, err := config.Path()
	if err != nil {
		t.Fatal(err)
	}
	out, err = runCLI(t, "config", "path")
	if err != nil {
		t.Fatalf("config path failed: %v", err)
	}
	if strings.TrimSpace(out) != path {
		t.Errorf("config path = %q, want %q", out, path)
	}
}

func TestConfigReset(t *testing.T) {
	setupCLI(t, at(13, 0))

	if _, err := runCLI(t, "config", "set", "city", "Cairo"); err != nil {
		t.Fatal(err)
	}
	if _, err := runCLI(t, "config", "reset"); err != nil {
		t.Fatalf("config reset failed: %v", err)
	}
	out, err := runCLI(t, "config", "get", "city")
	if err != nil {
		t.Fatal(err)
	}
	if out != "\n" {
		t.Errorf("city after reset = %q, want empty", out)
	}
}

func TestConfigEdit(t *testing.T) {
	setupCLI(t, at(13, 0))
	stubForm(t, func(*huh.Form) error { return nil })

	out, err := runCLI(t, "config", "edit")
	if err != nil {
		t.Fatalf("config edit failed: %v", err)
	}
	want := "Saved: method 3 (Muslim World League (MWL)), school 0 (Standard), 12h clock\n"
	if out != want {
		t.Errorf("config edit = %q, want %q", out, want)
	}

	cfg, err := config.Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Method == nil || *cfg.Method != 3 || cfg.School == nil || *cfg.School != 0 || cfg.TimeFormat != "12h" {
		t.Errorf("saved config = %+v", cfg)
	}
}

func TestConfigEdit_FormError(t *testing.T) {
	setupCLI(t, at(13, 0))
	aborted := errors.New("user aborted")
	stubForm(t, func(*huh.Form) error { return aborted })

	_, err := runCLI(t, "config", "edit")
	if !errors.Is(err, aborted) || !strings.Contains(err.Error(), "interactive form error") {
		t.Errorf("err = %v, want wrapped abort", err)
	}
}

func TestLocation_CityCountry(t *testing.T) {
	setupCLI(t, at(13, 0))

	if _, err := runCLI(t, "config", "set", "latitude", "21.4"); err != nil {
		t.Fatal(err)
	}

	out, err := runCLI(t, "location", "Cairo", "Egypt")
	if err != nil {
		t.Fatalf("location failed: %v", err)
	}
	if out != "Location: Cairo, Egypt\n" {
		t.Errorf("location = %q", out)
	}

	cfg, err := config.Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.City != "Cairo" || cfg.Country != "Egypt" || cfg.Latitude != 0 {
		t.Errorf("saved config = %+v", cfg)
	}
}

func TestLocation_Current(t *testing.T) {
	cacheDir := setupCLI(t, at(13, 0))

	for _, kv := range [][2]string{{"city", "Cairo"}, {"country", "Egypt"}, {"cache_dir", cacheDir}} {
		if _, err := runCLI(t, "config", "set", kv[0], kv[1]); err != nil {
			t.Fatal(err)
		}
	}
	c, err := cache.New(cacheDir)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.SaveGeo(&geo.Location{Latitude: 30.04, Longitude: 31.23, City: "Cairo", Country: "Egypt"}); err != nil {
		t.Fatal(err)
	}

	out, err := runCLI(t, "location", "current")
	if err != nil {
		t.Fatalf("location current failed: %v", err)
	}
	if out != "Location: current location (detected from IP)\n" {
		t.Errorf("location current = %q", out)
	}

	cfg, err := config.Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.City != "" || cfg.Country != "" {
		t.Errorf("city/country should be cleared: %+v", cfg)
	}
	if c.LoadGeo() != nil {
		t.Error("cached location should be cleared")
	}
}

func TestLocation_Picker(t *testing.T) {
	setupCLI(t, at(13, 0))

	var called bool
	stubForm(t, func(*huh.Form) error {
		called = true
		return nil
	})

	out, err := runCLI(t, "location")
	if err != nil {
		t.Fatalf("location failed: %v", err)
	}
	if !called {
		t.Error("picker form was not shown")
	}
	if out != "Location: current location (detected from IP)\n" {
		t.Errorf("location = %q", out)
	}
}

func TestLocation_BadArgs(t *testing.T) {
	setupCLI(t, at(13, 0))

	for _, args := range [][]string{{"location", "Cairo"}, {"location", "a", "b", "c"}} {
		if _, err := runCLI(t, args...); err == nil {
			t.Errorf("%v: expected error", args)
		}
	}
}

func TestPresetByKey(t *testing.T) {
	for _, p := range geo.Presets {
		got, ok := presetByKey(presetKey(p))
		if !ok || got != p {
			t.Errorf("presetByKey(%q) = %+v, %v", presetKey(p), got, ok)
		}
	}
	if _, ok := presetByKey("Atlantis|Nowhere"); ok {
		t.Error("unexpected preset for unknown key")
	}
}

func TestWatch(t *testing.T) {
	cacheDir := setupCLI(t, at(13, 0))
	newFakeAPI(t)

	var model tea.Model
	orig := runProgram
	runProgram = func(m tea.Model) error {
		model = m
		return nil
	}
	t.Cleanup(func() { runProgram = orig })

	if _, err := runCLI(t, riyadh(cacheDir, "watch")...); err != nil {
		t.Fatalf("watch failed: %v", err)
	}
	if model == nil {
		t.Fatal("watch did not start a program")
	}

	batch, ok := model.Init()().(tea.BatchMsg)
	if !ok || len(batch) == 0 {
		t.Fatal("Init should batch the first fetch with the ticker")
	}
	model, _ = model.Update(batch[0]())

	view := model.View()
	for _, want := range []string{"Riyadh, Saudi Arabia", "10 Ramadan 1447 AH", "next: Asr in 2h 2m"} {
		if !strings.Contains(view, want) {
			t.Errorf("watch view missing %q:\n%s", want, view)
		}
	}
}

func TestFormatMethodAndSchool(t *testing.T) {
	if got := formatMethodValue("2"); got != "2 (Islamic Society of North America (ISNA))" {
		t.Errorf("formatMethodValue = %q", got)
	}
	if got := formatMethodValue("6"); got != "6" {
		t.Errorf("formatMethodValue(unknown) = %q", got)
	}
	if got := formatSchoolValue("1"); got != "1 (Hanafi)" {
		t.Errorf("formatSchoolValue = %q", got)
	}
}
