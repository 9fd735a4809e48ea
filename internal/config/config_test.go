package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func intPtr(v int) *int { return &v }

func TestDefaults(t *testing.T) {
	d := Defaults()

	if d.Method == nil || *d.Method != DefaultMethod {
		t.Errorf("Defaults().Method = %v, want %d", d.Method, DefaultMethod)
	}
	if d.School == nil || *d.School != DefaultSchool {
		t.Errorf("Defaults().School = %v, want %d", d.School, DefaultSchool)
	}
	if d.TimeFormat != "12h" {
		t.Errorf("Defaults().TimeFormat = %q, want 12h", d.TimeFormat)
	}
	if d.City != "" || d.Country != "" || d.Latitude != 0 || d.Longitude != 0 {
		t.Errorf("Defaults() should leave the location unset: %+v", d)
	}
}

func TestDirAndPath(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)

	dir, err := Dir()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(xdg, "islamic-hub"); dir != want {
		t.Errorf("Dir() = %q, want %q", dir, want)
	}

	path, err := Path()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(xdg, "islamic-hub", "config.json"); path != want {
		t.Errorf("Path() = %q, want %q", path, want)
	}

	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("HOME", home)
	dir, err = Dir()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(home, ".config", "islamic-hub"); dir != want {
		t.Errorf("Dir() without XDG = %q, want %q", dir, want)
	}
}

func TestLoadFrom(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) string {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
		return p
	}

	t.Run("missing file", func(t *testing.T) {
		cfg, err := LoadFrom(filepath.Join(dir, "nope.json"))
		if err != nil {
			t.Fatalf("LoadFrom error: %v", err)
		}
		if cfg.City != "" || cfg.Method != nil {
			t.Errorf("missing file should give an empty config, got %+v", cfg)
		}
	})

	t.Run("valid", func(t *testing.T) {
		p := write("valid.json", `{"city":"Mecca","country":"Saudi Arabia","method":4,"school":0,"time_format":"24h","prayers":"Fajr,Ishraq"}`)
		cfg, err := LoadFrom(p)
		if err != nil {
			t.Fatal(err)
		}
		if cfg.City != "Mecca" || cfg.Country != "Saudi Arabia" || cfg.TimeFormat != "24h" || cfg.Prayers != "Fajr,Ishraq" {
			t.Errorf("cfg = %+v", cfg)
		}
		if cfg.Method == nil || *cfg.Method != 4 {
			t.Errorf("method = %v, want 4", cfg.Method)
		}
		// School 0 is a real choice, not "unset".
		if cfg.School == nil || *cfg.School != 0 {
			t.Errorf("school = %v, want explicit 0", cfg.School)
		}
	})

	t.Run("invalid JSON", func(t *testing.T) {
		p := write("bad.json", "{not json")
		if _, err := LoadFrom(p); err == nil || !strings.Contains(err.Error(), "invalid config file") {
			t.Errorf("err = %v, want invalid config file", err)
		}
	})
}

func TestSaveTo_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	orig := &Config{
		City:       "Istanbul",
		Country:    "Turkey",
		Method:     intPtr(0),
		School:     intPtr(1),
		TimeFormat: "24h",
		Prayers:    "Fajr,Tahajjud",
		CacheDir:   "/tmp/hub",
	}
	if err := orig.SaveTo(path); err != nil {
		t.Fatalf("SaveTo error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(string(data), "}\n") {
		t.Error("config file should end with a newline")
	}
	if strings.Contains(string(data), "latitude") {
		t.Errorf("unset coordinates should be omitted:\n%s", data)
	}

	got, err := LoadFrom(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.City != orig.City || got.Country != orig.Country || got.TimeFormat != orig.TimeFormat ||
		got.Prayers != orig.Prayers || got.CacheDir != orig.CacheDir {
		t.Errorf("round trip = %+v, want %+v", got, orig)
	}
	if got.Method == nil || *got.Method != 0 || got.School == nil || *got.School != 1 {
		t.Errorf("method/school = %v/%v, want 0/1", got.Method, got.School)
	}
}

func TestConfig_MethodZeroInJSON(t *testing.T) {
	data, err := json.Marshal(&Config{Method: intPtr(0)})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"method":0`) {
		t.Errorf("explicit method 0 should be written, got %s", data)
	}

	data, err = json.Marshal(&Config{})
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "{}" {
		t.Errorf("empty config = %s, want {}", data)
	}
}

func TestResetAt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := (&Config{City: "Cairo"}).SaveTo(path); err != nil {
		t.Fatal(err)
	}

	if err := ResetAt(path); err != nil {
		t.Fatalf("ResetAt error: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("config file should be gone")
	}
	if err := ResetAt(path); err != nil {
		t.Errorf("ResetAt on a missing file = %v, want nil", err)
	}
}

func TestSetGet(t *testing.T) {
	tests := []struct {
		key   string
		value string
		want  string
	}{
		{"city", "Medina", "Medina"},
		{"country", "Saudi Arabia", "Saudi Arabia"},
		{"latitude", "21.4225", "21.4225"},
		{"latitude", "-90", "-90"},
		{"longitude", "39.8262", "39.8262"},
		{"longitude", "180", "180"},
		{"method", "0", "0"},
		{"method", "23", "23"},
		{"school", "1", "1"},
		{"time_format", "12H", "12h"},
		{"prayers", "Fajr,Ishraq,Tahajjud", "Fajr,Ishraq,Tahajjud"},
		{"cache_dir", "/var/cache/hub", "/var/cache/hub"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			cfg := &Config{}
			if err := cfg.Set(tt.key, tt.value); err != nil {
				t.Fatalf("Set(%q, %q) error: %v", tt.key, tt.value, err)
			}
			got, err := cfg.Get(tt.key)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("Get(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestSet_Invalid(t *testing.T) {
	tests := []struct {
		key     string
		value   string
		wantErr string
	}{
		{"latitude", "north", "must be a number"},
		{"latitude", "90.5", "between -90 and 90"},
		{"longitude", "-181", "between -180 and 180"},
		{"method", "three", "must be an integer"},
		{"method", "24", "between 0 and 23"},
		{"method", "-1", "between 0 and 23"},
		{"school", "2", "0 (Shafi) or 1 (Hanafi)"},
		{"time_format", "36h", "time_format"},
		{"prayers", "Fajr,Brunch", "Brunch"},
		{"prayers", "fajr", "fajr"},
		{"colour", "blue", "unknown config key"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			cfg := &Config{}
			err := cfg.Set(tt.key, tt.value)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Set(%q, %q) = %v, want error containing %q", tt.key, tt.value, err, tt.wantErr)
			}
		})
	}
}

func TestGet_Unset(t *testing.T) {
	cfg := &Config{}
	for _, key := range ValidKeys {
		got, err := cfg.Get(key)
		if err != nil {
			t.Errorf("Get(%q) error: %v", key, err)
		}
		if got != "" {
			t.Errorf("Get(%q) on empty config = %q, want empty", key, got)
		}
	}
	if _, err := cfg.Get("colour"); err == nil {
		t.Error("expected error for unknown key")
	}
}

func TestOrDefault(t *testing.T) {
	cfg := &Config{}
	if got := cfg.MethodOrDefault(3); got != 3 {
		t.Errorf("MethodOrDefault unset = %d, want 3", got)
	}
	if got := cfg.SchoolOrDefault(0); got != 0 {
		t.Errorf("SchoolOrDefault unset = %d, want 0", got)
	}

	cfg = &Config{Method: intPtr(0), School: intPtr(1)}
	if got := cfg.MethodOrDefault(3); got != 0 {
		t.Errorf("MethodOrDefault explicit 0 = %d, want 0", got)
	}
	if got := cfg.SchoolOrDefault(0); got != 1 {
		t.Errorf("SchoolOrDefault = %d, want 1", got)
	}
}

func TestSetSaveLoadGet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	cfg := &Config{}
	for _, kv := range [][2]string{{"city", "Cairo"}, {"country", "Egypt"}, {"method", "5"}, {"time_format", "24"}} {
		if err := cfg.Set(kv[0], kv[1]); err != nil {
			t.Fatal(err)
		}
	}
	if err := cfg.SaveTo(path); err != nil {
		t.Fatal(err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatal(err)
	}
	for key, want := range map[string]string{"city": "Cairo", "country": "Egypt", "method": "5", "time_format": "24h", "school": ""} {
		if got, _ := loaded.Get(key); got != want {
			t.Errorf("%s = %q, want %q", key, got, want)
		}
	}
}

func TestSet_TimeFormatNormalised(t *testing.T) {
	cfg := &Config{}
	if err := cfg.Set("time_format", "24"); err != nil {
		t.Fatal(err)
	}
	if cfg.TimeFormat != "24h" {
		t.Errorf("TimeFormat = %q, want %q", cfg.TimeFormat, "24h")
	}
}

// --- Environment overlay ---

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"ISLAMIC_HUB_CITY":        "Cairo",
		"ISLAMIC_HUB_COUNTRY":     "Egypt",
		"ISLAMIC_HUB_METHOD":      "5",
		"ISLAMIC_HUB_TIME_FORMAT": "24h",
		"ISLAMIC_HUB_CACHE_DIR":   "",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := &Config{City: "London", CacheDir: "/keep"}
	if err := cfg.ApplyEnv(lookup); err != nil {
		t.Fatalf("ApplyEnv error: %v", err)
	}

	if cfg.City != "Cairo" || cfg.Country != "Egypt" {
		t.Errorf("location = %q, %q; want Cairo, Egypt", cfg.City, cfg.Country)
	}
	if cfg.MethodOrDefault(-1) != 5 {
		t.Errorf("method = %d, want 5", cfg.MethodOrDefault(-1))
	}
	if cfg.TimeFormat != "24h" {
		t.Errorf("TimeFormat = %q, want 24h", cfg.TimeFormat)
	}
	if cfg.CacheDir != "/keep" {
		t.Errorf("empty env value should not override, CacheDir = %q", cfg.CacheDir)
	}
}

func TestApplyEnv_InvalidValue(t *testing.T) {
	lookup := func(k string) (string, bool) {
		if k == "ISLAMIC_HUB_SCHOOL" {
			return "7", true
		}
		return "", false
	}

	cfg := &Config{}
	err := cfg.ApplyEnv(lookup)
	if err == nil {
		t.Fatal("expected error for invalid school")
	}
	if !strings.Contains(err.Error(), "ISLAMIC_HUB_SCHOOL") {
		t.Errorf("error should name the variable, got %v", err)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("ISLAMIC_HUB_CITY=Istanbul\nISLAMIC_HUB_COUNTRY=Turkey\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	// Pre-set variables win over the file.
	t.Setenv("ISLAMIC_HUB_COUNTRY", "TR")
	// Registered so the variable is restored after the test.
	t.Setenv("ISLAMIC_HUB_CITY", "")
	os.Unsetenv("ISLAMIC_HUB_CITY")

	if err := LoadDotEnv(filepath.Join(dir, "missing.env"), path); err != nil {
		t.Fatalf("LoadDotEnv error: %v", err)
	}

	if got := os.Getenv("ISLAMIC_HUB_CITY"); got != "Istanbul" {
		t.Errorf("ISLAMIC_HUB_CITY = %q, want Istanbul", got)
	}
	if got := os.Getenv("ISLAMIC_HUB_COUNTRY"); got != "TR" {
		t.Errorf("ISLAMIC_HUB_COUNTRY = %q, want TR", got)
	}
}

func TestEnvName(t *testing.T) {
	if got := EnvName("time_format"); got != "ISLAMIC_HUB_TIME_FORMAT" {
		t.Errorf("EnvName = %q", got)
	}
}

// --- Derived values ---

func TestPrayerNames(t *testing.T) {
	cfg := &Config{}
	if got := cfg.PrayerNames(); len(got) != 6 || got[0] != "Fajr" {
		t.Errorf("default PrayerNames = %v", got)
	}

	cfg.Prayers = "Fajr, Tahajjud ,Isha"
	got := cfg.PrayerNames()
	want := []string{"Fajr", "Tahajjud", "Isha"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("PrayerNames = %v, want %v", got, want)
	}
}

func TestSettings(t *testing.T) {
	cfg := &Config{}
	s, err := cfg.Settings()
	if err != nil {
		t.Fatal(err)
	}
	if s.Method != DefaultMethod || s.School != DefaultSchool || s.TimeFormat.String() != "12h" {
		t.Errorf("default Settings = %+v", s)
	}

	school := 1
	cfg = &Config{School: &school, TimeFormat: "24h"}
	s, err = cfg.Settings()
	if err != nil {
		t.Fatal(err)
	}
	if s.School != 1 || s.TimeFormat.String() != "24h" {
		t.Errorf("Settings = %+v", s)
	}

	cfg = &Config{TimeFormat: "bogus"}
	if _, err := cfg.Settings(); err == nil {
		t.Error("expected error for bogus time format")
	}
}
