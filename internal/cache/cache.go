package cache

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/smokyabdulrahman/islamic-hub/internal/api"
	"github.com/smokyabdulrahman/islamic-hub/internal/geo"
	"github.com/smokyabdulrahman/islamic-hub/internal/logger"
)

const (
	prayerCacheFile   = "timings_%s.json"  // keyed by hash
	calendarCacheFile = "calendar_%s.json" // keyed by hash
	geoCacheFile      = "geolocation.json"
	geoTTL            = 24 * time.Hour
)

// Cache provides file-based caching for prayer times and geolocation data.
type Cache struct {
	dir string
}

// Params are the request parameters that change what the provider returns.
// Either coordinates or city/country are set, never both.
type Params struct {
	Latitude  float64
	Longitude float64
	City      string
	Country   string
	Method    int
	School    int
}

// PrayerCacheEntry stores a day's prayer times along with metadata for validation.
type PrayerCacheEntry struct {
	Date     string       `json:"date"` // YYYY-MM-DD
	Method   int          `json:"method"`
	School   int          `json:"school"`
	Timings  api.Timings  `json:"timings"`
	DateInfo api.DateInfo `json:"date_info"`
	Meta     api.Meta     `json:"meta"`
}

// CalendarCacheEntry stores a whole month as returned by the calendar endpoint.
type CalendarCacheEntry struct {
	Year   int        `json:"year"`
	Month  int        `json:"month"`
	Method int        `json:"method"`
	School int        `json:"school"`
	Days   []api.Data `json:"days"`
}

// GeoCacheEntry stores a cached geolocation result with a timestamp.
type GeoCacheEntry struct {
	Location geo.Location `json:"location"`
	CachedAt time.Time    `json:"cached_at"`
}

// DefaultDir is ~/.cache/islamic-hub.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".cache", "islamic-hub"), nil
}

// New creates a Cache rooted at the given directory.
// If dir is empty, it defaults to DefaultDir.
func New(dir string) (*Cache, error) {
	if dir == "" {
		d, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create cache directory %s: %w", dir, err)
	}

	return &Cache{dir: dir}, nil
}

// Dir returns the directory backing the cache.
func (c *Cache) Dir() string { return c.dir }

func (p Params) String() string {
	return fmt.Sprintf("%.6f|%.6f|%s|%s|%d|%d", p.Latitude, p.Longitude, p.City, p.Country, p.Method, p.School)
}

// hashKey builds a deterministic short hash so different locations, methods
// and schools land in separate files.
func hashKey(scope string, p Params) string {
	h := sha256.Sum256([]byte(scope + "|" + p.String()))
	return fmt.Sprintf("%x", h[:8])
}

func cacheKey(date string, p Params) string {
	return hashKey(date, p)
}

func calendarKey(year, month int, p Params) string {
	return hashKey(fmt.Sprintf("%04d-%02d", year, month), p)
}

// LoadTimings attempts to read cached prayer times for the given parameters.
// Returns nil if the cache is missing, corrupt, or for a different day.
func (c *Cache) LoadTimings(date time.Time, p Params) *PrayerCacheEntry {
	dateStr := date.Format("2006-01-02")
	path := filepath.Join(c.dir, fmt.Sprintf(prayerCacheFile, cacheKey(dateStr, p)))

	var entry PrayerCacheEntry
	if !readJSON(path, &entry) {
		return nil
	}

	// A previous day's entry is useless.
	if entry.Date != dateStr {
		return nil
	}

	logger.Debug("timings cache hit", "date", dateStr)
	return &entry
}

// SaveTimings writes prayer times to the cache.
func (c *Cache) SaveTimings(date time.Time, p Params, resp *api.Response) error {
	dateStr := date.Format("2006-01-02")
	path := filepath.Join(c.dir, fmt.Sprintf(prayerCacheFile, cacheKey(dateStr, p)))

	return writeJSON(path, PrayerCacheEntry{
		Date:     dateStr,
		Method:   p.Method,
		School:   p.School,
		Timings:  resp.Data.Timings,
		DateInfo: resp.Data.Date,
		Meta:     resp.Data.Meta,
	})
}

// LoadCalendar attempts to read a cached month.
func (c *Cache) LoadCalendar(year int, month time.Month, p Params) *CalendarCacheEntry {
	path := filepath.Join(c.dir, fmt.Sprintf(calendarCacheFile, calendarKey(year, int(month), p)))

	var entry CalendarCacheEntry
	if !readJSON(path, &entry) {
		return nil
	}
	if entry.Year != year || entry.Month != int(month) || len(entry.Days) == 0 {
		return nil
	}

	logger.Debug("calendar cache hit", "year", year, "month", int(month))
	return &entry
}

// SaveCalendar writes a month of timings to the cache.
func (c *Cache) SaveCalendar(year int, month time.Month, p Params, resp *api.CalendarResponse) error {
	path := filepath.Join(c.dir, fmt.Sprintf(calendarCacheFile, calendarKey(year, int(month), p)))

	return writeJSON(path, CalendarCacheEntry{
		Year:   year,
		Month:  int(month),
		Method: p.Method,
		School: p.School,
		Days:   resp.Data,
	})
}

// LoadGeo attempts to read a cached geolocation result.
// Returns nil if the cache is missing or older than the TTL (24 hours).
func (c *Cache) LoadGeo() *geo.Location {
	var entry GeoCacheEntry
	if !readJSON(filepath.Join(c.dir, geoCacheFile), &entry) {
		return nil
	}

	if time.Since(entry.CachedAt) > geoTTL {
		return nil
	}

	return &entry.Location
}

// SaveGeo writes a geolocation result to the cache.
func (c *Cache) SaveGeo(loc *geo.Location) error {
	return writeJSON(filepath.Join(c.dir, geoCacheFile), GeoCacheEntry{
		Location: *loc,
		CachedAt: time.Now(),
	})
}

// ClearGeo forgets the cached location so the next run detects it again.
func (c *Cache) ClearGeo() error {
	err := os.Remove(filepath.Join(c.dir, geoCacheFile))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove geo cache: %w", err)
	}
	return nil
}

func readJSON(path string, v any) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		logger.Warn("ignoring corrupt cache file", "path", path, "err", err)
		return false
	}
	return true
}

// writeJSON replaces path atomically via a temp file and rename.
func writeJSON(path string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	return nil
}
