package cli

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/smokyabdulrahman/islamic-hub/internal/api"
	"github.com/smokyabdulrahman/islamic-hub/internal/cache"
	"github.com/smokyabdulrahman/islamic-hub/internal/clock"
	"github.com/smokyabdulrahman/islamic-hub/internal/config"
	"github.com/smokyabdulrahman/islamic-hub/internal/geo"
	"github.com/smokyabdulrahman/islamic-hub/internal/logger"
	"github.com/smokyabdulrahman/islamic-hub/internal/prayer"
)

// provider is the slice of the Al Adhan client the commands depend on.
type provider interface {
	FetchByCoordinates(ctx context.Context, date time.Time, lat, lon float64, method, school int) (*api.Response, error)
	FetchByCity(ctx context.Context, date time.Time, city, country string, method, school int) (*api.Response, error)
	FetchCalendarByCoordinates(ctx context.Context, year int, month time.Month, lat, lon float64, method, school int) (*api.CalendarResponse, error)
	FetchCalendarByCity(ctx context.Context, year int, month time.Month, city, country string, method, school int) (*api.CalendarResponse, error)
}

// Swapped out in tests.
var (
	newProvider    = func() provider { return api.NewClient() }
	detectLocation = geo.DetectOrFallback
	nowFunc        = time.Now
)

// maxConcurrentMonths caps parallel calendar fetches.
const maxConcurrentMonths = 3

// locationMode describes how the user specified their location.
type locationMode int

const (
	locationCoords locationMode = iota
	locationCity
)

// resolvedLocation holds the result of location resolution.
type resolvedLocation struct {
	Mode     locationMode
	Lat, Lon float64
	City     string
	Country  string
	Timezone string // optional hint from geo-detection
}

// fetchResult holds the data returned from a prayer times fetch.
type fetchResult struct {
	Timings  api.Timings
	Meta     api.Meta
	DateInfo api.DateInfo
}

// dayData holds a single day's raw data for list/query output.
type dayData struct {
	Date     time.Time
	Timings  api.Timings
	DateInfo api.DateInfo
	Meta     api.Meta
}

// session bundles what every schedule command needs: merged config, the
// cache, a provider and the resolved location.
type session struct {
	cfg      *config.Config
	settings prayer.Settings
	cache    *cache.Cache // nil when the cache directory is unusable
	client   provider
	loc      resolvedLocation
}

// openSession merges config, opens the cache and resolves the location.
func openSession(cmd *cobra.Command) (*session, error) {
	cfg, err := effectiveConfig(cmd)
	if err != nil {
		return nil, err
	}
	settings, err := cfg.Settings()
	if err != nil {
		return nil, err
	}

	c, err := cache.New(cfg.CacheDir)
	if err != nil {
		logger.Warn("cache disabled", "err", err)
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: cache disabled: %v\n", err)
		c = nil
	}

	s := &session{cfg: cfg, settings: settings, cache: c, client: newProvider()}
	s.loc, err = resolveLocation(cmd.Context(), cfg, c)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (s *session) params() cache.Params {
	return cache.Params{
		Latitude:  s.loc.Lat,
		Longitude: s.loc.Lon,
		City:      s.loc.City,
		Country:   s.loc.Country,
		Method:    s.settings.Method,
		School:    s.settings.School,
	}
}

// zone returns the timezone the schedule is expressed in.
func (s *session) zone(meta api.Meta) (*time.Location, error) {
	tz := s.loc.Timezone
	if tz == "" {
		return meta.Location(), nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", tz, err)
	}
	return loc, nil
}

// resolveLocation determines the effective location.
// Priority: explicit coordinates > city > cached geolocation > IP detection,
// which itself falls back to a fixed default city.
func resolveLocation(ctx context.Context, cfg *config.Config, c *cache.Cache) (resolvedLocation, error) {
	switch {
	case cfg.Latitude != 0 || cfg.Longitude != 0:
		return resolvedLocation{Mode: locationCoords, Lat: cfg.Latitude, Lon: cfg.Longitude}, nil
	case cfg.City != "":
		if cfg.Country == "" {
			return resolvedLocation{}, fmt.Errorf("--country is required when using --city")
		}
		return resolvedLocation{Mode: locationCity, City: cfg.City, Country: cfg.Country}, nil
	}

	if c != nil {
		if cached := c.LoadGeo(); cached != nil {
			return fromGeo(*cached), nil
		}
	}

	if ctx == nil {
		ctx = context.Background()
	}
	detected, fellBack := detectLocation(ctx)
	if fellBack || !detected.HasCoordinates() {
		return resolvedLocation{Mode: locationCity, City: detected.City, Country: detected.Country}, nil
	}

	if c != nil {
		if err := c.SaveGeo(&detected); err != nil {
			logger.Warn("failed to cache location", "err", err)
		}
	}
	return fromGeo(detected), nil
}

func fromGeo(l geo.Location) resolvedLocation {
	return resolvedLocation{
		Mode:     locationCoords,
		Lat:      l.Latitude,
		Lon:      l.Longitude,
		City:     l.City,
		Country:  l.Country,
		Timezone: l.Timezone,
	}
}

// buildLocationStr labels the location: "City, Country" when known, else the
// provider's timezone, else the coordinates it reported.
func buildLocationStr(loc resolvedLocation, meta api.Meta) string {
	g := geo.Location{City: loc.City, Country: loc.Country, Timezone: loc.Timezone}
	if g.Timezone == "" {
		g.Timezone = meta.Timezone
	}
	if g.City != "" || g.Timezone != "" {
		return g.Label()
	}
	return fmt.Sprintf("%.4f, %.4f", meta.Latitude, meta.Longitude)
}

// fetchTimings returns prayer timings for the given date, using the cache when available.
func (s *session) fetchTimings(ctx context.Context, date time.Time) (*fetchResult, error) {
	p := s.params()
	if s.cache != nil {
		if entry := s.cache.LoadTimings(date, p); entry != nil {
			return &fetchResult{Timings: entry.Timings, Meta: entry.Meta, DateInfo: entry.DateInfo}, nil
		}
	}

	var (
		resp *api.Response
		err  error
	)
	switch s.loc.Mode {
	case locationCity:
		resp, err = s.client.FetchByCity(ctx, date, s.loc.City, s.loc.Country, p.Method, p.School)
	default:
		resp, err = s.client.FetchByCoordinates(ctx, date, s.loc.Lat, s.loc.Lon, p.Method, p.School)
	}
	if err != nil {
		return nil, fmt.Errorf("schedule unavailable: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.SaveTimings(date, p, resp); err != nil {
			logger.Warn("failed to cache timings", "date", date.Format("2006-01-02"), "err", err)
		}
	}

	return &fetchResult{Timings: resp.Data.Timings, Meta: resp.Data.Meta, DateInfo: resp.Data.Date}, nil
}

type yearMonth struct {
	year  int
	month time.Month
}

// fetchCalendarDays fetches prayer data for `days` consecutive days starting
// from `start`. Whole months come from the calendar endpoint, fetched
// concurrently, and are cached.
func (s *session) fetchCalendarDays(ctx context.Context, start time.Time, days int) ([]dayData, error) {
	var needed []yearMonth
	seen := make(map[yearMonth]bool)
	for i := 0; i < days; i++ {
		d := start.AddDate(0, 0, i)
		ym := yearMonth{d.Year(), d.Month()}
		if !seen[ym] {
			seen[ym] = true
			needed = append(needed, ym)
		}
	}

	var mu sync.Mutex
	monthData := make(map[yearMonth][]api.Data, len(needed))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentMonths)
	for _, ym := range needed {
		ym := ym
		g.Go(func() error {
			data, err := s.fetchMonth(gctx, ym)
			if err != nil {
				return err
			}
			mu.Lock()
			monthData[ym] = data
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := make([]dayData, 0, days)
	for i := 0; i < days; i++ {
		d := start.AddDate(0, 0, i)
		ym := yearMonth{d.Year(), d.Month()}
		daysInMonth := monthData[ym]

		dayIdx := d.Day() - 1
		if dayIdx < 0 || dayIdx >= len(daysInMonth) {
			return nil, fmt.Errorf("day %d out of range for %d-%02d (got %d days)", d.Day(), ym.year, ym.month, len(daysInMonth))
		}

		apiData := daysInMonth[dayIdx]
		result = append(result, dayData{
			Date:     d,
			Timings:  apiData.Timings,
			DateInfo: apiData.Date,
			Meta:     apiData.Meta,
		})
	}
	return result, nil
}

func (s *session) fetchMonth(ctx context.Context, ym yearMonth) ([]api.Data, error) {
	p := s.params()
	if s.cache != nil {
		if entry := s.cache.LoadCalendar(ym.year, ym.month, p); entry != nil {
			return entry.Days, nil
		}
	}

	var (
		resp *api.CalendarResponse
		err  error
	)
	switch s.loc.Mode {
	case locationCity:
		resp, err = s.client.FetchCalendarByCity(ctx, ym.year, ym.month, s.loc.City, s.loc.Country, p.Method, p.School)
	default:
		resp, err = s.client.FetchCalendarByCoordinates(ctx, ym.year, ym.month, s.loc.Lat, s.loc.Lon, p.Method, p.School)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch calendar for %d-%02d: %w", ym.year, int(ym.month), err)
	}

	if s.cache != nil {
		if err := s.cache.SaveCalendar(ym.year, ym.month, p, resp); err != nil {
			logger.Warn("failed to cache calendar", "year", ym.year, "month", int(ym.month), "err", err)
		}
	}
	return resp.Data, nil
}

// daySchedule is one fetched and rebuilt day.
type daySchedule struct {
	Result   *fetchResult
	Snapshot prayer.Snapshot
	Zone     *time.Location
	Now      time.Time // in Zone
	Label    string
}

// loadDay fetches the day containing now and rebuilds its snapshot. Missing
// or malformed timings are reported without building anything.
func (s *session) loadDay(ctx context.Context, now time.Time) (*daySchedule, error) {
	result, err := s.fetchTimings(ctx, now)
	if err != nil {
		return nil, err
	}

	zone, err := s.zone(result.Meta)
	if err != nil {
		return nil, err
	}
	now = now.In(zone)

	canonical, err := prayer.NewCanonicalTimes(result.Timings)
	if err != nil {
		return nil, err
	}

	return &daySchedule{
		Result:   result,
		Snapshot: prayer.Rebuild(canonical, s.settings, clock.FromTime(now)),
		Zone:     zone,
		Now:      now,
		Label:    buildLocationStr(s.loc, result.Meta),
	}, nil
}

// selectedPrayers normalizes names in the order the user gave them,
// rejecting any that are not selectable.
func selectedPrayers(names []string) ([]string, error) {
	out := make([]string, 0, len(names))
	for _, n := range names {
		c := canonicalName(n)
		if c == "" {
			return nil, fmt.Errorf("unknown prayer %q; valid names: %s", n, strings.Join(prayer.AllPrayerNames, ", "))
		}
		out = append(out, c)
	}
	return out, nil
}

// canonicalName normalizes the case of a prayer name, or returns "" if it
// is not selectable.
func canonicalName(name string) string {
	for _, n := range prayer.AllPrayerNames {
		if strings.EqualFold(n, name) {
			return n
		}
	}
	return ""
}
