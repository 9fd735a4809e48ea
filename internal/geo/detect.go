package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/smokyabdulrahman/islamic-hub/internal/logger"
)

// Location holds geographic coordinates detected from the user's IP.
type Location struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
	City      string  `json:"city"`
	Country   string  `json:"country"`
	Timezone  string  `json:"timezone"`
}

// Fallback is used whenever detection fails.
var Fallback = Location{City: "New York", Country: "USA"}

// HasCoordinates reports whether the location can be queried by lat/lon.
func (l Location) HasCoordinates() bool {
	return l.Latitude != 0 || l.Longitude != 0
}

// Label is the human-readable name for the location: "City, Country" when
// known, then the city alone, then the timezone, then raw coordinates.
func (l Location) Label() string {
	switch {
	case l.City != "" && l.Country != "":
		return l.City + ", " + l.Country
	case l.City != "":
		return l.City
	case l.Timezone != "":
		return l.Timezone
	case l.HasCoordinates():
		return fmt.Sprintf("%.4f, %.4f", l.Latitude, l.Longitude)
	default:
		return "Current Location"
	}
}

// Preset is a city offered by the interactive location picker.
type Preset struct {
	City    string
	Country string
}

// Presets lists the cities offered by the location picker.
var Presets = []Preset{
	{"Mecca", "Saudi Arabia"},
	{"Medina", "Saudi Arabia"},
	{"Riyadh", "Saudi Arabia"},
	{"Dubai", "UAE"},
	{"Cairo", "Egypt"},
	{"Istanbul", "Turkey"},
	{"Karachi", "Pakistan"},
	{"Lahore", "Pakistan"},
	{"Dhaka", "Bangladesh"},
	{"Jakarta", "Indonesia"},
	{"Kuala Lumpur", "Malaysia"},
	{"London", "UK"},
	{"Paris", "France"},
	{"Toronto", "Canada"},
	{"New York", "USA"},
}

// ipAPIResponse maps the response from ip-api.com.
type ipAPIResponse struct {
	Status   string  `json:"status"`
	Message  string  `json:"message"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	City     string  `json:"city"`
	Country  string  `json:"country"`
	Timezone string  `json:"timezone"`
}

// geoAPIURL is the geolocation API endpoint. It is a variable (not a constant)
// so that tests can override it with an httptest server URL.
var geoAPIURL = "http://ip-api.com/json/?fields=status,message,lat,lon,city,country,timezone"

// DetectLocation uses ip-api.com to determine the user's location from their
// public IP address. This is a free service that requires no API key.
func DetectLocation(ctx context.Context) (*Location, error) {
	client := &http.Client{Timeout: 5 * time.Second}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, geoAPIURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build geolocation request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geolocation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geolocation API returned status %d", resp.StatusCode)
	}

	var result ipAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode geolocation response: %w", err)
	}

	if result.Status != "success" {
		return nil, fmt.Errorf("geolocation failed: %s", result.Message)
	}

	logger.Debug("location detected", "city", result.City, "country", result.Country)

	return &Location{
		Latitude:  result.Lat,
		Longitude: result.Lon,
		City:      result.City,
		Country:   result.Country,
		Timezone:  result.Timezone,
	}, nil
}

// DetectOrFallback never fails: on any detection error it logs a warning and
// returns Fallback. The second result reports whether the fallback was used.
func DetectOrFallback(ctx context.Context) (Location, bool) {
	loc, err := DetectLocation(ctx)
	if err != nil {
		logger.Warn("location detection failed, using fallback", "err", err, "fallback", Fallback.Label())
		return Fallback, true
	}
	return *loc, false
}
