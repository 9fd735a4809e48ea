package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/smokyabdulrahman/islamic-hub/internal/logger"
)

const defaultBaseURL = "https://api.aladhan.com/v1"

// ErrUnavailable is returned when the Al Adhan API answers with anything
// other than a successful payload.
var ErrUnavailable = errors.New("prayer time service unavailable")

// Client communicates with the Al Adhan prayer times API.
type Client struct {
	httpClient *http.Client
	// BaseURL is the API base URL. Defaults to the Al Adhan API.
	// Exported for testing with httptest.
	BaseURL string

	limiter *rate.Limiter
}

// NewClient creates a new API client with sensible defaults. Requests are
// throttled to a few per second so multi-month listings stay polite.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		BaseURL: defaultBaseURL,
		limiter: rate.NewLimiter(rate.Every(250*time.Millisecond), 4),
	}
}

// FetchByCoordinates fetches prayer times for the given date and coordinates.
func (c *Client) FetchByCoordinates(ctx context.Context, date time.Time, lat, lon float64, method, school int) (*Response, error) {
	endpoint := fmt.Sprintf("%s/timings/%s", c.BaseURL, date.Format("02-01-2006"))

	params := coordinateParams(lat, lon, method, school)

	var resp Response
	if err := c.doRequest(ctx, endpoint, params, &resp); err != nil {
		return nil, err
	}
	if resp.Code != http.StatusOK {
		return nil, fmt.Errorf("%w: code=%d status=%s", ErrUnavailable, resp.Code, resp.Status)
	}
	return &resp, nil
}

// FetchByCity fetches prayer times for the given date, city, and country.
func (c *Client) FetchByCity(ctx context.Context, date time.Time, city, country string, method, school int) (*Response, error) {
	endpoint := fmt.Sprintf("%s/timingsByCity/%s", c.BaseURL, date.Format("02-01-2006"))

	params := cityParams(city, country, method, school)

	var resp Response
	if err := c.doRequest(ctx, endpoint, params, &resp); err != nil {
		return nil, err
	}
	if resp.Code != http.StatusOK {
		return nil, fmt.Errorf("%w: code=%d status=%s", ErrUnavailable, resp.Code, resp.Status)
	}
	return &resp, nil
}

// FetchCalendarByCoordinates fetches a whole Gregorian month of timings.
func (c *Client) FetchCalendarByCoordinates(ctx context.Context, year int, month time.Month, lat, lon float64, method, school int) (*CalendarResponse, error) {
	endpoint := fmt.Sprintf("%s/calendar/%d/%d", c.BaseURL, year, int(month))

	var resp CalendarResponse
	if err := c.doRequest(ctx, endpoint, coordinateParams(lat, lon, method, school), &resp); err != nil {
		return nil, err
	}
	if resp.Code != http.StatusOK {
		return nil, fmt.Errorf("%w: code=%d status=%s", ErrUnavailable, resp.Code, resp.Status)
	}
	return &resp, nil
}

// FetchCalendarByCity fetches a whole Gregorian month of timings by city.
func (c *Client) FetchCalendarByCity(ctx context.Context, year int, month time.Month, city, country string, method, school int) (*CalendarResponse, error) {
	endpoint := fmt.Sprintf("%s/calendarByCity/%d/%d", c.BaseURL, year, int(month))

	var resp CalendarResponse
	if err := c.doRequest(ctx, endpoint, cityParams(city, country, method, school), &resp); err != nil {
		return nil, err
	}
	if resp.Code != http.StatusOK {
		return nil, fmt.Errorf("%w: code=%d status=%s", ErrUnavailable, resp.Code, resp.Status)
	}
	return &resp, nil
}

func coordinateParams(lat, lon float64, method, school int) url.Values {
	params := url.Values{}
	params.Set("latitude", strconv.FormatFloat(lat, 'f', 6, 64))
	params.Set("longitude", strconv.FormatFloat(lon, 'f', 6, 64))
	setMethodSchool(params, method, school)
	return params
}

func cityParams(city, country string, method, school int) url.Values {
	params := url.Values{}
	params.Set("city", city)
	params.Set("country", country)
	setMethodSchool(params, method, school)
	return params
}

// setMethodSchool only sends values the user chose; negative means let the
// API pick based on location.
func setMethodSchool(params url.Values, method, school int) {
	if method >= 0 {
		params.Set("method", strconv.Itoa(method))
	}
	if school >= 0 {
		params.Set("school", strconv.Itoa(school))
	}
}

func (c *Client) doRequest(ctx context.Context, endpoint string, params url.Values, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("API request cancelled: %w", err)
		}
	}

	reqURL := fmt.Sprintf("%s?%s", endpoint, params.Encode())
	reqID := uuid.NewString()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build API request: %w", err)
	}
	req.Header.Set("X-Request-ID", reqID)

	start := time.Now()
	logger.Debug("api request", "id", reqID, "url", reqURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Warn("api request failed", "id", reqID, "err", err)
		return fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	logger.Debug("api response", "id", reqID, "status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: API returned status %d: %s", ErrUnavailable, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode API response: %w", err)
	}
	return nil
}
