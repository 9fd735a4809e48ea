package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"
)

var feb28 = time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)

// sampleResponse returns a valid Al Adhan API response for testing.
func sampleResponse() Response {
	return Response{
		Code:   200,
		Status: "OK",
		Data:   sampleData(),
	}
}

func sampleData() Data {
	return Data{
		Timings: Timings{
			Fajr:       "05:17",
			Sunrise:    "06:48",
			Dhuhr:      "12:13",
			Asr:        "15:02",
			Sunset:     "17:39",
			Maghrib:    "17:39",
			Isha:       "19:10",
			Imsak:      "05:07",
			Midnight:   "00:14",
			Firstthird: "22:02",
			Lastthird:  "02:25",
		},
		Date: DateInfo{Readable: "28 Feb 2026", Timestamp: "1772262000"},
		Meta: Meta{
			Latitude:  21.4225,
			Longitude: 39.8262,
			Timezone:  "Asia/Riyadh",
			Method:    MethodInfo{ID: 4, Name: "Umm Al-Qura University, Makkah"},
			School:    "STANDARD",
		},
	}
}

// request is what the fake server saw.
type request struct {
	path  string
	query url.Values
}

// newServer answers every request with body and records what it was asked.
func newServer(t *testing.T, status int, body any) (*Client, *[]request) {
	t.Helper()
	var seen []request
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, request{path: r.URL.Path, query: r.URL.Query()})
		if status != http.StatusOK {
			http.Error(w, "boom", status)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		switch b := body.(type) {
		case string:
			w.Write([]byte(b))
		default:
			json.NewEncoder(w).Encode(b)
		}
	}))
	t.Cleanup(server.Close)

	c := NewClient()
	c.BaseURL = server.URL
	return c, &seen
}

func TestNewClient(t *testing.T) {
	c := NewClient()
	if c.BaseURL != defaultBaseURL {
		t.Errorf("BaseURL = %q, want %q", c.BaseURL, defaultBaseURL)
	}
	if c.limiter == nil {
		t.Error("client should be rate limited")
	}
}

func TestFetchTimings(t *testing.T) {
	tests := []struct {
		name      string
		fetch     func(*Client) (*Response, error)
		wantPath  string
		wantQuery map[string]string
	}{
		{
			name: "coordinates",
			fetch: func(c *Client) (*Response, error) {
				return c.FetchByCoordinates(context.Background(), feb28, 21.4225, 39.8262, 4, 1)
			},
			wantPath:  "/timings/28-02-2026",
			wantQuery: map[string]string{"latitude": "21.422500", "longitude": "39.826200", "method": "4", "school": "1"},
		},
		{
			name: "city",
			fetch: func(c *Client) (*Response, error) {
				return c.FetchByCity(context.Background(), feb28, "Mecca", "Saudi Arabia", 0, 0)
			},
			wantPath:  "/timingsByCity/28-02-2026",
			wantQuery: map[string]string{"city": "Mecca", "country": "Saudi Arabia", "method": "0", "school": "0"},
		},
		{
			name: "api picks method",
			fetch: func(c *Client) (*Response, error) {
				return c.FetchByCoordinates(context.Background(), feb28, 1, 2, -1, -1)
			},
			wantPath:  "/timings/28-02-2026",
			wantQuery: map[string]string{"method": "", "school": ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, seen := newServer(t, http.StatusOK, sampleResponse())

			resp, err := tt.fetch(c)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if resp.Data.Timings.Asr != "15:02" || resp.Data.Meta.Timezone != "Asia/Riyadh" {
				t.Errorf("decoded response = %+v", resp.Data)
			}

			if len(*seen) != 1 {
				t.Fatalf("server saw %d requests, want 1", len(*seen))
			}
			got := (*seen)[0]
			if got.path != tt.wantPath {
				t.Errorf("path = %q, want %q", got.path, tt.wantPath)
			}
			for k, want := range tt.wantQuery {
				if v := got.query.Get(k); v != want {
					t.Errorf("query %s = %q, want %q", k, v, want)
				}
			}
		})
	}
}

func TestFetchCalendar(t *testing.T) {
	days := make([]Data, 28)
	for i := range days {
		days[i] = sampleData()
	}
	body := CalendarResponse{Code: 200, Status: "OK", Data: days}

	tests := []struct {
		name     string
		fetch    func(*Client) (*CalendarResponse, error)
		wantPath string
		wantKey  string
	}{
		{
			name: "coordinates",
			fetch: func(c *Client) (*CalendarResponse, error) {
				return c.FetchCalendarByCoordinates(context.Background(), 2026, time.February, 21.4225, 39.8262, 3, 0)
			},
			wantPath: "/calendar/2026/2",
			wantKey:  "latitude",
		},
		{
			name: "city",
			fetch: func(c *Client) (*CalendarResponse, error) {
				return c.FetchCalendarByCity(context.Background(), 2026, time.February, "Mecca", "Saudi Arabia", 3, 0)
			},
			wantPath: "/calendarByCity/2026/2",
			wantKey:  "city",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, seen := newServer(t, http.StatusOK, body)

			resp, err := tt.fetch(c)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(resp.Data) != 28 {
				t.Errorf("got %d days, want 28", len(resp.Data))
			}
			got := (*seen)[0]
			if got.path != tt.wantPath {
				t.Errorf("path = %q, want %q", got.path, tt.wantPath)
			}
			if got.query.Get(tt.wantKey) == "" || got.query.Get("method") != "3" {
				t.Errorf("query = %v", got.query)
			}
		})
	}
}

func TestFetch_Failures(t *testing.T) {
	tests := []struct {
		name            string
		status          int
		body            any
		wantUnavailable bool
		wantErr         string
	}{
		{"http 500", http.StatusInternalServerError, nil, true, "status 500"},
		{"http 429", http.StatusTooManyRequests, nil, true, "status 429"},
		{"api error code", http.StatusOK, Response{Code: 400, Status: "Bad Request"}, true, "code=400"},
		{"invalid json", http.StatusOK, "{not json", false, "decode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newServer(t, tt.status, tt.body)

			_, err := c.FetchByCity(context.Background(), feb28, "Mecca", "Saudi Arabia", 4, 0)
			if err == nil {
				t.Fatal("expected error")
			}
			if errors.Is(err, ErrUnavailable) != tt.wantUnavailable {
				t.Errorf("errors.Is(err, ErrUnavailable) = %v, want %v (err %v)", !tt.wantUnavailable, tt.wantUnavailable, err)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("err = %v, want it to mention %q", err, tt.wantErr)
			}

			if _, err := c.FetchCalendarByCity(context.Background(), 2026, time.February, "Mecca", "Saudi Arabia", 4, 0); err == nil {
				t.Error("calendar: expected error")
			}
		})
	}
}

func TestFetch_ConnectionRefused(t *testing.T) {
	c := NewClient()
	c.BaseURL = "http://127.0.0.1:1"

	if _, err := c.FetchByCoordinates(context.Background(), feb28, 0, 0, -1, -1); err == nil {
		t.Fatal("expected error for refused connection")
	}
}

func TestFetch_SendsRequestID(t *testing.T) {
	var got string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("X-Request-ID")
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(sampleResponse())
	}))
	defer server.Close()

	c := NewClient()
	c.BaseURL = server.URL

	if _, err := c.FetchByCity(context.Background(), feb28, "London", "UK", -1, -1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 36 {
		t.Errorf("X-Request-ID = %q, want a UUID", got)
	}
}

func TestFetch_CancelledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should not reach the server")
	}))
	defer server.Close()

	c := NewClient()
	c.BaseURL = server.URL

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := c.FetchByCoordinates(ctx, feb28, 0, 0, -1, -1); err == nil {
		t.Fatal("expected error for cancelled context, got nil")
	}
}
