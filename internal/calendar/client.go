package calendar

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"github.com/arogyahq/booking-api/internal/config"
	"github.com/arogyahq/booking-api/internal/model"
)

// Client fetches the provider's busy slot labels from the connected external
// calendar. Responses are memoized briefly so a month-grid evaluation does
// not hammer the calendar API with thirty near-simultaneous requests.
//
// Connection state is a per-request value, never client state: two queries
// with different states are fully independent.
type Client struct {
	baseURL string
	http    *http.Client
	cache   *cache.Cache
	logger  zerolog.Logger
}

type busyResponse struct {
	Busy []string `json:"busy"`
}

func NewClient(cfg config.CalendarConfig, logger zerolog.Logger) *Client {
	ttl := time.Duration(cfg.CacheTTLSec) * time.Second
	return &Client{
		baseURL: cfg.BaseURL,
		http: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
		cache:  cache.New(ttl, 2*ttl),
		logger: logger.With().Str("client", "calendar").Logger(),
	}
}

// BusySlots returns the busy slot labels for a date, e.g. ["14:00", "14:30"].
// A disconnected calendar yields no conflicts.
func (c *Client) BusySlots(ctx context.Context, state model.CalendarConnectionState, date time.Time) ([]string, error) {
	if !state.Connected {
		return nil, nil
	}

	key := state.CalendarID + "|" + date.Format("2006-01-02")
	if cached, ok := c.cache.Get(key); ok {
		return cached.([]string), nil
	}

	endpoint := fmt.Sprintf("%s/calendars/%s/busy?date=%s",
		c.baseURL,
		url.PathEscape(state.CalendarID),
		date.Format("2006-01-02"),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build calendar request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calendar request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("calendar returned status %d", resp.StatusCode)
	}

	var body busyResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode calendar response: %w", err)
	}

	c.cache.Set(key, body.Busy, cache.DefaultExpiration)
	c.logger.Debug().Str("date", date.Format("2006-01-02")).Int("busy", len(body.Busy)).Msg("fetched calendar busy slots")
	return body.Busy, nil
}
