package trending

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

const defaultFeedURL = "https://raw.githubusercontent.com/isboyjc/github-trending-api/main/data/daily/all.json"

var (
	// ErrUnavailable indicates the feed could not be reached or returned
	// a non-success status.
	ErrUnavailable = errors.New("trending feed unavailable")

	// ErrMalformed indicates the feed responded but the payload did not
	// have the expected shape.
	ErrMalformed = errors.New("trending feed malformed")
)

// Client fetches the daily trending list from the remote feed.
type Client struct {
	httpClient *http.Client
	feedURL    string
}

// Config holds configuration for the trending client.
type Config struct {
	FeedURL string
}

// NewClient creates a new trending feed client.
func NewClient(cfg Config) *Client {
	feedURL := cfg.FeedURL
	if feedURL == "" {
		feedURL = defaultFeedURL
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: 5 * time.Minute,
		},
		feedURL: feedURL,
	}
}

// feedResponse is the upstream payload. Items is a pointer so a payload
// that renames or drops the top-level list field is detectable.
type feedResponse struct {
	Items *[]Item `json:"items"`
}

// Fetch retrieves today's trending repositories. A single attempt is made;
// the caller decides whether a failed run is fatal.
func (c *Client) Fetch(ctx context.Context) ([]Item, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var feed feedResponse
	if err := json.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	if feed.Items == nil {
		return nil, fmt.Errorf("%w: missing items field", ErrMalformed)
	}

	slog.Debug("fetched trending feed", "count", len(*feed.Items))
	return *feed.Items, nil
}
