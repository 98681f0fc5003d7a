package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Client talks to the upstream podcast directory. Requests go through an
// outbound rate limiter so bursts of cache misses never hammer the
// directory.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	limiter *rate.Limiter
}

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = "https://podcast-api.netlify.app"
	}
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
		limiter:    rate.NewLimiter(rate.Every(100*time.Millisecond), 5),
	}
}

// ListShows fetches every show preview in the directory.
func (c *Client) ListShows(ctx context.Context) ([]Preview, error) {
	var out []Preview
	if err := c.get(ctx, c.BaseURL+"/shows", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetShow fetches the full detail record for one show.
func (c *Client) GetShow(ctx context.Context, showID string) (*Show, error) {
	if showID == "" {
		return nil, fmt.Errorf("showID required")
	}
	var out Show
	if err := c.get(ctx, c.BaseURL+"/id/"+url.PathEscape(showID), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) get(ctx context.Context, rawURL string, dst any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "castify/1.0")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("catalog: status %d body=%q", resp.StatusCode, string(b[:min(len(b), 200)]))
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return fmt.Errorf("catalog: decode error: %w body=%q", err, string(b[:min(len(b), 200)]))
	}
	return nil
}
