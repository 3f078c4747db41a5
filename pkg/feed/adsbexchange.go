package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultTimeout bounds each feed request
	DefaultTimeout = 10 * time.Second
)

// ADSBExchangeClient implements the Source interface for ADS-B Exchange
// style APIs (the /v2/reg/[registration] endpoint shape).
type ADSBExchangeClient struct {
	// baseURL is the API base URL (e.g., "https://adsbexchange.com/v2")
	baseURL string

	// apiKey is sent on each request when set
	apiKey string

	// httpClient is the HTTP client used for API requests
	httpClient *http.Client

	// rateLimiter enforces the minimum delay between feed calls
	rateLimiter *rate.Limiter
}

// ClientConfig contains configuration for the feed client.
type ClientConfig struct {
	BaseURL          string
	APIKey           string
	Timeout          time.Duration
	RateLimitSeconds float64
}

// NewADSBExchangeClient creates a new feed client.
func NewADSBExchangeClient(cfg ClientConfig) *ADSBExchangeClient {
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	// Convert minimum seconds between calls to a limiter (burst of 1)
	limit := rate.Inf
	if cfg.RateLimitSeconds > 0 {
		limit = rate.Limit(1.0 / cfg.RateLimitSeconds)
	}

	return &ADSBExchangeClient{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		rateLimiter: rate.NewLimiter(limit, 1),
	}
}

// ByRegistration fetches the current track for an aircraft registration.
// Uses the /reg/[registration] endpoint.
// Non-2xx responses and transport errors (including timeouts) are failures.
func (c *ADSBExchangeClient) ByRegistration(ctx context.Context, registration string) (*Snapshot, error) {
	// Apply rate limiting
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait cancelled: %w", err)
	}

	// Build API URL
	url := fmt.Sprintf("%s/reg/%s", c.baseURL, registration)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build feed request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("api-auth", c.apiKey)
	}

	// Make API request
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch track data: %w", err)
	}
	defer resp.Body.Close()

	// Check error status codes
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("feed returned status %d: %s", resp.StatusCode, string(body))
	}

	// Parse response
	var snapshot Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snapshot); err != nil {
		return nil, fmt.Errorf("failed to parse feed response: %w", err)
	}

	return &snapshot, nil
}

// Close cleanly shuts down the client.
// There are no persistent connections, so this is a no-op.
func (c *ADSBExchangeClient) Close() error {
	return nil
}

// AltitudeFeet extracts the barometric altitude in feet from a track.
// The "ground" sentinel maps to 0 feet. Returns false when the field is
// missing or has an unexpected shape.
func (t *Track) AltitudeFeet() (float64, bool) {
	switch v := t.AltBaro.(type) {
	case float64:
		return v, true
	case string:
		if v == "ground" {
			return 0, true
		}
		return 0, false
	default:
		return 0, false
	}
}

// HeadingDegrees returns the preferred heading for a track: true heading
// when broadcast, ground track otherwise. Returns false when neither is
// present.
func (t *Track) HeadingDegrees() (float64, bool) {
	if t.TrueHeading != nil {
		return *t.TrueHeading, true
	}
	if t.Track != nil {
		return *t.Track, true
	}
	return 0, false
}
