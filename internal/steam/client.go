// Package steam talks to the Steam storefront and Web API endpoints the
// enrichment pipeline depends on: bulk app listing, store search, app
// details and review summaries.
package steam

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	vaporerrors "github.com/lepinkainen/vapor/internal/errors"
	"github.com/lepinkainen/vapor/internal/ratelimit"
)

const (
	defaultStoreBaseURL = "https://store.steampowered.com"
	defaultAPIBaseURL   = "https://api.steampowered.com"

	// Steam accepts roughly 10 requests per second before throttling
	defaultRequestsPerSecond = 10

	defaultTimeout    = 30 * time.Second
	defaultMaxRetries = 3
)

// ErrAppUnavailable marks an appdetails response with success=false
// (removed, region-locked or otherwise hidden games). Callers treat it as
// a per-item failure, not a transport error.
var ErrAppUnavailable = errors.New("app unavailable in store")

// Client issues rate-limited, retrying HTTP requests against the storefront.
type Client struct {
	httpClient   *http.Client
	limiter      *ratelimit.Limiter
	storeBaseURL string
	apiBaseURL   string
	maxRetries   int
}

// Option configures a Client.
type Option func(*Client)

// WithStoreBaseURL overrides the storefront base URL (used by tests).
func WithStoreBaseURL(baseURL string) Option {
	return func(c *Client) { c.storeBaseURL = baseURL }
}

// WithAPIBaseURL overrides the Web API base URL (used by tests).
func WithAPIBaseURL(baseURL string) Option {
	return func(c *Client) { c.apiBaseURL = baseURL }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

// WithMaxRetries overrides the retry budget for transient failures.
func WithMaxRetries(n int) Option {
	return func(c *Client) { c.maxRetries = n }
}

// NewClient creates a storefront client with sane defaults.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient:   &http.Client{Timeout: defaultTimeout},
		limiter:      ratelimit.New("steam", defaultRequestsPerSecond),
		storeBaseURL: defaultStoreBaseURL,
		apiBaseURL:   defaultAPIBaseURL,
		maxRetries:   defaultMaxRetries,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// get fetches a URL with rate limiting and a bounded retry on transient
// failures (transport errors, 429 and 5xx responses).
func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt) * 500 * time.Millisecond
			slog.Debug("Retrying request", "url", rawURL, "attempt", attempt, "backoff", backoff)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		body, retryable, err := c.getOnce(ctx, rawURL)
		if err == nil {
			return body, nil
		}
		if !retryable {
			return nil, err
		}
		lastErr = err
	}

	return nil, fmt.Errorf("request failed after %d retries: %w", c.maxRetries, lastErr)
}

func (c *Client) getOnce(ctx context.Context, rawURL string) (body []byte, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("failed to fetch %s: %w", rawURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, fmt.Errorf("failed to read response body: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return body, false, nil
	case resp.StatusCode == http.StatusTooManyRequests:
		retryAfter := parseRetryAfter(resp.Header.Get("Retry-After"))
		return nil, true, vaporerrors.NewRateLimitErrorWithRetry("steam rate limit reached", retryAfter)
	case resp.StatusCode >= 500:
		return nil, true, fmt.Errorf("steam returned status %d: %s", resp.StatusCode, string(body))
	default:
		return nil, false, fmt.Errorf("steam returned status %d: %s", resp.StatusCode, string(body))
	}
}

func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}
	seconds, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return time.Duration(seconds) * time.Second
}

// AppList fetches the full {name, appid} catalog from the Web API.
func (c *Client) AppList(ctx context.Context) ([]AppEntry, error) {
	listURL := c.apiBaseURL + "/ISteamApps/GetAppList/v0002/"

	body, err := c.get(ctx, listURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch app list: %w", err)
	}

	var listResp appListResponse
	if err := json.Unmarshal(body, &listResp); err != nil {
		return nil, fmt.Errorf("failed to parse app list response: %w", err)
	}

	return listResp.AppList.Apps, nil
}

// SearchPage fetches the raw HTML of a store search for the given term.
func (c *Client) SearchPage(ctx context.Context, term string) (string, error) {
	searchURL := c.storeBaseURL + "/search/?term=" + url.QueryEscape(term)

	body, err := c.get(ctx, searchURL)
	if err != nil {
		return "", fmt.Errorf("failed to fetch search page: %w", err)
	}

	return string(body), nil
}

// AppDetails fetches the appdetails payload for one identifier.
// Returns ErrAppUnavailable when the store reports success=false.
func (c *Client) AppDetails(ctx context.Context, appID int) (*AppDetails, error) {
	detailsURL := fmt.Sprintf("%s/api/appdetails?appids=%d", c.storeBaseURL, appID)

	body, err := c.get(ctx, detailsURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch app details: %w", err)
	}

	// The response is keyed by the appid as a string
	var result map[string]struct {
		Success bool       `json:"success"`
		Data    AppDetails `json:"data"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse app details response: %w", err)
	}

	appData, exists := result[strconv.Itoa(appID)]
	if !exists {
		return nil, fmt.Errorf("app details response missing data for appid %d", appID)
	}
	if !appData.Success {
		return nil, fmt.Errorf("appid %d: %w", appID, ErrAppUnavailable)
	}

	appData.Data.AppID = appID
	return &appData.Data, nil
}

// AppReviews fetches the review summary for one identifier.
// A response without a query_summary section is an error: there is no safe
// default ratio to substitute.
func (c *Client) AppReviews(ctx context.Context, appID int) (*ReviewSummary, error) {
	reviewsURL := fmt.Sprintf("%s/appreviews/%d?json=1&num_per_page=0&language=all", c.storeBaseURL, appID)

	body, err := c.get(ctx, reviewsURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch reviews: %w", err)
	}

	var reviewsResp reviewsResponse
	if err := json.Unmarshal(body, &reviewsResp); err != nil {
		return nil, fmt.Errorf("failed to parse reviews response: %w", err)
	}

	if reviewsResp.QuerySummary == nil {
		return nil, fmt.Errorf("reviews response for appid %d missing query_summary", appID)
	}

	return reviewsResp.QuerySummary, nil
}
