// Package imagesearch looks up character images through the Google Custom Search JSON API.
package imagesearch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/tvrec/tvrec-server/internal/metrics"
)

const (
	defaultBaseURL = "https://www.googleapis.com/customsearch/v1"
	defaultTimeout = 10 * time.Second
	providerName   = "imagesearch"

	// Custom Search's free tier allows 100 queries a day; spread bursts out.
	defaultInterval = time.Second
	defaultBurst    = 4
)

// Sentinel errors for image search operations.
var (
	ErrDisabled    = errors.New("imagesearch: not configured")
	ErrRateLimited = errors.New("imagesearch: rate limited by server")
	ErrForbidden   = errors.New("imagesearch: forbidden")
	ErrServer      = errors.New("imagesearch: server error")
)

// Config configures a Client. An empty APIKey or EngineID disables lookups.
type Config struct {
	APIKey     string
	EngineID   string
	BaseURL    string
	HTTPClient *http.Client
	// Interval between requests once the burst is spent. Zero uses the default.
	Interval time.Duration
}

// Client queries Custom Search with searchType=image.
type Client struct {
	httpClient *http.Client
	apiKey     string
	engineID   string
	baseURL    string
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// NewClient creates an image search client.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	if cfg.Interval <= 0 {
		cfg.Interval = defaultInterval
	}
	return &Client{
		httpClient: httpClient,
		apiKey:     cfg.APIKey,
		engineID:   cfg.EngineID,
		baseURL:    cfg.BaseURL,
		limiter:    rate.NewLimiter(rate.Every(cfg.Interval), defaultBurst),
		logger:     logger,
	}
}

// Enabled reports whether credentials are configured.
func (c *Client) Enabled() bool {
	return c.apiKey != "" && c.engineID != ""
}

type searchResponse struct {
	Items []struct {
		Link  string `json:"link"`
		Title string `json:"title"`
	} `json:"items"`
}

// FirstImage returns the link of the first image result for query, "" when there are none.
func (c *Client) FirstImage(ctx context.Context, query string) (string, error) {
	if !c.Enabled() {
		return "", ErrDisabled
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return "", nil
	}

	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("cx", c.engineID)
	params.Set("q", query)
	params.Set("searchType", "image")
	params.Set("num", "1")
	params.Set("safe", "active")

	c.logger.Debug("image search request", "query", query)

	start := time.Now()
	link, err := c.search(ctx, params)
	metrics.RecordProviderRequest(providerName, "firstImage", time.Since(start), link == "", err)
	if err != nil {
		return "", fmt.Errorf("image search %q: %w", query, err)
	}
	return link, nil
}

func (c *Client) search(ctx context.Context, params url.Values) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", ErrRateLimited
	case resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusUnauthorized:
		return "", ErrForbidden
	case resp.StatusCode >= 500:
		return "", ErrServer
	default:
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("parse response: %w", err)
	}
	if len(parsed.Items) == 0 {
		return "", nil
	}
	return parsed.Items[0].Link, nil
}
