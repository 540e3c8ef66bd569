// Package tmdb is a client for The Movie Database v3 API: person search,
// combined credits, title search and cast credits.
package tmdb

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

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tvrec/tvrec-server/internal/metrics"
)

const (
	defaultBaseURL      = "https://api.themoviedb.org/3"
	defaultImageBaseURL = "https://image.tmdb.org/t/p/w500"
	defaultTimeout      = 10 * time.Second

	providerName = "tmdb"

	// Poster lookups are cosmetic and fan out per recommendation, so their
	// failures are counted apart from the lookups search depends on.
	breakerName       = "tmdb-api"
	posterBreakerName = "tmdb-posters"

	// Error bodies are only read for logging.
	maxErrorBody = 512
)

// Config configures a Client. Zero values fall back to TMDb defaults.
type Config struct {
	APIKey       string
	BaseURL      string
	ImageBaseURL string
	Timeout      time.Duration
	HTTPClient   *http.Client
}

// Client is a circuit-breaking TMDb API client.
type Client struct {
	http         *http.Client
	apiKey       string
	baseURL      string
	imageBaseURL string
	breaker      *gobreaker.CircuitBreaker[[]byte]
	posters      *gobreaker.CircuitBreaker[[]byte]
	logger       *slog.Logger
}

// New creates a TMDb client. It fails with ErrMissingAPIKey when no key is configured.
func New(cfg Config, logger *slog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.ImageBaseURL == "" {
		cfg.ImageBaseURL = defaultImageBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &Client{
		http:         httpClient,
		apiKey:       cfg.APIKey,
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		imageBaseURL: strings.TrimRight(cfg.ImageBaseURL, "/"),
		breaker:      newBreaker(breakerName, logger),
		posters:      newBreaker(posterBreakerName, logger),
		logger:       logger,
	}, nil
}

// newBreaker opens after five consecutive failures and lets one request through
// again after 30s. Lookup misses and caller cancellations do not count against
// the provider.
func newBreaker(name string, logger *slog.Logger) *gobreaker.CircuitBreaker[[]byte] {
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	return gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
			metrics.RecordBreakerTransition(name, from.String(), to.String())
		},
		IsSuccessful: func(err error) bool {
			return err == nil ||
				errors.Is(err, ErrNotFound) ||
				errors.Is(err, context.Canceled)
		},
	})
}

// doRequest executes a GET against path through the circuit breaker for op.
func (c *Client) doRequest(ctx context.Context, op, path string, query url.Values) ([]byte, error) {
	start := time.Now()

	cb := c.breaker
	if op == opPosterURL {
		cb = c.posters
	}

	body, err := cb.Execute(func() ([]byte, error) {
		return c.fetch(ctx, path, query)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		metrics.RecordProviderRejected(providerName, op)
		return nil, fmt.Errorf("%w: %w", ErrCircuitOpen, err)
	}

	metrics.RecordProviderRequest(providerName, op, time.Since(start), errors.Is(err, ErrNotFound), ignoreMiss(err))
	return body, err
}

func (c *Client) fetch(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if query == nil {
		query = url.Values{}
	}
	query.Set("api_key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "tvrec/1.0")

	// The query carries the api key; log the path only.
	c.logger.Debug("tmdb request", "path", path)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("read response: %w", err)
		}
		return body, nil
	}

	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, ErrUnauthorized
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, ErrRateLimited
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnprocessableEntity:
		return nil, ErrBadRequest
	case resp.StatusCode >= 500:
		return nil, ErrServer
	default:
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(snippet))
	}
}

func ignoreMiss(err error) error {
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}
