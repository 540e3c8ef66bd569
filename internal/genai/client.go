// Package genai is a prompt-in, text-out client for OpenAI-compatible chat
// completion endpoints. The defaults target Gemini's compatibility endpoint.
package genai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/tvrec/tvrec-server/internal/metrics"
)

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"
	DefaultModel   = "gemini-2.0-flash"
	defaultTimeout = 45 * time.Second

	requestIDHeader = "X-Request-Id"
)

// Sentinel errors for generation.
var (
	ErrMissingAPIKey = errors.New("genai: api key is required")
	ErrUnauthorized  = errors.New("genai: unauthorized")
	ErrRateLimited   = errors.New("genai: rate limited by server")
	ErrServer        = errors.New("genai: server error")
	ErrEmptyResponse = errors.New("genai: empty response")
)

// Error carries the request id of a failed call.
type Error struct {
	RequestID string
	Status    int // 0 for transport failures
	Err       error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("genai request %s (status %d): %v", e.RequestID, e.Status, e.Err)
	}
	return fmt.Sprintf("genai request %s: %v", e.RequestID, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Config holds configuration for the client.
type Config struct {
	APIKey     string
	BaseURL    string        // default DefaultBaseURL
	Model      string        // default DefaultModel
	Timeout    time.Duration // HTTP timeout
	HTTPClient *http.Client  // optional (tests)
}

// Client generates text with a single chat completion per call. It never retries.
type Client struct {
	client openai.Client
	model  string
	logger *slog.Logger
}

// NewClient creates a generative-text client.
func NewClient(cfg Config, logger *slog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	client := openai.NewClient(
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(cfg.BaseURL),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(0),
	)

	return &Client{client: client, model: cfg.Model, logger: logger}, nil
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.model
}

// Generate sends system and prompt as one chat turn and returns the first
// choice's text.
func (c *Client) Generate(ctx context.Context, system, prompt string) (string, error) {
	requestID := uuid.NewString()

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if system != "" {
		messages = append(messages, openai.SystemMessage(system))
	}
	messages = append(messages, openai.UserMessage(prompt))

	c.logger.Debug("genai request",
		"request_id", requestID,
		"model", c.model,
		"prompt_chars", len(prompt),
	)

	start := time.Now()
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(c.model),
		Messages: messages,
	}, option.WithHeader(requestIDHeader, requestID))
	metrics.RecordGenAIRequest(time.Since(start))
	if err != nil {
		return "", mapError(requestID, err)
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", &Error{RequestID: requestID, Err: ErrEmptyResponse}
	}

	c.logger.Debug("genai response",
		"request_id", requestID,
		"finish_reason", resp.Choices[0].FinishReason,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return resp.Choices[0].Message.Content, nil
}

func mapError(requestID string, err error) error {
	var apiErr *openai.Error
	if !errors.As(err, &apiErr) {
		return &Error{RequestID: requestID, Err: err}
	}

	var sentinel error
	switch {
	case apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden:
		sentinel = ErrUnauthorized
	case apiErr.StatusCode == http.StatusTooManyRequests:
		sentinel = ErrRateLimited
	case apiErr.StatusCode >= 500:
		sentinel = ErrServer
	default:
		sentinel = fmt.Errorf("unexpected status %d", apiErr.StatusCode)
	}
	if apiErr.Message != "" {
		sentinel = fmt.Errorf("%w: %s", sentinel, apiErr.Message)
	}
	return &Error{RequestID: requestID, Status: apiErr.StatusCode, Err: sentinel}
}
