// Package workflow queries GitHub Actions run and job data for CI
// reporting. Calls go through either the gh CLI or a direct REST
// transport; results stay as raw JSON maps so field filtering and CSV
// reshaping see the real payload shapes.
package workflow

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/johnnynv/DocSentry/pkg/logger"
)

// APIClient executes one GitHub REST call and returns the raw response
// body. Implementations make exactly one attempt per call.
type APIClient interface {
	Call(ctx context.Context, endpoint string, params url.Values) ([]byte, error)
}

// Transport selects how API calls are made
type Transport string

const (
	TransportAuto Transport = "auto"
	TransportGH   Transport = "gh"
	TransportHTTP Transport = "http"
)

// ParseTransport parses a --transport flag value. An empty value
// selects automatic transport detection.
func ParseTransport(s string) (Transport, error) {
	switch Transport(strings.ToLower(strings.TrimSpace(s))) {
	case TransportAuto, "":
		return TransportAuto, nil
	case TransportGH:
		return TransportGH, nil
	case TransportHTTP:
		return TransportHTTP, nil
	default:
		return TransportAuto, fmt.Errorf("invalid transport %q (expected auto, gh or http)", s)
	}
}

// ClientConfig carries transport settings shared by both client kinds
type ClientConfig struct {
	Transport Transport     `json:"transport"`
	Token     string        `json:"-"`
	BaseURL   string        `json:"base_url,omitempty"`
	Timeout   time.Duration `json:"timeout"`
	UserAgent string        `json:"user_agent"`
}

// GetDefaultClientConfig returns default transport configuration
func GetDefaultClientConfig() ClientConfig {
	return ClientConfig{
		Transport: TransportAuto,
		Timeout:   30 * time.Second,
		UserAgent: "DocSentry/1.0",
	}
}

// NewClient creates the API client for the configured transport. Auto
// selection prefers the gh CLI when it is installed and authenticated
// and falls back to direct HTTP when a token is available.
func NewClient(ctx context.Context, config ClientConfig, parentLogger *logger.Entry) (APIClient, error) {
	switch config.Transport {
	case TransportGH:
		return NewGHClient(ctx, parentLogger)
	case TransportHTTP:
		return NewHTTPClient(config, NewAPIRateLimiter(), parentLogger)
	case TransportAuto, "":
		client, err := NewGHClient(ctx, parentLogger)
		if err == nil {
			return client, nil
		}
		if config.Token != "" {
			parentLogger.WithError(err).Debug("gh CLI unavailable, using HTTP transport")
			return NewHTTPClient(config, NewAPIRateLimiter(), parentLogger)
		}
		return nil, err
	default:
		return nil, fmt.Errorf("invalid transport %q (expected auto, gh or http)", config.Transport)
	}
}

// Transport errors

type CLINotFoundError struct {
	Err error
}

func (e *CLINotFoundError) Error() string {
	return "gh CLI not found. Install from https://cli.github.com/"
}

func (e *CLINotFoundError) Unwrap() error {
	return e.Err
}

type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}

type APIError struct {
	StatusCode int
	Endpoint   string
	Message    string
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("API request failed with HTTP %d for %s: %s", e.StatusCode, e.Endpoint, e.Message)
	}
	return fmt.Sprintf("API request failed for %s: %s", e.Endpoint, e.Message)
}

type TimeoutError struct {
	Operation string
	Timeout   time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s timed out after %s", e.Operation, e.Timeout)
}

type RateLimitError struct {
	ResetTime time.Time
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("API rate limit exceeded, resets at %s", e.ResetTime.Format(time.RFC3339))
}
