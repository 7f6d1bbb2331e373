package workflow

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/johnnynv/DocSentry/pkg/logger"
)

// HTTPClient calls the GitHub REST API directly with a personal access
// token. Every call waits on the rate limiter and makes one attempt.
type HTTPClient struct {
	config      ClientConfig
	httpClient  *http.Client
	rateLimiter RateLimiter
	baseURL     string
	logger      *logger.Entry
}

// NewHTTPClient creates a direct REST client
func NewHTTPClient(config ClientConfig, rateLimiter RateLimiter, parentLogger *logger.Entry) (*HTTPClient, error) {
	if config.Token == "" {
		return nil, &AuthError{Message: "a GitHub token is required for the http transport (set GITHUB_TOKEN)"}
	}

	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = "https://api.github.com"
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	userAgent := config.UserAgent
	if userAgent == "" {
		userAgent = "DocSentry/1.0"
	}
	config.Timeout = timeout
	config.UserAgent = userAgent

	clientLogger := parentLogger.WithFields(logger.Fields{
		"component": "workflow",
		"transport": "http",
		"base_url":  baseURL,
	})
	clientLogger.Debug("Initializing GitHub HTTP client")

	return &HTTPClient{
		config:      config,
		httpClient:  &http.Client{Timeout: timeout},
		rateLimiter: rateLimiter,
		baseURL:     baseURL,
		logger:      clientLogger,
	}, nil
}

// Call makes one GET request against the API and returns the body
func (c *HTTPClient) Call(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	target := c.baseURL + endpoint
	if len(params) > 0 {
		target = target + "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &APIError{Endpoint: endpoint, Message: err.Error()}
	}
	req.Header.Set("Authorization", "token "+c.config.Token)
	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", "application/vnd.github.v3+json")

	c.logger.WithEndpoint(endpoint).Debug("Making API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			c.logger.WithEndpoint(endpoint).Warn("API request timed out")
			return nil, &TimeoutError{Operation: "API request for " + endpoint, Timeout: c.config.Timeout}
		}
		return nil, &APIError{Endpoint: endpoint, Message: err.Error()}
	}
	defer resp.Body.Close()

	c.updateRateLimitFromHeaders(resp.Header)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{Endpoint: endpoint, Message: "failed to read response body: " + err.Error()}
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return body, nil
	case http.StatusUnauthorized:
		return nil, &AuthError{Message: "GitHub rejected the token (HTTP 401)"}
	case http.StatusForbidden:
		if resp.Header.Get("X-RateLimit-Remaining") == "0" {
			return nil, &RateLimitError{ResetTime: c.parseResetTime(resp.Header.Get("X-RateLimit-Reset"))}
		}
		return nil, &AuthError{Message: "the token lacks permission for " + endpoint + " (HTTP 403)"}
	case http.StatusNotFound:
		return nil, &APIError{StatusCode: resp.StatusCode, Endpoint: endpoint, Message: "not found"}
	case http.StatusTooManyRequests:
		return nil, &RateLimitError{ResetTime: c.parseResetTime(resp.Header.Get("X-RateLimit-Reset"))}
	default:
		return nil, &APIError{StatusCode: resp.StatusCode, Endpoint: endpoint, Message: excerpt(body)}
	}
}

// updateRateLimitFromHeaders updates the rate limiter based on response headers
func (c *HTTPClient) updateRateLimitFromHeaders(headers http.Header) {
	limitStr := headers.Get("X-RateLimit-Limit")
	remainingStr := headers.Get("X-RateLimit-Remaining")
	resetStr := headers.Get("X-RateLimit-Reset")

	if limitStr == "" || remainingStr == "" || resetStr == "" {
		return
	}
	limit, err := strconv.Atoi(limitStr)
	if err != nil {
		return
	}
	remaining, err := strconv.Atoi(remainingStr)
	if err != nil {
		return
	}
	resetUnix, err := strconv.ParseInt(resetStr, 10, 64)
	if err != nil {
		return
	}
	c.rateLimiter.UpdateLimit(limit, remaining, time.Unix(resetUnix, 0))
}

// parseResetTime parses the reset time from rate limit header
func (c *HTTPClient) parseResetTime(resetStr string) time.Time {
	if resetUnix, err := strconv.ParseInt(resetStr, 10, 64); err == nil {
		return time.Unix(resetUnix, 0)
	}
	return time.Now().Add(time.Hour)
}

func isTimeout(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}

func excerpt(body []byte) string {
	const max = 200
	s := strings.TrimSpace(string(body))
	if len(s) > max {
		return s[:max]
	}
	return s
}
