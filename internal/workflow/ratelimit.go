package workflow

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter defines interface for rate limiting
type RateLimiter interface {
	// Wait blocks until the rate limiter allows the request
	Wait(ctx context.Context) error

	// Allow returns true if the request can proceed immediately
	Allow() bool

	// GetLimit returns current rate limit info
	GetLimit() RateLimitInfo

	// UpdateLimit updates the rate limit based on API response headers
	UpdateLimit(limit, remaining int, resetTime time.Time)
}

// RateLimitInfo represents current rate limit status
type RateLimitInfo struct {
	Limit     int       `json:"limit"`
	Remaining int       `json:"remaining"`
	ResetTime time.Time `json:"reset_time"`
}

// APIRateLimiter paces direct REST calls against the GitHub API
type APIRateLimiter struct {
	limiter   *rate.Limiter
	mu        sync.RWMutex
	limit     int
	remaining int
	resetTime time.Time
}

// NewAPIRateLimiter creates a limiter for authenticated GitHub API use.
// GitHub allows 5000 requests per hour; one per second keeps a batch
// reporting run far under that.
func NewAPIRateLimiter() *APIRateLimiter {
	return &APIRateLimiter{
		limiter:   rate.NewLimiter(rate.Limit(1.0), 5),
		limit:     5000,
		remaining: 5000,
		resetTime: time.Now().Add(time.Hour),
	}
}

// Wait blocks until the rate limiter allows the request
func (r *APIRateLimiter) Wait(ctx context.Context) error {
	return r.limiter.Wait(ctx)
}

// Allow returns true if the request can proceed immediately
func (r *APIRateLimiter) Allow() bool {
	return r.limiter.Allow()
}

// GetLimit returns current rate limit info
func (r *APIRateLimiter) GetLimit() RateLimitInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return RateLimitInfo{
		Limit:     r.limit,
		Remaining: r.remaining,
		ResetTime: r.resetTime,
	}
}

// UpdateLimit updates the rate limit based on API response headers
func (r *APIRateLimiter) UpdateLimit(limit, remaining int, resetTime time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.limit = limit
	r.remaining = remaining
	r.resetTime = resetTime

	// Adjust limiter based on remaining requests
	if remaining < 100 && time.Until(resetTime) > 10*time.Minute {
		r.limiter.SetLimit(rate.Limit(0.1)) // 1 request per 10 seconds
	} else if remaining < 1000 {
		r.limiter.SetLimit(rate.Limit(0.5)) // 1 request per 2 seconds
	} else {
		r.limiter.SetLimit(rate.Limit(1.0)) // 1 request per second
	}
}

// NoOpRateLimiter is a no-operation rate limiter for testing
type NoOpRateLimiter struct{}

// NewNoOpRateLimiter creates a no-op rate limiter
func NewNoOpRateLimiter() *NoOpRateLimiter {
	return &NoOpRateLimiter{}
}

// Wait does nothing for no-op limiter
func (r *NoOpRateLimiter) Wait(ctx context.Context) error {
	return nil
}

// Allow always returns true for no-op limiter
func (r *NoOpRateLimiter) Allow() bool {
	return true
}

// GetLimit returns unlimited rate limit info
func (r *NoOpRateLimiter) GetLimit() RateLimitInfo {
	return RateLimitInfo{
		Limit:     999999,
		Remaining: 999999,
		ResetTime: time.Now().Add(time.Hour),
	}
}

// UpdateLimit does nothing for no-op limiter
func (r *NoOpRateLimiter) UpdateLimit(limit, remaining int, resetTime time.Time) {
}
