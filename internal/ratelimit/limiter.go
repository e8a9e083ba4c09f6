// Package ratelimit provides fixed-window request limiting keyed by client
// IP. State lives in a pluggable Store so multiple server instances can
// share a Redis backend; the in-process store is a single-instance fallback.
package ratelimit

import (
	"context"
	"fmt"
	"time"
)

// Config describes one rate limit: at most Limit requests per Window.
type Config struct {
	Limit  int
	Window time.Duration
}

func (c Config) validate() error {
	if c.Limit <= 0 {
		return fmt.Errorf("limit must be positive, got %d", c.Limit)
	}
	if c.Window <= 0 {
		return fmt.Errorf("window must be positive, got %v", c.Window)
	}
	return nil
}

// Store counts requests per key within a window.
type Store interface {
	// Incr increments the counter for key, starting a new window when none
	// is active, and returns the new count with the window deadline.
	Incr(ctx context.Context, key string, window time.Duration) (int, time.Time, error)
	Reset(ctx context.Context, key string) error
}

// Result reports the outcome of one Allow call.
type Result struct {
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// Allowed reports whether the request fit in the window.
func (r *Result) Allowed() bool {
	return r.Remaining >= 0
}

// RetryAfter returns the time until the window resets.
func (r *Result) RetryAfter() time.Duration {
	return time.Until(r.ResetAt)
}

// Limiter applies one Config against a Store.
type Limiter struct {
	store  Store
	config Config
}

// NewLimiter creates a fixed-window limiter.
func NewLimiter(store Store, config Config) (*Limiter, error) {
	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid rate limit config: %w", err)
	}
	return &Limiter{store: store, config: config}, nil
}

// Allow counts one request for key.
func (l *Limiter) Allow(ctx context.Context, key string) (*Result, error) {
	count, resetAt, err := l.store.Incr(ctx, key, l.config.Window)
	if err != nil {
		return nil, err
	}
	return &Result{
		Limit:     l.config.Limit,
		Remaining: l.config.Limit - count,
		ResetAt:   resetAt,
	}, nil
}
