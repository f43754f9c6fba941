package graph

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Default rate limit, kept well below Graph's per-app throttling thresholds.
const (
	DefaultRequestsPerSecond = 8.0
	DefaultBurstSize         = 10
)

// RateLimitConfig holds rate limiting configuration for the Graph client.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate limit.
	RequestsPerSecond float64
	// BurstSize is the maximum burst size.
	BurstSize int
}

// rateLimiter wraps a token bucket with a backoff window driven by 429
// responses and their Retry-After headers.
type rateLimiter struct {
	mu      sync.Mutex
	limiter *rate.Limiter
	retryAt time.Time
}

func newRateLimiter(cfg RateLimitConfig) *rateLimiter {
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = DefaultRequestsPerSecond
	}
	if cfg.BurstSize <= 0 {
		cfg.BurstSize = DefaultBurstSize
	}
	return &rateLimiter{
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.BurstSize),
	}
}

// wait blocks until a request can be made without exceeding the rate limit,
// honouring any backoff window from a previous 429.
func (r *rateLimiter) wait(ctx context.Context) error {
	r.mu.Lock()
	retryAt := r.retryAt
	r.mu.Unlock()

	if time.Now().Before(retryAt) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Until(retryAt)):
		}
	}

	return r.limiter.Wait(ctx)
}

// recordThrottle records a 429 and sets the backoff window.
func (r *rateLimiter) recordThrottle(retryAfterSeconds int) {
	if retryAfterSeconds <= 0 {
		retryAfterSeconds = 30
	}
	r.mu.Lock()
	r.retryAt = time.Now().Add(time.Duration(retryAfterSeconds) * time.Second)
	r.mu.Unlock()
}
