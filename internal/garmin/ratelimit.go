package garmin

import (
	"context"
	"sync"
	"time"
)

// Garmin does not publish rate limits or return usage headers, but
// aggressive polling gets accounts locked out. We self-impose a
// conservative budget: 60 requests per minute with a minimum gap
// between calls.

// RateLimiter throttles requests to the Connect API
type RateLimiter struct {
	mu sync.Mutex

	windowLimit    int
	windowUsage    int
	windowResetsAt time.Time

	minInterval time.Duration
	lastRequest time.Time
}

// NewRateLimiter creates a limiter with the self-imposed budget
func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		windowLimit:    60,
		windowResetsAt: time.Now().Add(time.Minute),
		minInterval:    300 * time.Millisecond,
	}
}

// Wait blocks until a request can be made without exceeding the budget
func (r *RateLimiter) Wait(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	if now.After(r.windowResetsAt) {
		r.windowUsage = 0
		r.windowResetsAt = now.Add(time.Minute)
	}

	if r.windowUsage >= r.windowLimit {
		waitTime := time.Until(r.windowResetsAt)
		r.mu.Unlock()
		select {
		case <-time.After(waitTime):
		case <-ctx.Done():
			r.mu.Lock()
			return ctx.Err()
		}
		r.mu.Lock()
		r.windowUsage = 0
		r.windowResetsAt = time.Now().Add(time.Minute)
	}

	elapsed := time.Since(r.lastRequest)
	if elapsed < r.minInterval {
		waitTime := r.minInterval - elapsed
		r.mu.Unlock()
		select {
		case <-time.After(waitTime):
		case <-ctx.Done():
			r.mu.Lock()
			return ctx.Err()
		}
		r.mu.Lock()
	}

	r.windowUsage++
	r.lastRequest = time.Now()

	return nil
}

// Remaining returns how many requests are left in the current window
func (r *RateLimiter) Remaining() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if time.Now().After(r.windowResetsAt) {
		return r.windowLimit
	}
	return r.windowLimit - r.windowUsage
}
