package provider

import (
	"context"
	"sync"
	"time"
)

// RateLimiter is a token bucket shared by all calls to one upstream.
type RateLimiter struct {
	mu       sync.Mutex
	tokens   int
	capacity int
	every    time.Duration
	last     time.Time
	now      func() time.Time
}

// NewRateLimiter allows a burst of capacity calls and adds one token per every.
func NewRateLimiter(capacity int, every time.Duration) *RateLimiter {
	if capacity < 1 {
		capacity = 1
	}
	return &RateLimiter{
		tokens:   capacity,
		capacity: capacity,
		every:    every,
		last:     time.Now(),
		now:      time.Now,
	}
}

// PerMinute spreads n calls evenly over a minute with a burst of n.
func PerMinute(n int) *RateLimiter {
	if n < 1 {
		n = 1
	}
	return NewRateLimiter(n, time.Minute/time.Duration(n))
}

// Wait blocks until a token is available or ctx is done.
func (r *RateLimiter) Wait(ctx context.Context) error {
	for {
		delay := r.take()
		if delay == 0 {
			return nil
		}
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// take consumes a token, or returns how long until the next one.
func (r *RateLimiter) take() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if added := int(now.Sub(r.last) / r.every); added > 0 {
		r.tokens = min(r.capacity, r.tokens+added)
		r.last = r.last.Add(time.Duration(added) * r.every)
	}
	if r.tokens > 0 {
		r.tokens--
		return 0
	}
	if wait := r.every - now.Sub(r.last); wait > 0 {
		return wait
	}
	return time.Millisecond
}
