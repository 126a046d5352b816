package llm

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// rateLimiter is a token bucket refilled lazily on each acquire.
type rateLimiter struct {
	lastRefill time.Time
	now        func() time.Time
	tokens     float64
	capacity   float64
	perToken   time.Duration
	mu         sync.Mutex
}

// newRateLimiter allows requestsPerMinute calls per minute with bursts up to
// the same number.
func newRateLimiter(requestsPerMinute int) *rateLimiter {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 60
	}

	return &rateLimiter{
		tokens:     float64(requestsPerMinute),
		capacity:   float64(requestsPerMinute),
		perToken:   time.Minute / time.Duration(requestsPerMinute),
		lastRefill: time.Now(),
		now:        time.Now,
	}
}

// wait blocks until a token is available or ctx is done.
func (rl *rateLimiter) wait(ctx context.Context) error {
	for {
		delay, ok := rl.reserve()
		if ok {
			return nil
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("rate limiter canceled: %w", ctx.Err())
		case <-timer.C:
		}
	}
}

func (rl *rateLimiter) tryAcquire() bool {
	_, ok := rl.reserve()
	return ok
}

// reserve takes a token if one is available, otherwise it reports how long
// until the next one.
func (rl *rateLimiter) reserve() (time.Duration, bool) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if elapsed := now.Sub(rl.lastRefill); elapsed > 0 {
		rl.tokens += float64(elapsed) / float64(rl.perToken)
		if rl.tokens > rl.capacity {
			rl.tokens = rl.capacity
		}
		rl.lastRefill = now
	}

	if rl.tokens >= 1 {
		rl.tokens--
		return 0, true
	}

	missing := 1 - rl.tokens
	return time.Duration(missing * float64(rl.perToken)), false
}

func (rl *rateLimiter) reset() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.tokens = rl.capacity
	rl.lastRefill = rl.now()
}
