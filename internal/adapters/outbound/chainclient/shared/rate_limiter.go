package shared

import (
	"context"
	"sync"
	"time"
)

// RateLimiter enforces a minimum interval between outbound requests for one
// chain client instance. Concurrent callers reserve consecutive slots, so a
// burst of checks against one currency is serialized at the configured rate
// without blocking callers of other clients.
type RateLimiter struct {
	mu          sync.Mutex
	minInterval time.Duration
	nextAllowed time.Time
}

func NewRateLimiter(minInterval time.Duration) *RateLimiter {
	return &RateLimiter{minInterval: minInterval}
}

func (l *RateLimiter) Wait(ctx context.Context) error {
	if l.minInterval <= 0 {
		return nil
	}

	l.mu.Lock()
	now := time.Now()
	slot := l.nextAllowed
	if slot.Before(now) {
		slot = now
	}
	l.nextAllowed = slot.Add(l.minInterval)
	l.mu.Unlock()

	wait := time.Until(slot)
	if wait <= 0 {
		return nil
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
