package ratelimit

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

// Limiter throttles outgoing requests to the remote endpoint.
type Limiter interface {
	// Acquire blocks until the minimum inter-request interval since the last
	// permitted request has elapsed, then records a new permit and returns.
	// It returns early only when the context is cancelled.
	Acquire(ctx context.Context) error
}

// IntervalLimiter enforces a jittered minimum spacing between permits. All
// timing decisions go through a single mutex-guarded slot: a caller reserves
// its window under the lock and sleeps outside it, so two concurrent callers
// never compute overlapping windows.
type IntervalLimiter struct {
	baseDelay time.Duration
	jitter    float64

	mu         sync.Mutex
	nextPermit time.Time
	count      int
}

var _ Limiter = (*IntervalLimiter)(nil)

// NewIntervalLimiter creates a limiter with the given base delay and jitter
// fraction. jitter 0.2 means each window is base * (1 ± 0.2).
func NewIntervalLimiter(baseDelay time.Duration, jitter float64) *IntervalLimiter {
	return &IntervalLimiter{
		baseDelay: baseDelay,
		jitter:    jitter,
	}
}

func (l *IntervalLimiter) Acquire(ctx context.Context) error {
	l.mu.Lock()
	now := time.Now()

	wakeAt := l.nextPermit
	if wakeAt.Before(now) {
		wakeAt = now
	}

	// Reserve the next window before releasing the lock.
	l.nextPermit = wakeAt.Add(l.delay())
	l.count++
	l.mu.Unlock()

	wait := time.Until(wakeAt)
	if wait <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RequestCount returns how many permits have been handed out.
func (l *IntervalLimiter) RequestCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.count
}

func (l *IntervalLimiter) delay() time.Duration {
	if l.jitter <= 0 {
		return l.baseDelay
	}
	factor := 1 + (rand.Float64()*2-1)*l.jitter
	return time.Duration(float64(l.baseDelay) * factor)
}
