package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireEnforcesSpacing(t *testing.T) {
	base := 50 * time.Millisecond
	l := NewIntervalLimiter(base, 0)

	start := time.Now()
	for i := 0; i < 4; i++ {
		require.NoError(t, l.Acquire(context.Background()))
	}
	elapsed := time.Since(start)

	// Three full windows must pass between four permits.
	assert.GreaterOrEqual(t, elapsed, 3*base)
	assert.Equal(t, 4, l.RequestCount())
}

func TestAcquireJitterStaysWithinBounds(t *testing.T) {
	base := 40 * time.Millisecond
	jitter := 0.5
	l := NewIntervalLimiter(base, jitter)

	require.NoError(t, l.Acquire(context.Background()))
	start := time.Now()
	require.NoError(t, l.Acquire(context.Background()))
	elapsed := time.Since(start)

	assert.GreaterOrEqual(t, elapsed, time.Duration(float64(base)*(1-jitter)))
	// Generous ceiling; scheduling delays must not fail the test.
	assert.Less(t, elapsed, 10*base)
}

func TestAcquireSerializesConcurrentCallers(t *testing.T) {
	base := 30 * time.Millisecond
	l := NewIntervalLimiter(base, 0)

	const callers = 5
	var wg sync.WaitGroup
	start := time.Now()
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, l.Acquire(context.Background()))
		}()
	}
	wg.Wait()

	// Windows never overlap, so N concurrent callers still take N-1 windows.
	assert.GreaterOrEqual(t, time.Since(start), (callers-1)*base)
	assert.Equal(t, callers, l.RequestCount())
}

func TestAcquireCancelledWhileWaiting(t *testing.T) {
	l := NewIntervalLimiter(time.Hour, 0)

	// First permit is immediate, the second would wait an hour.
	require.NoError(t, l.Acquire(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- l.Acquire(ctx)
	}()

	cancel()
	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Acquire did not return after cancellation")
	}
}

func TestZeroJitterDelayIsExact(t *testing.T) {
	l := NewIntervalLimiter(time.Second, 0)
	for i := 0; i < 10; i++ {
		assert.Equal(t, time.Second, l.delay())
	}
}
