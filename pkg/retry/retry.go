package retry

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"

	apperrors "github.com/Jeremy-Gitau/MediaSnap/pkg/errors"
	"github.com/Jeremy-Gitau/MediaSnap/pkg/logger"
)

type Config struct {
	// MaxAttempts is the total number of tries, including the first one.
	MaxAttempts     uint64
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Multiplier      float64

	// IsRetryable decides whether a failure is worth another attempt.
	// Defaults to the transient-network classification.
	IsRetryable func(error) bool
}

func DefaultConfig() Config {
	return Config{
		MaxAttempts:     3,
		InitialInterval: 2 * time.Second,
		MaxInterval:     30 * time.Second,
		Multiplier:      2,
		IsRetryable:     apperrors.IsRetryable,
	}
}

// Do runs the operation under the retry policy. Retryable failures are
// re-attempted with exponential backoff up to MaxAttempts total tries;
// non-retryable failures propagate immediately. An exhausted budget returns
// the last failure wrapped with the attempt count.
func Do(ctx context.Context, log logger.Logger, operationName string, operation func() error, cfg Config) error {
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = 1
	}
	if cfg.IsRetryable == nil {
		cfg.IsRetryable = apperrors.IsRetryable
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = cfg.InitialInterval
	bo.MaxInterval = cfg.MaxInterval
	bo.Multiplier = cfg.Multiplier
	bo.RandomizationFactor = 0
	bo.Reset()

	retryable := backoff.WithMaxRetries(bo, cfg.MaxAttempts-1)
	retryableWithContext := backoff.WithContext(retryable, ctx)

	var attempts uint64
	wrapped := func() error {
		attempts++
		err := operation()
		if err == nil {
			return nil
		}
		if !cfg.IsRetryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	notify := func(err error, t time.Duration) {
		log.Warn(
			"Operation failed, retrying...",
			"operation", operationName,
			"error", err,
			"next_attempt_in", t.Round(time.Millisecond).String(),
		)
	}

	err := backoff.RetryNotify(wrapped, retryableWithContext, notify)
	if err != nil && attempts >= cfg.MaxAttempts && cfg.IsRetryable(err) {
		return fmt.Errorf("%s failed after %d attempts: %w", operationName, attempts, err)
	}
	return err
}
