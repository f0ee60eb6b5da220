// Package retry provides exponential backoff for transient failures.
//
// agentcore uses it to wait for a freshly spawned core agent process to
// open its listening socket (internal/lifecycle), rather than failing
// setup on the first unlucky probe.
//
//	err := retry.Do(ctx, retry.Config{
//	    MaxRetries:     10,
//	    InitialBackoff: 50 * time.Millisecond,
//	    MaxBackoff:     500 * time.Millisecond,
//	    Jitter:         0.2,
//	}, func() error {
//	    if !probe() {
//	        return ErrNotYetListening
//	    }
//	    return nil
//	}, func(err error) bool { return true })
package retry

import (
	"context"
	"fmt"
	"math"
	"time"
)

// Config defines exponential backoff behavior. The zero value is not
// usable; MaxRetries and InitialBackoff must be set.
type Config struct {
	// MaxRetries is the maximum number of calls to fn.
	MaxRetries int

	// InitialBackoff is the base delay; each attempt multiplies it by
	// 2^(attempt-1).
	InitialBackoff time.Duration

	// MaxBackoff caps the computed delay. Zero means unbounded.
	MaxBackoff time.Duration

	// Jitter adds Jitter times the backoff, scaled linearly by
	// attempt/MaxRetries. The added amount is deterministic, not random.
	// Zero means no jitter.
	Jitter float64
}

// ShouldRetryFunc decides whether an error from fn is retryable. A nil
// ShouldRetryFunc passed to Do retries every error.
type ShouldRetryFunc func(error) bool

// Do calls fn up to cfg.MaxRetries times, waiting an exponentially
// increasing backoff between attempts. It returns nil as soon as fn
// succeeds, the original error immediately if shouldRetry rejects it,
// ctx.Err() if the context is canceled during a backoff wait, or a
// wrapped error once retries are exhausted.
func Do(ctx context.Context, cfg Config, fn func() error, shouldRetry ShouldRetryFunc) error {
	var lastErr error

	for attempt := 0; attempt < cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(calculateBackoff(cfg, attempt)):
			}
		}

		err := fn()
		if err == nil {
			return nil
		}
		if shouldRetry != nil && !shouldRetry(err) {
			return err
		}
		lastErr = err
	}

	return fmt.Errorf("failed after %d retries: %w", cfg.MaxRetries, lastErr)
}

// calculateBackoff computes InitialBackoff*2^(attempt-1), capped at
// MaxBackoff, plus jitter scaled linearly by attempt/MaxRetries.
func calculateBackoff(cfg Config, attempt int) time.Duration {
	multiplier := math.Pow(2, float64(attempt-1))
	backoff := time.Duration(multiplier * float64(cfg.InitialBackoff))

	if cfg.MaxBackoff > 0 && backoff > cfg.MaxBackoff {
		backoff = cfg.MaxBackoff
	}

	if cfg.Jitter > 0 {
		jitterAmount := float64(backoff) * cfg.Jitter * float64(attempt) / float64(cfg.MaxRetries)
		backoff += time.Duration(jitterAmount)
	}

	return backoff
}
