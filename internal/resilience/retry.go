package resilience

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"
)

// RetryConfig tunes the retry-with-backoff wrapper.
type RetryConfig struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

// DefaultRetryConfig returns sensible defaults for flaky remote calls.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:  3,
		InitialDelay: 500 * time.Millisecond,
		MaxDelay:     10 * time.Second,
		Multiplier:   2.0,
	}
}

// RetryExhaustedError wraps the last error after all attempts failed.
type RetryExhaustedError struct {
	Attempts int
	Cause    error
}

func (e *RetryExhaustedError) Error() string {
	return fmt.Sprintf("failed after %d attempts: %v", e.Attempts, e.Cause)
}

func (e *RetryExhaustedError) Unwrap() error {
	return e.Cause
}

// Retry runs fn up to MaxAttempts times. Between attempts it sleeps
// min(initial * multiplier^(n-1), max) plus a random jitter of 0-50% of that
// delay, so concurrent batch runs don't synchronize their retry storms.
// The sleep is context-aware: cancellation aborts the remaining attempts.
func Retry(ctx context.Context, config RetryConfig, fn func(ctx context.Context) error) error {
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = DefaultRetryConfig().MaxAttempts
	}
	if config.InitialDelay <= 0 {
		config.InitialDelay = DefaultRetryConfig().InitialDelay
	}
	if config.Multiplier < 1 {
		config.Multiplier = DefaultRetryConfig().Multiplier
	}

	var lastErr error
	for attempt := 1; attempt <= config.MaxAttempts; attempt++ {
		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}

		// A permanent rejection from a breaker further down the stack is
		// not worth retrying.
		var open *ErrCircuitOpen
		if errors.As(lastErr, &open) {
			break
		}

		if attempt == config.MaxAttempts {
			break
		}

		delay := backoffDelay(config, attempt)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return &RetryExhaustedError{Attempts: config.MaxAttempts, Cause: lastErr}
}

// backoffDelay computes the capped exponential delay with 0-50% jitter.
func backoffDelay(config RetryConfig, attempt int) time.Duration {
	base := float64(config.InitialDelay) * math.Pow(config.Multiplier, float64(attempt-1))
	if config.MaxDelay > 0 && base > float64(config.MaxDelay) {
		base = float64(config.MaxDelay)
	}
	jitter := rand.Float64() * 0.5 * base
	return time.Duration(base + jitter)
}
