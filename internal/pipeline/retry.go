package pipeline

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"crash-data-audit/internal/logging"
)

// RetryConfig controls the exponential backoff of remote fetches.
type RetryConfig struct {
	MaxAttempts       int           `json:"max_attempts" koanf:"max_attempts"`
	InitialDelay      time.Duration `json:"initial_delay" koanf:"initial_delay"`
	MaxDelay          time.Duration `json:"max_delay" koanf:"max_delay"`
	BackoffMultiplier float64       `json:"backoff_multiplier" koanf:"backoff_multiplier"`
	Jitter            bool          `json:"jitter" koanf:"jitter"`
}

// DefaultRetryConfig is used for HTTP downloads.
var DefaultRetryConfig = RetryConfig{
	MaxAttempts:       3,
	InitialDelay:      500 * time.Millisecond,
	MaxDelay:          10 * time.Second,
	BackoffMultiplier: 2.0,
	Jitter:            true,
}

// permanentError marks a failure retrying cannot fix.
type permanentError struct{ err error }

func (e permanentError) Error() string { return e.err.Error() }
func (e permanentError) Unwrap() error { return e.err }

// Permanent wraps err so Retry gives up immediately.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return permanentError{err}
}

// Retry calls op until it succeeds, returns a Permanent error, the attempts
// run out or ctx is done.
func Retry(ctx context.Context, cfg RetryConfig, log *zap.Logger, op func(context.Context) error) error {
	log = logging.OrNop(log)
	attempts := cfg.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = op(ctx); err == nil {
			return nil
		}
		var perm permanentError
		if errors.As(err, &perm) {
			return perm.err
		}
		if attempt == attempts {
			break
		}
		delay := cfg.delay(attempt)
		log.Warn("attempt failed, retrying",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", attempts),
			zap.Duration("delay", delay),
			zap.Error(err),
		)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return fmt.Errorf("failed after %d attempts: %w", attempts, err)
}

// delay returns the wait before the next attempt after attempt failures.
func (c RetryConfig) delay(attempt int) time.Duration {
	mult := c.BackoffMultiplier
	if mult < 1 {
		mult = 1
	}
	d := time.Duration(float64(c.InitialDelay) * math.Pow(mult, float64(attempt-1)))
	if c.MaxDelay > 0 && d > c.MaxDelay {
		d = c.MaxDelay
	}
	if c.Jitter && d > 0 {
		// Up to 10% either way.
		d += time.Duration(float64(d) * 0.1 * (2*rand.Float64() - 1))
	}
	return d
}
