package simconn

import (
	"context"
	"fmt"
	"math"
	"time"
)

// RetryConfig configures connect retry behavior with exponential backoff.
type RetryConfig struct {
	// MaxRetries is the maximum number of retry attempts (default: 3)
	MaxRetries int

	// InitialDelay is the initial backoff delay (default: 1 second)
	InitialDelay time.Duration

	// MaxDelay is the maximum backoff delay (default: 30 seconds)
	MaxDelay time.Duration

	// Multiplier is the backoff multiplier (default: 2.0)
	Multiplier float64
}

// DefaultRetryConfig returns sensible defaults for connect retries.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:   3,
		InitialDelay: time.Second,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}
}

// RetryWithBackoff executes fn with exponential backoff until it succeeds,
// the retry budget is exhausted, or the context is cancelled. It is meant
// for explicit connect attempts; the render loop itself never retries.
func RetryWithBackoff(ctx context.Context, cfg RetryConfig, fn func() error) error {
	var lastErr error
	delay := cfg.InitialDelay

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return fmt.Errorf("retry cancelled: %w", ctx.Err())
			case <-time.After(delay):
			}
		}

		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
		}

		if attempt == cfg.MaxRetries {
			break
		}

		next := time.Duration(float64(cfg.InitialDelay) * math.Pow(cfg.Multiplier, float64(attempt)))
		if next > cfg.MaxDelay {
			delay = cfg.MaxDelay
		} else {
			delay = next
		}
	}

	return fmt.Errorf("max retries (%d) exceeded: %w", cfg.MaxRetries, lastErr)
}

// ConnectWithRetry attempts src.Connect with backoff. It exists so the CLI
// probes and the X-Plane client share one connect policy.
func ConnectWithRetry(ctx context.Context, cfg RetryConfig, src Source) error {
	return RetryWithBackoff(ctx, cfg, src.Connect)
}
