package retry

import (
	"context"
	"fmt"
	"time"
)

type RetryConfig struct {
	MaxAttempts int // values below 1 mean a single attempt
	Delay       time.Duration
	Backoff     bool // Linear backoff: attempt * Delay
}

// WithRetry calls fn until it succeeds, attempts run out or ctx is done.
func WithRetry(ctx context.Context, config RetryConfig, fn func() error) error {
	attempts := config.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	for attempt := 1; ; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		if attempt == attempts {
			if attempts == 1 {
				return err
			}
			return fmt.Errorf("failed after %d attempts: %w", attempts, err)
		}

		delay := config.Delay
		if config.Backoff {
			delay = time.Duration(attempt) * config.Delay
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
}
