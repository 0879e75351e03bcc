package pipeline

import (
	"context"
	"log/slog"
	"time"
)

// withRetry runs fn up to attempts times with exponentially growing delays.
// attempts <= 1 means a single try.
func withRetry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	if attempts < 1 {
		attempts = 1
	}
	if delay <= 0 {
		delay = time.Second
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		if attempt == attempts {
			break
		}
		slog.Warn("fetch failed, retrying", "attempt", attempt, "of", attempts, "delay", delay, "err", err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
	return err
}
