package client

import (
	"context"
	"time"
)

// Policy describes how an operation may be retried: total attempts, which
// errors qualify, and how long to wait between tries.
type Policy struct {
	MaxAttempts int
	Retryable   func(error) bool
	Backoff     time.Duration
}

// Do runs fn up to MaxAttempts times, stopping on success or on the first
// error the policy does not consider retryable. The attempt number passed
// to fn is zero-based. The last error is returned when all attempts fail.
func (p Policy) Do(ctx context.Context, fn func(attempt int) error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 && p.Backoff > 0 {
			select {
			case <-time.After(p.Backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		if err = fn(attempt); err == nil {
			return nil
		}
		if p.Retryable != nil && !p.Retryable(err) {
			return err
		}
	}

	return err
}
