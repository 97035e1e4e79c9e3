package client

import (
	"context"
	"errors"
	"testing"
	"time"
)

var errPermanent = errors.New("permanent failure")
var errFlaky = errors.New("flaky failure")

func TestPolicySucceedsFirstTry(t *testing.T) {
	calls := 0
	p := Policy{MaxAttempts: 3, Retryable: func(error) bool { return true }}

	err := p.Do(context.Background(), func(attempt int) error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestPolicyRetriesUntilSuccess(t *testing.T) {
	calls := 0
	p := Policy{MaxAttempts: 3, Retryable: func(err error) bool { return errors.Is(err, errFlaky) }}

	err := p.Do(context.Background(), func(attempt int) error {
		calls++
		if attempt < 2 {
			return errFlaky
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestPolicyStopsOnNonRetryable(t *testing.T) {
	calls := 0
	p := Policy{MaxAttempts: 3, Retryable: func(err error) bool { return errors.Is(err, errFlaky) }}

	err := p.Do(context.Background(), func(attempt int) error {
		calls++
		return errPermanent
	})
	if !errors.Is(err, errPermanent) {
		t.Fatalf("error = %v, want permanent", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestPolicyExhaustsAttempts(t *testing.T) {
	calls := 0
	p := Policy{MaxAttempts: 2, Retryable: func(error) bool { return true }}

	err := p.Do(context.Background(), func(attempt int) error {
		calls++
		return errFlaky
	})
	if !errors.Is(err, errFlaky) {
		t.Fatalf("error = %v, want last failure", err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestPolicyZeroAttemptsRunsOnce(t *testing.T) {
	calls := 0
	p := Policy{}

	if err := p.Do(context.Background(), func(attempt int) error {
		calls++
		return nil
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestPolicyCancelledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := Policy{MaxAttempts: 5, Backoff: time.Hour, Retryable: func(error) bool { return true }}

	calls := 0
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	err := p.Do(ctx, func(attempt int) error {
		calls++
		return errFlaky
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}
