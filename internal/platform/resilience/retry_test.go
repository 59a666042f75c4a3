package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRetry_SucceedsAfterTransientFailures(t *testing.T) {
	t.Parallel()

	attempts := 0
	got, err := Retry(context.Background(), RetryConfig{Attempts: 4, Backoff: time.Millisecond},
		func(context.Context) (string, Outcome, error) {
			attempts++
			if attempts < 3 {
				return "", OutcomeRetryable, errors.New("transient")
			}
			return "payload", OutcomeSuccess, nil
		})
	if err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if got != "payload" {
		t.Fatalf("unexpected value %q", got)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}

func TestRetry_FatalStopsImmediately(t *testing.T) {
	t.Parallel()

	fatal := errors.New("definitive rejection")
	attempts := 0
	_, err := Retry(context.Background(), RetryConfig{Attempts: 4, Backoff: time.Millisecond},
		func(context.Context) (string, Outcome, error) {
			attempts++
			return "", OutcomeFatal, fatal
		})
	if !errors.Is(err, fatal) {
		t.Fatalf("expected fatal error, got %v", err)
	}
	if attempts != 1 {
		t.Fatalf("expected a single attempt, got %d", attempts)
	}
}

func TestRetry_ExhaustsBudget(t *testing.T) {
	t.Parallel()

	transient := errors.New("still down")
	attempts := 0
	_, err := Retry(context.Background(), RetryConfig{Attempts: 4, Backoff: 0},
		func(context.Context) (string, Outcome, error) {
			attempts++
			return "", OutcomeRetryable, transient
		})
	if !errors.Is(err, transient) {
		t.Fatalf("expected last transient error, got %v", err)
	}
	if attempts != 4 {
		t.Fatalf("expected 4 attempts, got %d", attempts)
	}
}

func TestRetry_ContextCancelDuringBackoff(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := Retry(ctx, RetryConfig{Attempts: 4, Backoff: time.Minute},
		func(context.Context) (string, Outcome, error) {
			attempts++
			return "", OutcomeRetryable, errors.New("transient")
		})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context cancellation, got %v", err)
	}
	if attempts != 1 {
		t.Fatalf("expected a single attempt before cancellation, got %d", attempts)
	}
}
