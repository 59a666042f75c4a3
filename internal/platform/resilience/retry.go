package resilience

import (
	"context"
	"time"
)

// Outcome classifies a single attempt so the retry loop knows whether
// another try can help.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeRetryable
	OutcomeFatal
)

// RetryConfig bounds a retry loop. Backoff grows linearly with the
// attempt number, so attempt n waits Backoff*n before the next try.
type RetryConfig struct {
	Attempts int
	Backoff  time.Duration
}

func NormalizeRetryConfig(cfg RetryConfig) RetryConfig {
	if cfg.Attempts < 1 {
		cfg.Attempts = 1
	}
	if cfg.Backoff < 0 {
		cfg.Backoff = 0
	}
	return cfg
}

// Retry runs fn up to cfg.Attempts times. A fatal outcome or a
// cancelled context stops the loop immediately; exhausting the budget
// returns the last attempt's error.
func Retry[T any](ctx context.Context, cfg RetryConfig, fn func(context.Context) (T, Outcome, error)) (T, error) {
	cfg = NormalizeRetryConfig(cfg)

	var zero T
	var lastErr error
	for attempt := 1; attempt <= cfg.Attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		value, outcome, err := fn(ctx)
		switch outcome {
		case OutcomeSuccess:
			return value, nil
		case OutcomeFatal:
			return zero, err
		}
		lastErr = err

		if attempt == cfg.Attempts {
			break
		}
		if err := sleepContext(ctx, cfg.Backoff*time.Duration(attempt)); err != nil {
			return zero, err
		}
	}
	return zero, lastErr
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
