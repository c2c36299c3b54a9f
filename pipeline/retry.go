package pipeline

import (
	"context"
	"log/slog"
	"time"
)

// RetryPolicy retries an operation with exponential backoff: BaseDelay
// before the second attempt, doubling on each subsequent one. The sleeper
// is injectable so tests can run without real delays.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration

	// Sleep waits for d or until the context is done. Nil means a
	// context-aware time.After sleep.
	Sleep func(ctx context.Context, d time.Duration) error

	Logger *slog.Logger
}

// DefaultRetryPolicy returns the policy used for remote calls:
// 3 attempts starting at 1s.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, BaseDelay: time.Second}
}

// Do invokes fn until it succeeds or attempts are exhausted, returning the
// last error. The op name is used for retry log lines only.
func (p RetryPolicy) Do(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	attempts := p.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}

	delay := p.BaseDelay
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if attempt == attempts {
			break
		}

		p.logger().Warn("retrying after failure",
			"op", op,
			"attempt", attempt,
			"delay", delay,
			"err", lastErr,
		)

		if err := p.sleep(ctx, delay); err != nil {
			return err
		}
		delay *= 2
	}
	return lastErr
}

func (p RetryPolicy) sleep(ctx context.Context, d time.Duration) error {
	if p.Sleep != nil {
		return p.Sleep(ctx, d)
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

func (p RetryPolicy) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.Default()
}
