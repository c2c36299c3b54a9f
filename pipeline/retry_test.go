package pipeline_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ragdex/ragdex"
	"github.com/ragdex/ragdex/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryPolicy_Do(t *testing.T) {
	t.Parallel()

	t.Run("succeeds without retrying", func(t *testing.T) {
		t.Parallel()

		policy := pipeline.RetryPolicy{MaxAttempts: 3, BaseDelay: time.Second,
			Sleep: func(ctx context.Context, d time.Duration) error {
				t.Fatal("should not sleep on success")
				return nil
			},
		}

		calls := 0
		err := policy.Do(context.Background(), "op", func(ctx context.Context) error {
			calls++
			return nil
		})

		require.NoError(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("backs off exponentially between attempts", func(t *testing.T) {
		t.Parallel()

		var delays []time.Duration
		policy := pipeline.RetryPolicy{MaxAttempts: 3, BaseDelay: time.Second,
			Sleep: func(ctx context.Context, d time.Duration) error {
				delays = append(delays, d)
				return nil
			},
		}

		calls := 0
		err := policy.Do(context.Background(), "op", func(ctx context.Context) error {
			calls++
			if calls < 3 {
				return errors.New("transient")
			}
			return nil
		})

		require.NoError(t, err)
		assert.Equal(t, 3, calls)
		assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, delays)
	})

	t.Run("returns last error after exhausting attempts", func(t *testing.T) {
		t.Parallel()

		policy := pipeline.RetryPolicy{MaxAttempts: 3, BaseDelay: time.Second,
			Sleep: func(ctx context.Context, d time.Duration) error { return nil },
		}

		calls := 0
		wantErr := ragdex.Errorf(ragdex.EUNAVAILABLE, "still down")
		err := policy.Do(context.Background(), "op", func(ctx context.Context) error {
			calls++
			return wantErr
		})

		assert.Equal(t, 3, calls)
		assert.Equal(t, ragdex.EUNAVAILABLE, ragdex.ErrorCode(err))
	})

	t.Run("cancellation during backoff stops retrying", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		policy := pipeline.RetryPolicy{MaxAttempts: 3, BaseDelay: time.Second,
			Sleep: func(ctx context.Context, d time.Duration) error {
				cancel()
				return ctx.Err()
			},
		}

		calls := 0
		err := policy.Do(ctx, "op", func(ctx context.Context) error {
			calls++
			return errors.New("transient")
		})

		assert.Equal(t, 1, calls)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestDefaultRetryPolicy(t *testing.T) {
	t.Parallel()

	policy := pipeline.DefaultRetryPolicy()
	assert.Equal(t, 3, policy.MaxAttempts)
	assert.Equal(t, time.Second, policy.BaseDelay)
}
