package reliability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestExponentialBackoff(t *testing.T) {
	t.Run("delays grow by the multiplier", func(t *testing.T) {
		policy := &ExponentialBackoff{
			InitialInterval: 100 * time.Millisecond,
			MaxInterval:     10 * time.Second,
			Multiplier:      2.0,
			MaxAttempts:     5,
			Jitter:          false,
		}

		assert.Equal(t, 100*time.Millisecond, policy.NextDelay(0))
		assert.Equal(t, 200*time.Millisecond, policy.NextDelay(1))
		assert.Equal(t, 400*time.Millisecond, policy.NextDelay(2))
	})

	t.Run("delay is capped at the max interval", func(t *testing.T) {
		policy := &ExponentialBackoff{
			InitialInterval: time.Second,
			MaxInterval:     2 * time.Second,
			Multiplier:      10.0,
			MaxAttempts:     5,
			Jitter:          false,
		}

		assert.Equal(t, 2*time.Second, policy.NextDelay(3))
	})

	t.Run("stops after max attempts", func(t *testing.T) {
		policy := NewExponentialBackoff(time.Millisecond, time.Second, 2.0, 3)

		ok, _ := policy.ShouldRetry(2, errors.New("x"))
		assert.True(t, ok)
		ok, _ = policy.ShouldRetry(3, errors.New("x"))
		assert.False(t, ok)
	})
}

func TestFixedDelay(t *testing.T) {
	policy := NewFixedDelay(50*time.Millisecond, 2)

	t.Run("constant delay", func(t *testing.T) {
		assert.Equal(t, 50*time.Millisecond, policy.NextDelay(0))
		assert.Equal(t, 50*time.Millisecond, policy.NextDelay(7))
	})

	t.Run("respects max attempts and retryability", func(t *testing.T) {
		ok, delay := policy.ShouldRetry(0, errors.New("x"))
		assert.True(t, ok)
		assert.Equal(t, 50*time.Millisecond, delay)

		ok, _ = policy.ShouldRetry(2, errors.New("x"))
		assert.False(t, ok)

		ok, _ = policy.ShouldRetry(0, RetryableError{Err: errors.New("x"), Retryable: false})
		assert.False(t, ok)
	})
}

func TestRetry(t *testing.T) {
	t.Run("returns nil on first success", func(t *testing.T) {
		calls := 0
		err := Retry(context.Background(), NewFixedDelay(time.Millisecond, 3), func() error {
			calls++
			return nil
		})

		assert.NoError(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("returns the last error after exhausting retries", func(t *testing.T) {
		cause := errors.New("persistent")
		calls := 0
		err := Retry(context.Background(), NewFixedDelay(time.Millisecond, 2), func() error {
			calls++
			return cause
		})

		assert.ErrorIs(t, err, cause)
		assert.Equal(t, 3, calls)
	})

	t.Run("stops when the context is cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		calls := 0

		err := Retry(ctx, NewFixedDelay(time.Hour, 10), func() error {
			calls++
			cancel()
			return errors.New("fail")
		})

		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	})
}

func TestRetryableError(t *testing.T) {
	cause := errors.New("root")
	err := RetryableError{Err: cause, Retryable: true}

	assert.Equal(t, "root", err.Error())
	assert.True(t, err.IsRetryable())
	assert.ErrorIs(t, err, cause)
}
