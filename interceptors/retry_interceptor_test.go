package interceptors

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/glimte/tinybus-go/contracts"
	"github.com/glimte/tinybus-go/internal/reliability"
	"github.com/stretchr/testify/assert"
)

func TestRetryInterceptor(t *testing.T) {
	msg := contracts.NewMessage("orders.create", nil, nil)

	t.Run("retries until the handler succeeds", func(t *testing.T) {
		interceptor := NewRetryInterceptor(reliability.NewFixedDelay(time.Millisecond, 5))

		attempts := 0
		err := interceptor.Intercept(context.Background(), msg, HandlerFunc(func(ctx context.Context, m *contracts.Message) error {
			attempts++
			if attempts < 3 {
				return errors.New("transient")
			}
			return nil
		}))

		assert.NoError(t, err)
		assert.Equal(t, 3, attempts)
	})

	t.Run("gives up after max attempts", func(t *testing.T) {
		interceptor := NewRetryInterceptor(reliability.NewFixedDelay(time.Millisecond, 2))
		cause := errors.New("persistent")

		attempts := 0
		err := interceptor.Intercept(context.Background(), msg, HandlerFunc(func(ctx context.Context, m *contracts.Message) error {
			attempts++
			return cause
		}))

		assert.ErrorIs(t, err, cause)
		assert.Equal(t, 3, attempts) // initial attempt + 2 retries
	})

	t.Run("non-retryable errors fail immediately", func(t *testing.T) {
		interceptor := NewRetryInterceptor(reliability.NewFixedDelay(time.Millisecond, 5))

		attempts := 0
		err := interceptor.Intercept(context.Background(), msg, HandlerFunc(func(ctx context.Context, m *contracts.Message) error {
			attempts++
			return reliability.RetryableError{Err: errors.New("fatal"), Retryable: false}
		}))

		assert.Error(t, err)
		assert.Equal(t, 1, attempts)
	})

	t.Run("has a name", func(t *testing.T) {
		interceptor := NewRetryInterceptor(reliability.NewFixedDelay(time.Millisecond, 1))
		assert.Equal(t, "RetryInterceptor", interceptor.Name())
	})
}
