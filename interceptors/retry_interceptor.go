package interceptors

import (
	"context"
	"log/slog"

	"github.com/glimte/tinybus-go/contracts"
	"github.com/glimte/tinybus-go/internal/reliability"
)

// RetryInterceptor retries failed invocations according to a policy. The
// bus never retries on its own; adding this interceptor is the explicit
// opt-in for callers that want retry semantics.
type RetryInterceptor struct {
	retryPolicy reliability.RetryPolicy
	logger      *slog.Logger
}

// NewRetryInterceptor creates a new retry interceptor
func NewRetryInterceptor(retryPolicy reliability.RetryPolicy) *RetryInterceptor {
	return &RetryInterceptor{
		retryPolicy: retryPolicy,
		logger:      slog.Default(),
	}
}

// WithLogger sets the logger for the retry interceptor
func (r *RetryInterceptor) WithLogger(logger *slog.Logger) *RetryInterceptor {
	r.logger = logger
	return r
}

// Intercept implements the Interceptor interface
func (r *RetryInterceptor) Intercept(ctx context.Context, msg *contracts.Message, next Handler) error {
	return reliability.Retry(ctx, r.retryPolicy, func() error {
		return next.Handle(ctx, msg)
	})
}

// Name returns the interceptor name
func (r *RetryInterceptor) Name() string {
	return "RetryInterceptor"
}
