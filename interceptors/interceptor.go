package interceptors

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/glimte/tinybus-go/contracts"
)

// Handler represents an invocation target in the interceptor chain
type Handler interface {
	Handle(ctx context.Context, msg *contracts.Message) error
}

// HandlerFunc is a function adapter for Handler
type HandlerFunc func(ctx context.Context, msg *contracts.Message) error

// Handle implements Handler
func (f HandlerFunc) Handle(ctx context.Context, msg *contracts.Message) error {
	return f(ctx, msg)
}

// Interceptor processes messages before they reach the final handler
type Interceptor interface {
	// Intercept processes a message and calls the next handler in the chain
	Intercept(ctx context.Context, msg *contracts.Message, next Handler) error

	// Name returns the interceptor name for logging and debugging
	Name() string
}

// InterceptorFunc is a function adapter for Interceptor
type InterceptorFunc struct {
	name string
	fn   func(ctx context.Context, msg *contracts.Message, next Handler) error
}

// NewInterceptorFunc creates a new function-based interceptor
func NewInterceptorFunc(name string, fn func(ctx context.Context, msg *contracts.Message, next Handler) error) *InterceptorFunc {
	return &InterceptorFunc{name: name, fn: fn}
}

// Intercept implements Interceptor
func (i *InterceptorFunc) Intercept(ctx context.Context, msg *contracts.Message, next Handler) error {
	return i.fn(ctx, msg, next)
}

// Name implements Interceptor
func (i *InterceptorFunc) Name() string {
	return i.name
}

// Chain manages an ordered list of interceptors
type Chain struct {
	interceptors []Interceptor
}

// NewChain creates a new interceptor chain
func NewChain(interceptors ...Interceptor) *Chain {
	return &Chain{interceptors: interceptors}
}

// Add appends an interceptor to the chain
func (c *Chain) Add(interceptor Interceptor) *Chain {
	c.interceptors = append(c.interceptors, interceptor)
	return c
}

// Execute runs the chain around the final handler
func (c *Chain) Execute(ctx context.Context, msg *contracts.Message, finalHandler Handler) error {
	if len(c.interceptors) == 0 {
		return finalHandler.Handle(ctx, msg)
	}

	// Build the chain in reverse order
	handler := finalHandler
	for i := len(c.interceptors) - 1; i >= 0; i-- {
		interceptor := c.interceptors[i]
		next := handler
		handler = HandlerFunc(func(ctx context.Context, msg *contracts.Message) error {
			return interceptor.Intercept(ctx, msg, next)
		})
	}

	return handler.Handle(ctx, msg)
}

// Built-in interceptors

// LoggingInterceptor logs message processing
type LoggingInterceptor struct {
	logger *slog.Logger
}

// NewLoggingInterceptor creates a new logging interceptor
func NewLoggingInterceptor(logger *slog.Logger) *LoggingInterceptor {
	if logger == nil {
		logger = slog.Default()
	}

	return &LoggingInterceptor{logger: logger}
}

// Intercept implements Interceptor
func (i *LoggingInterceptor) Intercept(ctx context.Context, msg *contracts.Message, next Handler) error {
	start := time.Now()

	i.logger.Debug("processing message",
		"messageId", msg.ID,
		"address", msg.Address,
	)

	err := next.Handle(ctx, msg)
	duration := time.Since(start)

	if err != nil {
		i.logger.Error("message processing failed",
			"messageId", msg.ID,
			"address", msg.Address,
			"duration", duration,
			"error", err,
		)
	} else {
		i.logger.Debug("message processed",
			"messageId", msg.ID,
			"address", msg.Address,
			"duration", duration,
		)
	}

	return err
}

// Name implements Interceptor
func (i *LoggingInterceptor) Name() string {
	return "LoggingInterceptor"
}

// MetricsCollector defines the interface for collecting dispatch metrics,
// keyed by destination (address or topic)
type MetricsCollector interface {
	IncrementMessageCount(destination string)
	RecordProcessingTime(destination string, duration time.Duration)
	IncrementErrorCount(destination string, errorType string)
}

// MetricsInterceptor collects metrics about message processing
type MetricsInterceptor struct {
	collector MetricsCollector
}

// NewMetricsInterceptor creates a new metrics interceptor
func NewMetricsInterceptor(collector MetricsCollector) *MetricsInterceptor {
	return &MetricsInterceptor{collector: collector}
}

// Intercept implements Interceptor
func (i *MetricsInterceptor) Intercept(ctx context.Context, msg *contracts.Message, next Handler) error {
	start := time.Now()

	i.collector.IncrementMessageCount(msg.Address)

	err := next.Handle(ctx, msg)
	i.collector.RecordProcessingTime(msg.Address, time.Since(start))

	if err != nil {
		i.collector.IncrementErrorCount(msg.Address, "processing_error")
	}

	return err
}

// Name implements Interceptor
func (i *MetricsInterceptor) Name() string {
	return "MetricsInterceptor"
}

// MessageValidator defines the interface for message validation
type MessageValidator interface {
	Validate(ctx context.Context, msg *contracts.Message) error
}

// ValidationInterceptor validates messages before processing
type ValidationInterceptor struct {
	validator MessageValidator
}

// NewValidationInterceptor creates a new validation interceptor
func NewValidationInterceptor(validator MessageValidator) *ValidationInterceptor {
	return &ValidationInterceptor{validator: validator}
}

// Intercept implements Interceptor
func (i *ValidationInterceptor) Intercept(ctx context.Context, msg *contracts.Message, next Handler) error {
	if err := i.validator.Validate(ctx, msg); err != nil {
		return fmt.Errorf("message validation failed: %w", err)
	}

	return next.Handle(ctx, msg)
}

// Name implements Interceptor
func (i *ValidationInterceptor) Name() string {
	return "ValidationInterceptor"
}
