// Copyright 2024 Tinybus Contributors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package tinybus

import (
	"context"
	"log/slog"

	"github.com/glimte/tinybus-go/interceptors"
	"github.com/glimte/tinybus-go/messaging"
	"github.com/glimte/tinybus-go/monitor"
)

// Client provides the main entry point for tinybus-go. It assembles an
// event bus with the configured interceptor pipeline and exposes the
// dispatch surface directly. For finer control construct a
// messaging.EventBus yourself.
type Client struct {
	bus     *messaging.EventBus
	metrics *monitor.BusMetricsCollector
	logger  *slog.Logger
}

// clientConfig holds client assembly configuration
type clientConfig struct {
	logger        *slog.Logger
	enableLogging bool
	enableMetrics bool
	interceptors  []interceptors.Interceptor
	busOptions    []messaging.BusOption
}

// ClientOption configures the client
type ClientOption func(*clientConfig)

// WithLogger sets the logger used by the bus and built-in interceptors
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *clientConfig) {
		c.logger = logger
	}
}

// WithDefaultLogger uses slog.Default()
func WithDefaultLogger() ClientOption {
	return func(c *clientConfig) {
		c.logger = slog.Default()
	}
}

// WithDispatchLogging installs the logging interceptor around every
// handler and listener invocation
func WithDispatchLogging() ClientOption {
	return func(c *clientConfig) {
		c.enableLogging = true
	}
}

// WithMetrics installs an in-memory metrics collector; read it back via
// Client.Metrics
func WithMetrics() ClientOption {
	return func(c *clientConfig) {
		c.enableMetrics = true
	}
}

// WithInterceptor appends a custom interceptor to the pipeline
func WithInterceptor(interceptor interceptors.Interceptor) ClientOption {
	return func(c *clientConfig) {
		c.interceptors = append(c.interceptors, interceptor)
	}
}

// WithBusOptions passes options through to the underlying EventBus
func WithBusOptions(options ...messaging.BusOption) ClientOption {
	return func(c *clientConfig) {
		c.busOptions = append(c.busOptions, options...)
	}
}

// NewClient creates a new tinybus client. No configuration is required.
func NewClient(options ...ClientOption) *Client {
	cfg := &clientConfig{
		logger: slog.Default(),
	}

	for _, opt := range options {
		opt(cfg)
	}

	var chainInterceptors []interceptors.Interceptor
	if cfg.enableLogging {
		chainInterceptors = append(chainInterceptors, interceptors.NewLoggingInterceptor(cfg.logger))
	}

	var metrics *monitor.BusMetricsCollector
	if cfg.enableMetrics {
		metrics = monitor.NewBusMetricsCollector()
		chainInterceptors = append(chainInterceptors, interceptors.NewMetricsInterceptor(metrics))
	}

	chainInterceptors = append(chainInterceptors, cfg.interceptors...)

	busOptions := []messaging.BusOption{messaging.WithBusLogger(cfg.logger)}
	if len(chainInterceptors) > 0 {
		busOptions = append(busOptions, messaging.WithInterceptors(interceptors.NewChain(chainInterceptors...)))
	}
	busOptions = append(busOptions, cfg.busOptions...)

	return &Client{
		bus:     messaging.NewEventBus(busOptions...),
		metrics: metrics,
		logger:  cfg.logger,
	}
}

// Bus returns the underlying event bus
func (c *Client) Bus() *messaging.EventBus {
	return c.bus
}

// Metrics returns the metrics collector, or nil when WithMetrics was not set
func (c *Client) Metrics() *monitor.BusMetricsCollector {
	return c.metrics
}

// Consumer registers a request-response handler for an address
func (c *Client) Consumer(address string, handler messaging.RequestHandler, options ...messaging.ConsumerOption) (*messaging.Consumer, error) {
	return c.bus.Consumer(address, handler, options...)
}

// ConsumerFunc registers a function as a request-response handler
func (c *Client) ConsumerFunc(address string, handler messaging.RequestHandlerFunc, options ...messaging.ConsumerOption) (*messaging.Consumer, error) {
	return c.bus.ConsumerFunc(address, handler, options...)
}

// On registers a listener for a topic
func (c *Client) On(topic string, handler messaging.EventHandler) (*messaging.Listener, error) {
	return c.bus.On(topic, handler)
}

// OnFunc registers a function as a listener
func (c *Client) OnFunc(topic string, handler messaging.EventHandlerFunc) (*messaging.Listener, error) {
	return c.bus.OnFunc(topic, handler)
}

// Request sends a message to an address and waits for the reply
func (c *Client) Request(ctx context.Context, address string, body any, options ...messaging.DeliveryOption) (any, error) {
	return c.bus.Request(ctx, address, body, options...)
}

// Publish emits an event to all listeners of a topic
func (c *Client) Publish(ctx context.Context, topic string, body any, options ...messaging.DeliveryOption) error {
	return c.bus.Publish(ctx, topic, body, options...)
}
