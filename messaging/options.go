package messaging

import (
	"log/slog"
	"time"

	"github.com/glimte/tinybus-go/interceptors"
)

// ListenerErrorPolicy selects what Publish does with listener failures
// after all listeners have completed.
type ListenerErrorPolicy int

const (
	// ListenerErrorAggregate returns a *contracts.PublishError carrying
	// every listener failure. This is the default.
	ListenerErrorAggregate ListenerErrorPolicy = iota
	// ListenerErrorIgnore logs each failure at error level and returns nil.
	ListenerErrorIgnore
	// ListenerErrorCallback routes each failure to the callback configured
	// with WithListenerErrorCallback and returns nil.
	ListenerErrorCallback
)

// ListenerErrorFunc receives listener failures when the
// ListenerErrorCallback policy is active. Errors passed in are
// *contracts.ListenerExecutionError values.
type ListenerErrorFunc func(topic string, err error)

// BusOption configures the EventBus
type BusOption func(*EventBus)

// WithBusLogger sets the logger
func WithBusLogger(logger *slog.Logger) BusOption {
	return func(b *EventBus) {
		b.logger = logger
	}
}

// WithListenerErrorPolicy sets the publish failure policy
func WithListenerErrorPolicy(policy ListenerErrorPolicy) BusOption {
	return func(b *EventBus) {
		b.errorPolicy = policy
	}
}

// WithListenerErrorCallback sets the callback used by the
// ListenerErrorCallback policy. Setting a callback switches the policy.
func WithListenerErrorCallback(cb ListenerErrorFunc) BusOption {
	return func(b *EventBus) {
		b.errorPolicy = ListenerErrorCallback
		b.onListenerError = cb
	}
}

// WithMaxConcurrentListeners bounds the number of listener goroutines a
// single Publish runs at once. Zero means unbounded, which is the default.
func WithMaxConcurrentListeners(n int) BusOption {
	return func(b *EventBus) {
		b.maxConcurrent = n
	}
}

// WithInterceptors sets the interceptor chain applied around every
// handler and listener invocation.
func WithInterceptors(chain *interceptors.Chain) BusOption {
	return func(b *EventBus) {
		b.chain = chain
	}
}

// consumerConfig holds per-registration consumer configuration
type consumerConfig struct {
	version     string
	description string
	inputType   string
	outputType  string
}

// ConsumerOption configures a consumer registration
type ConsumerOption func(*consumerConfig)

// WithEndpointContract attaches a discoverable endpoint contract to the
// consumer. Version must be valid semver for constraint matching.
func WithEndpointContract(version, description string) ConsumerOption {
	return func(c *consumerConfig) {
		c.version = version
		c.description = description
	}
}

// WithContractTypes records the input and output message type names on the
// consumer's endpoint contract.
func WithContractTypes(inputType, outputType string) ConsumerOption {
	return func(c *consumerConfig) {
		c.inputType = inputType
		c.outputType = outputType
	}
}

// deliveryOptions holds per-call delivery configuration
type deliveryOptions struct {
	headers map[string]string
	timeout time.Duration
}

// DeliveryOption configures a single Request or Publish call
type DeliveryOption func(*deliveryOptions)

// WithHeaders merges the given headers into the message envelope
func WithHeaders(headers map[string]string) DeliveryOption {
	return func(o *deliveryOptions) {
		if o.headers == nil {
			o.headers = make(map[string]string, len(headers))
		}
		for k, v := range headers {
			o.headers[k] = v
		}
	}
}

// WithHeader sets a single header on the message envelope
func WithHeader(key, value string) DeliveryOption {
	return func(o *deliveryOptions) {
		if o.headers == nil {
			o.headers = make(map[string]string, 1)
		}
		o.headers[key] = value
	}
}

// WithRequestTimeout imposes a caller-side deadline on a Request. The bus
// enforces no timeout by default. Ignored by Publish.
func WithRequestTimeout(timeout time.Duration) DeliveryOption {
	return func(o *deliveryOptions) {
		o.timeout = timeout
	}
}
