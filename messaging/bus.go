package messaging

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/glimte/tinybus-go/contracts"
	"github.com/glimte/tinybus-go/interceptors"
)

// EventBus is the dispatch engine. It owns a consumer registry for
// request-response and a listener registry for publish-subscribe, and it
// implements the invocation, correlation, and fan-out semantics of both
// patterns. An EventBus is a plain constructible object; independent buses
// coexist and never share registries.
type EventBus struct {
	consumers       *ConsumerRegistry
	listeners       *ListenerRegistry
	logger          *slog.Logger
	chain           *interceptors.Chain
	errorPolicy     ListenerErrorPolicy
	onListenerError ListenerErrorFunc
	maxConcurrent   int
}

// NewEventBus creates a new event bus. It requires no configuration;
// options adjust logging, the listener error policy, fan-out bounds, and
// the interceptor chain.
func NewEventBus(options ...BusOption) *EventBus {
	b := &EventBus{
		consumers: NewConsumerRegistry(),
		listeners: NewListenerRegistry(),
		logger:    slog.Default(),
	}

	for _, opt := range options {
		opt(b)
	}

	// Callback policy without a callback would drop failures silently
	if b.errorPolicy == ListenerErrorCallback && b.onListenerError == nil {
		b.errorPolicy = ListenerErrorAggregate
	}

	return b
}

// Consumer is a registration handle for a request-response consumer.
type Consumer struct {
	bus     *EventBus
	address string
	handler RequestHandler
}

// Address returns the address this consumer is registered to.
func (c *Consumer) Address() string { return c.address }

// Handler returns the registered handler unchanged, so it remains
// independently callable.
func (c *Consumer) Handler() RequestHandler { return c.handler }

// Unregister removes this consumer from the bus. Note that if the address
// has since been re-registered, the current handler is removed whichever
// registration it came from.
func (c *Consumer) Unregister() bool {
	return c.bus.RemoveConsumer(c.address)
}

// Listener is a registration handle for a publish-subscribe listener.
// Unregister removes exactly this registration, which matters when the
// same handler is registered more than once.
type Listener struct {
	bus     *EventBus
	topic   string
	id      string
	handler EventHandler
}

// Topic returns the topic this listener is registered to.
func (l *Listener) Topic() string { return l.topic }

// Handler returns the registered handler unchanged.
func (l *Listener) Handler() EventHandler { return l.handler }

// Unregister removes this registration from the bus.
func (l *Listener) Unregister() bool {
	return l.bus.listeners.Unregister(l.topic, l.id)
}

// Consumer registers a request-response handler for an address, replacing
// any existing handler (last-writer-wins). The replacement is logged at
// warn level so silent overwrites stay discoverable. Returns a handle for
// unregistering.
func (b *EventBus) Consumer(address string, handler RequestHandler, options ...ConsumerOption) (*Consumer, error) {
	if address == "" {
		return nil, contracts.ErrEmptyAddress
	}
	if handler == nil {
		return nil, contracts.ErrNilHandler
	}

	cfg := consumerConfig{}
	for _, opt := range options {
		opt(&cfg)
	}

	var contract *contracts.EndpointContract
	if cfg.version != "" {
		contract = &contracts.EndpointContract{
			Address:      address,
			Version:      cfg.version,
			Description:  cfg.description,
			InputType:    cfg.inputType,
			OutputType:   cfg.outputType,
			RegisteredAt: time.Now().UTC(),
		}
	}

	replaced := b.consumers.Register(address, handler, contract)
	if replaced {
		b.logger.Warn("replaced existing consumer", "address", address)
	} else {
		b.logger.Debug("registered consumer", "address", address)
	}

	return &Consumer{bus: b, address: address, handler: handler}, nil
}

// ConsumerFunc registers a function as a request-response handler.
func (b *EventBus) ConsumerFunc(address string, handler RequestHandlerFunc, options ...ConsumerOption) (*Consumer, error) {
	if handler == nil {
		return nil, contracts.ErrNilHandler
	}
	return b.Consumer(address, handler, options...)
}

// On registers a listener for a topic, appending to the topic's ordered
// listener sequence. Duplicate registrations are permitted and each is
// invoked once per publish. Returns a handle for unregistering.
func (b *EventBus) On(topic string, handler EventHandler) (*Listener, error) {
	if topic == "" {
		return nil, contracts.ErrEmptyTopic
	}
	if handler == nil {
		return nil, contracts.ErrNilHandler
	}

	id := b.listeners.Register(topic, handler)
	b.logger.Debug("registered listener", "topic", topic, "listenerCount", b.listeners.Count(topic))

	return &Listener{bus: b, topic: topic, id: id, handler: handler}, nil
}

// OnFunc registers a function as a listener.
func (b *EventBus) OnFunc(topic string, handler EventHandlerFunc) (*Listener, error) {
	if handler == nil {
		return nil, contracts.ErrNilHandler
	}
	return b.On(topic, handler)
}

// RemoveConsumer removes the handler registered for an address. Removing
// an absent address is a no-op.
func (b *EventBus) RemoveConsumer(address string) bool {
	removed := b.consumers.Unregister(address)
	if removed {
		b.logger.Debug("unregistered consumer", "address", address)
	}
	return removed
}

// RemoveListener removes the first registration of the given handler on a
// topic. Removing an unknown handler is a no-op.
func (b *EventBus) RemoveListener(topic string, handler EventHandler) bool {
	removed := b.listeners.RemoveHandler(topic, handler)
	if removed {
		b.logger.Debug("unregistered listener", "topic", topic)
	}
	return removed
}

// Request sends a message to an address and waits for the single reply.
//
// The body and headers are wrapped into a *contracts.Message and delivered
// to the registered handler exactly once. The handler's result becomes the
// response; a nil response with nil error is a valid success. With no
// handler registered the call fails with *contracts.NoConsumerError, and a
// handler failure (error or panic) surfaces as
// *contracts.HandlerExecutionError. There is no retry and no implicit
// timeout; WithRequestTimeout imposes a caller-side deadline.
func (b *EventBus) Request(ctx context.Context, address string, body any, options ...DeliveryOption) (any, error) {
	if address == "" {
		return nil, contracts.ErrEmptyAddress
	}

	opts := deliveryOptions{}
	for _, opt := range options {
		opt(&opts)
	}

	handler, ok := b.consumers.Lookup(address)
	if !ok {
		b.logger.Warn("request to unregistered address", "address", address)
		return nil, &contracts.NoConsumerError{Address: address}
	}

	msg := contracts.NewMessage(address, body, opts.headers)

	if opts.timeout > 0 {
		return b.invokeWithTimeout(ctx, address, handler, msg, opts.timeout)
	}
	return b.invoke(ctx, address, handler, msg)
}

// Publish emits an event to all listeners of a topic and waits for them to
// complete.
//
// Listeners receive the unwrapped body and run concurrently, one goroutine
// each, optionally bounded by WithMaxConcurrentListeners. A failing
// listener never aborts its siblings; collected failures are returned as
// *contracts.PublishError, logged, or routed to the configured callback
// depending on the listener error policy. Zero listeners is a normal state
// and completes successfully.
func (b *EventBus) Publish(ctx context.Context, topic string, body any, options ...DeliveryOption) error {
	if topic == "" {
		return contracts.ErrEmptyTopic
	}

	opts := deliveryOptions{}
	for _, opt := range options {
		opt(&opts)
	}

	snapshot := b.listeners.Snapshot(topic)
	if len(snapshot) == 0 {
		b.logger.Debug("publish to topic with no listeners", "topic", topic)
		return nil
	}

	msg := contracts.NewMessage(topic, body, opts.headers)

	var sem chan struct{}
	if b.maxConcurrent > 0 {
		sem = make(chan struct{}, b.maxConcurrent)
	}

	var wg sync.WaitGroup
	errChan := make(chan error, len(snapshot))

	for i, listener := range snapshot {
		wg.Add(1)
		go func(index int, l EventHandler) {
			defer wg.Done()

			if sem != nil {
				sem <- struct{}{}
				defer func() { <-sem }()
			}

			if err := b.invokeListener(ctx, l, msg); err != nil {
				b.logger.Error("listener failed",
					"topic", topic,
					"messageId", msg.ID,
					"listener", index,
					"error", err,
				)
				errChan <- &contracts.ListenerExecutionError{Topic: topic, Index: index, Err: err}
			}
		}(i, listener)
	}

	wg.Wait()
	close(errChan)

	var errs []error
	for err := range errChan {
		errs = append(errs, err)
	}

	if len(errs) == 0 {
		b.logger.Debug("event published",
			"topic", topic,
			"messageId", msg.ID,
			"listenerCount", len(snapshot),
		)
		return nil
	}

	switch b.errorPolicy {
	case ListenerErrorIgnore:
		return nil
	case ListenerErrorCallback:
		for _, err := range errs {
			b.onListenerError(topic, err)
		}
		return nil
	default:
		return &contracts.PublishError{Topic: topic, Errors: errs}
	}
}

// Addresses returns all registered consumer addresses.
func (b *EventBus) Addresses() []string {
	return b.consumers.Addresses()
}

// HasConsumer reports whether a handler is registered for the address.
func (b *EventBus) HasConsumer(address string) bool {
	return b.consumers.Contains(address)
}

// ListenerCount returns the number of listeners registered for a topic.
func (b *EventBus) ListenerCount(topic string) int {
	return b.listeners.Count(topic)
}

// Topics returns all topics with at least one listener.
func (b *EventBus) Topics() []string {
	return b.listeners.Topics()
}

// DiscoverContracts returns the endpoint contracts of registered consumers
// matching an address pattern (supports "*" wildcards) and a semver
// version constraint. Empty pattern or version matches everything.
func (b *EventBus) DiscoverContracts(pattern, version string) []contracts.EndpointContract {
	return b.consumers.Contracts(pattern, version)
}

// invoke runs the handler through the interceptor chain on the caller's
// goroutine. Panics are recovered so a faulting handler surfaces as an
// error instead of tearing down the process.
func (b *EventBus) invoke(ctx context.Context, address string, handler RequestHandler, msg *contracts.Message) (any, error) {
	var response any

	run := func(ctx context.Context) (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("handler panic: %v", r)
			}
		}()

		final := interceptors.HandlerFunc(func(ctx context.Context, m *contracts.Message) error {
			resp, herr := handler.HandleRequest(ctx, m)
			if herr != nil {
				return herr
			}
			response = resp
			return nil
		})

		if b.chain != nil {
			return b.chain.Execute(ctx, msg, final)
		}
		return final.Handle(ctx, msg)
	}

	if err := run(ctx); err != nil {
		b.logger.Error("handler failed",
			"address", address,
			"messageId", msg.ID,
			"error", err,
		)
		return nil, &contracts.HandlerExecutionError{Address: address, MessageID: msg.ID, Err: err}
	}

	return response, nil
}

// invokeWithTimeout runs the handler on its own goroutine and abandons the
// wait when the deadline elapses. The handler goroutine observes the
// cancellation through its context.
func (b *EventBus) invokeWithTimeout(ctx context.Context, address string, handler RequestHandler, msg *contracts.Message, timeout time.Duration) (any, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		response any
		err      error
	}
	done := make(chan result, 1)

	go func() {
		resp, err := b.invoke(timeoutCtx, address, handler, msg)
		done <- result{response: resp, err: err}
	}()

	select {
	case res := <-done:
		return res.response, res.err
	case <-timeoutCtx.Done():
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		b.logger.Warn("request timed out", "address", address, "timeout", timeout)
		return nil, &contracts.RequestTimeoutError{Address: address, Timeout: timeout}
	}
}

// invokeListener runs a single listener through the interceptor chain,
// recovering panics so sibling listeners are unaffected. Listeners receive
// the unwrapped body; the envelope is only visible to interceptors.
func (b *EventBus) invokeListener(ctx context.Context, listener EventHandler, msg *contracts.Message) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("listener panic: %v", r)
		}
	}()

	final := interceptors.HandlerFunc(func(ctx context.Context, m *contracts.Message) error {
		return listener.HandleEvent(ctx, m.Body)
	})

	if b.chain != nil {
		return b.chain.Execute(ctx, msg, final)
	}
	return final.Handle(ctx, msg)
}
