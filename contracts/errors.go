package contracts

import (
	"errors"
	"fmt"
	"time"
)

var (
	// Registration errors
	ErrEmptyAddress = errors.New("address cannot be empty")
	ErrEmptyTopic   = errors.New("topic cannot be empty")
	ErrNilHandler   = errors.New("handler cannot be nil")
)

// NoConsumerError reports a request to an address with no registered
// consumer. It is always surfaced to the caller; a request never falls
// back to a default response.
type NoConsumerError struct {
	Address string
}

func (e *NoConsumerError) Error() string {
	return fmt.Sprintf("no consumer registered for address: %s", e.Address)
}

// HandlerExecutionError reports a consumer that failed (returned an error
// or panicked) while serving a request. It carries the offending address
// and message ID for diagnosis and wraps the underlying cause.
type HandlerExecutionError struct {
	Address   string
	MessageID string
	Err       error
}

func (e *HandlerExecutionError) Error() string {
	return fmt.Sprintf("handler failed for address %s (message %s): %v", e.Address, e.MessageID, e.Err)
}

func (e *HandlerExecutionError) Unwrap() error {
	return e.Err
}

// RequestTimeoutError reports that a caller-imposed request deadline
// elapsed before the consumer replied. The bus enforces no timeout of its
// own; this only occurs when WithRequestTimeout was supplied.
type RequestTimeoutError struct {
	Address string
	Timeout time.Duration
}

func (e *RequestTimeoutError) Error() string {
	return fmt.Sprintf("request to address %s timed out after %v", e.Address, e.Timeout)
}

// ListenerExecutionError reports a single listener that failed during a
// publish. Index is the listener's position in the snapshot taken at
// publish time. Sibling listeners are unaffected.
type ListenerExecutionError struct {
	Topic string
	Index int
	Err   error
}

func (e *ListenerExecutionError) Error() string {
	return fmt.Sprintf("listener %d failed for topic %s: %v", e.Index, e.Topic, e.Err)
}

func (e *ListenerExecutionError) Unwrap() error {
	return e.Err
}

// PublishError aggregates every listener failure from a single publish.
// Successful listeners have still run to completion when this is returned.
type PublishError struct {
	Topic  string
	Errors []error
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("publish to topic %s failed with %d listener error(s): %v", e.Topic, len(e.Errors), errors.Join(e.Errors...))
}

// Unwrap returns the individual listener errors so errors.Is and errors.As
// traverse into them.
func (e *PublishError) Unwrap() []error {
	return e.Errors
}
