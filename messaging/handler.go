package messaging

import (
	"context"

	"github.com/glimte/tinybus-go/contracts"
)

// RequestHandler serves requests sent to an address. The returned value
// becomes the caller's response; a nil response with a nil error is a
// valid, successful outcome meaning "no response payload".
type RequestHandler interface {
	HandleRequest(ctx context.Context, msg *contracts.Message) (any, error)
}

// RequestHandlerFunc is a function adapter for RequestHandler
type RequestHandlerFunc func(ctx context.Context, msg *contracts.Message) (any, error)

// HandleRequest implements RequestHandler
func (f RequestHandlerFunc) HandleRequest(ctx context.Context, msg *contracts.Message) (any, error) {
	return f(ctx, msg)
}

// EventHandler receives published event bodies. Its return value is never
// delivered to the publisher; a non-nil error only feeds the bus's
// listener error policy.
type EventHandler interface {
	HandleEvent(ctx context.Context, body any) error
}

// EventHandlerFunc is a function adapter for EventHandler
type EventHandlerFunc func(ctx context.Context, body any) error

// HandleEvent implements EventHandler
func (f EventHandlerFunc) HandleEvent(ctx context.Context, body any) error {
	return f(ctx, body)
}
