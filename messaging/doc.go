// Package messaging implements the tinybus dispatch engine.
//
// Two patterns are supported over logical string addresses:
//   - request-response: Consumer binds exactly one RequestHandler to an
//     address; Request sends a message and awaits its single reply
//   - publish-subscribe: On appends an EventHandler to a topic; Publish
//     fans out concurrently to every listener and returns nothing derived
//     from listener execution
//
// Addresses and topics share a namespace structurally but live in
// independent registries: registering a consumer under "user.created" says
// nothing about listeners on "user.created".
//
// Key semantics:
//   - re-registering a consumer for an address replaces the prior handler
//     (last-writer-wins); Register reports the replacement and the bus
//     logs a warning
//   - duplicate listener registrations are allowed and each is invoked
//     once per publish, in registration order of the snapshot
//   - consumers receive the full *contracts.Message envelope; listeners
//     receive the unwrapped body
//   - a failing listener never aborts its siblings; faults are aggregated
//     into *contracts.PublishError (default), logged, or routed to a
//     callback per the configured ListenerErrorPolicy
//
// Example usage:
//
//	bus := messaging.NewEventBus()
//
//	bus.ConsumerFunc("greeting", func(ctx context.Context, msg *contracts.Message) (any, error) {
//		return "Hello, " + msg.Body.(string) + "!", nil
//	})
//
//	bus.OnFunc("user.created", func(ctx context.Context, body any) error {
//		// react to the event
//		return nil
//	})
//
//	reply, err := bus.Request(ctx, "greeting", "World")
//	err = bus.Publish(ctx, "user.created", map[string]string{"email": "a@b.com"})
//
// All registries are safe for concurrent use; snapshots are taken before
// iteration so in-flight publishes never observe registry mutation.
package messaging
