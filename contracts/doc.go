// Package contracts provides the core message envelope, error taxonomy,
// and endpoint contracts for the tinybus event dispatch engine.
//
// The central types are:
//   - Message: the immutable headers+body envelope handed to consumers
//   - NoConsumerError, HandlerExecutionError: request-side failures
//   - ListenerExecutionError, PublishError: publish-side failures
//   - EndpointContract: optional discoverable metadata for a consumer
//
// A nil response from a consumer is a valid outcome and is never reported
// through the error taxonomy; absence of a consumer always is.
package contracts
