// Package interceptors provides a cross-cutting pipeline applied around
// every consumer and listener invocation of the event bus.
//
// Interceptors are composed into a Chain and executed in registration
// order, each receiving the message envelope and the next handler in the
// chain. Built-in interceptors cover logging, metrics collection, body
// validation, and opt-in retry. The bus itself never retries; the
// RetryInterceptor exists only for callers that explicitly want it.
package interceptors
