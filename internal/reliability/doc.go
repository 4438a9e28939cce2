// Package reliability provides retry policies used by the opt-in retry
// interceptor. The dispatch engine itself never retries; these policies
// only run when a caller installs interceptors.RetryInterceptor.
package reliability
