// Package httpclient provides composable middleware for outbound HTTP
// requests: request identification, logging, client-side rate limiting,
// and OpenTelemetry instrumentation, applied as http.RoundTripper layers.
package httpclient

import "net/http"

// Middleware wraps an http.RoundTripper with additional behaviour.
type Middleware func(http.RoundTripper) http.RoundTripper

// RoundTripFunc adapts a function to http.RoundTripper.
type RoundTripFunc func(*http.Request) (*http.Response, error)

func (f RoundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

// Wrap applies middleware to base so that the first middleware listed is
// the outermost layer, matching reading order at the call site.
func Wrap(base http.RoundTripper, mw ...Middleware) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	for i := len(mw) - 1; i >= 0; i-- {
		base = mw[i](base)
	}
	return base
}
