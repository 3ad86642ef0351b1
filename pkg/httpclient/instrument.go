package httpclient

import (
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Instrument returns a middleware adding OpenTelemetry spans and metrics
// to every outbound request. Place it innermost so the recorded latency
// excludes time spent waiting in the rate limiter.
func Instrument(tp trace.TracerProvider, mp metric.MeterProvider) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return otelhttp.NewTransport(next,
			otelhttp.WithTracerProvider(tp),
			otelhttp.WithMeterProvider(mp),
		)
	}
}
