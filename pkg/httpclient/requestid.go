package httpclient

import (
	"net/http"

	"github.com/google/uuid"
)

// HeaderRequestID is the header carrying the per-request identifier.
const HeaderRequestID = "X-Request-ID"

// RequestID returns a middleware that stamps every outbound request with a
// unique identifier. A valid identifier already present on the request is
// kept (a caller may correlate several calls under one id). Present values
// must be at most 128 bytes of printable ASCII (0x20–0x7E); anything else
// is replaced with a fresh UUID v4.
func RequestID() Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripFunc(func(r *http.Request) (*http.Response, error) {
			id := r.Header.Get(HeaderRequestID)
			if !isValidRequestID(id) {
				r = r.Clone(r.Context())
				r.Header.Set(HeaderRequestID, uuid.New().String())
			}
			return next.RoundTrip(r)
		})
	}
}

// isValidRequestID checks that id is non-empty, at most 128 bytes, and
// contains only printable ASCII (0x20–0x7E).
func isValidRequestID(id string) bool {
	if len(id) == 0 || len(id) > 128 {
		return false
	}
	for i := range len(id) {
		if id[i] < 0x20 || id[i] > 0x7E {
			return false
		}
	}
	return true
}
