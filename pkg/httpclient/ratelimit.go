package httpclient

import (
	"net/http"
	"sync"
	"time"

	"github.com/go-faster/errors"
)

// ErrRateLimited is returned when a request cannot proceed within the
// configured wait budget.
var ErrRateLimited = errors.New("httpclient: client-side rate limit exceeded")

// RateLimitConfig configures the sliding window limiter applied to
// outbound requests, so a misbehaving command loop can never hammer the
// remote service.
type RateLimitConfig struct {
	// Max is the maximum number of requests allowed per window.
	Max int
	// Window is the duration of each sliding window.
	Window time.Duration
	// MaxWait bounds how long a request may block waiting for capacity.
	// Zero means deny immediately when over the limit.
	MaxWait time.Duration
}

// entry tracks request counts across two adjacent windows for the sliding
// window algorithm, keyed by target host.
type entry struct {
	prevCount float64
	prevStart time.Time
	currCount float64
	currStart time.Time
}

type rateLimiter struct {
	cfg     RateLimitConfig
	mu      sync.Mutex
	entries map[string]*entry
	now     func() time.Time
}

// allow checks whether a request to host fits the current window. It
// returns the time at which capacity frees up when denied.
func (rl *rateLimiter) allow(host string) (resetAt time.Time, allowed bool) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	e, ok := rl.entries[host]
	if !ok {
		e = &entry{currStart: now}
		rl.entries[host] = e
	}

	// Rotate window if the current window has elapsed.
	if now.Sub(e.currStart) >= rl.cfg.Window {
		e.prevCount = e.currCount
		e.prevStart = e.currStart
		e.currCount = 0
		e.currStart = now.Truncate(rl.cfg.Window)
		if now.Sub(e.prevStart) >= 2*rl.cfg.Window {
			e.prevCount = 0
		}
	}

	// Sliding window: weight the previous window by how much of it still
	// overlaps the trailing window ending now.
	elapsed := now.Sub(e.currStart)
	overlapRatio := 1.0 - elapsed.Seconds()/rl.cfg.Window.Seconds()
	if overlapRatio < 0 {
		overlapRatio = 0
	}
	effectiveCount := e.prevCount*overlapRatio + e.currCount
	resetAt = e.currStart.Add(rl.cfg.Window)

	if effectiveCount >= float64(rl.cfg.Max) {
		return resetAt, false
	}

	e.currCount++
	return resetAt, true
}

// RateLimit returns a middleware enforcing cfg per target host. When over
// the limit it waits for capacity up to cfg.MaxWait (respecting request
// context cancellation), then fails with ErrRateLimited.
func RateLimit(cfg RateLimitConfig) Middleware {
	rl := &rateLimiter{cfg: cfg, entries: make(map[string]*entry), now: time.Now}
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripFunc(func(r *http.Request) (*http.Response, error) {
			deadline := rl.now().Add(cfg.MaxWait)
			for {
				resetAt, ok := rl.allow(r.URL.Host)
				if ok {
					return next.RoundTrip(r)
				}
				wait := time.Until(resetAt)
				if wait <= 0 {
					wait = cfg.Window / 10
				}
				if rl.now().Add(wait).After(deadline) {
					return nil, ErrRateLimited
				}
				timer := time.NewTimer(wait)
				select {
				case <-r.Context().Done():
					timer.Stop()
					return nil, r.Context().Err()
				case <-timer.C:
				}
			}
		})
	}
}
