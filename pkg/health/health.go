// Package health runs background availability checks and exposes their
// latest results. A client uses it to watch the remote services it depends
// on and to report its own condition (goroutine leaks, storage access)
// without failing any user-facing operation.
//
// Each registered check runs in its own goroutine at a configurable
// interval. Checks use failure/success thresholds (in the manner of
// Kubernetes probes) to avoid flapping: a check must fail consecutively
// failureThreshold times before being reported unhealthy, and succeed
// successThreshold times before being reported healthy again.
package health

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// CheckFunc is a health check function. It should return nil if the checked
// component is healthy, or an error describing the problem.
type CheckFunc func(ctx context.Context) error

// checkConfig holds the configuration and runtime state for a single check.
//
// Concurrency model: run() is called from exactly one goroutine (the
// ticker). The counters are only touched by run(), so they need no
// synchronization. The healthy flag and lastErr are read by Snapshot from
// arbitrary goroutines, so they use atomic operations.
type checkConfig struct {
	name             string
	timeout          time.Duration
	check            CheckFunc
	failureThreshold int
	successThreshold int

	healthy atomic.Bool
	lastErr atomic.Pointer[error]

	consecutiveFails int
	consecutiveOK    int
}

func (c *checkConfig) run(ctx context.Context) {
	checkCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	err := c.check(checkCtx)
	c.lastErr.Store(&err)

	if err != nil {
		c.consecutiveOK = 0
		c.consecutiveFails++
		if c.consecutiveFails >= c.failureThreshold {
			c.healthy.Store(false)
		}
	} else {
		c.consecutiveFails = 0
		c.consecutiveOK++
		if c.consecutiveOK >= c.successThreshold {
			c.healthy.Store(true)
		}
	}
}

// Status is the reported state of one check.
type Status struct {
	Healthy bool
	Err     error
}

// Monitor manages a set of named background checks.
type Monitor struct {
	// mu protects checks and cancel. Registration happens before Start;
	// Snapshot copies the slice under RLock and reads atomics after.
	mu     sync.RWMutex
	checks []*checkConfig
	cancel context.CancelFunc
}

// New creates an empty Monitor.
func New() *Monitor {
	return &Monitor{}
}

// AddCheck registers a named check. Checks start in the healthy state until
// proven otherwise, so a slow first probe does not flag a fresh session.
func (m *Monitor) AddCheck(name string, timeout time.Duration, check CheckFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c := &checkConfig{
		name:             name,
		timeout:          timeout,
		check:            check,
		failureThreshold: 3,
		successThreshold: 1,
	}
	c.healthy.Store(true)
	m.checks = append(m.checks, c)
}

// Start begins running all registered checks at the given interval, each in
// its own goroutine. Register every check before calling Start.
func (m *Monitor) Start(ctx context.Context, interval time.Duration) {
	ctx, cancel := context.WithCancel(ctx)

	m.mu.Lock()
	m.cancel = cancel
	checks := make([]*checkConfig, len(m.checks))
	copy(checks, m.checks)
	m.mu.Unlock()

	for _, c := range checks {
		go runCheck(ctx, c, interval)
	}
}

func runCheck(ctx context.Context, c *checkConfig, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Run immediately on start.
	c.run(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.run(ctx)
		}
	}
}

// Stop cancels all background check goroutines. Safe to call repeatedly.
func (m *Monitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}

// Snapshot reports the latest state of every check, keyed by name.
func (m *Monitor) Snapshot() map[string]Status {
	m.mu.RLock()
	checks := make([]*checkConfig, len(m.checks))
	copy(checks, m.checks)
	m.mu.RUnlock()

	out := make(map[string]Status, len(checks))
	for _, c := range checks {
		s := Status{Healthy: c.healthy.Load()}
		if p := c.lastErr.Load(); p != nil {
			s.Err = *p
		}
		out[c.name] = s
	}
	return out
}

// Healthy reports whether every registered check is currently passing.
func (m *Monitor) Healthy() bool {
	for _, s := range m.Snapshot() {
		if !s.Healthy {
			return false
		}
	}
	return true
}
