package health

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonitor_FailureThreshold(t *testing.T) {
	m := New()
	var fails atomic.Int64
	m.AddCheck("flaky", time.Second, func(context.Context) error {
		fails.Add(1)
		return errors.New("down")
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m.Start(ctx, 5*time.Millisecond)
	defer m.Stop()

	// One failure is not enough to flip the state.
	require.Eventually(t, func() bool { return fails.Load() >= 1 }, time.Second, time.Millisecond)
	if fails.Load() < 3 {
		assert.True(t, m.Snapshot()["flaky"].Healthy)
	}

	// Three consecutive failures are.
	require.Eventually(t, func() bool {
		return !m.Snapshot()["flaky"].Healthy
	}, time.Second, time.Millisecond)
	assert.False(t, m.Healthy())
	assert.EqualError(t, m.Snapshot()["flaky"].Err, "down")
}

func TestMonitor_RecoversAfterSingleSuccess(t *testing.T) {
	m := New()
	var healthy atomic.Bool
	m.AddCheck("dep", time.Second, func(context.Context) error {
		if healthy.Load() {
			return nil
		}
		return errors.New("down")
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m.Start(ctx, 5*time.Millisecond)
	defer m.Stop()

	require.Eventually(t, func() bool {
		return !m.Snapshot()["dep"].Healthy
	}, time.Second, time.Millisecond)

	healthy.Store(true)
	require.Eventually(t, func() bool {
		return m.Snapshot()["dep"].Healthy
	}, time.Second, time.Millisecond)
	assert.True(t, m.Healthy())
}

func TestReachabilityCheck(t *testing.T) {
	ok := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound) // reachable even though 4xx
	}))
	defer ok.Close()

	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer broken.Close()

	ctx := context.Background()
	assert.NoError(t, ReachabilityCheck(ok.Client(), ok.URL)(ctx))
	assert.Error(t, ReachabilityCheck(broken.Client(), broken.URL)(ctx))
	assert.Error(t, ReachabilityCheck(http.DefaultClient, "http://127.0.0.1:1")(ctx))
}

func TestGoroutineCountCheck(t *testing.T) {
	assert.NoError(t, GoroutineCountCheck(100000)(context.Background()))
	assert.Error(t, GoroutineCountCheck(0)(context.Background()))
}
