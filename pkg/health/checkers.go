package health

import (
	"context"
	"net/http"
	"runtime"

	"github.com/go-faster/errors"
)

// GoroutineCountCheck returns a CheckFunc that reports unhealthy when the
// number of goroutines exceeds the given threshold, to detect leaks in
// long-lived sessions.
func GoroutineCountCheck(threshold int) CheckFunc {
	return func(_ context.Context) error {
		count := runtime.NumGoroutine()
		if count > threshold {
			return errors.Errorf("goroutine count %d exceeds threshold %d", count, threshold)
		}
		return nil
	}
}

// ReachabilityCheck returns a CheckFunc that probes url with a GET request
// and reports unhealthy on transport errors or 5xx responses. 4xx counts
// as reachable: the service answered.
func ReachabilityCheck(client *http.Client, url string) CheckFunc {
	return func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return errors.Wrap(err, "build probe request")
		}
		resp, err := client.Do(req)
		if err != nil {
			return errors.Wrap(err, "probe")
		}
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode >= 500 {
			return errors.Errorf("service returned %d", resp.StatusCode)
		}
		return nil
	}
}
