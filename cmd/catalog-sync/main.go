// Command catalog-sync refreshes the offline catalog cache: it fetches the
// full product list from the service, then writes the compressed dump and
// the product-id filter used for cheap negative lookups.
package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/go-faster/errors"
	"golang.org/x/sync/errgroup"

	"github.com/xenking/storefront-client/internal/catalog"
)

func main() {
	var (
		serviceURL string
		cacheDir   string
		timeout    time.Duration
	)

	flag.StringVar(&serviceURL, "service-url", "", "catalog service base URL (or STOREFRONT_SERVICE_URL env)")
	flag.StringVar(&cacheDir, "cache-dir", "", "cache directory (defaults to ~/.storefront/cache)")
	flag.DurationVar(&timeout, "timeout", 60*time.Second, "fetch timeout")
	flag.Parse()

	if serviceURL == "" {
		serviceURL = os.Getenv("STOREFRONT_SERVICE_URL")
	}
	if serviceURL == "" {
		slog.Error("service URL is required: set --service-url or STOREFRONT_SERVICE_URL")
		os.Exit(1)
	}
	if cacheDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		cacheDir = filepath.Join(home, ".storefront", "cache")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, serviceURL, cacheDir, timeout); err != nil {
		slog.Error("catalog sync failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("catalog sync completed successfully")
}

func run(ctx context.Context, serviceURL, cacheDir string, timeout time.Duration) error {
	client, err := catalog.New(serviceURL, &http.Client{Timeout: timeout}, nil)
	if err != nil {
		return errors.Wrap(err, "create catalog client")
	}

	cache, err := catalog.NewCache(cacheDir)
	if err != nil {
		return errors.Wrap(err, "open cache dir")
	}

	slog.Info("fetching catalog", slog.String("service_url", serviceURL))

	products, err := client.Products(ctx)
	if err != nil {
		return errors.Wrap(err, "fetch products")
	}

	slog.Info("writing cache",
		slog.Int("products", len(products)),
		slog.String("cache_dir", cacheDir),
	)

	// The dump and the filter are independent files; write them in parallel.
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		return errors.Wrap(cache.WriteProducts(products), "write product dump")
	})
	g.Go(func() error {
		return errors.Wrap(cache.WriteFilter(catalog.BuildFilter(products)), "write id filter")
	})
	return g.Wait()
}
