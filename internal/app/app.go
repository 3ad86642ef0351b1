package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	sdkapp "github.com/go-faster/sdk/app"
	"go.uber.org/zap"

	cartstore "github.com/xenking/storefront-client/internal/cart"
	"github.com/xenking/storefront-client/internal/catalog"
	"github.com/xenking/storefront-client/internal/checkout"
	"github.com/xenking/storefront-client/internal/cli"
	"github.com/xenking/storefront-client/internal/identity"
	"github.com/xenking/storefront-client/pkg/health"
	"github.com/xenking/storefront-client/pkg/httpclient"
	"github.com/xenking/storefront-client/pkg/kvstore"
)

// Run creates all dependencies and drives the interactive session until it
// ends or the context is cancelled. It is the single wiring point for the
// client.
func Run(ctx context.Context, lg *zap.Logger, m *sdkapp.Telemetry, cfg *Config) error {
	lg.Info("Initializing", zap.String("service_url", cfg.ServiceURL))

	// Session state: cart and sign-in survive restarts via the file store.
	kv, err := kvstore.NewFileStore(cfg.StateDir)
	if err != nil {
		return errors.Wrap(err, "open state dir")
	}

	ids := identity.NewSessionProvider(kv, lg.Named("identity"))

	persist := cartstore.NewPersistence(kv, lg.Named("cart"))
	carts := cartstore.NewStore(persist, cfg.Currency)

	// Outbound HTTP: rate limited, identified, logged, instrumented.
	transport := httpclient.Wrap(nil,
		httpclient.RateLimit(httpclient.RateLimitConfig{
			Max:     cfg.RateLimit.Max,
			Window:  cfg.RateLimit.Window,
			MaxWait: cfg.RateLimit.MaxWait,
		}),
		httpclient.RequestID(),
		httpclient.LogRequests(),
		httpclient.Instrument(m.TracerProvider(), m.MeterProvider()),
	)
	httpClient := &http.Client{
		Timeout:   cfg.HTTP.Timeout,
		Transport: transport,
	}

	remote, err := catalog.New(cfg.ServiceURL, httpClient, ids)
	if err != nil {
		return errors.Wrap(err, "create catalog client")
	}

	// Offline cache: the id filter is optional, the session works without it.
	cache, err := catalog.NewCache(cfg.CacheDir)
	if err != nil {
		return errors.Wrap(err, "open cache dir")
	}
	if filter, err := cache.ReadFilter(); err == nil {
		remote.SetNegativeFilter(filter)
		lg.Debug("Loaded catalog id filter")
	}

	orders := checkout.NewService(carts, remote, ids, cfg.Currency, lg.Named("checkout"))

	// Background availability checks feed the `status` command. Probes use
	// a bare client so they never consume the session's rate budget.
	monitor := health.New()
	probeClient := &http.Client{Timeout: 5 * time.Second}
	monitor.AddCheck("catalog-service", 5*time.Second,
		health.ReachabilityCheck(probeClient, cfg.ServiceURL+"/api/products"))
	monitor.AddCheck("goroutines", time.Second, health.GoroutineCountCheck(10000))
	monitor.Start(ctx, 30*time.Second)
	defer monitor.Stop()

	session := cli.New(cli.Deps{
		Logger:   lg.Named("cli"),
		Catalog:  remote,
		Cache:    cache,
		Carts:    carts,
		Identity: ids,
		Checkout: orders,
		Monitor:  monitor,
		Currency: cfg.Currency,
	})
	return session.Run(ctx)
}
