package app

import (
	"os"
	"path/filepath"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
)

// Config holds the complete client configuration, loadable from
// environment variables (STOREFRONT_ prefix), flags, or YAML config files.
type Config struct {
	ServiceURL string `usage:"Catalog/order service base URL (STOREFRONT_SERVICE_URL)" flag:"service-url"`
	StateDir   string `default:"" usage:"Directory for session state (cart, sign-in)" flag:"state-dir"`
	CacheDir   string `default:"" usage:"Directory for the offline catalog cache" flag:"cache-dir"`
	Currency   string `default:"USD" usage:"Session display currency"`
	HTTP       HTTPConfig
	RateLimit  RateLimitConfig
}

// HTTPConfig controls the outbound HTTP client.
type HTTPConfig struct {
	Timeout time.Duration `default:"30s" usage:"Per-request timeout"`
}

// RateLimitConfig controls the client-side sliding window rate limiter.
type RateLimitConfig struct {
	Max     int           `default:"60" usage:"Max outbound requests per window"`
	Window  time.Duration `default:"1m" usage:"Rate limit window duration"`
	MaxWait time.Duration `default:"5s" usage:"Max time a request may wait for capacity" flag:"rate-max-wait"`
}

// LoadConfig loads configuration from environment variables, YAML config
// files, and applies platform defaults for the state directories.
func LoadConfig() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "STOREFRONT",
		Files:     []string{"config.yaml", "/etc/storefront/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyDefaults()

	if cfg.ServiceURL == "" {
		return nil, errors.New("service URL is required: set STOREFRONT_SERVICE_URL")
	}

	return &cfg, nil
}

// applyDefaults places state and cache under the user's home directory
// when not configured explicitly.
func (c *Config) applyDefaults() {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	if c.StateDir == "" {
		c.StateDir = filepath.Join(home, ".storefront", "state")
	}
	if c.CacheDir == "" {
		c.CacheDir = filepath.Join(home, ".storefront", "cache")
	}
}
