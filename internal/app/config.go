package app

import (
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/stockdesk/stockdesk/internal/platform/cache"
)

// Config holds runtime configuration for the application.
type Config struct {
	AppEnv            string        `envconfig:"APP_ENV" default:"development"`
	AppAddr           string        `envconfig:"APP_ADDR" default:":8000"`
	AppReadTimeout    time.Duration `envconfig:"APP_READ_TIMEOUT" default:"15s"`
	AppWriteTimeout   time.Duration `envconfig:"APP_WRITE_TIMEOUT" default:"15s"`
	AppRequestTimeout time.Duration `envconfig:"APP_REQUEST_TIMEOUT" default:"30s"`
	AppRateLimit      int           `envconfig:"APP_RATE_LIMIT" default:"120"`

	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	InventoryAPIURL     string        `envconfig:"INVENTORY_API_URL" default:"http://localhost:8080/api/v1"`
	InventoryAPITimeout time.Duration `envconfig:"INVENTORY_API_TIMEOUT" default:"0s"`

	RedisAddr     string        `envconfig:"REDIS_ADDR" default:"127.0.0.1:6379"`
	RedisPassword string        `envconfig:"REDIS_PASSWORD"`
	RedisDB       int           `envconfig:"REDIS_DB" default:"0"`
	SessionSecret string        `envconfig:"SESSION_SECRET" required:"true"`
	SessionTTL    time.Duration `envconfig:"SESSION_TTL" default:"720h"`

	CSRFSecret string `envconfig:"CSRF_SECRET" required:"true"`

	SearchDebounce      time.Duration `envconfig:"SEARCH_DEBOUNCE" default:"300ms"`
	AnalyticsMountDelay time.Duration `envconfig:"ANALYTICS_MOUNT_DELAY" default:"100ms"`
	ChartCacheTTL       time.Duration `envconfig:"CHART_CACHE_TTL" default:"10m"`

	CacheRefreshCron  string `envconfig:"CACHE_REFRESH_CRON" default:"0 */6 * * *"`
	LowStockScanCron  string `envconfig:"LOW_STOCK_SCAN_CRON" default:"*/30 * * * *"`
	LowStockLimit     int    `envconfig:"LOW_STOCK_LIMIT" default:"50"`
	WorkerConcurrency int    `envconfig:"WORKER_CONCURRENCY" default:"5"`
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values envconfig cannot express.
func (c *Config) Validate() error {
	if c.SessionSecret == "" {
		return errors.New("session secret must be provided")
	}
	if c.CSRFSecret == "" {
		return errors.New("csrf secret must be provided")
	}
	u, err := url.Parse(strings.TrimSpace(c.InventoryAPIURL))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.New("inventory api url must be an absolute URL")
	}
	if c.SearchDebounce < 0 || c.AnalyticsMountDelay < 0 || c.InventoryAPITimeout < 0 {
		return errors.New("durations must not be negative")
	}
	return nil
}

// IsProduction returns true when the application runs in production.
func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}

// Redis returns the connection settings shared by sessions, chart caching and jobs.
func (c *Config) Redis() cache.Options {
	return cache.Options{Addr: c.RedisAddr, Password: c.RedisPassword, DB: c.RedisDB}
}
