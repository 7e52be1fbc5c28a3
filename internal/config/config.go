// Package config loads runtime configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	HTTPPort        string        `envconfig:"HTTP_PORT" default:"8080"`
	DatabasePath    string        `envconfig:"DATABASE_PATH" default:"storefront.db"`
	CatalogBaseURL  string        `envconfig:"CATALOG_BASE_URL" default:"https://fakestoreapi.com"`
	ContactEndpoint string        `envconfig:"CONTACT_ENDPOINT" default:""`
	RedisAddr       string        `envconfig:"REDIS_ADDR" default:""`
	RequestTimeout  time.Duration `envconfig:"REQUEST_TIMEOUT" default:"30s"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
	PaymentDelay    time.Duration `envconfig:"PAYMENT_DELAY" default:"2s"`
	CatalogCacheTTL time.Duration `envconfig:"CATALOG_CACHE_TTL" default:"15m"`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info"`
}

func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("read environment: %w", err)
	}
	return cfg, nil
}
