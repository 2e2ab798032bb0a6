package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// WebServiceConfig holds the configuration of the server-rendered frontend.
type WebServiceConfig struct {
	Env         string `env:"APP_ENV"      envDefault:"development"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"web-service"`
	Host        string `env:"HOST"         envDefault:"localhost"`
	Port        int    `env:"PORT"         envDefault:"5173"`

	// APIURL is the base URL of the blog API. When APIServiceName is set the API is
	// looked up in Consul instead.
	APIURL         string        `env:"API_URL"          envDefault:"http://localhost:5001"`
	APIServiceName string        `env:"API_SERVICE_NAME"`
	APITimeout     time.Duration `env:"API_TIMEOUT"      envDefault:"10s"`
	// PublicAPIURL is the API address reachable from browsers, used for OAuth links.
	PublicAPIURL string `env:"PUBLIC_API_URL"`

	ConsulAddr   string `env:"CONSUL_ADDR"`
	CookieSecure bool   `env:"COOKIE_SECURE"`
}

// Load reads .env when present and parses the environment.
func Load() (*WebServiceConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg, err := env.ParseAs[WebServiceConfig]()
	if err != nil {
		return nil, fmt.Errorf("failed to parse web service config: %w", err)
	}

	if cfg.PublicAPIURL == "" {
		cfg.PublicAPIURL = cfg.APIURL
	}

	return &cfg, nil
}

func (c *WebServiceConfig) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
