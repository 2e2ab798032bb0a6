package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/vasapolrittideah/strive-blog/shared/mailer"
	"github.com/vasapolrittideah/strive-blog/shared/media"
	"github.com/vasapolrittideah/strive-blog/shared/provider"
)

// BlogServiceConfig holds the configuration of the blog API.
type BlogServiceConfig struct {
	Env                string   `env:"APP_ENV"              envDefault:"development"`
	ServiceName        string   `env:"SERVICE_NAME"         envDefault:"blog-service"`
	Host               string   `env:"HOST"                 envDefault:"localhost"`
	Port               int      `env:"PORT"                 envDefault:"5001"`
	APIURL             string   `env:"API_URL"              envDefault:"http://localhost:5001"`
	FrontendURL        string   `env:"FRONTEND_URL"         envDefault:"http://localhost:5173"`
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"http://localhost:5173"`
	AuthorAdminEmails  []string `env:"AUTHOR_ADMIN_EMAILS"`
	ConsulAddr         string   `env:"CONSUL_ADDR"`
	GRPCHealthAddr     string   `env:"GRPC_HEALTH_ADDR"`

	PasswordResetURL       string        `env:"PASSWORD_RESET_URL"`
	PasswordResetExpiresIn time.Duration `env:"PASSWORD_RESET_EXPIRES_IN" envDefault:"30m"`

	MongoDB MongoDBConfig        `envPrefix:"MONGODB_"`
	Redis   RedisConfig          `envPrefix:"REDIS_"`
	Token   TokenConfig          `envPrefix:"JWT_"`
	SMTP    mailer.Config        `envPrefix:"SMTP_"`
	MinIO   media.Config         `envPrefix:"MINIO_"`
	Google  provider.OAuthConfig `envPrefix:"GOOGLE_"`
	GitHub  provider.OAuthConfig `envPrefix:"GITHUB_"`
}

type MongoDBConfig struct {
	URI      string `env:"URI"      envDefault:"mongodb://localhost:27017"`
	Database string `env:"DATABASE" envDefault:"strive_blog"`
}

type RedisConfig struct {
	Addr     string `env:"ADDR"     envDefault:"localhost:6379"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB"       envDefault:"0"`
}

type TokenConfig struct {
	Secret    string        `env:"SECRET,notEmpty"`
	Issuer    string        `env:"ISSUER"     envDefault:"strive-blog"`
	Audience  string        `env:"AUDIENCE"`
	ExpiresIn time.Duration `env:"EXPIRES_IN" envDefault:"24h"`
}

// Load reads .env when present and parses the environment.
func Load() (*BlogServiceConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg, err := env.ParseAs[BlogServiceConfig]()
	if err != nil {
		return nil, fmt.Errorf("failed to parse blog service config: %w", err)
	}

	if cfg.Google.RedirectURL == "" {
		cfg.Google.RedirectURL = cfg.APIURL + "/api/auth/google/callback"
	}
	if cfg.GitHub.RedirectURL == "" {
		cfg.GitHub.RedirectURL = cfg.APIURL + "/api/auth/github/callback"
	}
	if cfg.PasswordResetURL == "" {
		cfg.PasswordResetURL = cfg.FrontendURL + "/reset-password"
	}

	return &cfg, nil
}

func (c *BlogServiceConfig) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
