package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Session    SessionConfig
	Credential CredentialConfig
	Mongo      MongoConfig
	Redis      RedisConfig
}

type SessionConfig struct {
	JWTSecret       string        `env:"JWT_SECRET"`
	TTL             time.Duration `env:"SESSION_TTL,       default=8h"`
	CookieSecure    bool          `env:"COOKIE_SECURE,     default=false"`
	NotificationTTL time.Duration `env:"NOTIFICATION_TTL,  default=6s"`
	FormCacheSize   int           `env:"FORM_CACHE_SIZE,   default=4096"`
}

// CredentialConfig selects the credential verifier. With an empty Endpoint
// credentials are checked in-process against the user repository.
type CredentialConfig struct {
	Endpoint string        `env:"CREDENTIAL_ENDPOINT"`
	Timeout  time.Duration `env:"CREDENTIAL_TIMEOUT, default=10s"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=staff_portal"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

// Development reports whether the service runs with developer defaults.
func (c *Config) Development() bool {
	return c.Env == "development"
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if cfg.Session.JWTSecret == "" && !cfg.Development() {
		return nil, fmt.Errorf("config: JWT_SECRET is required outside development")
	}
	if cfg.Session.JWTSecret == "" {
		cfg.Session.JWTSecret = "development-only-secret"
	}
	return &cfg, nil
}
