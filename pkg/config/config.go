package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	// Application
	AppEnv    string `env:"APP_ENV" envDefault:"development"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT"`
	Version   string `env:"LUMINA_VERSION" envDefault:"dev"`
	// UserID is the owner used by the album CLI commands.
	UserID string `env:"LUMINA_USER_ID" envDefault:"00000000-0000-0000-0000-000000000001"`

	// Database. An empty DATABASE_URL selects the local SQLite file.
	DatabaseURL      string `env:"DATABASE_URL"`
	SQLitePath       string `env:"SQLITE_PATH" envDefault:"lumina.db"`
	DatabaseMaxConns int    `env:"DATABASE_MAX_CONNS" envDefault:"10"`

	// Redis. An empty REDIS_URL disables the album cache.
	RedisURL      string        `env:"REDIS_URL"`
	AlbumCacheTTL time.Duration `env:"ALBUM_CACHE_TTL" envDefault:"5m"`

	// RabbitMQ. An empty RABBITMQ_URL makes the worker log events instead.
	RabbitMQURL      string `env:"RABBITMQ_URL"`
	RabbitMQExchange string `env:"RABBITMQ_EXCHANGE" envDefault:"lumina.events"`

	// HTTP
	HTTPAddr         string        `env:"HTTP_ADDR" envDefault:"0.0.0.0:8080"`
	HTTPReadTimeout  time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"15s"`
	HTTPWriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"15s"`
	ShutdownTimeout  time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// Outbox
	OutboxPollInterval    time.Duration `env:"OUTBOX_POLL_INTERVAL" envDefault:"500ms"`
	OutboxBatchSize       int           `env:"OUTBOX_BATCH_SIZE" envDefault:"100"`
	OutboxMaxRetries      int           `env:"OUTBOX_MAX_RETRIES" envDefault:"5"`
	OutboxRetentionDays   int           `env:"OUTBOX_RETENTION_DAYS" envDefault:"14"`
	OutboxCleanupInterval time.Duration `env:"OUTBOX_CLEANUP_INTERVAL" envDefault:"24h"`
	// WorkerHealthAddr enables the worker's /healthz and /readyz endpoints.
	WorkerHealthAddr string `env:"WORKER_HEALTH_ADDR"`

	// Publisher circuit breaker
	BreakerMaxFailures uint32        `env:"PUBLISHER_BREAKER_MAX_FAILURES" envDefault:"5"`
	BreakerOpenTimeout time.Duration `env:"PUBLISHER_BREAKER_OPEN_TIMEOUT" envDefault:"30s"`

	// StrictFailureKinds maps failure outcomes to HTTP status by kind
	// instead of by message text.
	StrictFailureKinds bool `env:"STRICT_FAILURE_KINDS" envDefault:"false"`
}

// Load reads an optional .env file and parses the environment.
func Load() (*Config, error) {
	// A missing .env file is fine.
	_ = godotenv.Load()

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.DatabaseMaxConns < 1 {
		return fmt.Errorf("DATABASE_MAX_CONNS must be positive, got %d", c.DatabaseMaxConns)
	}
	if c.OutboxBatchSize < 1 {
		return fmt.Errorf("OUTBOX_BATCH_SIZE must be positive, got %d", c.OutboxBatchSize)
	}
	if c.OutboxPollInterval <= 0 {
		return fmt.Errorf("OUTBOX_POLL_INTERVAL must be positive, got %s", c.OutboxPollInterval)
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}
