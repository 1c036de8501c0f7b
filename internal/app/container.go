// Package app wires the lumina dependencies.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/felixgeelhaar/lumina/internal/albums"
	albumApp "github.com/felixgeelhaar/lumina/internal/albums/application"
	albumCache "github.com/felixgeelhaar/lumina/internal/albums/infrastructure/cache"
	albumPersistence "github.com/felixgeelhaar/lumina/internal/albums/infrastructure/persistence"
	"github.com/felixgeelhaar/lumina/internal/shared/application/pipeline"
	"github.com/felixgeelhaar/lumina/internal/shared/application/response"
	"github.com/felixgeelhaar/lumina/internal/shared/infrastructure/database"
	_ "github.com/felixgeelhaar/lumina/internal/shared/infrastructure/database/postgres"
	_ "github.com/felixgeelhaar/lumina/internal/shared/infrastructure/database/sqlite"
	"github.com/felixgeelhaar/lumina/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/lumina/internal/shared/infrastructure/migrations"
	"github.com/felixgeelhaar/lumina/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/lumina/pkg/config"
	"github.com/felixgeelhaar/lumina/pkg/observability"
)

// Container holds all application dependencies.
type Container struct {
	Config  *config.Config
	Logger  *slog.Logger
	Metrics *observability.InMemoryMetrics
	Health  *observability.HealthRegistry

	// Infrastructure
	DBConn      database.Connection
	RedisClient *redis.Client
	UnitOfWork  *database.UnitOfWork
	OutboxRepo  *outbox.SQLRepository

	// Albums
	AlbumRepo  *albumPersistence.SQLAlbumRepository
	AlbumCache *albumCache.RedisCache

	// Pipeline
	Dispatcher *pipeline.Dispatcher
	Mapper     response.Mapper

	// Worker, built on demand by NewOutboxProcessor.
	EventPublisher  eventbus.Publisher
	OutboxProcessor *outbox.Processor
}

// NewContainer connects to the database, applies pending migrations and
// builds the request pipeline.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Container{
		Config:  cfg,
		Logger:  logger,
		Metrics: observability.NewInMemoryMetrics(),
		Health:  observability.NewHealthRegistry(),
		Mapper:  response.Mapper{UseKinds: cfg.StrictFailureKinds},
	}

	conn, err := OpenDatabase(ctx, cfg)
	if err != nil {
		return nil, err
	}
	c.DBConn = conn
	logger.Info("connected to database", "driver", conn.Driver())

	applied, err := migrations.Run(ctx, conn)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	if len(applied) > 0 {
		logger.Info("applied migrations", "migrations", applied)
	}

	if err := c.connectRedis(ctx); err != nil {
		c.Close()
		return nil, err
	}

	c.UnitOfWork = database.NewUnitOfWork(conn)
	c.OutboxRepo = outbox.NewSQLRepository(conn)
	c.AlbumRepo = albumPersistence.NewSQLAlbumRepository(conn)

	reg := pipeline.NewRegistry()
	albums.Register(reg, albums.Dependencies{
		Albums: c.AlbumRepo,
		Outbox: c.OutboxRepo,
		Cache:  c.cache(),
		Logger: logger,
	})

	c.Dispatcher, err = pipeline.NewDispatcher(reg,
		pipeline.NewLoggingBehavior(logger, c.Metrics),
		pipeline.NewValidationBehavior(logger),
		pipeline.NewTransactionBehavior(c.UnitOfWork, logger),
	)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to build dispatcher: %w", err)
	}

	c.Health.Register("database", observability.DatabaseHealthChecker(conn.Ping))
	if c.RedisClient != nil {
		c.Health.Register("redis", observability.RedisHealthChecker(func(ctx context.Context) error {
			return c.RedisClient.Ping(ctx).Err()
		}))
	}

	return c, nil
}

// OpenDatabase opens the connection selected by DATABASE_URL. An empty URL
// opens the SQLite file at SQLITE_PATH.
func OpenDatabase(ctx context.Context, cfg *config.Config) (database.Connection, error) {
	dbCfg := database.Config{
		Driver:   database.DetectDriver(cfg.DatabaseURL),
		URL:      cfg.DatabaseURL,
		MaxConns: cfg.DatabaseMaxConns,
	}
	if cfg.DatabaseURL == "" {
		dbCfg.SQLitePath = cfg.SQLitePath
	}
	conn, err := database.NewConnection(ctx, dbCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := conn.Ping(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return conn, nil
}

// connectRedis is optional in development: a bad URL or an unreachable
// server only disables the album cache.
func (c *Container) connectRedis(ctx context.Context) error {
	if c.Config.RedisURL == "" {
		return nil
	}

	opt, err := redis.ParseURL(c.Config.RedisURL)
	if err != nil {
		if !c.Config.IsDevelopment() {
			return fmt.Errorf("failed to parse Redis URL: %w", err)
		}
		c.Logger.Warn("invalid Redis URL, album cache disabled", "error", err)
		return nil
	}

	client := redis.NewClient(opt)
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		if !c.Config.IsDevelopment() {
			return fmt.Errorf("failed to connect to Redis: %w", err)
		}
		c.Logger.Warn("Redis not available, album cache disabled", "error", err)
		return nil
	}

	c.RedisClient = client
	c.AlbumCache = albumCache.NewRedisCache(client, c.Config.AlbumCacheTTL, c.Metrics)
	c.Logger.Info("connected to Redis")
	return nil
}

// NewOutboxProcessor builds the outbox processor. Without RABBITMQ_URL
// events are logged instead of published.
func (c *Container) NewOutboxProcessor() (*outbox.Processor, error) {
	if c.OutboxProcessor != nil {
		return c.OutboxProcessor, nil
	}

	var publisher eventbus.Publisher
	if c.Config.RabbitMQURL == "" {
		c.Logger.Warn("RABBITMQ_URL not set, using log publisher")
		publisher = eventbus.NewLogPublisher(c.Logger)
	} else {
		rabbit, err := eventbus.NewRabbitMQPublisher(c.Config.RabbitMQURL, c.Config.RabbitMQExchange, c.Logger)
		if err != nil {
			if !c.Config.IsDevelopment() {
				return nil, err
			}
			c.Logger.Warn("RabbitMQ not available, using log publisher", "error", err)
			publisher = eventbus.NewLogPublisher(c.Logger)
		} else {
			c.Health.Register("rabbitmq", observability.RabbitMQHealthChecker(rabbit.Ping))
			publisher = rabbit
		}
	}

	c.EventPublisher = eventbus.NewBreakerPublisher(publisher, eventbus.BreakerConfig{
		MaxFailures: c.Config.BreakerMaxFailures,
		OpenTimeout: c.Config.BreakerOpenTimeout,
	}, c.Logger)

	procCfg := outbox.DefaultProcessorConfig()
	procCfg.PollInterval = c.Config.OutboxPollInterval
	procCfg.BatchSize = c.Config.OutboxBatchSize
	procCfg.MaxRetries = c.Config.OutboxMaxRetries
	procCfg.RetentionDays = c.Config.OutboxRetentionDays
	procCfg.CleanupInterval = c.Config.OutboxCleanupInterval

	c.OutboxProcessor = outbox.NewProcessor(c.OutboxRepo, c.EventPublisher, procCfg, c.Logger).
		WithMetrics(c.Metrics)
	return c.OutboxProcessor, nil
}

// cache keeps a nil *RedisCache out of the interface.
func (c *Container) cache() albumApp.Cache {
	if c.AlbumCache == nil {
		return nil
	}
	return c.AlbumCache
}

// Close cleans up all resources.
func (c *Container) Close() error {
	var errs []error

	if c.OutboxProcessor != nil {
		c.OutboxProcessor.Stop()
	}

	if c.EventPublisher != nil {
		if err := c.EventPublisher.Close(); err != nil {
			c.Logger.Warn("error closing event publisher", "error", err)
			errs = append(errs, err)
		}
	}

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			c.Logger.Warn("error closing Redis connection", "error", err)
			errs = append(errs, err)
		} else {
			c.Logger.Info("Redis connection closed")
		}
	}

	if c.DBConn != nil {
		if err := c.DBConn.Close(); err != nil {
			c.Logger.Warn("error closing database connection", "error", err)
			errs = append(errs, err)
		} else {
			c.Logger.Info("database connection closed", "driver", c.DBConn.Driver())
		}
	}

	return errors.Join(errs...)
}
