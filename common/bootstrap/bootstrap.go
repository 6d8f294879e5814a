package bootstrap

import (
	"context"
	"fmt"

	"github.com/lyzr/roster/common/config"
	"github.com/lyzr/roster/common/db"
	"github.com/lyzr/roster/common/logger"
	"github.com/lyzr/roster/common/queue"
	"github.com/lyzr/roster/common/redis"
	"github.com/lyzr/roster/common/telemetry"
)

// Setup initializes all service components
// This is the main entry point for all binaries
func Setup(ctx context.Context, serviceName string, opts ...Option) (*Components, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	components := &Components{
		cleanupFuncs: make([]func() error, 0),
	}

	// 1. Load configuration
	var err error
	if options.customConfig != nil {
		components.Config = options.customConfig
	} else {
		components.Config, err = config.Load(serviceName)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}
	if err := components.Config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	// 2. Initialize logger
	if options.customLogger != nil {
		components.Logger = options.customLogger
	} else {
		components.Logger = logger.New(
			components.Config.Service.LogLevel,
			components.Config.Service.LogFormat,
		)
	}

	components.Logger.Info("initializing service",
		"service", serviceName,
		"environment", components.Config.Service.Environment,
	)

	// 3. Initialize store (if not skipped)
	if !options.skipDB {
		if err := setupStore(ctx, components, options); err != nil {
			_ = components.Shutdown(ctx)
			return nil, err
		}
	}

	// 4. Initialize queue (if not skipped)
	if !options.skipQueue {
		components.Logger.Info("initializing queue", "topic", components.Config.Events.Topic)
		components.Queue = queue.NewMemoryQueue(components.Logger)

		components.addCleanup(func() error {
			components.Logger.Info("closing queue")
			return components.Queue.Close()
		})
	}

	// 5. Initialize redis (if enabled and not skipped)
	if !options.skipRedis && components.Config.Redis.Enabled {
		components.Logger.Info("connecting to redis", "addr", components.Config.RedisAddr())
		components.Redis, err = redis.Connect(ctx, redis.Options{
			Addr:     components.Config.RedisAddr(),
			Password: components.Config.Redis.Password,
			DB:       components.Config.Redis.DB,
		}, components.Logger)
		if err != nil {
			_ = components.Shutdown(ctx)
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}

		components.addCleanup(func() error {
			components.Logger.Info("closing redis connection")
			return components.Redis.Close()
		})
	}

	// 6. Initialize telemetry (if not skipped)
	if !options.skipTelemetry && components.Config.Telemetry.EnablePprof {
		components.Logger.Info("initializing telemetry")
		components.Telemetry = telemetry.New(components.Config.Telemetry.PprofPort, components.Logger)

		if err := components.Telemetry.Start(ctx); err != nil {
			// telemetry never blocks startup
			components.Logger.Warn("failed to start telemetry", "error", err)
		}
		components.addCleanup(func() error {
			return components.Telemetry.Shutdown(context.Background())
		})
	}

	components.Logger.Info("service initialization complete",
		"service", serviceName,
		"driver", components.Config.Database.Driver,
		"db", components.DB != nil || components.SQLite != nil,
		"queue", components.Queue != nil,
		"redis", components.Redis != nil,
		"telemetry", components.Telemetry != nil,
	)

	return components, nil
}

func setupStore(ctx context.Context, components *Components, options *options) error {
	cfg := components.Config
	log := components.Logger

	log.Info("connecting to database", "driver", cfg.Database.Driver)

	switch cfg.Database.Driver {
	case config.DriverPostgres:
		pool, err := db.New(ctx, cfg, log)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		components.DB = pool
		components.addCleanup(func() error {
			log.Info("closing database connection")
			pool.Close()
			return nil
		})

	case config.DriverSQLite:
		sqlite, err := db.NewSQLite(ctx, cfg, log)
		if err != nil {
			return fmt.Errorf("failed to open sqlite: %w", err)
		}
		components.SQLite = sqlite
		components.addCleanup(func() error {
			log.Info("closing sqlite database")
			return sqlite.Close()
		})

	default:
		return fmt.Errorf("unknown database driver: %s", cfg.Database.Driver)
	}

	if options.migrate || cfg.Database.AutoMigrate {
		log.Info("applying migrations")
		if err := components.Migrate(ctx); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	if options.storeInitHook != nil {
		log.Info("running store init hook")
		if err := options.storeInitHook(components); err != nil {
			return fmt.Errorf("store init hook failed: %w", err)
		}
	}
	return nil
}
