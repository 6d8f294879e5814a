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

// Components holds all initialized service dependencies.
// Exactly one of DB and SQLite is set, matching Config.Database.Driver.
type Components struct {
	Config    *config.Config
	Logger    *logger.Logger
	DB        *db.DB
	SQLite    *db.SQLite
	Queue     queue.Queue
	Redis     *redis.Client
	Telemetry *telemetry.Telemetry

	// Internal
	cleanupFuncs []func() error
}

// Shutdown performs graceful shutdown of all components
// Should be called with defer after Setup()
func (c *Components) Shutdown(ctx context.Context) error {
	c.Logger.Info("shutting down components")

	var errs []error

	// LIFO
	for i := len(c.cleanupFuncs) - 1; i >= 0; i-- {
		if err := c.cleanupFuncs[i](); err != nil {
			errs = append(errs, err)
			c.Logger.Error("cleanup error", "error", err)
		}
	}
	c.cleanupFuncs = nil

	if len(errs) > 0 {
		return fmt.Errorf("shutdown errors: %v", errs)
	}

	c.Logger.Info("shutdown complete")
	return nil
}

// Health checks health of all components
func (c *Components) Health(ctx context.Context) error {
	if c.DB != nil {
		if err := c.DB.Health(ctx); err != nil {
			return fmt.Errorf("database unhealthy: %w", err)
		}
	}
	if c.SQLite != nil {
		if err := c.SQLite.Health(ctx); err != nil {
			return fmt.Errorf("database unhealthy: %w", err)
		}
	}
	if c.Redis != nil {
		if err := c.Redis.Ping(ctx); err != nil {
			return fmt.Errorf("redis unhealthy: %w", err)
		}
	}
	return nil
}

// Migrate applies schema migrations to whichever store is connected
func (c *Components) Migrate(ctx context.Context) error {
	switch {
	case c.DB != nil:
		return c.DB.Migrate(ctx)
	case c.SQLite != nil:
		return c.SQLite.Migrate(ctx)
	default:
		return fmt.Errorf("no database connection to migrate")
	}
}

// addCleanup registers a cleanup function
func (c *Components) addCleanup(fn func() error) {
	c.cleanupFuncs = append(c.cleanupFuncs, fn)
}
