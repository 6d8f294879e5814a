package bootstrap

import (
	"github.com/lyzr/roster/common/config"
	"github.com/lyzr/roster/common/logger"
)

// Option configures the bootstrap process
type Option func(*options)

type options struct {
	skipDB        bool
	skipQueue     bool
	skipRedis     bool
	skipTelemetry bool
	migrate       bool
	customLogger  *logger.Logger
	customConfig  *config.Config
	storeInitHook func(*Components) error
}

// WithoutDB skips store initialization
func WithoutDB() Option {
	return func(o *options) {
		o.skipDB = true
	}
}

// WithoutQueue skips queue initialization
func WithoutQueue() Option {
	return func(o *options) {
		o.skipQueue = true
	}
}

// WithoutRedis skips the Redis connection even when REDIS_ENABLED is set
func WithoutRedis() Option {
	return func(o *options) {
		o.skipRedis = true
	}
}

// WithoutTelemetry skips telemetry initialization
func WithoutTelemetry() Option {
	return func(o *options) {
		o.skipTelemetry = true
	}
}

// WithMigrations applies schema migrations after connecting,
// regardless of AUTO_MIGRATE
func WithMigrations() Option {
	return func(o *options) {
		o.migrate = true
	}
}

// WithCustomLogger uses a custom logger instead of creating one
func WithCustomLogger(log *logger.Logger) Option {
	return func(o *options) {
		o.customLogger = log
	}
}

// WithCustomConfig uses a custom config instead of loading from env
func WithCustomConfig(cfg *config.Config) Option {
	return func(o *options) {
		o.customConfig = cfg
	}
}

// WithStoreInitHook runs a custom function once the store is connected
// and migrated. Useful for seeding data.
func WithStoreInitHook(hook func(*Components) error) Option {
	return func(o *options) {
		o.storeInitHook = hook
	}
}

func defaultOptions() *options {
	return &options{}
}
