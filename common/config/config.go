package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Supported store drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds all service configuration
type Config struct {
	Service   ServiceConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Events    EventsConfig
	Telemetry TelemetryConfig
}

// ServiceConfig holds service-specific settings
type ServiceConfig struct {
	Name            string
	Port            int
	Environment     string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
}

// DatabaseConfig holds store connection settings.
// Driver selects between the Postgres pool and the embedded SQLite file.
type DatabaseConfig struct {
	Driver      string
	AutoMigrate bool
	SQLiteDSN   string
	Host        string
	Port        int
	Database    string
	User        string
	Password    string
	MaxConns    int
	MinConns    int
	MaxIdleTime time.Duration
	MaxLifetime time.Duration
}

// RedisConfig holds the optional Redis connection used by the event relay
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// EventsConfig controls the accepted-event feed
type EventsConfig struct {
	Topic        string
	Channel      string
	Stream       string
	StreamMaxLen int64
}

// TelemetryConfig holds observability settings
type TelemetryConfig struct {
	EnablePprof bool
	PprofPort   int
}

// Load loads configuration from defaults, an optional config file
// (CONFIG_FILE) and environment variables, in increasing precedence.
func Load(serviceName string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	cfg := &Config{
		Service: ServiceConfig{
			Name:            serviceName,
			Port:            v.GetInt("port"),
			Environment:     v.GetString("environment"),
			LogLevel:        v.GetString("log_level"),
			LogFormat:       v.GetString("log_format"),
			ShutdownTimeout: v.GetDuration("shutdown_timeout"),
		},
		Database: DatabaseConfig{
			Driver:      v.GetString("db_driver"),
			AutoMigrate: v.GetBool("auto_migrate"),
			SQLiteDSN:   v.GetString("sqlite_dsn"),
			Host:        v.GetString("postgres_host"),
			Port:        v.GetInt("postgres_port"),
			Database:    v.GetString("postgres_db"),
			User:        v.GetString("postgres_user"),
			Password:    v.GetString("postgres_password"),
			MaxConns:    v.GetInt("postgres_max_conns"),
			MinConns:    v.GetInt("postgres_min_conns"),
			MaxIdleTime: v.GetDuration("postgres_max_idle_time"),
			MaxLifetime: v.GetDuration("postgres_max_lifetime"),
		},
		Redis: RedisConfig{
			Enabled:  v.GetBool("redis_enabled"),
			Host:     v.GetString("redis_host"),
			Port:     v.GetInt("redis_port"),
			Password: v.GetString("redis_password"),
			DB:       v.GetInt("redis_db"),
		},
		Events: EventsConfig{
			Topic:        v.GetString("events_topic"),
			Channel:      v.GetString("events_channel"),
			Stream:       v.GetString("events_stream"),
			StreamMaxLen: v.GetInt64("events_stream_maxlen"),
		},
		Telemetry: TelemetryConfig{
			EnablePprof: v.GetBool("enable_pprof"),
			PprofPort:   v.GetInt("pprof_port"),
		},
	}

	return cfg, cfg.Validate()
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", 3000)
	v.SetDefault("environment", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text") // Default to text for development
	v.SetDefault("shutdown_timeout", 15*time.Second)

	v.SetDefault("db_driver", DriverPostgres)
	v.SetDefault("auto_migrate", false)
	v.SetDefault("sqlite_dsn", "file:roster.db?_foreign_keys=on")
	v.SetDefault("postgres_host", "localhost")
	v.SetDefault("postgres_port", 5432)
	v.SetDefault("postgres_db", "roster")
	v.SetDefault("postgres_user", "roster")
	v.SetDefault("postgres_password", "roster")
	v.SetDefault("postgres_max_conns", 20)
	v.SetDefault("postgres_min_conns", 2)
	v.SetDefault("postgres_max_idle_time", 30*time.Minute)
	v.SetDefault("postgres_max_lifetime", time.Hour)

	v.SetDefault("redis_enabled", false)
	v.SetDefault("redis_host", "localhost")
	v.SetDefault("redis_port", 6379)
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)

	v.SetDefault("events_topic", "person.events")
	v.SetDefault("events_channel", "roster:person-events")
	v.SetDefault("events_stream", "roster:person-events:log")
	v.SetDefault("events_stream_maxlen", 10000)

	v.SetDefault("enable_pprof", false)
	v.SetDefault("pprof_port", 6060)
}

// Validate checks if configuration is valid
func (c *Config) Validate() error {
	if c.Service.Port < 1 || c.Service.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Service.Port)
	}

	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.Host == "" {
			return fmt.Errorf("database host is required")
		}
		if c.Database.MaxConns < c.Database.MinConns {
			return fmt.Errorf("max_conns must be >= min_conns")
		}
	case DriverSQLite:
		if c.Database.SQLiteDSN == "" {
			return fmt.Errorf("sqlite dsn is required")
		}
	default:
		return fmt.Errorf("unknown database driver: %q", c.Database.Driver)
	}

	if c.Redis.Enabled && (c.Redis.Port < 1 || c.Redis.Port > 65535) {
		return fmt.Errorf("invalid redis port: %d", c.Redis.Port)
	}

	if c.Events.Topic == "" {
		return fmt.Errorf("events topic is required")
	}

	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
	)
}

// RedisAddr returns host:port for the Redis client
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}
