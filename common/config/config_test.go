package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("roster")
	require.NoError(t, err)

	assert.Equal(t, "roster", cfg.Service.Name)
	assert.Equal(t, 3000, cfg.Service.Port)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.False(t, cfg.Database.AutoMigrate)
	assert.Equal(t, 30*time.Minute, cfg.Database.MaxIdleTime)
	assert.Equal(t, "person.events", cfg.Events.Topic)
	assert.Equal(t, "roster:person-events:log", cfg.Events.Stream)
	assert.EqualValues(t, 10000, cfg.Events.StreamMaxLen)
	assert.False(t, cfg.Redis.Enabled)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SQLITE_DSN", "file:test.db")
	t.Setenv("AUTO_MIGRATE", "true")
	t.Setenv("SHUTDOWN_TIMEOUT", "2s")

	cfg, err := Load("roster")
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Service.Port)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "file:test.db", cfg.Database.SQLiteDSN)
	assert.True(t, cfg.Database.AutoMigrate)
	assert.Equal(t, 2*time.Second, cfg.Service.ShutdownTimeout)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "roster.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: 4100\nlog_format: json\nredis_enabled: true\n"), 0o644))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("LOG_FORMAT", "text")

	cfg, err := Load("roster")
	require.NoError(t, err)

	assert.Equal(t, 4100, cfg.Service.Port)
	assert.Equal(t, "text", cfg.Service.LogFormat, "env must win over file")
	assert.True(t, cfg.Redis.Enabled)
}

func TestLoad_MissingConfigFile(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "nope.yaml"))

	_, err := Load("roster")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Service:  ServiceConfig{Port: 3000},
			Database: DatabaseConfig{Driver: DriverPostgres, Host: "db", MaxConns: 4, MinConns: 1},
			Events:   EventsConfig{Topic: "person.events"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid postgres", func(*Config) {}, false},
		{"bad port", func(c *Config) { c.Service.Port = 0 }, true},
		{"missing host", func(c *Config) { c.Database.Host = "" }, true},
		{"conns inverted", func(c *Config) { c.Database.MinConns = 10 }, true},
		{"unknown driver", func(c *Config) { c.Database.Driver = "mysql" }, true},
		{"sqlite without dsn", func(c *Config) { c.Database.Driver = DriverSQLite }, true},
		{"sqlite with dsn", func(c *Config) {
			c.Database.Driver = DriverSQLite
			c.Database.SQLiteDSN = "file::memory:"
		}, false},
		{"redis bad port", func(c *Config) { c.Redis.Enabled = true }, true},
		{"empty topic", func(c *Config) { c.Events.Topic = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDatabaseURL(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{User: "u", Password: "p", Host: "h", Port: 5433, Database: "d"}}
	assert.Equal(t, "postgres://u:p@h:5433/d?sslmode=disable", cfg.DatabaseURL())
}
