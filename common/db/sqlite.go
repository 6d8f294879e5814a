package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lyzr/roster/common/config"
	"github.com/lyzr/roster/common/logger"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

// SQLite wraps a bun handle over an embedded SQLite database
type SQLite struct {
	*bun.DB
	log *logger.Logger
}

// NewSQLite opens the SQLite database configured in cfg
func NewSQLite(ctx context.Context, cfg *config.Config, log *logger.Logger) (*SQLite, error) {
	return OpenSQLite(ctx, cfg.Database.SQLiteDSN, log)
}

// OpenSQLite opens a SQLite database from a DSN.
// A single connection is used: SQLite serializes writers anyway and
// in-memory databases are per-connection unless shared.
func OpenSQLite(ctx context.Context, dsn string, log *logger.Logger) (*SQLite, error) {
	sqlDB, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	bunDB := bun.NewDB(sqlDB, sqlitedialect.New())

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := bunDB.PingContext(pingCtx); err != nil {
		_ = bunDB.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	log.Info("database connected", "driver", config.DriverSQLite)

	return &SQLite{
		DB:  bunDB,
		log: log,
	}, nil
}

// Close closes the underlying database
func (s *SQLite) Close() error {
	s.log.Info("closing sqlite database")
	return s.DB.Close()
}

// Health checks database health
func (s *SQLite) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return s.DB.PingContext(ctx)
}

// Migrate applies the embedded sqlite schema
func (s *SQLite) Migrate(ctx context.Context) error {
	return applyMigrations(ctx, config.DriverSQLite, func(ctx context.Context, stmt string) error {
		_, err := s.DB.ExecContext(ctx, stmt)
		return err
	}, s.log)
}
