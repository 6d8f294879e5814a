package repository

import (
	"fmt"

	"github.com/lyzr/roster/common/bootstrap"
	"github.com/lyzr/roster/common/config"
	"github.com/lyzr/roster/common/db"
)

// NewStores builds the stores for whichever backend bootstrap connected
func NewStores(components *bootstrap.Components) (*Stores, error) {
	switch components.Config.Database.Driver {
	case config.DriverPostgres:
		if components.DB == nil {
			return nil, fmt.Errorf("postgres driver selected but no pool was initialized")
		}
		return NewPostgresStores(components.DB), nil

	case config.DriverSQLite:
		return NewSQLiteStores(components.SQLite)

	default:
		return nil, fmt.Errorf("unknown database driver: %q", components.Config.Database.Driver)
	}
}

// NewPostgresStores builds both stores over one pgx pool
func NewPostgresStores(pool *db.DB) *Stores {
	return &Stores{
		People:  NewPostgresPersonStore(pool),
		Actions: NewPostgresActionStore(pool),
	}
}

// NewSQLiteStores builds both stores over one bun/sqlite handle
func NewSQLiteStores(sqlite *db.SQLite) (*Stores, error) {
	people, err := NewSQLitePersonStore(sqlite)
	if err != nil {
		return nil, err
	}
	actions, err := NewSQLiteActionStore(sqlite)
	if err != nil {
		return nil, err
	}
	return &Stores{People: people, Actions: actions}, nil
}
