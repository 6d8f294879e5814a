package repository

import (
	"context"

	"github.com/lyzr/roster/cmd/roster/models"
)

// PersonStore persists v1 Person rows.
// person_id uniqueness is enforced by the store, not by callers.
type PersonStore interface {
	Insert(ctx context.Context, person *models.Person) error
	FindByPersonID(ctx context.Context, personID string) (*models.Person, error)
	UpdateName(ctx context.Context, personID, name, timestamp string) error
	DeleteByPersonID(ctx context.Context, personID string) (int64, error)
	ListAll(ctx context.Context) ([]*models.Person, error)
}

// ActionStore persists the v2 append-only action log.
// Rows are only ever inserted or deleted.
type ActionStore interface {
	Insert(ctx context.Context, action *models.Action) error
	FindAdded(ctx context.Context, personID string) (*models.Action, error)

	// ListByPersonNewestFirst orders by timestamp DESC, then id DESC so
	// equal timestamps resolve to the later insert.
	ListByPersonNewestFirst(ctx context.Context, personID string) ([]*models.Action, error)

	DeleteByPersonID(ctx context.Context, personID string) (int64, error)
	ListAll(ctx context.Context) ([]*models.Action, error)
}

// Stores groups the stores of one backend
type Stores struct {
	People  PersonStore
	Actions ActionStore
}
