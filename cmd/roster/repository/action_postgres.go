package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/lyzr/roster/cmd/roster/models"
	"github.com/lyzr/roster/common/db"
)

// PostgresActionStore handles actions table operations on Postgres
type PostgresActionStore struct {
	db *db.DB
}

// NewPostgresActionStore creates a new action store
func NewPostgresActionStore(db *db.DB) *PostgresActionStore {
	return &PostgresActionStore{db: db}
}

// Insert appends an action row and sets its surrogate ID
func (r *PostgresActionStore) Insert(ctx context.Context, action *models.Action) error {
	query := `
		INSERT INTO actions (person_id, name, "timestamp", action)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query,
		action.PersonID,
		action.Name,
		action.Timestamp,
		string(action.Action),
	).Scan(&action.ID)

	if err != nil {
		return storeError(err, "failed to append action", map[string]any{
			"person_id": action.PersonID,
			"action":    action.Action,
		})
	}

	return nil
}

// FindAdded retrieves the PersonAdded action for a person
func (r *PostgresActionStore) FindAdded(ctx context.Context, personID string) (*models.Action, error) {
	query := `
		SELECT id, person_id, name, "timestamp", action
		FROM actions
		WHERE person_id = $1 AND action = $2
		ORDER BY id ASC
		LIMIT 1
	`

	action := &models.Action{}
	err := r.db.QueryRow(ctx, query, personID, string(models.ActionPersonAdded)).Scan(
		&action.ID,
		&action.PersonID,
		&action.Name,
		&action.Timestamp,
		&action.Action,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, notFoundError("person was never added", map[string]any{"person_id": personID})
	}
	if err != nil {
		return nil, storeError(err, "failed to get added action", map[string]any{"person_id": personID})
	}

	return action, nil
}

// ListByPersonNewestFirst retrieves a person's history, newest first
func (r *PostgresActionStore) ListByPersonNewestFirst(ctx context.Context, personID string) ([]*models.Action, error) {
	query := `
		SELECT id, person_id, name, "timestamp", action
		FROM actions
		WHERE person_id = $1
		ORDER BY "timestamp" DESC, id DESC
	`

	return r.list(ctx, query, personID)
}

// DeleteByPersonID erases a person's whole history
func (r *PostgresActionStore) DeleteByPersonID(ctx context.Context, personID string) (int64, error) {
	query := `DELETE FROM actions WHERE person_id = $1`

	result, err := r.db.Exec(ctx, query, personID)
	if err != nil {
		return 0, storeError(err, "failed to delete actions", map[string]any{"person_id": personID})
	}

	return result.RowsAffected(), nil
}

// ListAll retrieves every action in insertion order
func (r *PostgresActionStore) ListAll(ctx context.Context) ([]*models.Action, error) {
	query := `
		SELECT id, person_id, name, "timestamp", action
		FROM actions
		ORDER BY id ASC
	`

	return r.list(ctx, query)
}

func (r *PostgresActionStore) list(ctx context.Context, query string, args ...any) ([]*models.Action, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, storeError(err, "failed to list actions", nil)
	}
	defer rows.Close()

	actions := []*models.Action{}
	for rows.Next() {
		action := &models.Action{}
		err := rows.Scan(
			&action.ID,
			&action.PersonID,
			&action.Name,
			&action.Timestamp,
			&action.Action,
		)
		if err != nil {
			return nil, storeError(err, "failed to scan action", nil)
		}
		actions = append(actions, action)
	}

	if err := rows.Err(); err != nil {
		return nil, storeError(err, "error iterating actions", nil)
	}

	return actions, nil
}

var _ ActionStore = (*PostgresActionStore)(nil)
