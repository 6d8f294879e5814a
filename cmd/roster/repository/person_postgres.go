package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/lyzr/roster/cmd/roster/models"
	"github.com/lyzr/roster/common/db"
)

// PostgresPersonStore handles people table operations on Postgres
type PostgresPersonStore struct {
	db *db.DB
}

// NewPostgresPersonStore creates a new person store
func NewPostgresPersonStore(db *db.DB) *PostgresPersonStore {
	return &PostgresPersonStore{db: db}
}

// Insert adds a person row and sets its surrogate ID
func (r *PostgresPersonStore) Insert(ctx context.Context, person *models.Person) error {
	query := `
		INSERT INTO people (person_id, name, "timestamp")
		VALUES ($1, $2, $3)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query,
		person.PersonID,
		person.Name,
		person.Timestamp,
	).Scan(&person.ID)

	if err != nil {
		return storeError(err, "failed to create person", map[string]any{"person_id": person.PersonID})
	}

	return nil
}

// FindByPersonID retrieves a person by external ID
func (r *PostgresPersonStore) FindByPersonID(ctx context.Context, personID string) (*models.Person, error) {
	query := `
		SELECT id, person_id, name, "timestamp"
		FROM people
		WHERE person_id = $1
	`

	person := &models.Person{}
	err := r.db.QueryRow(ctx, query, personID).Scan(
		&person.ID,
		&person.PersonID,
		&person.Name,
		&person.Timestamp,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, PersonNotFound(personID)
	}
	if err != nil {
		return nil, storeError(err, "failed to get person", map[string]any{"person_id": personID})
	}

	return person, nil
}

// UpdateName sets name and timestamp in place
func (r *PostgresPersonStore) UpdateName(ctx context.Context, personID, name, timestamp string) error {
	query := `
		UPDATE people
		SET name = $2, "timestamp" = $3
		WHERE person_id = $1
	`

	result, err := r.db.Exec(ctx, query, personID, name, timestamp)
	if err != nil {
		return storeError(err, "failed to rename person", map[string]any{"person_id": personID})
	}

	if result.RowsAffected() == 0 {
		return PersonNotFound(personID)
	}

	return nil
}

// DeleteByPersonID removes the person; deleting nothing is not an error
func (r *PostgresPersonStore) DeleteByPersonID(ctx context.Context, personID string) (int64, error) {
	query := `DELETE FROM people WHERE person_id = $1`

	result, err := r.db.Exec(ctx, query, personID)
	if err != nil {
		return 0, storeError(err, "failed to delete person", map[string]any{"person_id": personID})
	}

	return result.RowsAffected(), nil
}

// ListAll retrieves every person in insertion order
func (r *PostgresPersonStore) ListAll(ctx context.Context) ([]*models.Person, error) {
	query := `
		SELECT id, person_id, name, "timestamp"
		FROM people
		ORDER BY id ASC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, storeError(err, "failed to list people", nil)
	}
	defer rows.Close()

	people := []*models.Person{}
	for rows.Next() {
		person := &models.Person{}
		err := rows.Scan(
			&person.ID,
			&person.PersonID,
			&person.Name,
			&person.Timestamp,
		)
		if err != nil {
			return nil, storeError(err, "failed to scan person", nil)
		}
		people = append(people, person)
	}

	if err := rows.Err(); err != nil {
		return nil, storeError(err, "error iterating people", nil)
	}

	return people, nil
}

var _ PersonStore = (*PostgresPersonStore)(nil)
