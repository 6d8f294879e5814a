package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lyzr/roster/cmd/roster/models"
	"github.com/lyzr/roster/common/db"
	"github.com/uptrace/bun"
)

// SQLitePersonStore handles people table operations through bun
type SQLitePersonStore struct {
	db *bun.DB
}

// NewSQLitePersonStore creates a new person store
func NewSQLitePersonStore(sqlite *db.SQLite) (*SQLitePersonStore, error) {
	if sqlite == nil || sqlite.DB == nil {
		return nil, fmt.Errorf("sqlite person store: bun db is required")
	}
	return &SQLitePersonStore{db: sqlite.DB}, nil
}

func (s *SQLitePersonStore) Insert(ctx context.Context, person *models.Person) error {
	record := &personRecord{
		PersonID:  person.PersonID,
		Name:      person.Name,
		Timestamp: person.Timestamp,
	}
	if _, err := s.db.NewInsert().Model(record).Exec(ctx); err != nil {
		return storeError(err, "failed to create person", map[string]any{"person_id": person.PersonID})
	}
	person.ID = record.ID
	return nil
}

func (s *SQLitePersonStore) FindByPersonID(ctx context.Context, personID string) (*models.Person, error) {
	record := &personRecord{}
	err := s.db.NewSelect().
		Model(record).
		Where("?TableAlias.person_id = ?", personID).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, PersonNotFound(personID)
	}
	if err != nil {
		return nil, storeError(err, "failed to get person", map[string]any{"person_id": personID})
	}
	return record.toDomain(), nil
}

func (s *SQLitePersonStore) UpdateName(ctx context.Context, personID, name, timestamp string) error {
	result, err := s.db.NewUpdate().
		Model((*personRecord)(nil)).
		Set("name = ?", name).
		Set("? = ?", bun.Ident("timestamp"), timestamp).
		Where("person_id = ?", personID).
		Exec(ctx)
	if err != nil {
		return storeError(err, "failed to rename person", map[string]any{"person_id": personID})
	}
	return renamedRows(result, personID)
}

// renamedRows maps the update result to PersonNotFound when no row matched
func renamedRows(result sql.Result, personID string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return storeError(err, "failed to read renamed row count", map[string]any{"person_id": personID})
	}
	if affected == 0 {
		return PersonNotFound(personID)
	}
	return nil
}

func (s *SQLitePersonStore) DeleteByPersonID(ctx context.Context, personID string) (int64, error) {
	result, err := s.db.NewDelete().
		Model((*personRecord)(nil)).
		Where("person_id = ?", personID).
		Exec(ctx)
	if err != nil {
		return 0, storeError(err, "failed to delete person", map[string]any{"person_id": personID})
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, storeError(err, "failed to read deleted row count", map[string]any{"person_id": personID})
	}
	return affected, nil
}

func (s *SQLitePersonStore) ListAll(ctx context.Context) ([]*models.Person, error) {
	var records []personRecord
	if err := s.db.NewSelect().Model(&records).Order("id ASC").Scan(ctx); err != nil {
		return nil, storeError(err, "failed to list people", nil)
	}

	people := make([]*models.Person, 0, len(records))
	for i := range records {
		people = append(people, records[i].toDomain())
	}
	return people, nil
}

var _ PersonStore = (*SQLitePersonStore)(nil)
