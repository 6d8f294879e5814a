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

// SQLiteActionStore handles the actions log through bun
type SQLiteActionStore struct {
	db *bun.DB
}

// NewSQLiteActionStore creates a new action store
func NewSQLiteActionStore(sqlite *db.SQLite) (*SQLiteActionStore, error) {
	if sqlite == nil || sqlite.DB == nil {
		return nil, fmt.Errorf("sqlite action store: bun db is required")
	}
	return &SQLiteActionStore{db: sqlite.DB}, nil
}

func (s *SQLiteActionStore) Insert(ctx context.Context, action *models.Action) error {
	record := &actionRecord{
		PersonID:  action.PersonID,
		Name:      action.Name,
		Timestamp: action.Timestamp,
		Action:    string(action.Action),
	}
	if _, err := s.db.NewInsert().Model(record).Exec(ctx); err != nil {
		return storeError(err, "failed to append action", map[string]any{
			"person_id": action.PersonID,
			"action":    action.Action,
		})
	}
	action.ID = record.ID
	return nil
}

func (s *SQLiteActionStore) FindAdded(ctx context.Context, personID string) (*models.Action, error) {
	record := &actionRecord{}
	err := s.db.NewSelect().
		Model(record).
		Where("?TableAlias.person_id = ?", personID).
		Where("?TableAlias.action = ?", string(models.ActionPersonAdded)).
		Order("id ASC").
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFoundError("person was never added", map[string]any{"person_id": personID})
	}
	if err != nil {
		return nil, storeError(err, "failed to get added action", map[string]any{"person_id": personID})
	}
	return record.toDomain(), nil
}

func (s *SQLiteActionStore) ListByPersonNewestFirst(ctx context.Context, personID string) ([]*models.Action, error) {
	var records []actionRecord
	err := s.db.NewSelect().
		Model(&records).
		Where("?TableAlias.person_id = ?", personID).
		Order("timestamp DESC", "id DESC").
		Scan(ctx)
	if err != nil {
		return nil, storeError(err, "failed to list actions", map[string]any{"person_id": personID})
	}
	return actionsToDomain(records), nil
}

func (s *SQLiteActionStore) DeleteByPersonID(ctx context.Context, personID string) (int64, error) {
	result, err := s.db.NewDelete().
		Model((*actionRecord)(nil)).
		Where("person_id = ?", personID).
		Exec(ctx)
	if err != nil {
		return 0, storeError(err, "failed to delete actions", map[string]any{"person_id": personID})
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, storeError(err, "failed to read deleted row count", map[string]any{"person_id": personID})
	}
	return affected, nil
}

func (s *SQLiteActionStore) ListAll(ctx context.Context) ([]*models.Action, error) {
	var records []actionRecord
	if err := s.db.NewSelect().Model(&records).Order("id ASC").Scan(ctx); err != nil {
		return nil, storeError(err, "failed to list actions", nil)
	}
	return actionsToDomain(records), nil
}

func actionsToDomain(records []actionRecord) []*models.Action {
	actions := make([]*models.Action, 0, len(records))
	for i := range records {
		actions = append(actions, records[i].toDomain())
	}
	return actions
}

var _ ActionStore = (*SQLiteActionStore)(nil)
