package service

import (
	"context"
	"fmt"

	"github.com/lyzr/roster/cmd/roster/models"
	"github.com/lyzr/roster/cmd/roster/repository"
	"github.com/lyzr/roster/common/logger"
)

// ActionService handles the v2 model: an append-only log of actions per
// person, where the current name is the name on the newest action.
type ActionService struct {
	store repository.ActionStore
	log   *logger.Logger
}

// NewActionService creates a new action service
func NewActionService(store repository.ActionStore, log *logger.Logger) *ActionService {
	return &ActionService{
		store: store,
		log:   log,
	}
}

// Create appends a PersonAdded action unless one already exists, in which
// case the existing action is returned and nothing is written.
func (s *ActionService) Create(ctx context.Context, payload models.PersonPayload) (*models.Action, error) {
	log := s.log.WithPersonID(payload.PersonID)

	existing, err := s.store.FindAdded(ctx, payload.PersonID)
	if err == nil {
		log.Info("person already added", "action_id", existing.ID)
		return existing, nil
	}
	if !repository.IsNotFound(err) {
		return nil, fmt.Errorf("failed to look up added action: %w", err)
	}

	action := &models.Action{
		PersonID:  payload.PersonID,
		Name:      payload.Name,
		Timestamp: payload.Timestamp,
		Action:    models.ActionPersonAdded,
	}
	if err := s.store.Insert(ctx, action); err != nil {
		// a concurrent add won the unique index
		if repository.IsConflict(err) {
			if winner, findErr := s.store.FindAdded(ctx, payload.PersonID); findErr == nil {
				log.Info("person added concurrently", "action_id", winner.ID)
				return winner, nil
			}
		}
		return nil, fmt.Errorf("failed to add person: %w", err)
	}

	log.Info("person added", "action_id", action.ID)
	return action, nil
}

// Rename appends a PersonRenamed action. The person must have been added.
func (s *ActionService) Rename(ctx context.Context, payload models.PersonPayload) (*models.Action, error) {
	if _, err := s.store.FindAdded(ctx, payload.PersonID); err != nil {
		return nil, fmt.Errorf("cannot rename person: %w", err)
	}

	action := &models.Action{
		PersonID:  payload.PersonID,
		Name:      payload.Name,
		Timestamp: payload.Timestamp,
		Action:    models.ActionPersonRenamed,
	}
	if err := s.store.Insert(ctx, action); err != nil {
		return nil, fmt.Errorf("failed to rename person: %w", err)
	}

	s.log.WithPersonID(payload.PersonID).Info("person renamed", "action_id", action.ID, "name", action.Name)
	return action, nil
}

// Remove erases the whole history of a person. Removing an unknown person
// succeeds.
func (s *ActionService) Remove(ctx context.Context, personID string) error {
	deleted, err := s.store.DeleteByPersonID(ctx, personID)
	if err != nil {
		return fmt.Errorf("failed to remove person: %w", err)
	}

	s.log.WithPersonID(personID).Info("person history removed", "rows", deleted)
	return nil
}

// GetName returns the name on the action with the latest timestamp.
// Equal timestamps resolve to the later insert.
func (s *ActionService) GetName(ctx context.Context, personID string) (string, error) {
	actions, err := s.store.ListByPersonNewestFirst(ctx, personID)
	if err != nil {
		return "", fmt.Errorf("failed to get name: %w", err)
	}
	if len(actions) == 0 {
		return "", repository.PersonNotFound(personID)
	}
	return actions[0].Name, nil
}

// ListAll returns every action across all people in insertion order
func (s *ActionService) ListAll(ctx context.Context) ([]*models.Action, error) {
	actions, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list actions: %w", err)
	}
	return actions, nil
}
