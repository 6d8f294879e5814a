package service

import (
	"context"
	"fmt"

	"github.com/lyzr/roster/cmd/roster/models"
	"github.com/lyzr/roster/cmd/roster/repository"
	"github.com/lyzr/roster/common/logger"
)

// PersonService handles the v1 model: one mutable row per person
type PersonService struct {
	store repository.PersonStore
	log   *logger.Logger
}

// NewPersonService creates a new person service
func NewPersonService(store repository.PersonStore, log *logger.Logger) *PersonService {
	return &PersonService{
		store: store,
		log:   log,
	}
}

// Create inserts a new person. A person_id that already exists is a conflict.
func (s *PersonService) Create(ctx context.Context, payload models.PersonPayload) (*models.Person, error) {
	timestamp := payload.Timestamp
	person := &models.Person{
		PersonID:  payload.PersonID,
		Name:      payload.Name,
		Timestamp: &timestamp,
	}

	if err := s.store.Insert(ctx, person); err != nil {
		return nil, fmt.Errorf("failed to create person: %w", err)
	}

	s.log.WithPersonID(person.PersonID).Info("person created", "id", person.ID)
	return person, nil
}

// Rename overwrites name and timestamp of an existing person
func (s *PersonService) Rename(ctx context.Context, payload models.PersonPayload) error {
	if err := s.store.UpdateName(ctx, payload.PersonID, payload.Name, payload.Timestamp); err != nil {
		return fmt.Errorf("failed to rename person: %w", err)
	}

	s.log.WithPersonID(payload.PersonID).Info("person renamed", "name", payload.Name)
	return nil
}

// Remove deletes the person. Removing an unknown person succeeds.
func (s *PersonService) Remove(ctx context.Context, personID string) error {
	deleted, err := s.store.DeleteByPersonID(ctx, personID)
	if err != nil {
		return fmt.Errorf("failed to remove person: %w", err)
	}

	s.log.WithPersonID(personID).Info("person removed", "rows", deleted)
	return nil
}

// GetName returns the current name of a person
func (s *PersonService) GetName(ctx context.Context, personID string) (string, error) {
	person, err := s.store.FindByPersonID(ctx, personID)
	if err != nil {
		return "", fmt.Errorf("failed to get name: %w", err)
	}
	return person.Name, nil
}

// ListAll returns every person in insertion order
func (s *PersonService) ListAll(ctx context.Context) ([]*models.Person, error) {
	people, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list people: %w", err)
	}
	return people, nil
}
