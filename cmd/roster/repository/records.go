package repository

import (
	"github.com/lyzr/roster/cmd/roster/models"
	"github.com/uptrace/bun"
)

type personRecord struct {
	bun.BaseModel `bun:"table:people,alias:p"`

	ID        int64   `bun:"id,pk,autoincrement"`
	PersonID  string  `bun:"person_id,notnull"`
	Name      string  `bun:"name,notnull"`
	Timestamp *string `bun:"timestamp"`
}

func (r *personRecord) toDomain() *models.Person {
	return &models.Person{
		ID:        r.ID,
		PersonID:  r.PersonID,
		Name:      r.Name,
		Timestamp: r.Timestamp,
	}
}

type actionRecord struct {
	bun.BaseModel `bun:"table:actions,alias:a"`

	ID        int64  `bun:"id,pk,autoincrement"`
	PersonID  string `bun:"person_id,notnull"`
	Name      string `bun:"name,notnull"`
	Timestamp string `bun:"timestamp,notnull"`
	Action    string `bun:"action,notnull"`
}

func (r *actionRecord) toDomain() *models.Action {
	return &models.Action{
		ID:        r.ID,
		PersonID:  r.PersonID,
		Name:      r.Name,
		Timestamp: r.Timestamp,
		Action:    models.ActionKind(r.Action),
	}
}
