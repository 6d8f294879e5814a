package models

// ActionKind discriminates rows in the v2 action log
type ActionKind string

const (
	ActionPersonAdded   ActionKind = "PersonAdded"
	ActionPersonRenamed ActionKind = "PersonRenamed"
)

// Action is one immutable v2 log entry for a person.
// Maps to: actions table, unique on (person_id, timestamp)
type Action struct {
	ID       int64  `db:"id" json:"id"`
	PersonID string `db:"person_id" json:"person_id"`

	// Name as of this action
	Name      string     `db:"name" json:"name"`
	Timestamp string     `db:"timestamp" json:"timestamp"`
	Action    ActionKind `db:"action" json:"action"`
}
