package models

// Person is the v1 record: the current state of one person.
// Maps to: people table
type Person struct {
	// Storage-internal surrogate key
	ID int64 `db:"id" json:"id"`

	// Stable external identity, unique across the table
	PersonID string `db:"person_id" json:"person_id"`

	Name string `db:"name" json:"name"`

	// Time of the last write as supplied by the event
	Timestamp *string `db:"timestamp" json:"timestamp"`
}
