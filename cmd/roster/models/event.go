package models

import "time"

// EventType is the webhook payload_type discriminant
type EventType string

const (
	EventPersonAdded   EventType = "PersonAdded"
	EventPersonRenamed EventType = "PersonRenamed"
	EventPersonRemoved EventType = "PersonRemoved"
)

// Webhook is the accept_webhook request body
type Webhook struct {
	PayloadType    string         `json:"payload_type"`
	PayloadContent map[string]any `json:"payload_content"`
}

// PersonPayload is a validated payload_content with values coerced to strings
type PersonPayload struct {
	PersonID  string
	Name      string
	Timestamp string
}

// PersonEvent is published to the event feed after an event was applied
type PersonEvent struct {
	Version    string    `json:"version"`
	Type       EventType `json:"payload_type"`
	PersonID   string    `json:"person_id"`
	Name       string    `json:"name,omitempty"`
	Timestamp  string    `json:"timestamp"`
	AcceptedAt time.Time `json:"accepted_at"`
}
