package service

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"time"

	"github.com/lyzr/roster/cmd/roster/models"
	"github.com/lyzr/roster/common/logger"
	"github.com/lyzr/roster/common/queue"
	"github.com/lyzr/roster/common/validation"
)

// API surface versions
const (
	VersionV1 = "v1"
	VersionV2 = "v2"
)

// ServerTimestampLayout is fixed width so that stamped timestamps sort
// lexically in chronological order
const ServerTimestampLayout = "2006-01-02T15:04:05.000000Z"

// requiredFields lists the payload_content fields each event type needs
var requiredFields = map[string][]string{
	string(models.EventPersonAdded):   {"person_id", "name", "timestamp"},
	string(models.EventPersonRenamed): {"person_id", "name", "timestamp"},
	string(models.EventPersonRemoved): {"person_id", "timestamp"},
}

type applyFunc func(ctx context.Context, payload models.PersonPayload) error

// Dispatcher validates webhook events and routes them to one store model.
// Each event is applied at most once; failures are never retried.
type Dispatcher struct {
	version   string
	validator *validation.PayloadValidator
	routes    map[models.EventType]applyFunc
	queue     queue.Queue
	topic     string
	now       func() time.Time
	stamp     bool
	log       *logger.Logger
}

// DispatcherOpts holds the collaborators shared by both dispatchers.
// Queue may be nil, in which case no events are published.
type DispatcherOpts struct {
	Queue queue.Queue
	Topic string
	Clock func() time.Time
	Log   *logger.Logger
}

// NewV1Dispatcher routes events to the mutable people table
func NewV1Dispatcher(people *PersonService, opts DispatcherOpts) *Dispatcher {
	d := newDispatcher(VersionV1, opts)
	d.routes = map[models.EventType]applyFunc{
		models.EventPersonAdded: func(ctx context.Context, p models.PersonPayload) error {
			_, err := people.Create(ctx, p)
			return err
		},
		models.EventPersonRenamed: people.Rename,
		models.EventPersonRemoved: func(ctx context.Context, p models.PersonPayload) error {
			return people.Remove(ctx, p.PersonID)
		},
	}
	return d
}

// NewV2Dispatcher routes events to the action log. Client timestamps are
// replaced with the server clock before validation.
func NewV2Dispatcher(actions *ActionService, opts DispatcherOpts) *Dispatcher {
	d := newDispatcher(VersionV2, opts)
	d.stamp = true
	d.routes = map[models.EventType]applyFunc{
		models.EventPersonAdded: func(ctx context.Context, p models.PersonPayload) error {
			_, err := actions.Create(ctx, p)
			return err
		},
		models.EventPersonRenamed: func(ctx context.Context, p models.PersonPayload) error {
			_, err := actions.Rename(ctx, p)
			return err
		},
		models.EventPersonRemoved: func(ctx context.Context, p models.PersonPayload) error {
			return actions.Remove(ctx, p.PersonID)
		},
	}
	return d
}

func newDispatcher(version string, opts DispatcherOpts) *Dispatcher {
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	log := opts.Log
	if log == nil {
		log = logger.Discard()
	}
	return &Dispatcher{
		version:   version,
		validator: validation.NewPayloadValidator(requiredFields),
		queue:     opts.Queue,
		topic:     opts.Topic,
		now:       clock,
		log:       log.WithFields(map[string]any{"api_version": version}),
	}
}

// Version returns the API surface this dispatcher serves
func (d *Dispatcher) Version() string {
	return d.version
}

// Dispatch validates and applies one webhook event. Validation failures are
// reported with validation.IsInvalidInput and never reach the store; any
// other error is a store failure.
func (d *Dispatcher) Dispatch(ctx context.Context, webhook *models.Webhook) error {
	if webhook == nil {
		return d.reject("", validation.InvalidInput("request body is required", nil))
	}

	content := webhook.PayloadContent
	if d.stamp && content != nil {
		content = maps.Clone(content)
		content["timestamp"] = d.now().UTC().Format(ServerTimestampLayout)
	}

	fields, err := d.validator.Validate(webhook.PayloadType, content)
	if err != nil {
		return d.reject(webhook.PayloadType, err)
	}

	eventType := models.EventType(webhook.PayloadType)
	apply, ok := d.routes[eventType]
	if !ok {
		// every validated type has a route
		return fmt.Errorf("no route for payload type %s", eventType)
	}

	payload := models.PersonPayload{
		PersonID:  fields["person_id"],
		Name:      fields["name"],
		Timestamp: fields["timestamp"],
	}

	if err := apply(ctx, payload); err != nil {
		d.log.WithPersonID(payload.PersonID).Error("webhook event failed",
			"payload_type", eventType,
			"error", err,
		)
		return err
	}

	d.publish(ctx, eventType, payload)
	return nil
}

func (d *Dispatcher) reject(payloadType string, err error) error {
	d.log.Warn("webhook rejected", "payload_type", payloadType, "error", err)
	return err
}

// publish emits an accepted event on the in-process feed. Failures are
// logged only; the event has already been applied.
func (d *Dispatcher) publish(ctx context.Context, eventType models.EventType, payload models.PersonPayload) {
	if d.queue == nil {
		return
	}

	event := models.PersonEvent{
		Version:    d.version,
		Type:       eventType,
		PersonID:   payload.PersonID,
		Name:       payload.Name,
		Timestamp:  payload.Timestamp,
		AcceptedAt: d.now().UTC(),
	}
	body, err := json.Marshal(event)
	if err != nil {
		d.log.Error("failed to encode person event", "error", err)
		return
	}

	if err := d.queue.Publish(ctx, d.topic, payload.PersonID, body); err != nil {
		d.log.WithPersonID(payload.PersonID).Warn("failed to publish person event",
			"topic", d.topic,
			"error", err,
		)
	}
}
