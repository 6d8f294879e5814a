package container

import (
	"fmt"

	"github.com/lyzr/roster/cmd/roster/events"
	"github.com/lyzr/roster/cmd/roster/repository"
	"github.com/lyzr/roster/cmd/roster/service"
	"github.com/lyzr/roster/common/bootstrap"
)

// Container holds all initialized services and stores, created once at startup
type Container struct {
	// Components
	Components *bootstrap.Components

	// Stores
	Stores *repository.Stores

	// Services
	PersonService *service.PersonService
	ActionService *service.ActionService
	V1Dispatcher  *service.Dispatcher
	V2Dispatcher  *service.Dispatcher

	// Relay is nil when the queue is disabled
	Relay *events.Relay
}

// NewContainer initializes all services and stores once
func NewContainer(components *bootstrap.Components) (*Container, error) {
	stores, err := repository.NewStores(components)
	if err != nil {
		return nil, fmt.Errorf("failed to create stores: %w", err)
	}

	// Initialize services (bottom-up: dependencies first)
	personService := service.NewPersonService(stores.People, components.Logger)
	actionService := service.NewActionService(stores.Actions, components.Logger)

	dispatcherOpts := service.DispatcherOpts{
		Queue: components.Queue,
		Topic: components.Config.Events.Topic,
		Log:   components.Logger,
	}

	c := &Container{
		Components:    components,
		Stores:        stores,
		PersonService: personService,
		ActionService: actionService,
		V1Dispatcher:  service.NewV1Dispatcher(personService, dispatcherOpts),
		V2Dispatcher:  service.NewV2Dispatcher(actionService, dispatcherOpts),
	}

	if components.Queue != nil {
		c.Relay = events.NewRelay(components.Queue, components.Config.Events.Topic, newSink(components), components.Logger)
	}

	return c, nil
}

func newSink(components *bootstrap.Components) events.Sink {
	if components.Redis == nil {
		return events.NewLogSink(components.Logger)
	}
	cfg := components.Config.Events
	return events.NewRedisSink(components.Redis, cfg.Channel, cfg.Stream, cfg.StreamMaxLen)
}
