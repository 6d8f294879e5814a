package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/lyzr/roster/cmd/roster/container"
	"github.com/lyzr/roster/cmd/roster/routes"
	"github.com/lyzr/roster/common/bootstrap"
	"github.com/lyzr/roster/common/server"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Bootstrap common components (store, logger, queue, redis, telemetry)
	components, err := bootstrap.Setup(ctx, "roster")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bootstrap roster: %v\n", err)
		os.Exit(1)
	}
	defer components.Shutdown(context.Background())

	// Initialize service container (all services created once)
	serviceContainer, err := container.NewContainer(components)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize service container: %v\n", err)
		os.Exit(1)
	}

	// The relay outlives the signal context; components.Shutdown closes the
	// queue, which drains it.
	if serviceContainer.Relay != nil {
		if err := serviceContainer.Relay.Start(context.WithoutCancel(ctx)); err != nil {
			components.Logger.Warn("event relay not started", "error", err)
		}
	}

	e := setupEcho()
	setupMiddleware(e)
	registerRoutes(e, serviceContainer)

	srv := server.New("roster", components.Config.Service.Port, e, components.Config.Service.ShutdownTimeout, components.Logger)
	if err := srv.Run(ctx); err != nil {
		components.Logger.Error("Server error", "error", err)
		os.Exit(1)
	}
}

// setupEcho initializes the Echo server with basic configuration
func setupEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	return e
}

// setupMiddleware configures all middleware for the Echo server
func setupMiddleware(e *echo.Echo) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
}

// registerRoutes registers all application routes using the service container
func registerRoutes(e *echo.Echo, serviceContainer *container.Container) {
	routes.RegisterHealthRoutes(e, serviceContainer)
	routes.RegisterPeopleRoutes(e, serviceContainer)
	routes.RegisterPeopleV2Routes(e, serviceContainer)
}
