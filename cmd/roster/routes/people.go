package routes

import (
	"github.com/labstack/echo/v4"
	"github.com/lyzr/roster/cmd/roster/container"
	"github.com/lyzr/roster/cmd/roster/handlers"
)

// RegisterPeopleRoutes registers the v1 surface backed by the people table
func RegisterPeopleRoutes(e *echo.Echo, c *container.Container) {
	log := c.Components.Logger

	webhook := handlers.NewWebhookHandler(c.V1Dispatcher, log)
	names := handlers.NewNameHandler(c.PersonService, log)
	list := handlers.NewPeopleListHandler(c.PersonService, log)

	e.POST("/accept_webhook", webhook.AcceptWebhook) // POST /accept_webhook
	e.GET("/get_name", names.GetName)                // GET /get_name
	e.GET("/get_all_people", list.GetAll)            // GET /get_all_people
}

// RegisterPeopleV2Routes registers the v2 surface backed by the action log
func RegisterPeopleV2Routes(e *echo.Echo, c *container.Container) {
	log := c.Components.Logger

	webhook := handlers.NewWebhookHandler(c.V2Dispatcher, log)
	names := handlers.NewNameHandler(c.ActionService, log)
	list := handlers.NewActionListHandler(c.ActionService, log)

	v2 := e.Group("/v2")
	{
		v2.POST("/accept_webhook", webhook.AcceptWebhook) // POST /v2/accept_webhook
		v2.GET("/get_name", names.GetName)                // GET /v2/get_name
		v2.GET("/get_all_people", list.GetAll)            // GET /v2/get_all_people
	}
}

// RegisterHealthRoutes registers the health check endpoint
func RegisterHealthRoutes(e *echo.Echo, c *container.Container) {
	h := handlers.NewHealthHandler(c.Components)
	e.GET("/health", h.Health)
}
