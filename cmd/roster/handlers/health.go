package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/lyzr/roster/common/bootstrap"
)

// HealthHandler reports store connectivity
type HealthHandler struct {
	components *bootstrap.Components
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(components *bootstrap.Components) *HealthHandler {
	return &HealthHandler{
		components: components,
	}
}

// Health pings the store (and Redis when enabled)
// GET /health
func (h *HealthHandler) Health(c echo.Context) error {
	if err := h.components.Health(c.Request().Context()); err != nil {
		requestLogger(c, h.components.Logger).Warn("health check failed", "error", err)
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status":  "unhealthy",
			"service": h.components.Config.Service.Name,
		})
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status":  "ok",
		"service": h.components.Config.Service.Name,
	})
}
