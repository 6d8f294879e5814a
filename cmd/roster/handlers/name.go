package handlers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/lyzr/roster/common/logger"
	"github.com/lyzr/roster/common/validation"
)

// NameLookup resolves the current name of a person
type NameLookup interface {
	GetName(ctx context.Context, personID string) (string, error)
}

// getNameRequest is the get_name body. person_id stays loosely typed like
// webhook payloads.
type getNameRequest struct {
	PayloadContent map[string]any `json:"payload_content"`
}

// NameHandler serves get_name for one API version
type NameHandler struct {
	lookup NameLookup
	log    *logger.Logger
}

// NewNameHandler creates a new name handler
func NewNameHandler(lookup NameLookup, log *logger.Logger) *NameHandler {
	return &NameHandler{
		lookup: lookup,
		log:    log,
	}
}

// GetName returns the current name of a person.
// The person_id comes from payload_content in the body, or from the
// person_id query parameter for clients that cannot send a GET body.
// GET /get_name, GET /v2/get_name
func (h *NameHandler) GetName(c echo.Context) error {
	log := requestLogger(c, h.log)
	nullName := map[string]interface{}{"name": nil}

	var req getNameRequest
	if err := (&echo.DefaultBinder{}).BindBody(c, &req); err != nil {
		log.Warn("invalid get_name body", "error", err)
		return respond(c, http.StatusBadRequest, nullName)
	}

	personID := ""
	if value := req.PayloadContent["person_id"]; validation.Truthy(value) {
		personID = validation.Coerce(value)
	} else {
		personID = c.QueryParam("person_id")
	}
	if personID == "" {
		log.Warn("get_name without person_id")
		return respond(c, http.StatusBadRequest, nullName)
	}

	name, err := h.lookup.GetName(c.Request().Context(), personID)
	if err != nil {
		log.WithPersonID(personID).Warn("get_name failed", "error", err)
		return respond(c, http.StatusInternalServerError, nullName)
	}

	return respond(c, http.StatusOK, map[string]interface{}{"name": name})
}
