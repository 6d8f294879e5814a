package handlers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/lyzr/roster/cmd/roster/service"
	"github.com/lyzr/roster/common/logger"
)

// ListHandler serves get_all_people for one API version
type ListHandler struct {
	key  string
	list func(ctx context.Context) (interface{}, error)
	log  *logger.Logger
}

// NewPeopleListHandler lists v1 person rows under data.people
func NewPeopleListHandler(people *service.PersonService, log *logger.Logger) *ListHandler {
	return &ListHandler{
		key: "people",
		list: func(ctx context.Context) (interface{}, error) {
			return people.ListAll(ctx)
		},
		log: log,
	}
}

// NewActionListHandler lists v2 action rows under data.actions
func NewActionListHandler(actions *service.ActionService, log *logger.Logger) *ListHandler {
	return &ListHandler{
		key: "actions",
		list: func(ctx context.Context) (interface{}, error) {
			return actions.ListAll(ctx)
		},
		log: log,
	}
}

// GetAll returns every record, unpaginated
// GET /get_all_people, GET /v2/get_all_people
func (h *ListHandler) GetAll(c echo.Context) error {
	records, err := h.list(c.Request().Context())
	if err != nil {
		requestLogger(c, h.log).Error("list failed", "key", h.key, "error", err)
		return respond(c, http.StatusInternalServerError, map[string]interface{}{h.key: nil})
	}
	return respond(c, http.StatusOK, map[string]interface{}{h.key: records})
}
