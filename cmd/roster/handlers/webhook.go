package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/lyzr/roster/cmd/roster/models"
	"github.com/lyzr/roster/cmd/roster/service"
	"github.com/lyzr/roster/common/logger"
)

// WebhookHandler accepts person lifecycle events for one API version
type WebhookHandler struct {
	dispatcher *service.Dispatcher
	log        *logger.Logger
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(dispatcher *service.Dispatcher, log *logger.Logger) *WebhookHandler {
	return &WebhookHandler{
		dispatcher: dispatcher,
		log:        log,
	}
}

// AcceptWebhook applies one event
// POST /accept_webhook, POST /v2/accept_webhook
func (h *WebhookHandler) AcceptWebhook(c echo.Context) error {
	log := requestLogger(c, h.log)

	var req models.Webhook
	if err := c.Bind(&req); err != nil {
		log.Warn("invalid webhook body", "error", err)
		return respond(c, http.StatusBadRequest, nil)
	}

	err := h.dispatcher.Dispatch(c.Request().Context(), &req)
	status := statusFor(err)
	if status == http.StatusOK {
		log.Info("webhook accepted",
			"api_version", h.dispatcher.Version(),
			"payload_type", req.PayloadType,
		)
	}
	return respond(c, status, nil)
}
