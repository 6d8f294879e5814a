package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/lyzr/roster/common/logger"
	"github.com/lyzr/roster/common/validation"
)

// Fixed response descriptions. Error details are logged, never returned.
const (
	DescriptionOK           = "OK"
	DescriptionInvalidInput = "Invalid Input"
	DescriptionServerError  = "Server Error"
)

func describe(status int) string {
	switch status {
	case http.StatusOK:
		return DescriptionOK
	case http.StatusBadRequest:
		return DescriptionInvalidInput
	default:
		return DescriptionServerError
	}
}

// respond writes {status, description[, data]} with a matching HTTP status
func respond(c echo.Context, status int, data map[string]interface{}) error {
	body := map[string]interface{}{
		"status":      status,
		"description": describe(status),
	}
	if data != nil {
		body["data"] = data
	}
	return c.JSON(status, body)
}

// statusFor maps a service error to 200, 400 or 500
func statusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case validation.IsInvalidInput(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func requestLogger(c echo.Context, log *logger.Logger) *logger.Logger {
	return log.WithRequestID(c.Response().Header().Get(echo.HeaderXRequestID))
}
