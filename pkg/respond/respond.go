// Package respond renders the service's JSON response envelope and maps
// classified errors to HTTP status codes.
package respond

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medilog/medilog/pkg/apperr"
)

// Envelope is the uniform response body: {"success":true,"data":{...}} on
// success, {"success":false,"error":"..."} on failure.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// OK writes a 200 envelope.
func OK(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

// Created writes a 201 envelope.
func Created(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusCreated, Envelope{Success: true, Data: data})
}

// Error writes a failure envelope with the status implied by the error's
// kind. Unclassified errors become 500 with a generic message.
func Error(c echo.Context, err error) error {
	return c.JSON(StatusOf(err), Envelope{Success: false, Error: apperr.Message(err)})
}

// StatusOf maps an error's kind to an HTTP status code.
func StatusOf(err error) int {
	switch apperr.KindOf(err) {
	case apperr.KindUnauthorized:
		return http.StatusUnauthorized
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindValidation, apperr.KindPolicyViolation:
		return http.StatusBadRequest
	case apperr.KindExternalService:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
