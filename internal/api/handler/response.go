package handler

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/acmecorp/identity-service/internal/core/domain"
)

// Response is the uniform JSON envelope every endpoint renders, success and
// failure alike. StatusCode mirrors the HTTP status so clients reading the
// body alone still see the outcome.
type Response[T any] struct {
	Success    bool     `json:"success"`
	Message    string   `json:"message"`
	Data       T        `json:"data,omitempty"`
	Errors     []string `json:"errors,omitempty"`
	StatusCode int      `json:"status_code"`
	Timestamp  string   `json:"timestamp"`
}

// NewResponse builds an envelope without a payload. The error handler uses
// it for fault rendering.
func NewResponse(success bool, message string, errs []string, status int) Response[any] {
	return Response[any]{
		Success:    success,
		Message:    message,
		Errors:     errs,
		StatusCode: status,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
	}
}

// respond renders a service Result under the given status.
func respond[T any](c echo.Context, status int, res domain.Result[T]) error {
	return c.JSON(status, Response[T]{
		Success:    res.Success,
		Message:    res.Message,
		Data:       res.Data,
		Errors:     res.Errors,
		StatusCode: status,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
	})
}
