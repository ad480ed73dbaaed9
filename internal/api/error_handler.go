package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/acmecorp/identity-service/internal/api/handler"
	"github.com/acmecorp/identity-service/internal/core/domain"
)

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Renders domain faults with their fixed status codes.
//   - Passes through Echo's own errors (bind failures, router 404s).
//   - Logs anything unexpected and returns a generic 500, never the cause.
//
// Every branch renders the same JSON envelope the handlers use.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, msg, details := resolveError(err, log, c)
		_ = c.JSON(status, handler.NewResponse(false, msg, details, status))
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string, []string) {
	if f, ok := domain.AsFault(err); ok {
		return f.Status(), f.Message, f.Details
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message), nil
	}

	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "an internal server error occurred", nil
}
