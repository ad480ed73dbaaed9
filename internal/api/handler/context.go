package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// currentUserID extracts the authenticated user id injected by the Auth
// middleware. Its absence means the route was wired without the middleware,
// so the request is rejected rather than trusted.
func currentUserID(c echo.Context) (int64, error) {
	id, ok := c.Get("user_id").(int64)
	if !ok || id == 0 {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return id, nil
}

// clientIP is the originating address used for audit records and refresh
// token provenance.
func clientIP(c echo.Context) string {
	return c.RealIP()
}
