package handler

import (
	"strings"

	"github.com/labstack/echo/v4"
)

// bearerToken extracts the bearer token from the Authorization header.
// Returns "" when the header is absent or not a bearer scheme; callers that
// tolerate anonymous requests (logout) treat that as a no-op.
func bearerToken(c echo.Context) string {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}
