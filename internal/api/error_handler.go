package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/huddleapp/community-api/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Message string `json:"message"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"message": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Message: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Known domain errors → deterministic HTTP codes. The login failure
	// message is deliberately identical for unknown accounts and wrong
	// passwords.
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid email or password."
	case errors.Is(err, domain.ErrEmailNotVerified):
		return http.StatusUnauthorized, "Please verify your email."
	case errors.Is(err, domain.ErrInvalidAccessToken):
		return http.StatusUnauthorized, "Invalid access token."
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "User with this email does not exist."
	case errors.Is(err, domain.ErrEmailTaken):
		return http.StatusBadRequest, "User with this email already exists."
	case errors.Is(err, domain.ErrUsernameTaken):
		return http.StatusBadRequest, "User with this username already exists."
	case errors.Is(err, domain.ErrAlreadyVerified):
		return http.StatusBadRequest, "Email already verified."
	case errors.Is(err, domain.ErrTokenExpired):
		return http.StatusBadRequest, "Token has expired."
	case errors.Is(err, domain.ErrTokenInvalid):
		return http.StatusBadRequest, "Invalid token."
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "Internal server error."
}
