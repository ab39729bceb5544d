package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/huddleapp/community-api/internal/core/domain"
)

func TestHTTPErrorHandler_DomainErrors(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{"invalid credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid email or password."},
		{"unverified", domain.ErrEmailNotVerified, http.StatusUnauthorized, "Please verify your email."},
		{"invalid access token", domain.ErrInvalidAccessToken, http.StatusUnauthorized, "Invalid access token."},
		{"user not found", domain.ErrUserNotFound, http.StatusNotFound, "User with this email does not exist."},
		{"email taken", domain.ErrEmailTaken, http.StatusBadRequest, "User with this email already exists."},
		{"username taken", domain.ErrUsernameTaken, http.StatusBadRequest, "User with this username already exists."},
		{"already verified", domain.ErrAlreadyVerified, http.StatusBadRequest, "Email already verified."},
		{"token expired", domain.ErrTokenExpired, http.StatusBadRequest, "Token has expired."},
		{"token invalid", domain.ErrTokenInvalid, http.StatusBadRequest, "Invalid token."},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodPost, "/auth/login", nil), rec)

			NewHTTPErrorHandler(zerolog.Nop())(tc.err, c)

			if rec.Code != tc.code {
				t.Fatalf("expected %d, got %d", tc.code, rec.Code)
			}
			var resp map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if resp["message"] != tc.message {
				t.Fatalf("expected %q, got %q", tc.message, resp["message"])
			}
		})
	}
}

func TestHTTPErrorHandler_EchoHTTPError(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/nope", nil), rec)

	NewHTTPErrorHandler(zerolog.Nop())(echo.NewHTTPError(http.StatusNotFound, "Not Found"), c)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestHTTPErrorHandler_UnexpectedError(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/auth/register", nil), rec)

	NewHTTPErrorHandler(zerolog.Nop())(errors.New("mongo: connection reset"), c)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	// internals must never leak
	if resp["message"] != "Internal server error." {
		t.Fatalf("unexpected message: %q", resp["message"])
	}
}

func TestHTTPErrorHandler_CommittedResponse(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	if err := c.NoContent(http.StatusOK); err != nil {
		t.Fatalf("write response: %v", err)
	}

	NewHTTPErrorHandler(zerolog.Nop())(domain.ErrTokenInvalid, c)

	if rec.Code != http.StatusOK {
		t.Fatalf("handler must not overwrite a committed response, got %d", rec.Code)
	}
}
