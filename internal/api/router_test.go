package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/huddleapp/community-api/internal/core/domain"
	"github.com/huddleapp/community-api/internal/core/ports"
)

type routerAuthStub struct {
	loginErr error
}

func (s *routerAuthStub) Register(context.Context, ports.RegisterInput) (*domain.User, error) {
	return &domain.User{ID: "u1"}, nil
}

func (s *routerAuthStub) Login(context.Context, string, string) (*ports.TokenPair, *domain.User, error) {
	if s.loginErr != nil {
		return nil, nil, s.loginErr
	}
	return &ports.TokenPair{AccessToken: "access123"}, &domain.User{ID: "u1"}, nil
}

func (s *routerAuthStub) VerifyEmail(context.Context, string) error        { return nil }
func (s *routerAuthStub) ResendVerification(context.Context, string) error { return nil }
func (s *routerAuthStub) ForgotPassword(context.Context, string) error     { return nil }
func (s *routerAuthStub) ResetPassword(context.Context, string, string) error {
	return nil
}
func (s *routerAuthStub) PasswordlessLogin(context.Context, string) error { return nil }

func (s *routerAuthStub) LoginWithToken(context.Context, string) (*ports.TokenPair, *domain.User, error) {
	return &ports.TokenPair{AccessToken: "access123"}, &domain.User{ID: "u1"}, nil
}

func (s *routerAuthStub) Logout(context.Context, string) error { return nil }

type routerTokenStub struct {
	claims *ports.AccessClaims
}

func (s *routerTokenStub) IssueAccessToken(*domain.User) (string, error) { return "access123", nil }

func (s *routerTokenStub) IssueRefreshToken(context.Context, *domain.User) (string, error) {
	return "refresh123", nil
}

func (s *routerTokenStub) VerifyAccessToken(token string) (*ports.AccessClaims, error) {
	if s.claims == nil {
		return nil, domain.ErrInvalidAccessToken
	}
	return s.claims, nil
}

func (s *routerTokenStub) RevokeRefreshToken(context.Context, string) error { return nil }

// The prometheus middleware registers collectors with the default registry,
// so the router is built once and shared across tests.
var (
	routerOnce sync.Once
	testRouter *echo.Echo
	authStub   = &routerAuthStub{}
	tokenStub  = &routerTokenStub{}
)

func router() *echo.Echo {
	routerOnce.Do(func() {
		testRouter = NewRouter(nil, nil, authStub, tokenStub, zerolog.Nop())
	})
	return testRouter
}

func doJSON(e *echo.Echo, method, target, body string, header map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRouter_LoginErrorEnvelope(t *testing.T) {
	e := router()
	authStub.loginErr = domain.ErrInvalidCredentials
	defer func() { authStub.loginErr = nil }()

	rec := doJSON(e, http.MethodPost, "/auth/login", `{"identifier":"ghost","password":"Secret123"}`, nil)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["message"] != "Invalid email or password." {
		t.Fatalf("unexpected message: %q", resp["message"])
	}
}

func TestRouter_RegisterValidationError(t *testing.T) {
	e := router()

	rec := doJSON(e, http.MethodPost, "/auth/register", `{"username":"al"}`, nil)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["message"] == "" {
		t.Fatalf("expected a validation message")
	}
}

func TestRouter_MeRequiresAuth(t *testing.T) {
	e := router()
	tokenStub.claims = nil

	rec := doJSON(e, http.MethodGet, "/auth/me", "", map[string]string{"Authorization": "Bearer bad"})

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRouter_MeReturnsClaims(t *testing.T) {
	e := router()
	tokenStub.claims = &ports.AccessClaims{
		UserID:   "u1",
		Username: "alice",
		Email:    "alice@example.com",
		Role:     domain.RoleUser,
	}
	defer func() { tokenStub.claims = nil }()

	rec := doJSON(e, http.MethodGet, "/auth/me", "", map[string]string{"Authorization": "Bearer good"})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	data, ok := resp["data"].(map[string]any)
	if !ok || data["username"] != "alice" || data["role"] != "USER" {
		t.Fatalf("unexpected claims payload: %+v", resp)
	}
}

func TestRouter_SessionRevokeIsAdminOnly(t *testing.T) {
	e := router()
	tokenStub.claims = &ports.AccessClaims{UserID: "u1", Role: domain.RoleUser}
	defer func() { tokenStub.claims = nil }()

	rec := doJSON(e, http.MethodPost, "/auth/sessions/u2/revoke", "", map[string]string{"Authorization": "Bearer good"})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for USER role, got %d", rec.Code)
	}

	tokenStub.claims = &ports.AccessClaims{UserID: "a1", Role: domain.RoleAdmin}
	rec = doJSON(e, http.MethodPost, "/auth/sessions/u2/revoke", "", map[string]string{"Authorization": "Bearer good"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for ADMIN role, got %d", rec.Code)
	}
}

func TestRouter_VerifyEmailIsLinkable(t *testing.T) {
	e := router()

	// the emailed link is opened with a plain GET
	rec := doJSON(e, http.MethodGet, "/auth/verify-email/sometoken", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for GET, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["message"] != "Email verified successfully." {
		t.Fatalf("unexpected message: %q", resp["message"])
	}
}

func TestRouter_Liveness(t *testing.T) {
	e := router()

	rec := doJSON(e, http.MethodGet, "/health", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
