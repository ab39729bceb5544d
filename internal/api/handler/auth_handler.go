package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/huddleapp/community-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register creates a new unverified user account and emails a verification link.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  messageResponse
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	_, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Username: req.Username,
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, messageResponse{Message: "User registered successfully."})
}

// Login authenticates by email or username and returns an access token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	pair, _, err := h.authService.Login(c.Request().Context(), req.Identifier, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{
		Message: "User logged in successfully.",
		Data:    tokenData{Token: pair.AccessToken},
	})
}

// VerifyEmail consumes an emailed verification token. Routed as GET so the
// emailed link works from a plain browser click.
//
// @Summary      Verify email address
// @Tags         auth
// @Produce      json
// @Param        verifyToken  path      string  true  "Verification token"
// @Success      200          {object}  messageResponse
// @Failure      400          {object}  map[string]string
// @Router       /auth/verify-email/{verifyToken} [get]
func (h *AuthHandler) VerifyEmail(c echo.Context) error {
	raw := c.Param("verifyToken")
	if raw == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Verification token is required.")
	}

	if err := h.authService.VerifyEmail(c.Request().Context(), raw); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "Email verified successfully."})
}

// ResendVerification emails a fresh verification token to an unverified account.
//
// @Summary      Resend verification email
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      emailRequest  true  "Account email"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /auth/resend-verification [post]
func (h *AuthHandler) ResendVerification(c echo.Context) error {
	var req emailRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.authService.ResendVerification(c.Request().Context(), req.Email); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "Email sent successfully."})
}

// ForgotPassword emails a password reset token.
//
// @Summary      Request a password reset
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      emailRequest  true  "Account email"
// @Success      200   {object}  messageResponse
// @Failure      404   {object}  map[string]string
// @Router       /auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req emailRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.authService.ForgotPassword(c.Request().Context(), req.Email); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "Email sent successfully."})
}

// ResetPassword consumes an emailed reset token and stores the new password.
//
// @Summary      Reset password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        resetToken  path      string                true  "Reset token"
// @Param        body        body      resetPasswordRequest  true  "New password"
// @Success      200         {object}  messageResponse
// @Failure      400         {object}  map[string]string
// @Router       /auth/reset-password/{resetToken} [post]
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.authService.ResetPassword(c.Request().Context(), c.Param("resetToken"), req.Password); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "Password reset successfully."})
}

// PasswordlessLogin emails a single-use login link.
//
// @Summary      Request a passwordless login link
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      emailRequest  true  "Account email"
// @Success      200   {object}  messageResponse
// @Failure      404   {object}  map[string]string
// @Router       /auth/passwordless-login [post]
func (h *AuthHandler) PasswordlessLogin(c echo.Context) error {
	var req emailRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.authService.PasswordlessLogin(c.Request().Context(), req.Email); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "Email sent successfully."})
}

// LoginWithToken consumes an emailed login token and returns an access token.
//
// @Summary      Complete a passwordless login
// @Tags         auth
// @Produce      json
// @Param        loginToken  path      string  true  "Login token"
// @Success      200         {object}  messageResponse
// @Failure      400         {object}  map[string]string
// @Router       /auth/login-with-token/{loginToken} [post]
func (h *AuthHandler) LoginWithToken(c echo.Context) error {
	pair, _, err := h.authService.LoginWithToken(c.Request().Context(), c.Param("loginToken"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{
		Message: "User logged in successfully.",
		Data:    tokenData{Token: pair.AccessToken},
	})
}

// Me returns the identity claims of the authenticated caller, as injected by
// the Auth middleware.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  map[string]string
// @Security     BearerAuth
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	id, _ := c.Get("user_id").(string)
	username, _ := c.Get("username").(string)
	name, _ := c.Get("name").(string)
	email, _ := c.Get("email").(string)
	role, _ := c.Get("role").(string)

	return c.JSON(http.StatusOK, messageResponse{
		Message: "OK",
		Data: map[string]string{
			"id":       id,
			"username": username,
			"name":     name,
			"email":    email,
			"role":     role,
		},
	})
}

// Logout revokes the caller's refresh token when a valid bearer token is
// presented. It always reports success.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  messageResponse
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.authService.Logout(c.Request().Context(), bearerToken(c)); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Logged out."})
}
