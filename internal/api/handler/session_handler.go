package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/huddleapp/community-api/internal/core/ports"
)

// SessionHandler exposes administrative control over cached refresh tokens.
type SessionHandler struct {
	tokens ports.TokenService
}

func NewSessionHandler(tokens ports.TokenService) *SessionHandler {
	return &SessionHandler{tokens: tokens}
}

// Revoke deletes a user's cached refresh token, forcing a fresh login once
// their access token expires. Admin only.
//
// @Summary      Revoke a user's session
// @Tags         sessions
// @Produce      json
// @Param        userId  path      string  true  "User id"
// @Success      200     {object}  messageResponse
// @Failure      401     {object}  map[string]string
// @Failure      403     {object}  map[string]string
// @Security     BearerAuth
// @Router       /auth/sessions/{userId}/revoke [post]
func (h *SessionHandler) Revoke(c echo.Context) error {
	if err := h.tokens.RevokeRefreshToken(c.Request().Context(), c.Param("userId")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Session revoked."})
}
