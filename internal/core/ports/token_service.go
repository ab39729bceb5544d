package ports

import (
	"context"
	"time"

	"github.com/huddleapp/community-api/internal/core/domain"
)

// AccessClaims is the decoded payload of a verified access token.
type AccessClaims struct {
	UserID    string
	Username  string
	Name      string
	Email     string
	Role      domain.Role
	ImageURL  string
	ExpiresAt time.Time
}

// TokenService issues and verifies the signed bearer credentials. Access
// tokens are stateless; refresh tokens are additionally tracked in the session
// cache so they can be revoked.
type TokenService interface {
	IssueAccessToken(user *domain.User) (string, error)
	IssueRefreshToken(ctx context.Context, user *domain.User) (string, error)
	VerifyAccessToken(token string) (*AccessClaims, error)
	RevokeRefreshToken(ctx context.Context, userID string) error
}
