package ports

import (
	"context"

	"github.com/huddleapp/community-api/internal/core/domain"
)

// RegisterInput carries the validated registration payload. Password
// complexity and confirmation matching are enforced at the HTTP schema layer.
type RegisterInput struct {
	Username string
	Name     string
	Email    string
	Password string
}

// TokenPair is the credential pair minted on a successful login.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// AuthService is the orchestrator for every account flow.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, identifier, password string) (*TokenPair, *domain.User, error)
	VerifyEmail(ctx context.Context, rawToken string) error
	ResendVerification(ctx context.Context, email string) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, rawToken, newPassword string) error
	PasswordlessLogin(ctx context.Context, email string) error
	LoginWithToken(ctx context.Context, rawToken string) (*TokenPair, *domain.User, error)
	Logout(ctx context.Context, accessToken string) error
}
