package ports

import (
	"context"
	"time"

	"github.com/huddleapp/community-api/internal/core/domain"
)

// UserRepository defines the persistence interface for user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// FindByIdentifier resolves a user by email or username.
	FindByIdentifier(ctx context.Context, identifier string) (*domain.User, error)
	FindByVerifyDigest(ctx context.Context, digest string) (*domain.User, error)
	FindByResetDigest(ctx context.Context, digest string) (*domain.User, error)

	// SetVerified marks the account verified and clears the verification
	// token fields in the same update.
	SetVerified(ctx context.Context, id string) error
	SetVerifyToken(ctx context.Context, id, digest string, expiresAt time.Time) error
	SetResetToken(ctx context.Context, id, digest string, expiresAt time.Time) error
	ClearResetToken(ctx context.Context, id string) error
	// UpdatePassword stores a new password hash and clears the reset token
	// fields in the same update.
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}
