package ports

import (
	"context"
	"time"
)

// SessionCache tracks the single live refresh token per account. Setting a
// token overwrites any previous entry; deleting the entry is the sole
// revocation mechanism for refresh tokens.
type SessionCache interface {
	SetRefreshToken(ctx context.Context, userID, token string, ttl time.Duration) error
	GetRefreshToken(ctx context.Context, userID string) (string, error)
	DeleteRefreshToken(ctx context.Context, userID string) error
}
