package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/huddleapp/community-api/internal/core/domain"
)

// SessionCache tracks live refresh tokens in Redis.
// Key format: refreshToken:<user_id>, TTL equal to the refresh token lifetime.
// Setting a key overwrites the previous value, so at most one refresh token is
// live per account.
type SessionCache struct {
	client *redis.Client
}

// NewSessionCache creates a SessionCache wrapping the given Redis client.
func NewSessionCache(client *redis.Client) *SessionCache {
	return &SessionCache{client: client}
}

func (s *SessionCache) SetRefreshToken(ctx context.Context, userID, token string, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.key(userID), token, ttl).Err(); err != nil {
		return fmt.Errorf("cache refresh token: %w", err)
	}
	return nil
}

func (s *SessionCache) GetRefreshToken(ctx context.Context, userID string) (string, error) {
	val, err := s.client.Get(ctx, s.key(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", domain.ErrRefreshTokenNotFound
		}
		return "", fmt.Errorf("read refresh token: %w", err)
	}
	return val, nil
}

func (s *SessionCache) DeleteRefreshToken(ctx context.Context, userID string) error {
	if err := s.client.Del(ctx, s.key(userID)).Err(); err != nil {
		return fmt.Errorf("delete refresh token: %w", err)
	}
	return nil
}

func (s *SessionCache) key(userID string) string {
	return fmt.Sprintf("refreshToken:%s", userID)
}
