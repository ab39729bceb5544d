package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/huddleapp/community-api/internal/api/metrics"
	"github.com/huddleapp/community-api/internal/core/domain"
	"github.com/huddleapp/community-api/internal/core/ports"
)

// jwtClaims is the signed payload shared by access and refresh tokens.
type jwtClaims struct {
	Username string `json:"username,omitempty"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	ImageURL string `json:"imageUrl,omitempty"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies HS256 bearer tokens. Refresh tokens are
// additionally recorded in the session cache under refreshToken:<id> with a
// TTL equal to their expiry; deleting that entry is the only revocation point.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	cache         ports.SessionCache
}

func NewTokenService(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration, cache ports.SessionCache) *TokenService {
	if accessTTL == 0 {
		accessTTL = 24 * time.Hour
	}
	if refreshTTL == 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	return &TokenService{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		cache:         cache,
	}
}

func (s *TokenService) IssueAccessToken(user *domain.User) (string, error) {
	signed, err := s.sign(user, s.accessSecret, s.accessTTL)
	if err != nil {
		return "", fmt.Errorf("issue access token: %w", err)
	}
	metrics.TokensIssuedTotal.WithLabelValues("access").Inc()
	return signed, nil
}

func (s *TokenService) IssueRefreshToken(ctx context.Context, user *domain.User) (string, error) {
	signed, err := s.sign(user, s.refreshSecret, s.refreshTTL)
	if err != nil {
		return "", fmt.Errorf("issue refresh token: %w", err)
	}
	if err := s.cache.SetRefreshToken(ctx, user.ID, signed, s.refreshTTL); err != nil {
		return "", err
	}
	metrics.TokensIssuedTotal.WithLabelValues("refresh").Inc()
	return signed, nil
}

func (s *TokenService) VerifyAccessToken(tokenStr string) (*ports.AccessClaims, error) {
	claims := &jwtClaims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.accessSecret, nil
	})
	if err != nil || !tkn.Valid {
		return nil, domain.ErrInvalidAccessToken
	}

	out := &ports.AccessClaims{
		UserID:   claims.Subject,
		Username: claims.Username,
		Name:     claims.Name,
		Email:    claims.Email,
		Role:     domain.Role(claims.Role),
		ImageURL: claims.ImageURL,
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}

func (s *TokenService) RevokeRefreshToken(ctx context.Context, userID string) error {
	err := s.cache.DeleteRefreshToken(ctx, userID)
	if err != nil && !errors.Is(err, domain.ErrRefreshTokenNotFound) {
		return err
	}
	return nil
}

func (s *TokenService) sign(user *domain.User, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwtClaims{
		Username: user.Username,
		Name:     user.Name,
		Email:    user.Email,
		Role:     string(user.Role),
		ImageURL: user.ImageURL,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}
