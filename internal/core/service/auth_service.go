package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/huddleapp/community-api/internal/api/metrics"
	"github.com/huddleapp/community-api/internal/core/domain"
	"github.com/huddleapp/community-api/internal/core/ports"
	"github.com/huddleapp/community-api/internal/pkg/password"
	"github.com/huddleapp/community-api/internal/pkg/token"
)

// Token validity windows, matching the links sent by the notifier.
const (
	verifyTokenTTL = 10 * time.Minute
	resetTokenTTL  = 15 * time.Minute
	loginTokenTTL  = 15 * time.Minute
)

// AuthService orchestrates every account flow: registration, login, email
// verification, password reset and passwordless login. All state lives in the
// user repository and the session cache; the service itself is stateless and
// safe for concurrent use.
type AuthService struct {
	repo     ports.UserRepository
	tokens   ports.TokenService
	hasher   *password.Hasher
	notifier ports.Notifier
	logger   zerolog.Logger
}

func NewAuthService(repo ports.UserRepository, tokens ports.TokenService, hasher *password.Hasher, notifier ports.Notifier, logger zerolog.Logger) *AuthService {
	return &AuthService{
		repo:     repo,
		tokens:   tokens,
		hasher:   hasher,
		notifier: notifier,
		logger:   logger,
	}
}

// Register creates an unverified account and emails a verification token
// valid for ten minutes. The raw token never touches persistent storage.
func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	existing, err := s.repo.FindByEmail(ctx, input.Email)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailTaken
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	verify, err := token.Issue(verifyTokenTTL)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Username:        input.Username,
		Email:           input.Email,
		Name:            input.Name,
		PasswordHash:    hash,
		Role:            domain.RoleUser,
		Verified:        false,
		VerifyDigest:    verify.Digest,
		VerifyExpiresAt: &verify.ExpiresAt,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(ports.Notification{
		Template: ports.TemplateVerification,
		To:       created.Email,
		Token:    verify.Raw,
	})

	metrics.RegistrationsTotal.Inc()
	s.logger.Info().Str("user_id", created.ID).Msg("user registered")
	return created, nil
}

// Login authenticates by email or username. A missing account and a password
// mismatch are indistinguishable to the caller; unverified accounts are
// rejected even with correct credentials.
func (s *AuthService) Login(ctx context.Context, identifier, pass string) (*ports.TokenPair, *domain.User, error) {
	user, err := s.repo.FindByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
			return nil, nil, domain.ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if !s.hasher.Verify(pass, user.PasswordHash) {
		metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		return nil, nil, domain.ErrInvalidCredentials
	}

	if !user.Verified {
		metrics.LoginsTotal.WithLabelValues("unverified").Inc()
		return nil, nil, domain.ErrEmailNotVerified
	}

	pair, err := s.issuePair(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return pair, user, nil
}

// VerifyEmail consumes a verification token: the account is marked verified
// and both verify fields are cleared in one update, so the token is single-use.
func (s *AuthService) VerifyEmail(ctx context.Context, rawToken string) error {
	if rawToken == "" {
		return domain.ErrTokenInvalid
	}

	user, err := s.repo.FindByVerifyDigest(ctx, token.Digest(rawToken))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.VerificationsTotal.WithLabelValues("invalid").Inc()
			return domain.ErrTokenInvalid
		}
		return err
	}

	if user.VerifyExpiresAt == nil || time.Now().After(*user.VerifyExpiresAt) {
		metrics.VerificationsTotal.WithLabelValues("expired").Inc()
		return domain.ErrTokenExpired
	}

	if user.Verified {
		metrics.VerificationsTotal.WithLabelValues("already_verified").Inc()
		return domain.ErrAlreadyVerified
	}

	if err := s.repo.SetVerified(ctx, user.ID); err != nil {
		return err
	}

	s.notifier.Notify(ports.Notification{
		Template: ports.TemplateWelcome,
		To:       user.Email,
		Name:     user.Name,
	})

	metrics.VerificationsTotal.WithLabelValues("verified").Inc()
	s.logger.Info().Str("user_id", user.ID).Msg("email verified")
	return nil
}

// ResendVerification issues a fresh verification token, invalidating the
// previous one.
func (s *AuthService) ResendVerification(ctx context.Context, email string) error {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user.Verified {
		return domain.ErrAlreadyVerified
	}

	verify, err := token.Issue(verifyTokenTTL)
	if err != nil {
		return err
	}
	if err := s.repo.SetVerifyToken(ctx, user.ID, verify.Digest, verify.ExpiresAt); err != nil {
		return err
	}

	s.notifier.Notify(ports.Notification{
		Template: ports.TemplateVerification,
		To:       user.Email,
		Token:    verify.Raw,
	})
	return nil
}

// ForgotPassword issues a reset token valid for fifteen minutes. The explicit
// not-found response on unknown emails matches the documented client contract.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	reset, err := token.Issue(resetTokenTTL)
	if err != nil {
		return err
	}
	if err := s.repo.SetResetToken(ctx, user.ID, reset.Digest, reset.ExpiresAt); err != nil {
		return err
	}

	s.notifier.Notify(ports.Notification{
		Template: ports.TemplatePasswordReset,
		To:       user.Email,
		Token:    reset.Raw,
	})
	return nil
}

// ResetPassword consumes a reset token: the new hash is stored and the reset
// fields are cleared in one update.
func (s *AuthService) ResetPassword(ctx context.Context, rawToken, newPassword string) error {
	user, err := s.findByResetToken(ctx, rawToken)
	if err != nil {
		return err
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	if err := s.repo.UpdatePassword(ctx, user.ID, hash); err != nil {
		return err
	}

	s.notifier.Notify(ports.Notification{
		Template: ports.TemplatePasswordChanged,
		To:       user.Email,
	})

	metrics.PasswordResetsTotal.Inc()
	s.logger.Info().Str("user_id", user.ID).Msg("password reset")
	return nil
}

// PasswordlessLogin emails a single-use login token, stored in the reset
// token fields and valid for fifteen minutes.
func (s *AuthService) PasswordlessLogin(ctx context.Context, email string) error {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	login, err := token.Issue(loginTokenTTL)
	if err != nil {
		return err
	}
	if err := s.repo.SetResetToken(ctx, user.ID, login.Digest, login.ExpiresAt); err != nil {
		return err
	}

	s.notifier.Notify(ports.Notification{
		Template: ports.TemplateLoginLink,
		To:       user.Email,
		Token:    login.Raw,
	})
	return nil
}

// LoginWithToken completes the passwordless flow: the emailed token is
// consumed and a token pair is minted without a password check.
func (s *AuthService) LoginWithToken(ctx context.Context, rawToken string) (*ports.TokenPair, *domain.User, error) {
	user, err := s.findByResetToken(ctx, rawToken)
	if err != nil {
		return nil, nil, err
	}

	if err := s.repo.ClearResetToken(ctx, user.ID); err != nil {
		return nil, nil, err
	}

	pair, err := s.issuePair(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	s.logger.Info().Str("user_id", user.ID).Msg("passwordless login")
	return pair, user, nil
}

// Logout revokes the caller's refresh token when the request carries a valid
// access token. It never fails: an absent or invalid token simply means there
// is nothing to revoke.
func (s *AuthService) Logout(ctx context.Context, accessToken string) error {
	if accessToken == "" {
		return nil
	}
	claims, err := s.tokens.VerifyAccessToken(accessToken)
	if err != nil {
		return nil
	}
	if err := s.tokens.RevokeRefreshToken(ctx, claims.UserID); err != nil {
		s.logger.Warn().Err(err).Str("user_id", claims.UserID).Msg("refresh token revocation failed")
	}
	return nil
}

func (s *AuthService) issuePair(ctx context.Context, user *domain.User) (*ports.TokenPair, error) {
	access, err := s.tokens.IssueAccessToken(user)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.IssueRefreshToken(ctx, user)
	if err != nil {
		return nil, err
	}
	return &ports.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *AuthService) findByResetToken(ctx context.Context, rawToken string) (*domain.User, error) {
	if rawToken == "" {
		return nil, domain.ErrTokenInvalid
	}
	user, err := s.repo.FindByResetDigest(ctx, token.Digest(rawToken))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrTokenInvalid
		}
		return nil, err
	}
	if user.ResetExpiresAt == nil || time.Now().After(*user.ResetExpiresAt) {
		return nil, domain.ErrTokenExpired
	}
	return user, nil
}

var _ ports.AuthService = (*AuthService)(nil)
