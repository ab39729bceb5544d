package domain

import "errors"

// Sentinel errors for domain-level discrimination. Services return these so the
// HTTP layer can map outcomes to status codes without inspecting error text.
var (
	// ErrInvalidCredentials covers both a missing account and a password
	// mismatch on login, so the response never reveals which one happened.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrEmailNotVerified rejects logins on accounts that never completed
	// email verification.
	ErrEmailNotVerified = errors.New("email not verified")

	// ErrEmailTaken is returned when registering with an email that already
	// belongs to an account.
	ErrEmailTaken = errors.New("email already registered")

	// ErrUsernameTaken is returned when registering with a username that
	// already belongs to an account.
	ErrUsernameTaken = errors.New("username already registered")

	// ErrUserNotFound is returned by account-management flows where revealing
	// absence is the documented behaviour (forgot password, resend verification).
	ErrUserNotFound = errors.New("user not found")

	// ErrTokenInvalid means no account matches the supplied verification,
	// reset or login token digest.
	ErrTokenInvalid = errors.New("invalid token")

	// ErrTokenExpired means the digest matched but the token's validity
	// window has passed.
	ErrTokenExpired = errors.New("token expired")

	// ErrAlreadyVerified is returned when verifying or re-requesting
	// verification for an account that is already verified.
	ErrAlreadyVerified = errors.New("email already verified")

	// ErrInvalidAccessToken covers signature mismatch and expiry on access
	// tokens presented as bearer credentials.
	ErrInvalidAccessToken = errors.New("invalid access token")

	// ErrRefreshTokenNotFound means no live refresh token exists in the
	// session cache for the account.
	ErrRefreshTokenNotFound = errors.New("refresh token not found")
)
