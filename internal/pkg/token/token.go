// Package token issues the random opaque tokens used for email verification,
// password reset and passwordless login. Only the sha256 digest of a token is
// stored server-side; the raw value is emailed to the user and re-digested on
// consumption.
package token

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// rawBytes is the number of random bytes per token.
const rawBytes = 10

// Issued is the result of generating a token.
type Issued struct {
	// Raw is the hex-encoded token sent to the user.
	Raw string
	// Digest is the sha256 hex digest of Raw, stored on the account.
	Digest string
	// ExpiresAt is the absolute expiry of the token.
	ExpiresAt time.Time
}

// Issue generates a cryptographically random token valid for the given
// duration.
func Issue(validity time.Duration) (Issued, error) {
	b := make([]byte, rawBytes)
	if _, err := rand.Read(b); err != nil {
		return Issued{}, fmt.Errorf("generate token: %w", err)
	}
	raw := hex.EncodeToString(b)
	return Issued{
		Raw:       raw,
		Digest:    Digest(raw),
		ExpiresAt: time.Now().UTC().Add(validity),
	}, nil
}

// Digest computes the sha256 hex digest of a raw token.
func Digest(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
