package domain

import "time"

// Role represents the authorization level of a user.
type Role string

const (
	RoleUser      Role = "USER"
	RoleAdmin     Role = "ADMIN"
	RoleModerator Role = "MODERATOR"
)

// User is the core account aggregate. The verify and reset fields hold sha256
// digests of the random tokens emailed to the user, never the raw values, so a
// leaked account record cannot be replayed as a token.
type User struct {
	ID              string     `json:"id"`
	Username        string     `json:"username"`
	Email           string     `json:"email"`
	Name            string     `json:"name"`
	PasswordHash    string     `json:"-"`
	Role            Role       `json:"role"`
	Verified        bool       `json:"verified"`
	VerifyDigest    string     `json:"-"`
	VerifyExpiresAt *time.Time `json:"-"`
	ResetDigest     string     `json:"-"`
	ResetExpiresAt  *time.Time `json:"-"`
	ImageURL        string     `json:"imageUrl,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}
