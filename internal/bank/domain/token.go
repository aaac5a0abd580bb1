package domain

import "time"

// TokenPair is what login and refresh hand back: the short-lived access
// token (JWT) and the opaque single-use refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// RefreshToken models the stored refresh token record in the DB. Only the
// fingerprint of the opaque token is stored, never the token itself.
type RefreshToken struct {
	ID        string
	UserID    string
	TokenHash string // deterministic fingerprint (base64url SHA-256)
	ExpiresAt time.Time
	Revoked   bool
	RevokedAt *time.Time
	CreatedAt time.Time
}

// Usable reports whether the token can still redeem a refresh at the given
// instant. Revoked or expired tokens are dead regardless of anything else.
func (t *RefreshToken) Usable(now time.Time) bool {
	return !t.Revoked && now.Before(t.ExpiresAt)
}
