package jwtx

import (
	"time"

	"github.com/cofferhq/coffer/pkg/idx"
	"github.com/golang-jwt/jwt/v5"
)

// Default token TTL constants for the session lifecycle. These provide
// sensible security defaults but can be overridden via configuration.
const (
	// DefaultAccessTokenTTL is the default lifetime for access tokens.
	// Short-lived for security - typical range is 15m to 1h.
	DefaultAccessTokenTTL = 15 * time.Minute

	// DefaultRefreshTokenTTL is the default lifetime for refresh tokens.
	// Longer-lived for user convenience - typical range is 1d to 30d.
	DefaultRefreshTokenTTL = 24 * time.Hour
)

// Claims are access-token claims. The subject is the username; the user id
// travels in the "id" claim and is what authorization decisions key off.
type Claims struct {
	jwt.RegisteredClaims

	// UserID is the stable identity the token authenticates.
	UserID string `json:"id,omitempty"`

	// Status is the user's account status at issuance time ("Active", ...).
	// Informational only; authorization re-checks the store where it matters.
	Status string `json:"status,omitempty"`
}

// NewAccessClaims builds minimally-correct claims for an access token.
func NewAccessClaims(
	userID, username, status string,
	issuer string,
	ttl time.Duration,
	now time.Time,
) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        idx.New().String(),
		},
		UserID: userID,
		Status: status,
	}
}

// ValidateIssuer checks if the issuer matches expected value.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil // nothing to enforce
	}

	if c.Issuer != expected {
		return ErrIssuer
	}

	return nil
}

// ValidateExpiry ensures the token hasn't expired (exp) and isn't used
// before it is valid (nbf).
func (c *Claims) ValidateExpiry() error {
	now := time.Now().UTC()

	if c.ExpiresAt != nil && now.After(c.ExpiresAt.Time) {
		return ErrExpired
	}

	if c.NotBefore != nil && now.Before(c.NotBefore.Time) {
		return ErrNotYetValid
	}

	return nil
}
