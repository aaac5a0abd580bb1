package jwtx

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMalformed   = errors.New("jwtx: malformed token")
	ErrAlgMismatch = errors.New("jwtx: algorithm mismatch")
	ErrInvalidSig  = errors.New("jwtx: invalid signature")

	ErrIssuer      = errors.New("jwtx: issuer mismatch")
	ErrExpired     = errors.New("jwtx: token expired")
	ErrNotYetValid = errors.New("jwtx: token not yet valid")
)

// MinSecretBytes is the minimum accepted HMAC secret length. HS256 with a
// short secret is brute-forceable offline, so refuse to start with one.
const MinSecretBytes = 32

// Signer mints signed access tokens.
type Signer interface {
	Sign(Claims) (string, error)
}

// Verifier validates a JWT and gives you back the claims if it's legit.
// Verify enforces signature, algorithm, issuer and lifetime; VerifyExpired
// skips only the lifetime checks and exists for best-effort auditing of
// already-expired tokens. It must never gate authorization.
type Verifier interface {
	Verify(token string) (Claims, error)
	VerifyExpired(token string) (Claims, error)
}

// HS256 signs and verifies tokens with a shared symmetric secret. The secret
// is process-wide configuration loaded once at startup; signer and verifier
// share no in-process state beyond it.
type HS256 struct {
	secret []byte
	issuer string
}

func NewHS256(secret []byte, issuer string) (*HS256, error) {
	if len(secret) < MinSecretBytes {
		return nil, errors.New("jwtx: HS256 secret must be at least 32 bytes")
	}
	return &HS256{secret: secret, issuer: issuer}, nil
}

func (h *HS256) Sign(claims Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(h.secret)
}

func (h *HS256) Verify(token string) (Claims, error) {
	claims, err := h.parse(token)
	if err != nil {
		return Claims{}, err
	}
	if err := claims.ValidateExpiry(); err != nil {
		return Claims{}, err
	}
	return claims, nil
}

func (h *HS256) VerifyExpired(token string) (Claims, error) {
	return h.parse(token)
}

// parse checks structure, declared algorithm, signature and issuer. Lifetime
// is validated separately so VerifyExpired can opt out of it; everything else
// is non-negotiable.
func (h *HS256) parse(token string) (Claims, error) {
	var claims Claims

	parsed, err := jwt.ParseWithClaims(
		token,
		&claims,
		func(t *jwt.Token) (any, error) {
			// Pin the exact method; accepting any HMAC variant (or "none")
			// opens the door to algorithm-confusion forgeries.
			if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
				return nil, ErrAlgMismatch
			}
			return h.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		switch {
		case errors.Is(err, ErrAlgMismatch), errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return Claims{}, ErrInvalidSig
		default:
			return Claims{}, ErrMalformed
		}
	}
	if !parsed.Valid {
		return Claims{}, ErrInvalidSig
	}

	if err := claims.ValidateIssuer(h.issuer); err != nil {
		return Claims{}, err
	}

	return claims, nil
}
