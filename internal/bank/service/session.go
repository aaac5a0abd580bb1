package service

import (
	"context"
	"errors"
	"time"

	"github.com/cofferhq/coffer/internal/bank/domain"
	"github.com/cofferhq/coffer/internal/bank/store"
	"github.com/cofferhq/coffer/pkg/cryptox"
	"github.com/cofferhq/coffer/pkg/idx"
	"github.com/cofferhq/coffer/pkg/jwtx"
	"github.com/cofferhq/coffer/pkg/slogx"
)

var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrInvalidRefresh     = errors.New("invalid_refresh_token")
	ErrUserInactive       = errors.New("user_inactive")
)

// SessionService owns the credential lifecycle: password login, refresh
// token rotation, and logout.
type SessionService struct {
	Signer     jwtx.Signer
	Store      store.Store
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// Login verifies a username/password pair and issues a fresh token pair.
// Unknown usernames and wrong passwords both come back as
// ErrInvalidCredentials so callers cannot probe which usernames exist.
func (s *SessionService) Login(ctx context.Context, username, password string) (*domain.TokenPair, error) {
	now := time.Now()
	l := slogx.FromContext(ctx)

	u, err := s.Store.Users().GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := cryptox.VerifyPassword(password, u.PasswordHash); err != nil {
		l.Info("password verification failed", "username", username)
		return nil, ErrInvalidCredentials
	}

	if !u.IsActive() {
		return nil, ErrUserInactive
	}

	return s.issuePair(ctx, u, now)
}

// Refresh redeems a single-use refresh token for a new token pair. The
// presented token is revoked before any new credentials are minted, so of
// two concurrent redemptions of the same token exactly one succeeds. A
// failure after revocation kills the session rather than reviving the
// spent token.
func (s *SessionService) Refresh(ctx context.Context, opaque string) (*domain.TokenPair, error) {
	now := time.Now()
	fp := cryptox.FingerprintToken(opaque)

	rt, err := s.Store.RefreshTokens().GetRefreshTokenByHash(ctx, fp)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidRefresh
		}
		return nil, err
	}
	if !rt.Usable(now) {
		return nil, ErrInvalidRefresh
	}

	// Spend the token first. The conditional update only flips an
	// unrevoked row, so a concurrent redemption losing this race gets
	// ErrNotFound here and the whole refresh fails.
	if err := s.Store.RefreshTokens().RevokeRefreshToken(ctx, fp); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidRefresh
		}
		return nil, err
	}

	// The token was valid but its owner is gone. That is a distinct
	// outcome from a bad token; the row can only vanish out from under a
	// live token through operator intervention.
	u, err := s.Store.Users().GetUserByID(ctx, rt.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if !u.IsActive() {
		return nil, ErrUserInactive
	}

	return s.issuePair(ctx, u, now)
}

// Logout revokes the presented refresh token. The access token stays valid
// until it expires; only the refresh lineage dies here.
func (s *SessionService) Logout(ctx context.Context, opaque string) error {
	fp := cryptox.FingerprintToken(opaque)

	err := s.Store.RefreshTokens().RevokeRefreshToken(ctx, fp)
	if errors.Is(err, store.ErrNotFound) {
		return ErrInvalidRefresh
	}
	return err
}

func (s *SessionService) issuePair(ctx context.Context, u domain.User, now time.Time) (*domain.TokenPair, error) {
	l := slogx.FromContext(ctx)

	claims := jwtx.NewAccessClaims(u.ID, u.Username, u.Status, s.Issuer, s.AccessTTL, now)
	accessToken, err := s.Signer.Sign(claims)
	if err != nil {
		l.Error("failed to sign access token", "error", err)
		return nil, err
	}

	refreshOpaque, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return nil, err
	}

	refresh := domain.RefreshToken{
		ID:        idx.New().String(),
		UserID:    u.ID,
		TokenHash: cryptox.FingerprintToken(refreshOpaque),
		ExpiresAt: now.Add(s.RefreshTTL),
	}
	if err := s.Store.RefreshTokens().CreateRefreshToken(ctx, refresh); err != nil {
		return nil, err
	}

	return &domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshOpaque,
		ExpiresAt:    now.Add(s.AccessTTL),
	}, nil
}
