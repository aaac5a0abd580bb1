package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/cofferhq/coffer/internal/bank/domain"
	"github.com/cofferhq/coffer/internal/bank/store"
)

const (
	sqlCreateRefreshToken = `
INSERT INTO refresh_tokens (id, user_id, token_hash, expires_at, revoked, created_at)
VALUES (?, ?, ?, ?, 0, ?)`

	sqlGetRefreshTokenByHash = `
SELECT id, user_id, token_hash, expires_at, revoked, revoked_at, created_at
FROM refresh_tokens WHERE token_hash = ?`

	// The revoked = 0 guard is what makes revocation first-wins: of two
	// concurrent refreshes presenting the same token, exactly one flips
	// the row.
	sqlRevokeRefreshToken = `
UPDATE refresh_tokens SET revoked = 1, revoked_at = ?
WHERE token_hash = ? AND revoked = 0`

	sqlRevokeAllUserRefreshTokens = `
UPDATE refresh_tokens SET revoked = 1, revoked_at = ?
WHERE user_id = ? AND revoked = 0`
)

type refreshTokensRepo struct {
	db DBTX
}

func (r *refreshTokensRepo) CreateRefreshToken(ctx context.Context, t domain.RefreshToken) error {
	_, err := r.db.ExecContext(ctx, sqlCreateRefreshToken,
		t.ID, t.UserID, t.TokenHash, t.ExpiresAt, time.Now().UTC())
	return mapConstraint(err)
}

func (r *refreshTokensRepo) GetRefreshTokenByHash(
	ctx context.Context,
	hash string,
) (domain.RefreshToken, error) {
	var (
		t         domain.RefreshToken
		revokedAt sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, sqlGetRefreshTokenByHash, hash).Scan(
		&t.ID, &t.UserID, &t.TokenHash, &t.ExpiresAt, &t.Revoked,
		&revokedAt, &t.CreatedAt)
	if err != nil {
		return domain.RefreshToken{}, mapNotFound(err)
	}
	t.RevokedAt = mapNullTimePtr(revokedAt)
	return t, nil
}

func (r *refreshTokensRepo) RevokeRefreshToken(ctx context.Context, hash string) error {
	res, err := r.db.ExecContext(ctx, sqlRevokeRefreshToken, time.Now().UTC(), hash)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *refreshTokensRepo) RevokeAllUserRefreshTokens(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, sqlRevokeAllUserRefreshTokens, time.Now().UTC(), userID)
	return err
}
