package sqlite

import (
	"context"
	"time"

	"github.com/cofferhq/coffer/internal/bank/domain"
)

const (
	sqlGetUserByID = `
SELECT id, username, name, password_hash, status, created_at, updated_at
FROM users WHERE id = ?`

	sqlGetUserByUsername = `
SELECT id, username, name, password_hash, status, created_at, updated_at
FROM users WHERE username = ?`

	sqlCreateUser = `
INSERT INTO users (id, username, name, password_hash, status, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`
)

type usersRepo struct {
	db DBTX
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	return r.scanUser(ctx, sqlGetUserByID, id)
}

func (r *usersRepo) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	return r.scanUser(ctx, sqlGetUserByUsername, username)
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx, sqlCreateUser,
		u.ID, u.Username, u.Name, u.PasswordHash, u.Status, now, now)
	return mapConstraint(err)
}

func (r *usersRepo) scanUser(ctx context.Context, query string, arg any) (domain.User, error) {
	var u domain.User
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&u.ID, &u.Username, &u.Name, &u.PasswordHash, &u.Status,
		&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}
