package store

import (
	"context"
	"errors"

	"github.com/cofferhq/coffer/internal/bank/domain"
)

var (
	ErrNotFound          = errors.New("store: not found")
	ErrAlreadyExists     = errors.New("store: already exists")
	ErrInsufficientFunds = errors.New("store: insufficient funds")
)

// Store is the root data access interface. Concrete drivers (sqlite, postgres)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable, and a transaction entry point for the multi-step operations that
// must be atomic (registration, refresh rotation).
type Store interface {
	Users() Users
	Accounts() Accounts
	RefreshTokens() RefreshTokens

	ApplyMigrations() error

	// WithTx executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources (optional for sqlite).
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transaction-scoped view of the store. Its repos run against the
// open transaction; starting a nested transaction through it is not allowed.
type Tx interface {
	Users() Users
	Accounts() Accounts
	RefreshTokens() RefreshTokens
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByUsername is used during login.
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by app via ULID).
	CreateUser(ctx context.Context, u domain.User) error
}

type Accounts interface {
	// GetAccountByID returns an account by id.
	GetAccountByID(ctx context.Context, id string) (domain.Account, error)

	// ListAccountsByUser returns all accounts owned by a user, oldest first.
	ListAccountsByUser(ctx context.Context, userID string) ([]domain.Account, error)

	// CreateAccount inserts a new account (id is ULID).
	CreateAccount(ctx context.Context, a domain.Account) error

	// AccountBelongsToUser reports whether the account exists and is owned
	// by the given user. The account not existing at all is ErrNotFound.
	AccountBelongsToUser(ctx context.Context, accountID, userID string) (bool, error)

	// AddBalance credits the account by the given minor units and records a
	// ledger entry. Returns the resulting balance in minor units.
	AddBalance(ctx context.Context, accountID string, amountCents int64) (int64, error)

	// DebitBalance debits the account by the given minor units in a single
	// conditional update, so concurrent debits can never drive the balance
	// negative. Returns ErrInsufficientFunds when the balance cannot cover
	// the amount and ErrNotFound when the account does not exist.
	DebitBalance(ctx context.Context, accountID string, amountCents int64) (int64, error)

	// ListBalanceRecords returns the ledger entries for an account,
	// newest first.
	ListBalanceRecords(ctx context.Context, accountID string) ([]domain.BalanceRecord, error)
}

type RefreshTokens interface {
	// CreateRefreshToken stores a new refresh token record.
	CreateRefreshToken(ctx context.Context, t domain.RefreshToken) error

	// GetRefreshTokenByHash returns the token by its fingerprint.
	GetRefreshTokenByHash(ctx context.Context, hash string) (domain.RefreshToken, error)

	// RevokeRefreshToken flips revoked=1 and stamps revoked_at. Revoking an
	// already revoked or unknown token returns ErrNotFound, which is what
	// makes rotation single-use under concurrency.
	RevokeRefreshToken(ctx context.Context, hash string) error

	// RevokeAllUserRefreshTokens bulk revocation for a user (e.g., deactivation).
	// Rows are never physically deleted; revoked and expired records stay
	// behind as the audit trail.
	RevokeAllUserRefreshTokens(ctx context.Context, userID string) error
}
