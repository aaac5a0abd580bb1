package sqlite_test

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/cofferhq/coffer/internal/bank/domain"
	"github.com/cofferhq/coffer/internal/bank/store"
	"github.com/cofferhq/coffer/internal/bank/store/drivers/sqlite"
	"github.com/cofferhq/coffer/pkg/cryptox"
	"github.com/cofferhq/coffer/pkg/idx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_txlock=immediate",
		filepath.Join(t.TempDir(), "bank.db"))

	s, err := sqlite.NewStore(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func seedUser(t *testing.T, s store.Store, username string) domain.User {
	t.Helper()

	u := domain.User{
		ID:           idx.New().String(),
		Username:     username,
		Name:         "Test User",
		PasswordHash: "unused",
		Status:       domain.UserStatusActive,
	}
	require.NoError(t, s.Users().CreateUser(context.Background(), u))
	return u
}

func seedAccount(t *testing.T, s store.Store, userID, balance string) domain.Account {
	t.Helper()

	a := domain.Account{
		ID:       idx.New().String(),
		UserID:   userID,
		Balance:  decimal.RequireFromString(balance),
		Currency: domain.DefaultCurrency,
	}
	require.NoError(t, s.Accounts().CreateAccount(context.Background(), a))
	return a
}

func TestUsersRoundTrip(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	u := seedUser(t, s, "alice")

	byID, err := s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "alice", byID.Username)
	require.True(t, byID.IsActive())

	byName, err := s.Users().GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, u.ID, byName.ID)

	_, err = s.Users().GetUserByUsername(ctx, "nobody")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestCreateUserDuplicateUsername(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	seedUser(t, s, "alice")

	err := s.Users().CreateUser(context.Background(), domain.User{
		ID:           idx.New().String(),
		Username:     "alice",
		Name:         "Impostor",
		PasswordHash: "unused",
		Status:       domain.UserStatusActive,
	})
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestAccountOwnership(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	alice := seedUser(t, s, "alice")
	bob := seedUser(t, s, "bob")
	acct := seedAccount(t, s, alice.ID, "100.00")

	owns, err := s.Accounts().AccountBelongsToUser(ctx, acct.ID, alice.ID)
	require.NoError(t, err)
	require.True(t, owns)

	owns, err = s.Accounts().AccountBelongsToUser(ctx, acct.ID, bob.ID)
	require.NoError(t, err)
	require.False(t, owns)

	_, err = s.Accounts().AccountBelongsToUser(ctx, idx.New().String(), alice.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestAddAndDebitBalance(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	alice := seedUser(t, s, "alice")
	acct := seedAccount(t, s, alice.ID, "0.00")

	cents, err := s.Accounts().AddBalance(ctx, acct.ID, 10050)
	require.NoError(t, err)
	require.Equal(t, int64(10050), cents)

	cents, err = s.Accounts().DebitBalance(ctx, acct.ID, 2500)
	require.NoError(t, err)
	require.Equal(t, int64(7550), cents)

	// Overdraft is refused and leaves the balance untouched.
	_, err = s.Accounts().DebitBalance(ctx, acct.ID, 10000)
	require.ErrorIs(t, err, store.ErrInsufficientFunds)

	got, err := s.Accounts().GetAccountByID(ctx, acct.ID)
	require.NoError(t, err)
	require.True(t, got.Balance.Equal(decimal.RequireFromString("75.50")))

	_, err = s.Accounts().DebitBalance(ctx, idx.New().String(), 1)
	require.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.Accounts().AddBalance(ctx, idx.New().String(), 1)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestBalanceRecordsLedger(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	alice := seedUser(t, s, "alice")
	acct := seedAccount(t, s, alice.ID, "0.00")

	_, err := s.Accounts().AddBalance(ctx, acct.ID, 5000)
	require.NoError(t, err)
	_, err = s.Accounts().DebitBalance(ctx, acct.ID, 1200)
	require.NoError(t, err)

	records, err := s.Accounts().ListBalanceRecords(ctx, acct.ID)
	require.NoError(t, err)
	require.Len(t, records, 2)

	// Newest first: the debit, then the credit.
	require.True(t, records[0].Amount.Equal(decimal.RequireFromString("-12.00")))
	require.Equal(t, domain.RecordTypeDebit, records[0].Type)
	require.True(t, records[1].Amount.Equal(decimal.RequireFromString("50.00")))
	require.Equal(t, domain.RecordTypeCredit, records[1].Type)
}

func TestConcurrentDebitsNeverOverdraw(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	alice := seedUser(t, s, "alice")
	acct := seedAccount(t, s, alice.ID, "100.00")

	// 20 goroutines each try to debit 10.00 from a 100.00 balance.
	// Exactly 10 may succeed.
	const workers = 20
	var wg sync.WaitGroup
	results := make([]error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = s.Accounts().DebitBalance(ctx, acct.ID, 1000)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range results {
		if err == nil {
			succeeded++
			continue
		}
		require.ErrorIs(t, err, store.ErrInsufficientFunds)
	}
	require.Equal(t, 10, succeeded)

	got, err := s.Accounts().GetAccountByID(ctx, acct.ID)
	require.NoError(t, err)
	require.True(t, got.Balance.IsZero(), "final balance %s", got.Balance)
}

func TestRefreshTokenLifecycle(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	alice := seedUser(t, s, "alice")

	opaque, err := cryptox.GenerateToken(cryptox.TokenSize256)
	require.NoError(t, err)
	hash := cryptox.FingerprintToken(opaque)

	rt := domain.RefreshToken{
		ID:        idx.New().String(),
		UserID:    alice.ID,
		TokenHash: hash,
		ExpiresAt: time.Now().Add(24 * time.Hour).UTC(),
	}
	require.NoError(t, s.RefreshTokens().CreateRefreshToken(ctx, rt))

	got, err := s.RefreshTokens().GetRefreshTokenByHash(ctx, hash)
	require.NoError(t, err)
	require.False(t, got.Revoked)
	require.Nil(t, got.RevokedAt)
	require.True(t, got.Usable(time.Now()))

	require.NoError(t, s.RefreshTokens().RevokeRefreshToken(ctx, hash))

	got, err = s.RefreshTokens().GetRefreshTokenByHash(ctx, hash)
	require.NoError(t, err)
	require.True(t, got.Revoked)
	require.NotNil(t, got.RevokedAt)
	require.False(t, got.Usable(time.Now()))

	// Revoking twice fails: that is what makes rotation single-use.
	require.ErrorIs(t, s.RefreshTokens().RevokeRefreshToken(ctx, hash), store.ErrNotFound)
}

func TestRevokeAllUserRefreshTokens(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	alice := seedUser(t, s, "alice")
	bob := seedUser(t, s, "bob")

	hashes := make([]string, 0, 2)
	for i := 0; i < 2; i++ {
		opaque, err := cryptox.GenerateToken(cryptox.TokenSize256)
		require.NoError(t, err)
		h := cryptox.FingerprintToken(opaque)
		hashes = append(hashes, h)
		require.NoError(t, s.RefreshTokens().CreateRefreshToken(ctx, domain.RefreshToken{
			ID:        idx.New().String(),
			UserID:    alice.ID,
			TokenHash: h,
			ExpiresAt: time.Now().Add(time.Hour).UTC(),
		}))
	}

	bobToken, err := cryptox.GenerateToken(cryptox.TokenSize256)
	require.NoError(t, err)
	bobHash := cryptox.FingerprintToken(bobToken)
	require.NoError(t, s.RefreshTokens().CreateRefreshToken(ctx, domain.RefreshToken{
		ID:        idx.New().String(),
		UserID:    bob.ID,
		TokenHash: bobHash,
		ExpiresAt: time.Now().Add(time.Hour).UTC(),
	}))

	require.NoError(t, s.RefreshTokens().RevokeAllUserRefreshTokens(ctx, alice.ID))

	for _, h := range hashes {
		got, err := s.RefreshTokens().GetRefreshTokenByHash(ctx, h)
		require.NoError(t, err)
		require.True(t, got.Revoked)
	}

	got, err := s.RefreshTokens().GetRefreshTokenByHash(ctx, bobHash)
	require.NoError(t, err)
	require.False(t, got.Revoked)
}

func TestWithTxRollsBackOnError(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	err := s.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().CreateUser(ctx, domain.User{
			ID:           idx.New().String(),
			Username:     "ghost",
			Name:         "Ghost",
			PasswordHash: "unused",
			Status:       domain.UserStatusActive,
		}); err != nil {
			return err
		}
		return fmt.Errorf("boom")
	})
	require.Error(t, err)

	_, err = s.Users().GetUserByUsername(ctx, "ghost")
	require.ErrorIs(t, err, store.ErrNotFound)
}
