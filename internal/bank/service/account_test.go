package service_test

import (
	"context"
	"testing"

	"github.com/cofferhq/coffer/internal/bank/service"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestRegisterCreatesUserAndAccount(t *testing.T) {
	t.Parallel()

	_, accounts, st := newServices(t)
	ctx := context.Background()

	user, account, err := accounts.Register(ctx, "alice", "Alice", "correct horse battery")
	require.NoError(t, err)
	require.Equal(t, user.ID, account.UserID)
	require.True(t, account.Balance.IsZero())

	got, err := st.Accounts().ListAccountsByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, account.ID, got[0].ID)
}

func TestRegisterDuplicateUsernameLeavesNoAccount(t *testing.T) {
	t.Parallel()

	_, accounts, st := newServices(t)
	ctx := context.Background()

	_, _, err := accounts.Register(ctx, "alice", "Alice", "correct horse battery")
	require.NoError(t, err)

	_, _, err = accounts.Register(ctx, "alice", "Impostor", "other password")
	require.ErrorIs(t, err, service.ErrUsernameTaken)

	// All-or-nothing: the failed registration created no orphan rows.
	u, err := st.Users().GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	got, err := st.Accounts().ListAccountsByUser(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)
}

func TestRegisterWithOpeningBalance(t *testing.T) {
	t.Parallel()

	_, accounts, _ := newServices(t)
	accounts.OpeningBalance = decimal.RequireFromString("25.00")

	_, account, err := accounts.Register(context.Background(), "bonus", "Bonus", "correct horse battery")
	require.NoError(t, err)
	require.True(t, account.Balance.Equal(decimal.RequireFromString("25.00")))
}

func TestCreditAndDebit(t *testing.T) {
	t.Parallel()

	_, accounts, _ := newServices(t)
	ctx := context.Background()

	user, account, err := accounts.Register(ctx, "alice", "Alice", "correct horse battery")
	require.NoError(t, err)

	updated, err := accounts.Credit(ctx, user.ID, account.ID, decimal.RequireFromString("100.00"))
	require.NoError(t, err)
	require.True(t, updated.Balance.Equal(decimal.RequireFromString("100.00")))

	updated, err = accounts.Debit(ctx, user.ID, account.ID, decimal.RequireFromString("30.50"))
	require.NoError(t, err)
	require.True(t, updated.Balance.Equal(decimal.RequireFromString("69.50")))
	require.Equal(t, "USD", updated.Currency)

	_, err = accounts.Debit(ctx, user.ID, account.ID, decimal.RequireFromString("1000.00"))
	require.ErrorIs(t, err, service.ErrInsufficientFunds)
}

func TestDebitOwnershipGuard(t *testing.T) {
	t.Parallel()

	_, accounts, _ := newServices(t)
	ctx := context.Background()

	alice, aliceAcct, err := accounts.Register(ctx, "alice", "Alice", "correct horse battery")
	require.NoError(t, err)
	bob, _, err := accounts.Register(ctx, "bob", "Bob", "correct horse battery")
	require.NoError(t, err)

	_, err = accounts.Credit(ctx, alice.ID, aliceAcct.ID, decimal.RequireFromString("50.00"))
	require.NoError(t, err)

	// Bob cannot touch Alice's account.
	_, err = accounts.Debit(ctx, bob.ID, aliceAcct.ID, decimal.RequireFromString("1.00"))
	require.ErrorIs(t, err, service.ErrAccountNotOwned)
	_, err = accounts.Credit(ctx, bob.ID, aliceAcct.ID, decimal.RequireFromString("1.00"))
	require.ErrorIs(t, err, service.ErrAccountNotOwned)

	// A missing account is distinguishable from a foreign one.
	_, err = accounts.Debit(ctx, alice.ID, "01JZZZZZZZZZZZZZZZZZZZZZZZ", decimal.RequireFromString("1.00"))
	require.ErrorIs(t, err, service.ErrAccountNotFound)
}

func TestAmountValidation(t *testing.T) {
	t.Parallel()

	_, accounts, _ := newServices(t)
	ctx := context.Background()

	user, account, err := accounts.Register(ctx, "alice", "Alice", "correct horse battery")
	require.NoError(t, err)

	for _, amount := range []string{"0", "-5.00", "0.001", "9.999", "100000000000000000.00"} {
		_, err = accounts.Credit(ctx, user.ID, account.ID, decimal.RequireFromString(amount))
		require.ErrorIs(t, err, service.ErrInvalidAmount, amount)
		_, err = accounts.Debit(ctx, user.ID, account.ID, decimal.RequireFromString(amount))
		require.ErrorIs(t, err, service.ErrInvalidAmount, amount)
	}
}

func TestDebitBeyondRepresentableRange(t *testing.T) {
	t.Parallel()

	_, accounts, _ := newServices(t)
	ctx := context.Background()

	user, account, err := accounts.Register(ctx, "alice", "Alice", "correct horse battery")
	require.NoError(t, err)

	_, err = accounts.Credit(ctx, user.ID, account.ID, decimal.RequireFromString("100.00"))
	require.NoError(t, err)

	// An amount whose minor units overflow int64 is refused outright. It
	// must never reach the ledger, where a wrapped negative would credit
	// the account instead of debiting it.
	_, err = accounts.Debit(ctx, user.ID, account.ID, decimal.RequireFromString("100000000000000000.00"))
	require.ErrorIs(t, err, service.ErrInvalidAmount)

	_, list, err := accounts.Profile(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.True(t, list[0].Balance.Equal(decimal.RequireFromString("100.00")))
}

func TestProfileAndHistory(t *testing.T) {
	t.Parallel()

	_, accounts, _ := newServices(t)
	ctx := context.Background()

	user, account, err := accounts.Register(ctx, "alice", "Alice", "correct horse battery")
	require.NoError(t, err)

	_, err = accounts.Credit(ctx, user.ID, account.ID, decimal.RequireFromString("10.00"))
	require.NoError(t, err)
	_, err = accounts.Debit(ctx, user.ID, account.ID, decimal.RequireFromString("4.00"))
	require.NoError(t, err)

	u, list, err := accounts.Profile(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, "alice", u.Username)
	require.Len(t, list, 1)
	require.True(t, list[0].Balance.Equal(decimal.RequireFromString("6.00")))

	records, err := accounts.History(ctx, user.ID, account.ID)
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.True(t, records[0].Amount.IsNegative())
}
