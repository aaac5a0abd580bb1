package sqlite

import (
	"context"
	"time"

	"github.com/cofferhq/coffer/internal/bank/domain"
	"github.com/cofferhq/coffer/internal/bank/store"
	"github.com/cofferhq/coffer/pkg/idx"
)

const (
	sqlGetAccountByID = `
SELECT id, user_id, balance_cents, currency, created_at, updated_at
FROM bank_accounts WHERE id = ?`

	sqlListAccountsByUser = `
SELECT id, user_id, balance_cents, currency, created_at, updated_at
FROM bank_accounts WHERE user_id = ? ORDER BY created_at ASC`

	sqlCreateAccount = `
INSERT INTO bank_accounts (id, user_id, balance_cents, currency, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)`

	sqlAccountOwner = `
SELECT user_id FROM bank_accounts WHERE id = ?`

	sqlAddBalance = `
UPDATE bank_accounts SET balance_cents = balance_cents + ?, updated_at = ?
WHERE id = ?`

	// The balance_cents >= amount guard makes the debit conditional in one
	// statement. Two racing debits both see the guard evaluated against the
	// row they atomically update, so the balance can never go negative.
	sqlDebitBalance = `
UPDATE bank_accounts SET balance_cents = balance_cents - ?1, updated_at = ?2
WHERE id = ?3 AND balance_cents >= ?1`

	sqlGetBalance = `
SELECT balance_cents FROM bank_accounts WHERE id = ?`

	sqlCreateBalanceRecord = `
INSERT INTO balance_records (id, account_id, amount_cents, type, created_at)
VALUES (?, ?, ?, ?, ?)`

	sqlListBalanceRecords = `
SELECT id, account_id, amount_cents, type, created_at
FROM balance_records WHERE account_id = ? ORDER BY created_at DESC, id DESC`
)

type accountsRepo struct {
	db DBTX
}

func (r *accountsRepo) GetAccountByID(ctx context.Context, id string) (domain.Account, error) {
	var (
		a     domain.Account
		cents int64
	)
	err := r.db.QueryRowContext(ctx, sqlGetAccountByID, id).Scan(
		&a.ID, &a.UserID, &cents, &a.Currency, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return domain.Account{}, mapNotFound(err)
	}
	a.Balance = domain.DecimalFromCents(cents)
	return a, nil
}

func (r *accountsRepo) ListAccountsByUser(ctx context.Context, userID string) ([]domain.Account, error) {
	rows, err := r.db.QueryContext(ctx, sqlListAccountsByUser, userID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var accounts []domain.Account
	for rows.Next() {
		var (
			a     domain.Account
			cents int64
		)
		if err := rows.Scan(&a.ID, &a.UserID, &cents, &a.Currency, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		a.Balance = domain.DecimalFromCents(cents)
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func (r *accountsRepo) CreateAccount(ctx context.Context, a domain.Account) error {
	cents, err := domain.CentsFromDecimal(a.Balance)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	_, err = r.db.ExecContext(ctx, sqlCreateAccount,
		a.ID, a.UserID, cents, a.Currency, now, now)
	return mapConstraint(err)
}

func (r *accountsRepo) AccountBelongsToUser(ctx context.Context, accountID, userID string) (bool, error) {
	var owner string
	err := r.db.QueryRowContext(ctx, sqlAccountOwner, accountID).Scan(&owner)
	if err != nil {
		return false, mapNotFound(err)
	}
	return owner == userID, nil
}

func (r *accountsRepo) AddBalance(ctx context.Context, accountID string, amountCents int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, sqlAddBalance, amountCents, time.Now().UTC(), accountID)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, store.ErrNotFound
	}

	if err := r.createBalanceRecord(ctx, accountID, amountCents, domain.RecordTypeCredit); err != nil {
		return 0, err
	}
	return r.balance(ctx, accountID)
}

func (r *accountsRepo) DebitBalance(ctx context.Context, accountID string, amountCents int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, sqlDebitBalance, amountCents, time.Now().UTC(), accountID)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n == 0 {
		// Zero rows means either no such account or the guard failed.
		if _, err := r.balance(ctx, accountID); err != nil {
			return 0, err
		}
		return 0, store.ErrInsufficientFunds
	}

	if err := r.createBalanceRecord(ctx, accountID, -amountCents, domain.RecordTypeDebit); err != nil {
		return 0, err
	}
	return r.balance(ctx, accountID)
}

func (r *accountsRepo) ListBalanceRecords(ctx context.Context, accountID string) ([]domain.BalanceRecord, error) {
	rows, err := r.db.QueryContext(ctx, sqlListBalanceRecords, accountID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var records []domain.BalanceRecord
	for rows.Next() {
		var (
			rec   domain.BalanceRecord
			cents int64
		)
		if err := rows.Scan(&rec.ID, &rec.AccountID, &cents, &rec.Type, &rec.CreatedAt); err != nil {
			return nil, err
		}
		rec.Amount = domain.DecimalFromCents(cents)
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *accountsRepo) createBalanceRecord(ctx context.Context, accountID string, amountCents int64, recordType string) error {
	_, err := r.db.ExecContext(ctx, sqlCreateBalanceRecord,
		idx.New().String(), accountID, amountCents, recordType, time.Now().UTC())
	return err
}

func (r *accountsRepo) balance(ctx context.Context, accountID string) (int64, error) {
	var cents int64
	if err := r.db.QueryRowContext(ctx, sqlGetBalance, accountID).Scan(&cents); err != nil {
		return 0, mapNotFound(err)
	}
	return cents, nil
}
