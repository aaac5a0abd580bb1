package service

import (
	"context"
	"errors"

	"github.com/cofferhq/coffer/internal/bank/domain"
	"github.com/cofferhq/coffer/internal/bank/store"
	"github.com/cofferhq/coffer/pkg/cryptox"
	"github.com/cofferhq/coffer/pkg/idx"
	"github.com/cofferhq/coffer/pkg/slogx"
	"github.com/shopspring/decimal"
)

var (
	ErrUsernameTaken     = errors.New("username_taken")
	ErrAccountNotFound   = errors.New("account_not_found")
	ErrAccountNotOwned   = errors.New("account_not_owned")
	ErrInsufficientFunds = errors.New("insufficient_funds")
	ErrInvalidAmount     = errors.New("invalid_amount")
	ErrUserNotFound      = errors.New("user_not_found")
)

// AccountService owns registration and the balance ledger.
type AccountService struct {
	Store store.Store

	// OpeningBalance is credited to the account created at registration
	// (promotional signup credit). Zero disables it.
	OpeningBalance decimal.Decimal
}

// Register creates a user and their first bank account as one atomic unit.
// Either both rows exist afterwards or neither does.
func (s *AccountService) Register(ctx context.Context, username, name, password string) (domain.User, domain.Account, error) {
	l := slogx.FromContext(ctx)

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.User{}, domain.Account{}, err
	}

	user := domain.User{
		ID:           idx.New().String(),
		Username:     username,
		Name:         name,
		PasswordHash: hash,
		Status:       domain.UserStatusActive,
	}
	account := domain.Account{
		ID:       idx.New().String(),
		UserID:   user.ID,
		Balance:  s.OpeningBalance,
		Currency: domain.DefaultCurrency,
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().CreateUser(ctx, user); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return ErrUsernameTaken
			}
			return err
		}
		return tx.Accounts().CreateAccount(ctx, account)
	})
	if err != nil {
		return domain.User{}, domain.Account{}, err
	}

	l.Info("user registered", "user_id", user.ID, "username", username)
	return user, account, nil
}

// Credit adds amount to the account after confirming the caller owns it.
// Returns the account as it stands after the credit.
func (s *AccountService) Credit(ctx context.Context, userID, accountID string, amount decimal.Decimal) (domain.Account, error) {
	cents, err := amountCents(amount)
	if err != nil {
		return domain.Account{}, err
	}

	var updated domain.Account
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := s.requireOwnership(ctx, tx, accountID, userID); err != nil {
			return err
		}
		if _, err := tx.Accounts().AddBalance(ctx, accountID, cents); err != nil {
			return err
		}
		updated, err = tx.Accounts().GetAccountByID(ctx, accountID)
		return err
	})
	if err != nil {
		return domain.Account{}, err
	}
	return updated, nil
}

// Debit withdraws amount from the account after confirming the caller owns
// it. The underlying update is conditional on sufficient funds, so racing
// debits can never overdraw. Returns the account as it stands after the
// debit.
func (s *AccountService) Debit(ctx context.Context, userID, accountID string, amount decimal.Decimal) (domain.Account, error) {
	cents, err := amountCents(amount)
	if err != nil {
		return domain.Account{}, err
	}

	var updated domain.Account
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := s.requireOwnership(ctx, tx, accountID, userID); err != nil {
			return err
		}
		if _, err := tx.Accounts().DebitBalance(ctx, accountID, cents); err != nil {
			if errors.Is(err, store.ErrInsufficientFunds) {
				return ErrInsufficientFunds
			}
			return err
		}
		updated, err = tx.Accounts().GetAccountByID(ctx, accountID)
		return err
	})
	if err != nil {
		return domain.Account{}, err
	}
	return updated, nil
}

// Profile returns the user and all their accounts.
func (s *AccountService) Profile(ctx context.Context, userID string) (domain.User, []domain.Account, error) {
	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, nil, ErrUserNotFound
		}
		return domain.User{}, nil, err
	}

	accounts, err := s.Store.Accounts().ListAccountsByUser(ctx, userID)
	if err != nil {
		return domain.User{}, nil, err
	}
	return u, accounts, nil
}

// History returns the ledger entries for an account the caller owns,
// newest first.
func (s *AccountService) History(ctx context.Context, userID, accountID string) ([]domain.BalanceRecord, error) {
	if err := s.requireOwnership(ctx, s.Store, accountID, userID); err != nil {
		return nil, err
	}
	return s.Store.Accounts().ListBalanceRecords(ctx, accountID)
}

// requireOwnership distinguishes an account that does not exist from one
// owned by someone else, so handlers can answer 404 vs 403.
func (s *AccountService) requireOwnership(ctx context.Context, tx store.Tx, accountID, userID string) error {
	owns, err := tx.Accounts().AccountBelongsToUser(ctx, accountID, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrAccountNotFound
		}
		return err
	}
	if !owns {
		return ErrAccountNotOwned
	}
	return nil
}

// amountCents validates that amount is a positive sum with at most cent
// precision and converts it to minor units.
func amountCents(amount decimal.Decimal) (int64, error) {
	if !amount.IsPositive() {
		return 0, ErrInvalidAmount
	}
	cents, err := domain.CentsFromDecimal(amount)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	return cents, nil
}
