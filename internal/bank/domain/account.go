package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultCurrency is assigned to accounts created at registration.
const DefaultCurrency = "USD"

// Account is a single bank account. Balance is exact decimal; it is stored
// as integer minor units and never passes through a float.
type Account struct {
	ID        string
	UserID    string
	Balance   decimal.Decimal
	Currency  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Balance record types.
const (
	RecordTypeCredit = "credit"
	RecordTypeDebit  = "debit"
)

// BalanceRecord is one ledger entry against an account. Amount is positive
// for credits and negative for debits; Type carries the same fact for
// consumers that filter the ledger without doing arithmetic.
type BalanceRecord struct {
	ID        string
	AccountID string
	Amount    decimal.Decimal
	Type      string
	CreatedAt time.Time
}
