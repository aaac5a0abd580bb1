package bankapi

import (
	"time"

	"github.com/shopspring/decimal"
)

// LoginRequest carries the credentials for POST /api/v1/auth/login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest carries the single-use refresh token for
// POST /api/v1/auth/refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// LogoutRequest revokes the supplied refresh token.
type LogoutRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// RegisterRequest creates a new user plus their initial bank account.
type RegisterRequest struct {
	Username        string `json:"username" validate:"required,min=3,max=64"`
	Name            string `json:"name" validate:"required,max=128"`
	Password        string `json:"password" validate:"required,min=8,max=128"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
}

// BalanceRequest carries the amount for balance add and debit operations.
// The amount travels as a decimal string so no float ever touches money.
type BalanceRequest struct {
	AccountID string          `json:"accountId" validate:"required"`
	Amount    decimal.Decimal `json:"amount" validate:"required"`
}

// TokenResponse is returned by login and refresh: a bearer access token,
// its expiry, and the single-use refresh token that replaces any prior one.
type TokenResponse struct {
	Token        string    `json:"token"`
	RefreshToken string    `json:"refreshToken"`
	Expiration   time.Time `json:"expiration"`
}

// MessageResponse is the generic success envelope for operations that
// return no resource.
type MessageResponse struct {
	Message string `json:"message"`
}

// AccountSummary is one bank account as seen through the API.
type AccountSummary struct {
	ID       string          `json:"id"`
	Balance  decimal.Decimal `json:"balance"`
	Currency string          `json:"currency"`
}

// ProfileResponse describes the authenticated user and their accounts.
type ProfileResponse struct {
	ID       string           `json:"id"`
	Username string           `json:"username"`
	Name     string           `json:"name"`
	Status   string           `json:"status"`
	Accounts []AccountSummary `json:"accounts"`
}

// BalanceResponse reports the outcome of a successful add or debit along
// with the resulting balance.
type BalanceResponse struct {
	Message   string          `json:"message"`
	AccountID string          `json:"accountId"`
	Balance   decimal.Decimal `json:"balance"`
	Currency  string          `json:"currency"`
}

// BalanceRecord is one ledger entry as seen through the API. Amount is
// positive for credits, negative for debits; Type is "credit" or "debit".
type BalanceRecord struct {
	ID        string          `json:"id"`
	Amount    decimal.Decimal `json:"amount"`
	Type      string          `json:"type"`
	CreatedAt time.Time       `json:"createdAt"`
}

// RecordsResponse lists the ledger entries of one account, newest first.
type RecordsResponse struct {
	AccountID string          `json:"accountId"`
	Records   []BalanceRecord `json:"records"`
}

// HealthChecks reports the state of critical dependencies.
type HealthChecks struct {
	Database string `json:"database,omitempty"`
}

// HealthResponse is returned by the livez and readyz probes.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}
