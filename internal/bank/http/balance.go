package http

import (
	"net/http"

	"github.com/cofferhq/coffer/internal/bank/service"
	"github.com/cofferhq/coffer/pkg/bankapi"
	"github.com/cofferhq/coffer/pkg/httpx"
	"github.com/shopspring/decimal"
)

// BalanceHandler serves the balance mutations of the authenticated user:
// POST /v1/account/balance adds funds, PUT /v1/account/balance debits them.
// The top-up ceiling is policy of this surface, not of the ledger, so it is
// enforced here before the service runs.
type BalanceHandler struct {
	Accounts *service.AccountService

	// MaxTopUp caps a single add operation. Zero or negative disables
	// the cap.
	MaxTopUp decimal.Decimal
}

func (h *BalanceHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := httpx.UserIDFromContext(ctx)
	if !ok {
		bankapi.ErrInvalidToken.WriteError(w)
		return
	}

	var req bankapi.BalanceRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if !req.Amount.IsPositive() {
		bankapi.ErrInvalidAmount.WriteError(w)
		return
	}
	if h.MaxTopUp.IsPositive() && req.Amount.GreaterThan(h.MaxTopUp) {
		bankapi.ErrExceededMaximumAmount(h.MaxTopUp).WriteError(w)
		return
	}

	account, err := h.Accounts.Credit(ctx, userID, req.AccountID, req.Amount)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, bankapi.BalanceResponse{
		Message:   "Balance added successfully.",
		AccountID: account.ID,
		Balance:   account.Balance,
		Currency:  account.Currency,
	})
}

func (h *BalanceHandler) HandleDebit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := httpx.UserIDFromContext(ctx)
	if !ok {
		bankapi.ErrInvalidToken.WriteError(w)
		return
	}

	var req bankapi.BalanceRequest
	if !decodeBody(w, r, &req) {
		return
	}

	account, err := h.Accounts.Debit(ctx, userID, req.AccountID, req.Amount)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, bankapi.BalanceResponse{
		Message:   "Balance debited successfully.",
		AccountID: account.ID,
		Balance:   account.Balance,
		Currency:  account.Currency,
	})
}
