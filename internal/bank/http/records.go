package http

import (
	"net/http"

	"github.com/cofferhq/coffer/internal/bank/service"
	"github.com/cofferhq/coffer/pkg/bankapi"
	"github.com/cofferhq/coffer/pkg/httpx"
)

// RecordsHandler serves GET /v1/account/{accountID}/records: the ledger of
// one account the caller owns, newest entries first.
type RecordsHandler struct {
	Accounts *service.AccountService
}

func (h *RecordsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := httpx.UserIDFromContext(ctx)
	if !ok {
		bankapi.ErrInvalidToken.WriteError(w)
		return
	}

	accountID := r.PathValue("accountID")
	if accountID == "" {
		bankapi.ErrAccountNotFound.WriteError(w)
		return
	}

	records, err := h.Accounts.History(ctx, userID, accountID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := make([]bankapi.BalanceRecord, 0, len(records))
	for _, rec := range records {
		out = append(out, bankapi.BalanceRecord{
			ID:        rec.ID,
			Amount:    rec.Amount,
			Type:      rec.Type,
			CreatedAt: rec.CreatedAt,
		})
	}

	httpx.WriteJSON(w, http.StatusOK, bankapi.RecordsResponse{
		AccountID: accountID,
		Records:   out,
	})
}
