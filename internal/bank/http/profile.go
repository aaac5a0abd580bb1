package http

import (
	"net/http"

	"github.com/cofferhq/coffer/internal/bank/service"
	"github.com/cofferhq/coffer/pkg/bankapi"
	"github.com/cofferhq/coffer/pkg/httpx"
)

// ProfileHandler serves GET /v1/user/profile for the authenticated user.
type ProfileHandler struct {
	Accounts *service.AccountService
}

func (h *ProfileHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := httpx.UserIDFromContext(ctx)
	if !ok {
		bankapi.ErrInvalidToken.WriteError(w)
		return
	}

	user, accounts, err := h.Accounts.Profile(ctx, userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	summaries := make([]bankapi.AccountSummary, 0, len(accounts))
	for _, a := range accounts {
		summaries = append(summaries, bankapi.AccountSummary{
			ID:       a.ID,
			Balance:  a.Balance,
			Currency: a.Currency,
		})
	}

	httpx.WriteJSON(w, http.StatusOK, bankapi.ProfileResponse{
		ID:       user.ID,
		Username: user.Username,
		Name:     user.Name,
		Status:   user.Status,
		Accounts: summaries,
	})
}
