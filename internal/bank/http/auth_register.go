package http

import (
	"net/http"

	"github.com/cofferhq/coffer/internal/bank/service"
	"github.com/cofferhq/coffer/pkg/bankapi"
	"github.com/cofferhq/coffer/pkg/httpx"
)

// RegisterHandler serves POST /v1/auth/register. It creates the user and
// their first bank account in one transaction.
type RegisterHandler struct {
	Accounts *service.AccountService
}

func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req bankapi.RegisterRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if req.Password != req.ConfirmPassword {
		bankapi.ErrPasswordMatch.WriteError(w)
		return
	}

	if _, _, err := h.Accounts.Register(ctx, req.Username, req.Name, req.Password); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, bankapi.MessageResponse{
		Message: "The user was created successfully.",
	})
}
