package http

import (
	"errors"
	"net/http"

	"github.com/cofferhq/coffer/internal/bank/service"
	"github.com/cofferhq/coffer/pkg/bankapi"
	"github.com/cofferhq/coffer/pkg/httpx"
)

// LogoutHandler serves POST /v1/auth/logout. Revoking an unknown or already
// spent token is reported as an invalid token rather than silently accepted.
type LogoutHandler struct {
	Sessions *service.SessionService
}

func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req bankapi.LogoutRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.Sessions.Logout(ctx, req.RefreshToken); err != nil {
		if errors.Is(err, service.ErrInvalidRefresh) {
			bankapi.ErrInvalidToken.WriteError(w)
			return
		}
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, bankapi.MessageResponse{
		Message: "Logout successful.",
	})
}
