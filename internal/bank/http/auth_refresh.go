package http

import (
	"net/http"

	"github.com/cofferhq/coffer/internal/bank/service"
	"github.com/cofferhq/coffer/pkg/bankapi"
	"github.com/cofferhq/coffer/pkg/httpx"
)

// RefreshHandler serves POST /v1/auth/refresh. The presented refresh token
// is spent before the new pair is minted, so every token redeems at most
// once no matter how many requests race on it.
type RefreshHandler struct {
	Sessions *service.SessionService
}

func (h *RefreshHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req bankapi.RefreshRequest
	if !decodeBody(w, r, &req) {
		return
	}

	pair, err := h.Sessions.Refresh(ctx, req.RefreshToken)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, bankapi.TokenResponse{
		Token:        pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		Expiration:   pair.ExpiresAt,
	})
}
