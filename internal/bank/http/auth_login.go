package http

import (
	"net/http"

	"github.com/cofferhq/coffer/internal/bank/service"
	"github.com/cofferhq/coffer/pkg/bankapi"
	"github.com/cofferhq/coffer/pkg/httpx"
)

// LoginHandler serves POST /v1/auth/login. A valid username/password pair
// yields an access token plus a fresh single-use refresh token.
type LoginHandler struct {
	Sessions *service.SessionService
}

func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req bankapi.LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	pair, err := h.Sessions.Login(ctx, req.Username, req.Password)
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
