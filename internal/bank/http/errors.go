package http

import (
	"errors"
	"net/http"

	"github.com/cofferhq/coffer/internal/bank/service"
	"github.com/cofferhq/coffer/pkg/bankapi"
	"github.com/cofferhq/coffer/pkg/httpx"
	"github.com/cofferhq/coffer/pkg/slogx"
)

// decodeBody reads and validates a JSON body, writing the matching API error
// itself. Returns false when the handler should stop.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	err := httpx.DecodeJSON(r, dst)
	if err == nil {
		return true
	}

	switch {
	case errors.Is(err, httpx.ErrEmptyBody):
		bankapi.ErrMissingBody.WriteError(w)
	case errors.Is(err, httpx.ErrValidation):
		bankapi.ErrInvalidRequestBody.WriteError(w)
	default:
		bankapi.ErrInvalidJSONFormat.WriteError(w)
	}
	return false
}

// writeServiceError maps service sentinels onto the API error taxonomy.
// Anything unmapped is an internal fault: logged server-side, generic 500 to
// the client.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		bankapi.ErrInvalidCredentials.WriteError(w)
	case errors.Is(err, service.ErrUserInactive):
		bankapi.ErrUserInactive.WriteError(w)
	case errors.Is(err, service.ErrInvalidRefresh):
		bankapi.ErrInvalidRefreshToken.WriteError(w)
	case errors.Is(err, service.ErrUsernameTaken):
		bankapi.ErrUsernameAlreadyExists.WriteError(w)
	case errors.Is(err, service.ErrUserNotFound):
		bankapi.ErrUserNotFound.WriteError(w)
	case errors.Is(err, service.ErrAccountNotFound):
		bankapi.ErrAccountNotFound.WriteError(w)
	case errors.Is(err, service.ErrAccountNotOwned):
		bankapi.ErrAccountNotBelongToUser.WriteError(w)
	case errors.Is(err, service.ErrInsufficientFunds):
		bankapi.ErrInsufficientBalance.WriteError(w)
	case errors.Is(err, service.ErrInvalidAmount):
		bankapi.ErrInvalidAmount.WriteError(w)
	default:
		slogx.FromContext(r.Context()).Error("unhandled service error", "error", err)
		bankapi.ErrInternalServer.WriteError(w)
	}
}
