package bankapi

import (
	"fmt"
	"net/http"

	"github.com/cofferhq/coffer/pkg/httpx"
)

// APIError is the single error shape the HTTP surface speaks: a status code
// plus a stable, human-readable message. Expected business failures each get
// a predefined value below; internal faults always collapse into
// ErrInternalServer so no store or invariant detail leaks to callers.
type APIError struct {
	// StatusCode is the HTTP status code for this error
	StatusCode int `json:"-"`

	// Message is the stable client-facing description
	Message string `json:"error"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%d: %s", e.StatusCode, e.Message)
}

// WriteError writes this APIError to an HTTP response writer.
func (e *APIError) WriteError(w http.ResponseWriter) {
	httpx.WriteJSON(w, e.StatusCode, map[string]string{"error": e.Message})
}

var (
	// Validation failures (malformed/missing request fields).
	ErrMissingBody        = &APIError{http.StatusBadRequest, "The request body cannot be null or empty."}
	ErrInvalidRequestBody = &APIError{http.StatusBadRequest, "The request body is invalid."}
	ErrInvalidJSONFormat  = &APIError{http.StatusBadRequest, "The JSON format in the request body is invalid."}

	// Authentication failures. Unknown username and wrong password collapse
	// into the same response to avoid username enumeration.
	ErrInvalidCredentials  = &APIError{http.StatusUnauthorized, "The provided username or password is invalid."}
	ErrInvalidToken        = &APIError{http.StatusUnauthorized, "Invalid token."}
	ErrInvalidRefreshToken = &APIError{http.StatusUnauthorized, "Invalid refresh token."}

	// Authorization failure: the referenced account exists but is not owned
	// by the authenticated caller.
	ErrAccountNotBelongToUser = &APIError{http.StatusForbidden, "The specified account does not belong to the authenticated user."}

	// Conflicts.
	ErrUsernameAlreadyExists = &APIError{http.StatusConflict, "This username is already registered."}
	ErrUserInactive          = &APIError{http.StatusConflict, "The user account is inactive. Please contact your administrator for assistance."}

	// Business-rule violations.
	ErrPasswordMatch       = &APIError{http.StatusBadRequest, "password and confirmPassword must match."}
	ErrInvalidAmount       = &APIError{http.StatusBadRequest, "The amount must be greater than zero."}
	ErrInsufficientBalance = &APIError{http.StatusBadRequest, "Insufficient balance to complete the transaction."}

	// Not found.
	ErrUserNotFound    = &APIError{http.StatusNotFound, "User not found."}
	ErrAccountNotFound = &APIError{http.StatusNotFound, "The specified account was not found."}
	ErrEndpointMissing = &APIError{http.StatusNotFound, "The requested endpoint was not found."}

	// Internal.
	ErrInternalServer = &APIError{http.StatusInternalServerError, "An internal server error occurred."}
)

// ErrExceededMaximumAmount reports the configured top-up ceiling, so the
// message always matches whatever BANK_MAX_TOPUP is set to.
func ErrExceededMaximumAmount(max fmt.Stringer) *APIError {
	return &APIError{http.StatusBadRequest, fmt.Sprintf("The maximum amount you can add is %s.", max)}
}
