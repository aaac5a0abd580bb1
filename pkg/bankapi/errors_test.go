package bankapi_test

import (
	"net/http"
	"testing"

	"github.com/cofferhq/coffer/pkg/bankapi"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestExceededMaximumAmountUsesConfiguredCeiling(t *testing.T) {
	t.Parallel()

	e := bankapi.ErrExceededMaximumAmount(decimal.RequireFromString("250"))
	require.Equal(t, http.StatusBadRequest, e.StatusCode)
	require.Equal(t, "The maximum amount you can add is 250.", e.Message)

	e = bankapi.ErrExceededMaximumAmount(decimal.RequireFromString("500"))
	require.Equal(t, "The maximum amount you can add is 500.", e.Message)
}
