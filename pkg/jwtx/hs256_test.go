package jwtx_test

import (
	"testing"
	"time"

	"github.com/cofferhq/coffer/pkg/jwtx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const testIssuer = "coffer"

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func newHS256(t *testing.T) *jwtx.HS256 {
	t.Helper()
	h, err := jwtx.NewHS256(testSecret, testIssuer)
	require.NoError(t, err)
	return h
}

func TestNewHS256RejectsShortSecret(t *testing.T) {
	t.Parallel()

	_, err := jwtx.NewHS256([]byte("too-short"), testIssuer)
	require.Error(t, err)
}

func TestSignAndVerify(t *testing.T) {
	t.Parallel()
	h := newHS256(t)

	claims := jwtx.NewAccessClaims(
		"01JB000000000000000000USER",
		"alice",
		"Active",
		testIssuer,
		jwtx.DefaultAccessTokenTTL,
		time.Now(),
	)

	token, err := h.Sign(claims)
	require.NoError(t, err)

	got, err := h.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "01JB000000000000000000USER", got.UserID)
	require.Equal(t, "alice", got.Subject)
	require.Equal(t, "Active", got.Status)
	require.NotEmpty(t, got.ID) // jti
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	t.Parallel()
	h := newHS256(t)

	other, err := jwtx.NewHS256([]byte("ffffffffffffffffffffffffffffffff"), testIssuer)
	require.NoError(t, err)

	claims := jwtx.NewAccessClaims("u1", "alice", "Active", testIssuer, time.Minute, time.Now())
	token, err := other.Sign(claims)
	require.NoError(t, err)

	_, err = h.Verify(token)
	require.ErrorIs(t, err, jwtx.ErrInvalidSig)
}

func TestVerifyRejectsUnsignedToken(t *testing.T) {
	t.Parallel()
	h := newHS256(t)

	claims := jwtx.NewAccessClaims("u1", "alice", "Active", testIssuer, time.Minute, time.Now())
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = h.Verify(token)
	require.Error(t, err)

	// Not even the audit path accepts a token with the wrong algorithm.
	_, err = h.VerifyExpired(token)
	require.Error(t, err)
}

func TestVerifyRejectsIssuerMismatch(t *testing.T) {
	t.Parallel()
	h := newHS256(t)

	claims := jwtx.NewAccessClaims("u1", "alice", "Active", "someone-else", time.Minute, time.Now())
	token, err := h.Sign(claims)
	require.NoError(t, err)

	_, err = h.Verify(token)
	require.ErrorIs(t, err, jwtx.ErrIssuer)
}

func TestVerifyExpiredToken(t *testing.T) {
	t.Parallel()
	h := newHS256(t)

	issued := time.Now().Add(-2 * time.Hour)
	claims := jwtx.NewAccessClaims("u1", "alice", "Active", testIssuer, time.Minute, issued)
	token, err := h.Sign(claims)
	require.NoError(t, err)

	_, err = h.Verify(token)
	require.ErrorIs(t, err, jwtx.ErrExpired)

	// The explicit allow-expired path still verifies the signature.
	got, err := h.VerifyExpired(token)
	require.NoError(t, err)
	require.Equal(t, "u1", got.UserID)
}

func TestVerifyMalformedToken(t *testing.T) {
	t.Parallel()
	h := newHS256(t)

	for _, token := range []string{"", "garbage", "a.b", "a.b.c.d"} {
		_, err := h.Verify(token)
		require.ErrorIs(t, err, jwtx.ErrMalformed, "token %q", token)
	}
}
