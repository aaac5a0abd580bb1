package cryptox_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cofferhq/coffer/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	// Pepper file lives in a scratch dir so tests never touch a real one.
	dir, err := os.MkdirTemp("", "cryptox-test")
	if err != nil {
		panic(err)
	}
	cryptox.SetPepperPath(filepath.Join(dir, "pepper"))

	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := cryptox.HashPassword("hunter2")
	require.NoError(t, err)
	require.Contains(t, hash, "$argon2id$v=19$")

	require.NoError(t, cryptox.VerifyPassword("hunter2", hash))
	require.ErrorIs(t, cryptox.VerifyPassword("hunter3", hash), cryptox.ErrPasswordMismatch)
}

func TestHashPasswordSaltsPerCall(t *testing.T) {
	a, err := cryptox.HashPassword("same-password")
	require.NoError(t, err)
	b, err := cryptox.HashPassword("same-password")
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	cases := []string{
		"",
		"plainly-not-a-hash",
		"$argon2id$v=19$m=junk$salt$hash",
		"$bcrypt$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=19456,t=2,p=1$%%%$aGFzaA",
	}
	for _, encoded := range cases {
		require.ErrorIs(t, cryptox.VerifyPassword("pw", encoded), cryptox.ErrPasswordMismatch)
	}
}
