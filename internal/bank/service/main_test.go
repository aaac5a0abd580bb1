package service_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cofferhq/coffer/internal/bank/service"
	"github.com/cofferhq/coffer/internal/bank/store"
	"github.com/cofferhq/coffer/internal/bank/store/drivers/sqlite"
	"github.com/cofferhq/coffer/pkg/cryptox"
	"github.com/cofferhq/coffer/pkg/jwtx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const testIssuer = "coffer-test"

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "service-test")
	if err != nil {
		panic(err)
	}
	cryptox.SetPepperPath(filepath.Join(dir, "pepper"))

	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_txlock=immediate",
		filepath.Join(t.TempDir(), "bank.db"))

	s, err := sqlite.NewStore(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func newSigner(t *testing.T) *jwtx.HS256 {
	t.Helper()

	signer, err := jwtx.NewHS256(testSecret, testIssuer)
	require.NoError(t, err)
	return signer
}

func newServices(t *testing.T) (*service.SessionService, *service.AccountService, store.Store) {
	t.Helper()

	st := newTestStore(t)
	sessions := &service.SessionService{
		Signer:     newSigner(t),
		Store:      st,
		Issuer:     testIssuer,
		AccessTTL:  jwtx.DefaultAccessTokenTTL,
		RefreshTTL: jwtx.DefaultRefreshTokenTTL,
	}
	accounts := &service.AccountService{
		Store:          st,
		OpeningBalance: decimal.Zero,
	}
	return sessions, accounts, st
}

func accessTTLWithin(t *testing.T, expires time.Time, ttl time.Duration) {
	t.Helper()
	require.WithinDuration(t, time.Now().Add(ttl), expires, 10*time.Second)
}
