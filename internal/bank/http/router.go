package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/cofferhq/coffer/internal/bank/service"
	"github.com/cofferhq/coffer/internal/bank/store"
	"github.com/cofferhq/coffer/pkg/bankapi"
	"github.com/cofferhq/coffer/pkg/httpx"
	"github.com/cofferhq/coffer/pkg/jwtx"
	"github.com/cofferhq/coffer/pkg/slogx"
	"github.com/shopspring/decimal"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store    store.Store
	Sessions *service.SessionService
	Accounts *service.AccountService

	// MaxTopUp is the per-operation top-up ceiling applied by the balance
	// handler.
	MaxTopUp decimal.Decimal
}

func NewRouter(
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerUser()
	r.registerAccount()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	// POST /v1/auth/login - strict rate limit (authentication attempts)
	loginHandler := &LoginHandler{Sessions: r.Sessions}
	r.Mux.Handle("POST /v1/auth/login",
		httpx.Chain(loginHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /v1/auth/refresh - strict rate limit (credential minting)
	refreshHandler := &RefreshHandler{Sessions: r.Sessions}
	r.Mux.Handle("POST /v1/auth/refresh",
		httpx.Chain(refreshHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /v1/auth/logout - moderate rate limit
	logoutHandler := &LogoutHandler{Sessions: r.Sessions}
	r.Mux.Handle("POST /v1/auth/logout",
		httpx.Chain(logoutHandler,
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	// POST /v1/auth/register - strict rate limit (public signup endpoint)
	registerHandler := &RegisterHandler{Accounts: r.Accounts}
	r.Mux.Handle("POST /v1/auth/register",
		httpx.Chain(registerHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerUser() {
	profileHandler := &ProfileHandler{Accounts: r.Accounts}

	// Authenticated endpoint - lenient rate limit by user
	r.Mux.Handle("GET /v1/user/profile",
		httpx.Chain(profileHandler,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerAccount() {
	balanceHandler := &BalanceHandler{Accounts: r.Accounts, MaxTopUp: r.MaxTopUp}

	r.Mux.Handle("POST /v1/account/balance",
		httpx.Chain(http.HandlerFunc(balanceHandler.HandleAdd),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)

	r.Mux.Handle("PUT /v1/account/balance",
		httpx.Chain(http.HandlerFunc(balanceHandler.HandleDebit),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)

	recordsHandler := &RecordsHandler{Accounts: r.Accounts}
	r.Mux.Handle("GET /v1/account/{accountID}/records",
		httpx.Chain(recordsHandler,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	// Everything unmatched gets the JSON not-found shape instead of the
	// stdlib text response.
	r.Mux.Handle("/", http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		bankapi.ErrEndpointMissing.WriteError(w)
	}))
}
