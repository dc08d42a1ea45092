package httpapi

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"vigil.org/internal/account"
	"vigil.org/internal/authz"
	"vigil.org/internal/obs"
)

// ReadyProbe reports process readiness, pinging the SQL store when one is
// configured.
type ReadyProbe struct {
	DB *sql.DB
}

func (rp ReadyProbe) Check(ctx context.Context) error {
	if rp.DB == nil {
		return nil
	}
	return rp.DB.PingContext(ctx)
}

// SignupGuard is the optional static token pair gating account creation.
// The guard is disabled when either value is empty.
type SignupGuard struct {
	AccessToken string
	SecretToken string
}

func (g SignupGuard) enabled() bool {
	return g.AccessToken != "" && g.SecretToken != ""
}

// API is the HTTP layer over the account domain.
type API struct {
	mux         *http.ServeMux
	readyProbe  ReadyProbe
	version     string
	accounts    *account.Service
	gate        *authz.Gate
	signupGuard SignupGuard
}

func New(rp ReadyProbe, version string, accounts *account.Service, gate *authz.Gate, guard SignupGuard) *API {
	a := &API{
		mux:         http.NewServeMux(),
		readyProbe:  rp,
		version:     version,
		accounts:    accounts,
		gate:        gate,
		signupGuard: guard,
	}

	a.mux.HandleFunc("/healthz", a.Healthz)
	a.mux.HandleFunc("/readyz", a.Ready)
	a.mux.HandleFunc("/v1/info", a.Info)
	a.mux.Handle("/metrics", obs.Handler())

	a.mux.HandleFunc("/v1/auth/signup", a.handleSignup)
	a.mux.HandleFunc("/v1/auth/login", a.handleLogin)
	a.mux.Handle("/v1/auth/logout", a.withIdentity(http.HandlerFunc(a.handleLogout)))
	a.mux.HandleFunc("/v1/auth/refresh", a.handleRefresh)

	admin := func(h http.HandlerFunc) http.Handler {
		return a.withIdentity(RequireRole(account.RoleAdmin)(h))
	}
	a.mux.Handle("/v1/admin/users/block", admin(a.handleBlockUser))
	a.mux.Handle("/v1/admin/users/unblock", admin(a.handleUnblockUser))
	a.mux.Handle("/v1/admin/users/remove", admin(a.handleRemoveUser))

	a.mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	return a
}

// Handler returns the fully wrapped http.Handler for the server.
func (a *API) Handler() http.Handler {
	h := http.Handler(a.mux)
	h = LoggingJSON(h)
	h = MaxBodyBytes(h, 1<<20)
	h = CORS(h)
	h = SecurityHeaders(h)
	h = RequestID(h)
	return obs.Instrument(h)
}

// --- Service handlers ---

func (a *API) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "vigil-api",
		"version": a.version,
	})
}

func (a *API) Ready(w http.ResponseWriter, r *http.Request) {
	if err := a.readyProbe.Check(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "not_ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ready",
	})
}

func (a *API) Info(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":    "vigil-api",
		"time":    time.Now().UTC().Format(time.RFC3339),
		"version": a.version,
	})
}
