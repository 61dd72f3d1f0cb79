package transport

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sentra-dev/gate/pkg/auth"
	"github.com/sentra-dev/gate/pkg/observability"
)

// RouterConfig holds the HTTP-level settings the router needs.
type RouterConfig struct {
	// LoginURL is the redirect target for unauthenticated session-path
	// callers.
	LoginURL string

	// MetricsEnabled mounts the Prometheus endpoint at MetricsPath.
	MetricsEnabled bool
	MetricsPath    string

	// Logger receives per-request log entries. Defaults to slog.Default().
	Logger *slog.Logger
}

// NewRouter assembles the HTTP surface: public login/signup endpoints,
// dispatcher-protected routes, and dedicated basic-auth routes. The
// dispatch strategy classifies requests between the signature and
// session paths; basicStrategy is registered only on /basic/ routes.
func NewRouter(h *Handlers, dispatch, basicStrategy auth.Strategy, cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	// Public endpoints.
	mux.HandleFunc("POST /login", h.Login)
	mux.HandleFunc("POST /logout", h.Logout)
	mux.HandleFunc("POST /signup", h.Signup)
	mux.HandleFunc("GET /login", func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusOK, "login_required", "submit credentials to POST /login")
	})
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok\n"))
	})

	// Routes behind the dispatcher: Authorization header selects the
	// signature path, everything else goes through the session path.
	protect := auth.Middleware(dispatch, cfg.LoginURL)
	mux.Handle("GET /whoami", protect(http.HandlerFunc(h.WhoAmI)))

	// Stateless basic-auth variants for machine clients.
	protectBasic := auth.Middleware(basicStrategy, cfg.LoginURL)
	mux.Handle("GET /basic/whoami", protectBasic(http.HandlerFunc(h.WhoAmI)))

	if cfg.MetricsEnabled {
		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		mux.Handle("GET "+path, promhttp.Handler())
	}

	var handler http.Handler = mux
	handler = observability.MetricsMiddleware(handler)
	handler = Logging(cfg.Logger)(handler)
	handler = Recovery(handler)
	handler = RequestID(handler)

	return handler
}
