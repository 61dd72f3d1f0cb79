package auth

import (
	"log/slog"
	"net/http"

	"github.com/sentra-dev/gate/pkg/credential"
	"github.com/sentra-dev/gate/pkg/observability"
)

// Middleware wraps a handler with a verification strategy. Granted
// requests proceed with the principal injected into the context; denied
// requests get a 401 (or a 500 for infrastructure failures, which must
// never masquerade as "not found"); redirect outcomes send the caller to
// loginURL instead of hard-rejecting.
func Middleware(strategy Strategy, loginURL string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			outcome := strategy.Verify(r.Context(), r)

			switch outcome.Decision {
			case Redirect:
				observability.VerificationsTotal.WithLabelValues(strategy.Name(), "redirect").Inc()
				http.Redirect(w, r, loginURL, http.StatusFound)
				return

			case Denied:
				if outcome.Err != nil {
					observability.VerificationsTotal.WithLabelValues(strategy.Name(), "error").Inc()
					slog.Error("verification failed",
						"strategy", strategy.Name(),
						"path", r.URL.Path,
						"error", outcome.Err,
					)
					http.Error(w, `{"error":{"type":"server_error","message":"verification unavailable"}}`, http.StatusInternalServerError)
					return
				}

				observability.VerificationsTotal.WithLabelValues(strategy.Name(), "denied").Inc()
				if outcome.Reason != credential.ReasonNone {
					observability.RejectionsTotal.WithLabelValues(strategy.Name(), outcome.Reason.String()).Inc()
				}
				slog.Warn("authentication rejected",
					"strategy", strategy.Name(),
					"path", r.URL.Path,
					"remote_addr", r.RemoteAddr,
					"reason", outcome.Reason.String(),
				)
				http.Error(w, `{"error":{"type":"unauthorized","message":"authentication required"}}`, http.StatusUnauthorized)
				return
			}

			if outcome.Principal == nil {
				slog.Error("strategy granted access without a principal", "strategy", strategy.Name())
				http.Error(w, `{"error":{"type":"server_error","message":"internal authentication error"}}`, http.StatusInternalServerError)
				return
			}

			observability.VerificationsTotal.WithLabelValues(strategy.Name(), "granted").Inc()

			ctx := SetPrincipal(r.Context(), outcome.Principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
