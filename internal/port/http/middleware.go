package http

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Zethembe177/Job-Portal/internal/auth"
	"github.com/Zethembe177/Job-Portal/internal/domain"
	"github.com/Zethembe177/Job-Portal/internal/platform/logger"
	"github.com/Zethembe177/Job-Portal/internal/platform/metrics"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

type contextKey string

const userContextKey contextKey = "currentUser"

// Authenticate verifies the bearer token and loads the account it names. The
// user is re-fetched on every request so a deleted account stops working
// immediately even with a live token.
func Authenticate(tokens *auth.TokenManager, users domain.UserRepository, log *logger.Logger) func(http.Handler) http.Handler {
	log = log.Named("AuthMiddleware")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				writeError(w, log, domain.ErrUnauthenticated)
				return
			}

			claims, err := tokens.Parse(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				writeError(w, log, err)
				return
			}

			user, err := users.FindByID(r.Context(), claims.UserID)
			if err != nil {
				log.Debug("Token names a missing user", zap.String("user_id", claims.UserID))
				writeError(w, log, domain.ErrUnauthenticated)
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole gates a route to a single role. Runs after Authenticate.
func RequireRole(role domain.Role, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok {
				writeError(w, log, domain.ErrUnauthenticated)
				return
			}
			if user.Role != role {
				writeError(w, log, domain.ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// UserFromContext returns the authenticated account placed by Authenticate.
func UserFromContext(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(userContextKey).(*domain.User)
	return user, ok
}

// Observe records latency and error counts per route.
func Observe(m *metrics.MetricsManager, log *logger.Logger) func(http.Handler) http.Handler {
	log = log.Named("HTTP")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			route := chi.RouteContext(r.Context()).RoutePattern()
			if route == "" {
				route = r.URL.Path
			}
			elapsed := time.Since(start)

			m.HTTPRequestLatency.WithLabelValues(route, r.Method).Observe(elapsed.Seconds())
			if ww.Status() >= 400 {
				m.HTTPErrorsTotal.WithLabelValues(route, strconv.Itoa(ww.Status())).Inc()
			}

			log.Debug("Request handled",
				zap.String("method", r.Method),
				zap.String("route", route),
				zap.Int("status", ww.Status()),
				zap.Duration("elapsed", elapsed),
			)
		})
	}
}
