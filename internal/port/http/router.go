package http

import (
	"net/http"

	"github.com/Zethembe177/Job-Portal/internal/auth"
	"github.com/Zethembe177/Job-Portal/internal/domain"
	"github.com/Zethembe177/Job-Portal/internal/platform/logger"
	"github.com/Zethembe177/Job-Portal/internal/platform/metrics"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// RouterDeps bundles everything the router mounts.
type RouterDeps struct {
	Auth     *AuthHandler
	Listings *ListingHandler
	Tokens   *auth.TokenManager
	Users    domain.UserRepository
	Metrics  *metrics.MetricsManager
	Logger   *logger.Logger
}

// NewRouter wires the public API. Listing writes sit behind authentication
// plus the employer role; reads are open.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(Observe(deps.Metrics, deps.Logger))

	authenticate := Authenticate(deps.Tokens, deps.Users, deps.Logger)
	employerOnly := RequireRole(domain.RoleEmployer, deps.Logger)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", deps.Auth.Register)
			r.Post("/login", deps.Auth.Login)
		})

		r.Route("/listings", func(r chi.Router) {
			r.Get("/", deps.Listings.Search)
			r.Get("/nearby", deps.Listings.Nearby)
			r.Get("/view/{id}", deps.Listings.GetByID)

			r.Group(func(r chi.Router) {
				r.Use(authenticate, employerOnly)
				r.Get("/my", deps.Listings.MyListings)
				r.Post("/", deps.Listings.Create)
				r.Put("/{id}", deps.Listings.Update)
				r.Delete("/{id}", deps.Listings.Delete)
			})
		})

		r.Get("/analytics/summary", deps.Listings.Analytics)
	})

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return r
}
