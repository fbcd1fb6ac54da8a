// Package router assembles the HTTP routing table.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/projectfair/server/internal/api/http/handler"
	"github.com/projectfair/server/internal/api/http/middleware"
)

// Deps are the handlers and middleware the router wires together.
type Deps struct {
	Auth     *handler.Auth
	Profile  *handler.Profile
	Projects *handler.Projects
	Uploads  *handler.Uploads
	Health   *handler.Health

	Authenticate *middleware.Authenticate
	Logging      *middleware.Logging
	RateLimit    *middleware.RateLimiter

	Metrics http.Handler
}

// New builds the route table. Project listing is public; writes, profile
// and upload routes require a bearer token. Star toggling is optionally
// authenticated so anonymous callers reach the coordinator's refusal.
// Optional authentication runs before the rate limiter so authenticated
// requests are throttled per user, not per address.
func New(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(d.Logging.Handler)
	r.Use(d.Authenticate.Optional)
	r.Use(d.RateLimit.Handler)

	r.Get("/health", d.Health.Check)
	r.Method(http.MethodGet, "/metrics", d.Metrics)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/signup", d.Auth.SignUp)
		r.Post("/auth/login", d.Auth.LogIn)

		r.Get("/projects", d.Projects.List)
		r.Get("/projects/{projectID}", d.Projects.Get)
		r.Get("/users/{userID}/projects", d.Projects.ListByOwner)

		r.Post("/projects/{projectID}/star", d.Projects.ToggleStar)

		r.Group(func(r chi.Router) {
			r.Use(d.Authenticate.Require)

			r.Post("/auth/logout", d.Auth.LogOut)
			r.Get("/session", d.Auth.Session)

			r.Get("/profile", d.Profile.Get)
			r.Put("/profile", d.Profile.Update)

			r.Post("/projects", d.Projects.Create)
			r.Put("/projects/{projectID}", d.Projects.Update)
			r.Delete("/projects/{projectID}", d.Projects.Delete)

			r.Post("/uploads", d.Uploads.Create)
			r.Get("/uploads/{taskID}", d.Uploads.Get)
		})
	})

	return r
}
