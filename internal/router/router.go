// Package router sets up all HTTP routes and middleware chains for the
// course review API. It organizes routes into public, authenticated and
// admin groups with appropriate middleware stacks.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"coursereview/internal/handlers"
	"coursereview/internal/middleware"
	"coursereview/internal/models"
	"coursereview/internal/respond"
)

// Deps carries everything the router wires together.
type Deps struct {
	Responder   *respond.Responder
	Verifier    middleware.TokenVerifier
	Users       middleware.UserLookup
	AuthLimiter *middleware.RateLimiter
	CORSOrigins []string

	Auth    *handlers.Auth
	Catalog *handlers.Catalog
	Public  *handlers.Public
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(d Deps) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer(d.Responder))
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.CORS(d.CORSOrigins))

	r.NotFound(d.Public.NotFound)
	r.MethodNotAllowed(methodNotAllowed)

	gate := func(roles ...models.Role) func(http.Handler) http.Handler {
		return middleware.Authorize(d.Responder, d.Verifier, d.Users, roles...)
	}
	admin := gate(models.RoleAdmin)
	user := gate(models.RoleUser)
	member := gate(models.RoleUser, models.RoleAdmin)

	r.Get("/", d.Public.Welcome)
	r.Get("/health", d.Public.Health)

	r.Route("/auth", func(r chi.Router) {
		// Credential endpoints are throttled per client IP.
		r.Group(func(r chi.Router) {
			r.Use(d.AuthLimiter.Middleware)
			r.Post("/register", d.Auth.Register)
			r.Post("/login", d.Auth.Login)
		})
		r.With(member).Post("/change-password", d.Auth.ChangePassword)
	})

	r.Route("/api", func(r chi.Router) {
		r.With(admin).Post("/users/create-user", d.Auth.CreateUser)

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", d.Catalog.ListCategories)
			r.With(admin).Post("/", d.Catalog.CreateCategory)
		})

		r.Route("/courses", func(r chi.Router) {
			r.Get("/", d.Catalog.ListCourses)
			r.With(admin).Post("/", d.Catalog.CreateCourse)
			r.Get("/best", d.Catalog.BestCourse)
			r.With(admin).Put("/{courseId}", d.Catalog.UpdateCourse)
			r.Get("/{courseId}/reviews", d.Catalog.CourseReviews)
		})

		r.With(user).Post("/reviews", d.Catalog.CreateReview)
	})

	return r
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	respond.Fail(w, http.StatusMethodNotAllowed, "Method Not Allowed")
}
