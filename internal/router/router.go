// Package router sets up all HTTP routes and middleware chains for the
// inkwell API. Reads are public; writes sit behind session-based role
// guards.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"inkwell/internal/handlers"
	"inkwell/internal/middleware"
)

// Options carries the cross-cutting dependencies of the router.
type Options struct {
	Sessions middleware.SessionLoader

	// LoginLimiter guards POST /auth/login. Nil disables limiting.
	LoginLimiter func(http.Handler) http.Handler

	// CORSOrigins lists browser origins allowed to call the API with
	// credentials. Empty disables cross-origin access.
	CORSOrigins []string
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(opts Options, dashboard *handlers.Dashboard, content *handlers.Content, auth *handlers.Auth) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.Metrics)
	// rs/cors treats an empty origin list as "allow all", so skip it instead.
	if len(opts.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Options{
			AllowedOrigins:   opts.CORSOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
			AllowedHeaders:   []string{"Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}).Handler)
	}
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LoadSession(opts.Sessions))

	r.Get("/health", healthHandler)
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/dashboard/stats", dashboard.Stats)

	r.Route("/auth", func(r chi.Router) {
		login := http.Handler(http.HandlerFunc(auth.Login))
		if opts.LoginLimiter != nil {
			login = opts.LoginLimiter(login)
		}
		r.Method(http.MethodPost, "/login", login)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Post("/logout", auth.Logout)
			r.Get("/me", auth.Me)
		})
	})

	r.Route("/categories", func(r chi.Router) {
		r.Get("/", content.ListCategories)
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin)
			r.Post("/", content.CreateCategory)
			r.Put("/{id}", content.UpdateCategory)
			r.Delete("/{id}", content.DeleteCategory)
		})
	})

	r.Route("/tags", func(r chi.Router) {
		r.Get("/", content.ListTags)
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin)
			r.Post("/", content.CreateTag)
			r.Put("/{id}", content.UpdateTag)
			r.Delete("/{id}", content.DeleteTag)
		})
	})

	r.Route("/articles", func(r chi.Router) {
		r.Get("/", content.ListArticles)
		r.Get("/{slug}", content.ShowArticle)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireWriter)
			r.Post("/", content.CreateArticle)
			r.Put("/{id}", content.UpdateArticle)
			r.Delete("/{id}", content.DeleteArticle)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Post("/{id}/favorite", content.AddFavorite)
			r.Delete("/{id}/favorite", content.RemoveFavorite)
		})
	})

	r.With(middleware.RequireAuth).Get("/favorites", content.ListFavorites)

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
