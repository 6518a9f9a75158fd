// Package router sets up all HTTP routes and middleware chains for the
// inkwell server. Read endpoints are open; mutating endpoints sit behind
// the rate limiter.
package router

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"

	"inkwell/internal/handlers"
	"inkwell/internal/middleware"
	"inkwell/web"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(posts *handlers.Posts, categories *handlers.Categories, limiter *middleware.RateLimiter) chi.Router {
	r := chi.NewRouter()

	// Global middleware; applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)

	// Health check.
	r.Get("/health", healthHandler)

	r.Route("/api", func(r chi.Router) {
		r.Route("/categories", func(r chi.Router) {
			r.Get("/", categories.List)

			r.Group(func(r chi.Router) {
				r.Use(limiter.Middleware)
				r.Post("/", categories.Create)
				r.Delete("/{id}", categories.Delete)
			})
		})

		r.Route("/posts", func(r chi.Router) {
			r.Get("/", posts.List)
			r.Get("/{slug}", posts.Get)

			r.Group(func(r chi.Router) {
				r.Use(limiter.Middleware)
				r.Post("/", posts.Create)
				r.Put("/{id}", posts.Update)
				r.Delete("/{id}", posts.Delete)
			})
		})
	})

	// Static dashboard; a single embedded page that drives the API.
	r.Get("/", dashboardHandler)

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

// dashboardHandler serves the embedded admin dashboard page.
func dashboardHandler(w http.ResponseWriter, r *http.Request) {
	sub, err := fs.Sub(web.StaticFS, "static")
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	http.ServeFileFS(w, r, sub, "index.html")
}
