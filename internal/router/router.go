// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for the
// Inkwell API. It organizes routes into public and authenticated groups
// with appropriate middleware stacks.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"inkwell/internal/auth"
	"inkwell/internal/handlers"
	"inkwell/internal/middleware"
)

// Handlers bundles the handler groups the router mounts.
type Handlers struct {
	Auth         *handlers.Auth
	Posts        *handlers.Posts
	Users        *handlers.Users
	Categories   *handlers.Categories
	Applications *handlers.Applications
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up. rateLimit caps requests per client IP per
// minute; zero disables limiting.
func New(tokens *auth.Tokens, h Handlers, rateLimit int) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	if rateLimit > 0 {
		rl := middleware.NewRateLimiter(rateLimit, time.Minute)
		r.Use(rl.Middleware)
	}
	r.Use(middleware.Authenticate(tokens))

	// Health check — no auth.
	r.Get("/health", healthHandler)

	r.Route("/api", func(r chi.Router) {
		// Auth — registration and login are anonymous; 2FA enrollment
		// requires a session.
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.Auth.Register)
			r.Post("/login", h.Auth.Login)
			r.Post("/logout", h.Auth.Logout)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)
				r.Post("/2fa/setup", h.Auth.TOTPSetup)
				r.Get("/2fa/qr", h.Auth.TOTPQR)
				r.Post("/2fa/enable", h.Auth.TOTPEnable)
			})
		})

		// Public read surface.
		r.Get("/category/getAll", h.Categories.GetAll)

		r.Route("/post", func(r chi.Router) {
			// Published posts are public.
			r.Get("/slug/{slug}", h.Posts.GetBySlug)
			r.Post("/slug/{slug}/like", h.Posts.Like)

			// Authoring requires a session.
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)
				r.Post("/create", h.Posts.Create)
				r.Get("/getAll", h.Posts.GetAll)
				r.Get("/id/{postId}", h.Posts.Get)
				r.Put("/author/{postId}", h.Posts.Update)
				r.Post("/{postId}/publish", h.Posts.Publish)
				r.Post("/{postId}/submit", h.Posts.Submit)
				r.Post("/{postId}/archive", h.Posts.Archive)
				r.Delete("/{postId}", h.Posts.Delete)
				r.Get("/{authorId}", h.Posts.ListByAuthor)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)

			r.Route("/user", func(r chi.Router) {
				r.Get("/{userId}", h.Users.Get)
				r.Put("/{userId}", h.Users.Update)
			})

			r.Route("/requestblogger", func(r chi.Router) {
				r.Post("/apply", h.Applications.Apply)
				r.Get("/mine", h.Applications.Mine)
				r.Get("/pending", h.Applications.ListPending)
				r.Post("/{applicationId}/review", h.Applications.Review)
			})
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
