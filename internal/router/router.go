// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for the
// OIKOS API. It organizes routes into public and admin groups with
// appropriate middleware stacks.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"oikos/internal/handlers"
	"oikos/internal/middleware"
	"oikos/internal/session"
)

// contactSubmitLimit caps anonymous contact submissions per IP as a
// first line of defense; the per-email limit is enforced in the handler.
const (
	contactSubmitLimit  = 10
	contactSubmitWindow = time.Hour
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(sessionStore *session.Store, admin *handlers.Admin, auth *handlers.Auth, public *handlers.Public) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.LoadSession(sessionStore))

	// Health check — no auth.
	r.Get("/health", healthHandler)

	r.Route("/api", func(r chi.Router) {
		// Public site API.
		r.Get("/projects", public.ProjectsList)
		r.Get("/projects/featured", public.FeaturedProjects)
		r.Get("/projects/{identifier}", public.ProjectShow)
		r.Get("/categories", public.CategoriesList)

		contactLimiter := middleware.NewRateLimiter(contactSubmitLimit, contactSubmitWindow)
		r.With(contactLimiter.Middleware).Post("/contact", public.ContactSubmit)

		// Authentication.
		r.Post("/auth/login", auth.Login)
		r.Post("/auth/logout", auth.Logout)

		// 2FA — requires auth but NOT completed 2FA.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Post("/auth/2fa/setup", auth.TwoFASetup)
			r.Post("/auth/2fa/verify", auth.TwoFAVerify)
		})

		// Authenticated + 2FA-verified admin area.
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Use(middleware.Require2FA)

			r.Get("/dashboard", admin.Dashboard)
			r.Get("/me", auth.Me)

			// Projects
			r.Route("/projects", func(r chi.Router) {
				r.Get("/", admin.ProjectsList)
				r.Post("/", admin.ProjectCreate)
				r.Get("/{id}", admin.ProjectShow)
				r.Put("/{id}", admin.ProjectUpdate)
				r.Delete("/{id}", admin.ProjectDelete)

				// Media collection, per project.
				r.Get("/{id}/media", admin.ProjectMediaList)
				r.Post("/{id}/media", admin.ProjectMediaUpload)
				r.Put("/{id}/media/reorder", admin.ProjectMediaReorder)
			})

			// Media rows
			r.Route("/media", func(r chi.Router) {
				r.Put("/{id}", admin.MediaUpdate)
				r.Post("/{id}/featured", admin.MediaSetFeatured)
				r.Delete("/{id}", admin.MediaDelete)
			})

			// Categories
			r.Route("/categories", func(r chi.Router) {
				r.Get("/", admin.CategoriesList)
				r.Post("/", admin.CategoryCreate)
				r.Get("/{id}", admin.CategoryShow)
				r.Put("/{id}", admin.CategoryUpdate)
				r.Delete("/{id}", admin.CategoryDelete)
			})

			// Contacts
			r.Route("/contacts", func(r chi.Router) {
				r.Get("/", admin.ContactsList)
				r.Get("/{id}", admin.ContactShow)
				r.Put("/{id}", admin.ContactUpdate)
				r.Post("/{id}/replied", admin.ContactMarkReplied)
				r.Delete("/{id}", admin.ContactDelete)
			})

			// User management — admin role only
			r.Route("/users", func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				r.Get("/", admin.UsersList)
				r.Post("/", admin.UserCreate)
				r.Post("/{id}/reset-2fa", admin.UserResetTwoFA)
				r.Delete("/{id}", admin.UserDelete)
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
