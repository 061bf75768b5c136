// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for
// Foliocraft. Routes are grouped into the authoring API, the media modal
// API, the public portfolio pages and the development login.
package router

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"foliocraft/internal/handlers"
	"foliocraft/internal/middleware"
)

// Check reports whether a backing service is reachable.
type Check func(ctx context.Context) error

// Deps are the handler groups and cross-cutting pieces the router wires.
type Deps struct {
	Sessions    middleware.SessionReader
	Authoring   *handlers.Authoring
	Media       *handlers.Media
	Public      *handlers.Public
	Dev         *handlers.Dev // nil outside development
	UploadLimit *middleware.RateLimiter
	CORSOrigins []string
	Checks      map[string]Check
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(d Deps) chi.Router {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LoadSession(d.Sessions))

	r.Get("/health", healthHandler(d.Checks))

	r.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   d.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
		r.Use(middleware.NoStore)

		r.Get("/templates", d.Authoring.Templates)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)

			r.Get("/projects", d.Authoring.Projects)

			r.Route("/drafts", func(r chi.Router) {
				r.Post("/", d.Authoring.OpenDraft)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", d.Authoring.GetDraft)
					r.Delete("/", d.Authoring.CloseDraft)
					r.Patch("/fields", d.Authoring.UpdateFields)
					r.Post("/skills", d.Authoring.AddSkill)
					r.Delete("/skills/{skill}", d.Authoring.RemoveSkill)
					r.Post("/projects/{projectID}/toggle", d.Authoring.ToggleProject)
					r.Post("/pages/next", d.Authoring.NextPage)
					r.Post("/pages/prev", d.Authoring.PrevPage)
					r.Put("/pages/{n}", d.Authoring.SetPage)
					r.Post("/preview/{template}", d.Authoring.OpenPreview)
					r.Delete("/preview", d.Authoring.ClosePreview)
					r.Post("/submit", d.Authoring.Submit)
				})
			})

			r.Route("/media", func(r chi.Router) {
				r.Post("/{target}", d.Media.Open)
				r.Route("/modals/{id}", func(r chi.Router) {
					r.Get("/", d.Media.Get)
					r.Post("/cancel", d.Media.Cancel)
					r.Group(func(r chi.Router) {
						if d.UploadLimit != nil {
							r.Use(d.UploadLimit.Middleware)
						}
						r.Put("/file", d.Media.SelectFile)
						r.Post("/confirm", d.Media.Confirm)
					})
				})
			})
		})
	})

	r.Get("/p/{ref}", d.Public.Portfolio)

	if d.Dev != nil {
		r.Post("/dev/login", d.Dev.Login)
		r.Post("/dev/logout", d.Dev.Logout)
	}

	return r
}

// healthHandler answers 200 {"status":"ok"} when every check passes and
// 503 listing the failing services otherwise.
func healthHandler(checks map[string]Check) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		var failed []string
		for name, check := range checks {
			if err := check(ctx); err != nil {
				failed = append(failed, name)
			}
		}
		sort.Strings(failed)

		body := map[string]any{"status": "ok"}
		status := http.StatusOK
		if len(failed) > 0 {
			body = map[string]any{"status": "degraded", "failed": failed}
			status = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(body)
	}
}
