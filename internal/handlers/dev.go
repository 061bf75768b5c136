// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"foliocraft/internal/models"
	"foliocraft/internal/session"
)

// SessionWriter creates and destroys sessions.
type SessionWriter interface {
	Create(ctx context.Context, w http.ResponseWriter, data *session.Data) (string, error)
	Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error
}

// EmailFinder loads users by email.
type EmailFinder interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

// Dev provides a login for the seeded development user. In production the
// session cookie is issued by the identity service and these routes are
// not mounted.
type Dev struct {
	sessions SessionWriter
	users    EmailFinder
	email    string
}

// NewDev creates the development login handlers for the user with email.
func NewDev(sessions SessionWriter, users EmailFinder, email string) *Dev {
	return &Dev{sessions: sessions, users: users, email: email}
}

// Login starts a session as the development user.
func (d *Dev) Login(w http.ResponseWriter, r *http.Request) {
	user, err := d.users.FindByEmail(r.Context(), d.email)
	if err != nil {
		slog.Error("find dev user failed", "error", err)
		writeError(w, "Failed to load development user.", http.StatusInternalServerError)
		return
	}
	if user == nil {
		writeError(w, "Development user not seeded.", http.StatusNotFound)
		return
	}

	_, err = d.sessions.Create(r.Context(), w, &session.Data{
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.FullName(),
		CreatedAt:   time.Now(),
	})
	if err != nil {
		slog.Error("create session failed", "error", err)
		writeError(w, "Failed to create session.", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": user})
}

// Logout ends the current session.
func (d *Dev) Logout(w http.ResponseWriter, r *http.Request) {
	if err := d.sessions.Destroy(r.Context(), w, r); err != nil {
		slog.Warn("destroy session failed", "error", err)
	}
	w.WriteHeader(http.StatusNoContent)
}
