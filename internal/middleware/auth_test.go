// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"foliocraft/internal/session"
)

func newTestSession() *session.Data {
	return &session.Data{
		UserID:      uuid.New(),
		Email:       "test@foliocraft.local",
		DisplayName: "Test User",
	}
}

// okHandler is a simple handler that records whether it was invoked.
func okHandler() (http.Handler, *bool) {
	var called bool
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})
	return h, &called
}

type stubSessions struct {
	data *session.Data
	err  error
}

func (s stubSessions) Get(context.Context, *http.Request) (*session.Data, error) {
	return s.data, s.err
}

func TestSessionFromCtx(t *testing.T) {
	t.Run("returns session when present", func(t *testing.T) {
		sess := newTestSession()
		got := SessionFromCtx(WithSession(context.Background(), sess))
		if got == nil || got.UserID != sess.UserID {
			t.Fatalf("got %+v, want %+v", got, sess)
		}
	})

	t.Run("returns nil when not present", func(t *testing.T) {
		if got := SessionFromCtx(context.Background()); got != nil {
			t.Errorf("expected nil session, got %+v", got)
		}
	})

	t.Run("returns nil for wrong type in context", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), SessionKey, "not-a-session")
		if got := SessionFromCtx(ctx); got != nil {
			t.Errorf("expected nil for wrong type, got %+v", got)
		}
	})
}

func TestLoadSession(t *testing.T) {
	sess := newTestSession()
	tests := []struct {
		name    string
		store   stubSessions
		wantNil bool
	}{
		{name: "session found", store: stubSessions{data: sess}},
		{name: "no session", store: stubSessions{}, wantNil: true},
		{name: "lookup error is anonymous", store: stubSessions{err: errors.New("valkey down")}, wantNil: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got *session.Data
			var called bool
			handler := LoadSession(tt.store)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				got = SessionFromCtx(r.Context())
			}))

			handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

			if !called {
				t.Fatal("next handler should always be called")
			}
			if tt.wantNil && got != nil {
				t.Errorf("expected no session, got %+v", got)
			}
			if !tt.wantNil && got != sess {
				t.Errorf("got %+v, want %+v", got, sess)
			}
		})
	}
}

func TestRequireAuth(t *testing.T) {
	t.Run("anonymous gets 401 JSON", func(t *testing.T) {
		next, called := okHandler()
		rr := httptest.NewRecorder()
		RequireAuth(next).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/projects", nil))

		if *called {
			t.Error("next handler should not be called")
		}
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("status: got %d, want 401", rr.Code)
		}
		if !strings.Contains(rr.Body.String(), `"error"`) {
			t.Errorf("body: got %q", rr.Body.String())
		}
	})

	t.Run("authenticated passes through", func(t *testing.T) {
		next, called := okHandler()
		req := httptest.NewRequest(http.MethodGet, "/api/projects", nil)
		req = req.WithContext(WithSession(req.Context(), newTestSession()))
		rr := httptest.NewRecorder()
		RequireAuth(next).ServeHTTP(rr, req)

		if !*called {
			t.Error("next handler should be called")
		}
		if rr.Code != http.StatusOK {
			t.Errorf("status: got %d, want 200", rr.Code)
		}
	})
}
