// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"foliocraft/internal/cache"
	"foliocraft/internal/middleware"
	"foliocraft/internal/models"
	"foliocraft/internal/slug"
)

// PortfolioFinder loads a persisted portfolio with its user and projects.
type PortfolioFinder interface {
	FindByID(ctx context.Context, id int64) (*models.Portfolio, error)
}

// Renderer renders a persisted portfolio as a full page.
type Renderer interface {
	RenderPublished(p *models.Portfolio) []byte
}

// Public serves published portfolio pages. It checks the Valkey page cache
// before invoking the template engine, and stores rendered results on miss.
type Public struct {
	portfolios PortfolioFinder
	renderer   Renderer
	pages      PageCache
}

// NewPublic creates the public page handler group.
func NewPublic(portfolios PortfolioFinder, renderer Renderer, pages PageCache) *Public {
	return &Public{portfolios: portfolios, renderer: renderer, pages: pages}
}

// PublicPath returns the canonical page path, e.g. /p/42-ada-lovelace.
func PublicPath(p *models.Portfolio) string {
	name := p.Title
	if name == "" {
		name = p.User.FullName()
	}
	if s := slug.Generate(name); s != "" {
		return fmt.Sprintf("/p/%d-%s", p.ID, s)
	}
	return fmt.Sprintf("/p/%d", p.ID)
}

// parsePortfolioRef extracts the numeric id from "42" or "42-some-slug".
func parsePortfolioRef(ref string) (int64, bool) {
	idPart, _, _ := strings.Cut(ref, "-")
	id, err := strconv.ParseInt(idPart, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// Portfolio renders /p/{ref}. Private portfolios are only shown to their
// owner and are never cached. On a cache miss a non-canonical slug is
// redirected permanently.
func (p *Public) Portfolio(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ref := chi.URLParam(r, "ref")
	id, ok := parsePortfolioRef(ref)
	if !ok {
		http.NotFound(w, r)
		return
	}
	key := cache.PortfolioKey(id)

	// Only public pages are cached, so a hit is safe to serve to anyone.
	if cached, ok := p.pages.Get(ctx, key); ok {
		writeHTML(w, http.StatusOK, cached)
		return
	}

	portfolio, err := p.portfolios.FindByID(ctx, id)
	if err != nil {
		slog.Error("find portfolio failed", "error", err, "id", id)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if portfolio == nil {
		http.NotFound(w, r)
		return
	}

	if !portfolio.IsPublic {
		sess := middleware.SessionFromCtx(ctx)
		if sess == nil || sess.UserID != portfolio.OwnerID {
			http.NotFound(w, r)
			return
		}
	}

	if canonical := PublicPath(portfolio); "/p/"+ref != canonical {
		http.Redirect(w, r, canonical, http.StatusMovedPermanently)
		return
	}

	rendered := p.renderer.RenderPublished(portfolio)
	if portfolio.IsPublic {
		p.pages.Set(ctx, key, portfolio.OwnerID, rendered)
	}
	writeHTML(w, http.StatusOK, rendered)
}
