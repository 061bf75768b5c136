// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"foliocraft/internal/authoring"
	"foliocraft/internal/cache"
	"foliocraft/internal/catalog"
	"foliocraft/internal/draft"
	"foliocraft/internal/engine"
	"foliocraft/internal/models"
	"foliocraft/internal/preview"
	"foliocraft/internal/store"
)

// Authoring groups the portfolio authoring API. Each open form is a draft
// held in the registry; every request after the first addresses it by id.
type Authoring struct {
	registry   *authoring.Registry
	users      UserFinder
	projects   ProjectLister
	portfolios PortfolioRepository
	engine     *engine.Engine
	pages      PageCache
	pageSize   int
}

// NewAuthoring creates the authoring handler group.
func NewAuthoring(reg *authoring.Registry, users UserFinder, projects ProjectLister, portfolios PortfolioRepository, eng *engine.Engine, pages PageCache, pageSize int) *Authoring {
	return &Authoring{
		registry:   reg,
		users:      users,
		projects:   projects,
		portfolios: portfolios,
		engine:     eng,
		pages:      pages,
		pageSize:   pageSize,
	}
}

type templatePage struct {
	Page       int            `json:"page"`
	TotalPages int            `json:"totalPages"`
	InRange    bool           `json:"inRange"`
	Items      []catalog.Info `json:"items"`
}

type draftResponse struct {
	ID                 uuid.UUID    `json:"id"`
	Mode               draft.Mode   `json:"mode"`
	PortfolioID        int64        `json:"portfolioId,omitempty"`
	Draft              draft.Draft  `json:"draft"`
	SelectedProjectIDs []int64      `json:"selectedProjectIds"`
	Templates          templatePage `json:"templates"`
	CanSubmit          bool         `json:"canSubmit"`
}

func (a *Authoring) respond(w http.ResponseWriter, status int, id uuid.UUID, m *draft.Manager) {
	d := m.Draft()
	total := m.TotalPages()
	writeJSON(w, status, draftResponse{
		ID:                 id,
		Mode:               m.Mode(),
		PortfolioID:        m.PortfolioID(),
		Draft:              d,
		SelectedProjectIDs: d.ProjectIDs(),
		Templates: templatePage{
			Page:       d.CurrentPage,
			TotalPages: total,
			InRange:    d.CurrentPage >= 0 && d.CurrentPage < total,
			Items:      catalog.Describe(m.PageItems()),
		},
		CanSubmit: m.CanSubmit(),
	})
}

// manager resolves the {id} draft for the session user, writing 404 when
// it does not exist.
func (a *Authoring) manager(w http.ResponseWriter, r *http.Request) (uuid.UUID, *draft.Manager, bool) {
	id, ok := uuidParam(r, "id")
	if !ok {
		writeError(w, "Draft not found.", http.StatusNotFound)
		return uuid.Nil, nil, false
	}
	m, err := a.registry.Draft(id, userID(r))
	if err != nil {
		writeError(w, "Draft not found.", http.StatusNotFound)
		return uuid.Nil, nil, false
	}
	return id, m, true
}

// Templates returns one page of the template catalog with its metadata.
func (a *Authoring) Templates(w http.ResponseWriter, r *http.Request) {
	p := catalog.NewPaginator(catalog.All(), a.pageSize)
	if raw := r.URL.Query().Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, "Invalid page number.", http.StatusBadRequest)
			return
		}
		p.SetPage(n)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"pageSize": p.PageSize(),
		"templates": templatePage{
			Page:       p.Current(),
			TotalPages: p.TotalPages(),
			InRange:    p.InRange(),
			Items:      catalog.Describe(p.Items()),
		},
	})
}

// Projects lists the session user's own project collection.
func (a *Authoring) Projects(w http.ResponseWriter, r *http.Request) {
	projects, err := a.projects.ListByOwner(r.Context(), userID(r))
	if err != nil {
		slog.Error("list projects failed", "error", err)
		writeError(w, "Failed to load projects.", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"projects": projects})
}

// OpenDraft starts an authoring session. With a portfolioId body it seeds
// the draft from that portfolio and switches to edit mode.
func (a *Authoring) OpenDraft(w http.ResponseWriter, r *http.Request) {
	var body struct {
		PortfolioID int64 `json:"portfolioId"`
	}
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, "Invalid request body.", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	owner := userID(r)

	projects, err := a.projects.ListByOwner(ctx, owner)
	if err != nil {
		slog.Error("list projects failed", "error", err)
		writeError(w, "Failed to load projects.", http.StatusInternalServerError)
		return
	}

	m := draft.NewManager(owner, projects, a.portfolios, draft.WithPageSize(a.pageSize))

	if body.PortfolioID != 0 {
		p, err := a.portfolios.FindByID(ctx, body.PortfolioID)
		if err != nil {
			slog.Error("find portfolio failed", "error", err, "id", body.PortfolioID)
			writeError(w, "Failed to load portfolio.", http.StatusInternalServerError)
			return
		}
		if p == nil || p.OwnerID != owner {
			writeError(w, "Portfolio not found.", http.StatusNotFound)
			return
		}
		m.Seed(p)
	}

	id := a.registry.OpenDraft(owner, m)
	a.respond(w, http.StatusCreated, id, m)
}

// GetDraft returns the draft snapshot, the current template page and
// whether submit is enabled.
func (a *Authoring) GetDraft(w http.ResponseWriter, r *http.Request) {
	id, m, ok := a.manager(w, r)
	if !ok {
		return
	}
	a.respond(w, http.StatusOK, id, m)
}

// CloseDraft discards the draft when the authoring view goes away.
func (a *Authoring) CloseDraft(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(r, "id")
	if !ok || !a.registry.CloseDraft(id, userID(r)) {
		writeError(w, "Draft not found.", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type fieldUpdate struct {
	name  string
	value any
}

// decodeFieldUpdates reads a JSON object and keeps its members in document
// order.
func decodeFieldUpdates(dec *json.Decoder) ([]fieldUpdate, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, errors.New("expected a JSON object")
	}
	var out []fieldUpdate
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		name, _ := tok.(string)
		var value any
		if err := dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("field %q: %w", name, err)
		}
		out = append(out, fieldUpdate{name: name, value: value})
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateFields overwrites one or more draft fields in the order given.
// Updates before a rejected field stay applied.
func (a *Authoring) UpdateFields(w http.ResponseWriter, r *http.Request) {
	id, m, ok := a.manager(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	updates, err := decodeFieldUpdates(json.NewDecoder(r.Body))
	if err != nil {
		writeError(w, "Invalid request body.", http.StatusBadRequest)
		return
	}

	for _, u := range updates {
		if err := m.UpdateField(u.name, u.value); err != nil {
			switch {
			case errors.Is(err, draft.ErrUnknownField):
				writeError(w, err.Error(), http.StatusBadRequest)
			default:
				writeError(w, err.Error(), http.StatusUnprocessableEntity)
			}
			return
		}
	}
	a.respond(w, http.StatusOK, id, m)
}

// AddSkill commits the pending skill. A "skill" in the body replaces the
// pending input first.
func (a *Authoring) AddSkill(w http.ResponseWriter, r *http.Request) {
	id, m, ok := a.manager(w, r)
	if !ok {
		return
	}
	var body struct {
		Skill *string `json:"skill"`
	}
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, "Invalid request body.", http.StatusBadRequest)
		return
	}
	if body.Skill != nil {
		m.SetPendingSkill(*body.Skill)
	}
	m.AddSkill()
	a.respond(w, http.StatusOK, id, m)
}

// RemoveSkill removes a skill by exact value.
func (a *Authoring) RemoveSkill(w http.ResponseWriter, r *http.Request) {
	id, m, ok := a.manager(w, r)
	if !ok {
		return
	}
	skill, err := pathParam(r, "skill")
	if err != nil {
		writeError(w, "Invalid skill.", http.StatusBadRequest)
		return
	}
	m.RemoveSkill(skill)
	a.respond(w, http.StatusOK, id, m)
}

// ToggleProject flips a project in or out of the selection. Ids outside
// the user's collection are ignored.
func (a *Authoring) ToggleProject(w http.ResponseWriter, r *http.Request) {
	id, m, ok := a.manager(w, r)
	if !ok {
		return
	}
	projectID, ok := int64Param(r, "projectID")
	if !ok {
		writeError(w, "Invalid project id.", http.StatusBadRequest)
		return
	}
	m.ToggleProject(projectID)
	a.respond(w, http.StatusOK, id, m)
}

// NextPage advances the template picker.
func (a *Authoring) NextPage(w http.ResponseWriter, r *http.Request) {
	id, m, ok := a.manager(w, r)
	if !ok {
		return
	}
	m.NextPage()
	a.respond(w, http.StatusOK, id, m)
}

// PrevPage moves the template picker back.
func (a *Authoring) PrevPage(w http.ResponseWriter, r *http.Request) {
	id, m, ok := a.manager(w, r)
	if !ok {
		return
	}
	m.PrevPage()
	a.respond(w, http.StatusOK, id, m)
}

// SetPage jumps the template picker. Out-of-range pages are accepted and
// show no templates.
func (a *Authoring) SetPage(w http.ResponseWriter, r *http.Request) {
	id, m, ok := a.manager(w, r)
	if !ok {
		return
	}
	n, err := strconv.Atoi(chi.URLParam(r, "n"))
	if err != nil {
		writeError(w, "Invalid page number.", http.StatusBadRequest)
		return
	}
	m.SetPage(n)
	a.respond(w, http.StatusOK, id, m)
}

// OpenPreview shows the draft rendered with the chosen template, using the
// user's identity and first projects. The response is the rendered HTML.
func (a *Authoring) OpenPreview(w http.ResponseWriter, r *http.Request) {
	_, m, ok := a.manager(w, r)
	if !ok {
		return
	}
	user, err := a.users.FindByID(r.Context(), userID(r))
	if err != nil {
		slog.Error("find user for preview failed", "error", err)
		writeError(w, "Failed to load profile.", http.StatusInternalServerError)
		return
	}
	if user == nil {
		writeError(w, "Profile not found.", http.StatusNotFound)
		return
	}

	m.OpenPreview(models.TemplateID(chi.URLParam(r, "template")))
	p := preview.Synthesize(user, m.Draft(), m.Projects())
	if p == nil {
		m.ClosePreview()
		writeError(w, "Profile not found.", http.StatusNotFound)
		return
	}
	writeHTML(w, http.StatusOK, a.engine.Render(p, true))
}

// ClosePreview hides the preview overlay.
func (a *Authoring) ClosePreview(w http.ResponseWriter, r *http.Request) {
	_, m, ok := a.manager(w, r)
	if !ok {
		return
	}
	m.ClosePreview()
	w.WriteHeader(http.StatusNoContent)
}

// Submit persists the draft. It answers 409 while submit is disabled. On
// success the draft is discarded and the saved portfolio returned.
func (a *Authoring) Submit(w http.ResponseWriter, r *http.Request) {
	id, m, ok := a.manager(w, r)
	if !ok {
		return
	}
	mode := m.Mode()

	saved, err := m.Submit(r.Context())
	if err != nil {
		var verrs validator.ValidationErrors
		switch {
		case errors.Is(err, draft.ErrSubmitDisabled):
			writeError(w, "Submit is not available yet.", http.StatusConflict)
		case errors.As(err, &verrs):
			writeError(w, err.Error(), http.StatusUnprocessableEntity)
		case errors.Is(err, store.ErrNotFound):
			writeError(w, "Portfolio or project not found.", http.StatusNotFound)
		default:
			writeError(w, "Failed to save portfolio.", http.StatusInternalServerError)
		}
		return
	}

	a.pages.InvalidatePage(r.Context(), cache.PortfolioKey(saved.ID))
	a.registry.CloseDraft(id, userID(r))

	status := http.StatusCreated
	if mode == draft.ModeEdit {
		status = http.StatusOK
	}
	slog.Info("portfolio saved", "id", saved.ID, "owner", saved.OwnerID, "mode", mode)
	writeJSON(w, status, map[string]any{
		"portfolio": saved,
		"url":       PublicPath(saved),
	})
}
