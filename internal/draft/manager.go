// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package draft

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"

	"foliocraft/internal/catalog"
	"foliocraft/internal/models"
)

// Persister is the portfolio persistence API a draft is submitted to.
type Persister interface {
	CreatePortfolio(ctx context.Context, ownerID uuid.UUID, req *Request) (*models.Portfolio, error)
	UpdatePortfolio(ctx context.Context, id int64, ownerID uuid.UUID, req *Request) (*models.Portfolio, error)
}

// Manager owns one draft for one authoring session. Every exported method
// is safe to call from concurrent requests of that session; mutations are
// applied in the order they acquire the lock.
type Manager struct {
	mu        sync.Mutex
	ownerID   uuid.UUID
	persister Persister
	draft     Draft
	projects  []models.Project
	paginator *catalog.Paginator

	mode        Mode
	portfolioID int64 // id of the seed record in edit mode
}

// Option configures a Manager.
type Option func(*Manager)

// WithPageSize sets the template picker page size.
func WithPageSize(n int) Option {
	return func(m *Manager) {
		m.paginator = catalog.NewPaginator(catalog.All(), n)
	}
}

// NewManager creates a manager for a new portfolio owned by ownerID.
// projects is the owner's own project collection; only ids from it can be
// selected.
func NewManager(ownerID uuid.UUID, projects []models.Project, persister Persister, opts ...Option) *Manager {
	m := &Manager{
		ownerID:   ownerID,
		persister: persister,
		draft:     New(),
		projects:  slices.Clone(projects),
		paginator: catalog.NewPaginator(catalog.All(), catalog.DefaultPageSize),
		mode:      ModeCreate,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Seed loads a persisted portfolio into the draft and switches to edit
// mode. Seeding again with the same record is a no-op so in-progress
// edits survive; a record with a different id replaces the draft.
func (m *Manager) Seed(p *models.Portfolio) {
	if p == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.mode == ModeEdit && m.portfolioID == p.ID {
		return
	}
	d := seedFrom(p)
	d.SelectedProjectIDs = m.ownedOnly(d.SelectedProjectIDs)
	d.CurrentPage = m.paginator.Current()
	m.draft = d
	m.mode = ModeEdit
	m.portfolioID = p.ID
}

// Mode returns whether the manager creates or edits a portfolio.
func (m *Manager) Mode() Mode {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mode
}

// PortfolioID returns the id of the seeded record, or 0 in create mode.
func (m *Manager) PortfolioID() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.portfolioID
}

// OwnerID returns the user the draft belongs to.
func (m *Manager) OwnerID() uuid.UUID {
	return m.ownerID
}

// Draft returns a deep copy of the current draft.
func (m *Manager) Draft() Draft {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.draft.clone()
}

// Projects returns a copy of the owner's project collection.
func (m *Manager) Projects() []models.Project {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.projects)
}

// SetProjects replaces the owner's project collection, dropping any
// selected id that is no longer part of it.
func (m *Manager) SetProjects(projects []models.Project) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.projects = slices.Clone(projects)
	m.draft.SelectedProjectIDs = m.ownedOnly(m.draft.SelectedProjectIDs)
}

// UpdateField overwrites a single draft field. Names are the JSON field
// names of Draft. No cross-field validation is done.
func (m *Manager) UpdateField(name string, value any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	d := &m.draft
	switch name {
	case "title":
		return setString(&d.Title, name, value)
	case "about":
		return setString(&d.About, name, value)
	case "jobTitle":
		return setString(&d.JobTitle, name, value)
	case "githubUrl":
		return setString(&d.GithubURL, name, value)
	case "linkedinUrl":
		return setString(&d.LinkedinURL, name, value)
	case "websiteUrl":
		return setString(&d.WebsiteURL, name, value)
	case "cvDownloadUrl":
		return setString(&d.CVDownloadURL, name, value)
	case "pendingSkill":
		return setString(&d.PendingSkill, name, value)
	case "selectedTemplate":
		var s string
		if err := setString(&s, name, value); err != nil {
			return err
		}
		id := models.TemplateID(s)
		if id != "" && !id.Valid() {
			return fmt.Errorf("%w: %s: unknown template %q", ErrInvalidValue, name, s)
		}
		d.SelectedTemplate = id
		return nil
	case "isPublic":
		b, ok := value.(bool)
		if !ok {
			return fmt.Errorf("%w: %s: want boolean, got %T", ErrInvalidValue, name, value)
		}
		d.IsPublic = b
		return nil
	case "yearsOfExperience":
		years, err := toYears(value)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidValue, name, err)
		}
		d.YearsOfExperience = years
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
}

// SetPendingSkill sets the pending-skill input read by AddSkill.
func (m *Manager) SetPendingSkill(s string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.draft.PendingSkill = s
}

// AddSkill trims the pending-skill input and appends it to Skills when it
// is non-empty and not already present (case-sensitive). On append the
// pending input is cleared. Returns whether a skill was added.
func (m *Manager) AddSkill() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := strings.TrimSpace(m.draft.PendingSkill)
	if s == "" || slices.Contains(m.draft.Skills, s) {
		return false
	}
	m.draft.Skills = append(m.draft.Skills, s)
	m.draft.PendingSkill = ""
	return true
}

// RemoveSkill removes the first exact match of skill. Removing an absent
// skill is a no-op. Returns whether a skill was removed.
func (m *Manager) RemoveSkill(skill string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := slices.Index(m.draft.Skills, skill)
	if i < 0 {
		return false
	}
	m.draft.Skills = slices.Delete(m.draft.Skills, i, i+1)
	return true
}

// ToggleProject flips membership of id in the selection. Ids outside the
// owner's project collection are ignored. Returns whether id is selected
// afterwards.
func (m *Manager) ToggleProject(id int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.owns(id) {
		return false
	}
	if _, ok := m.draft.SelectedProjectIDs[id]; ok {
		delete(m.draft.SelectedProjectIDs, id)
		return false
	}
	m.draft.SelectedProjectIDs[id] = struct{}{}
	return true
}

// NextPage advances the template picker; no-op on the last page.
func (m *Manager) NextPage() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.paginator.Next()
	m.draft.CurrentPage = m.paginator.Current()
}

// PrevPage moves the template picker back; no-op on the first page.
func (m *Manager) PrevPage() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.paginator.Prev()
	m.draft.CurrentPage = m.paginator.Current()
}

// SetPage jumps the template picker to page n. The value is not clamped;
// the returned bool reports whether n is a valid page.
func (m *Manager) SetPage(n int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.paginator.SetPage(n)
	m.draft.CurrentPage = m.paginator.Current()
	if !m.paginator.InRange() {
		slog.Warn("template page out of range", "page", n, "total_pages", m.paginator.TotalPages())
		return false
	}
	return true
}

// PageItems returns the template identifiers on the current picker page.
func (m *Manager) PageItems() []models.TemplateID {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.paginator.Items()
}

// TotalPages returns the number of template picker pages.
func (m *Manager) TotalPages() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.paginator.TotalPages()
}

// OpenPreview shows template id in the preview overlay, replacing any
// template already shown.
func (m *Manager) OpenPreview(id models.TemplateID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.draft.PreviewTemplate = id
}

// ClosePreview hides the preview overlay.
func (m *Manager) ClosePreview() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.draft.PreviewTemplate = ""
}

// CanSubmit reports whether the submit action is enabled.
func (m *Manager) CanSubmit() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.canSubmitLocked()
}

func (m *Manager) canSubmitLocked() bool {
	if m.draft.IsSubmitting {
		return false
	}
	if m.mode == ModeCreate && m.draft.SelectedTemplate == "" {
		return false
	}
	return true
}

// BuildRequest assembles the persistence payload from the current draft.
func (m *Manager) BuildRequest() *Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return newRequest(&m.draft, m.projects)
}

// Submit sends the draft to the persistence API. It fails fast with
// ErrSubmitDisabled while the action is disabled. While the request is
// outstanding IsSubmitting is true. On failure the raw error is kept in
// SubmitErr for display; there is no retry.
func (m *Manager) Submit(ctx context.Context) (*models.Portfolio, error) {
	m.mu.Lock()
	if !m.canSubmitLocked() {
		m.mu.Unlock()
		return nil, ErrSubmitDisabled
	}
	req := newRequest(&m.draft, m.projects)
	if err := req.Validate(); err != nil {
		m.draft.SubmitErr = err.Error()
		m.mu.Unlock()
		return nil, err
	}
	m.draft.IsSubmitting = true
	m.draft.SubmitErr = ""
	mode, id := m.mode, m.portfolioID
	m.mu.Unlock()

	var (
		saved *models.Portfolio
		err   error
	)
	if mode == ModeEdit {
		saved, err = m.persister.UpdatePortfolio(ctx, id, m.ownerID, req)
	} else {
		saved, err = m.persister.CreatePortfolio(ctx, m.ownerID, req)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.draft.IsSubmitting = false
	if err != nil {
		slog.Error("portfolio submit failed", "mode", mode, "owner", m.ownerID, "error", err)
		m.draft.SubmitErr = err.Error()
		return nil, err
	}
	return saved, nil
}

// owns reports whether id belongs to the owner's project collection.
func (m *Manager) owns(id int64) bool {
	return slices.ContainsFunc(m.projects, func(p models.Project) bool { return p.ID == id })
}

// ownedOnly filters a selection down to ids from the project collection.
func (m *Manager) ownedOnly(sel map[int64]struct{}) map[int64]struct{} {
	out := make(map[int64]struct{}, len(sel))
	for id := range sel {
		if m.owns(id) {
			out[id] = struct{}{}
		}
	}
	return out
}

func setString(dst *string, name string, value any) error {
	switch v := value.(type) {
	case string:
		*dst = v
	case nil:
		*dst = ""
	default:
		return fmt.Errorf("%w: %s: want string, got %T", ErrInvalidValue, name, value)
	}
	return nil
}

// toYears converts a years-of-experience input. Empty input clears the
// field; anything else must be a non-negative whole number.
func toYears(value any) (*int, error) {
	var n int
	switch v := value.(type) {
	case nil:
		return nil, nil
	case int:
		n = v
	case float64:
		if v != math.Trunc(v) || v > math.MaxInt32 {
			return nil, fmt.Errorf("%v is not a whole number", v)
		}
		n = int(v)
	case string:
		v = strings.TrimSpace(v)
		if v == "" {
			return nil, nil
		}
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("%q is not a number", v)
		}
		n = parsed
	default:
		return nil, fmt.Errorf("want number, got %T", value)
	}
	if n < 0 {
		return nil, fmt.Errorf("%d is negative", n)
	}
	return &n, nil
}
