// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package authoring keeps the in-memory state of open authoring views:
// one draft manager per open portfolio form and the media modals opened
// from it. Nothing here is persisted.
package authoring

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"foliocraft/internal/draft"
	"foliocraft/internal/media"
)

// ErrNotFound is returned for unknown ids and for ids owned by another user.
var ErrNotFound = errors.New("authoring session not found")

// DefaultTTL is how long an untouched draft or modal survives.
const DefaultTTL = 2 * time.Hour

type draftEntry struct {
	owner   uuid.UUID
	manager *draft.Manager
	touched time.Time
}

type modalEntry struct {
	owner    uuid.UUID
	workflow *media.Workflow
	touched  time.Time
}

// Registry holds open drafts and media modals keyed by a generated id.
type Registry struct {
	mu     sync.Mutex
	ttl    time.Duration
	now    func() time.Time
	drafts map[uuid.UUID]*draftEntry
	modals map[uuid.UUID]*modalEntry

	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewRegistry creates a registry and starts a background sweep of entries
// idle for longer than ttl.
func NewRegistry(ttl time.Duration) *Registry {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	r := &Registry{
		ttl:    ttl,
		now:    time.Now,
		drafts: make(map[uuid.UUID]*draftEntry),
		modals: make(map[uuid.UUID]*modalEntry),
		stopCh: make(chan struct{}),
	}

	interval := ttl / 4
	if interval < time.Minute {
		interval = time.Minute
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if n := r.Sweep(); n > 0 {
					slog.Debug("authoring sessions expired", "count", n)
				}
			case <-r.stopCh:
				return
			}
		}
	}()
	return r
}

// Stop terminates the background sweep. Safe to call more than once.
func (r *Registry) Stop() {
	r.stopOnce.Do(func() { close(r.stopCh) })
}

// OpenDraft registers m for owner and returns its id.
func (r *Registry) OpenDraft(owner uuid.UUID, m *draft.Manager) uuid.UUID {
	id := uuid.New()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.drafts[id] = &draftEntry{owner: owner, manager: m, touched: r.now()}
	return id
}

// Draft returns the draft manager id if owner opened it.
func (r *Registry) Draft(id, owner uuid.UUID) (*draft.Manager, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.drafts[id]
	if !ok || e.owner != owner {
		return nil, ErrNotFound
	}
	e.touched = r.now()
	return e.manager, nil
}

// CloseDraft discards a draft. It reports whether one was removed.
func (r *Registry) CloseDraft(id, owner uuid.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.drafts[id]
	if !ok || e.owner != owner {
		return false
	}
	delete(r.drafts, id)
	return true
}

// OpenModal registers w for owner. Any modal the owner still has open for
// the same target is closed first.
func (r *Registry) OpenModal(owner uuid.UUID, w *media.Workflow) uuid.UUID {
	id := uuid.New()
	r.mu.Lock()
	defer r.mu.Unlock()
	for prevID, e := range r.modals {
		if e.owner == owner && e.workflow.Target() == w.Target() {
			e.workflow.Close()
			delete(r.modals, prevID)
		}
	}
	r.modals[id] = &modalEntry{owner: owner, workflow: w, touched: r.now()}
	return id
}

// Modal returns the workflow id if owner opened it.
func (r *Registry) Modal(id, owner uuid.UUID) (*media.Workflow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.modals[id]
	if !ok || e.owner != owner {
		return nil, ErrNotFound
	}
	e.touched = r.now()
	return e.workflow, nil
}

// CloseModal closes and forgets a modal. An upload it started keeps running.
func (r *Registry) CloseModal(id, owner uuid.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.modals[id]
	if !ok || e.owner != owner {
		return false
	}
	e.workflow.Close()
	delete(r.modals, id)
	return true
}

// Sweep removes drafts and modals idle for longer than the TTL and
// returns how many were removed.
func (r *Registry) Sweep() int {
	cutoff := r.now().Add(-r.ttl)

	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for id, e := range r.drafts {
		if e.touched.Before(cutoff) {
			delete(r.drafts, id)
			n++
		}
	}
	for id, e := range r.modals {
		if e.touched.Before(cutoff) {
			e.workflow.Close()
			delete(r.modals, id)
			n++
		}
	}
	return n
}

// Len returns the number of open drafts and modals.
func (r *Registry) Len() (drafts, modals int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.drafts), len(r.modals)
}
