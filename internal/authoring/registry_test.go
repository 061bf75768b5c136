// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package authoring

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foliocraft/internal/draft"
	"foliocraft/internal/media"
	"foliocraft/internal/models"
)

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newTestRegistry(t *testing.T) (*Registry, *clock) {
	t.Helper()
	r := NewRegistry(time.Hour)
	t.Cleanup(r.Stop)
	c := &clock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	r.now = c.now
	return r, c
}

func newWorkflow(owner uuid.UUID, target models.MediaTarget) *media.Workflow {
	return media.NewWorkflow(owner, target, "", nil, func([]byte) (string, error) { return "data:x", nil })
}

func TestDraftOwnership(t *testing.T) {
	r, _ := newTestRegistry(t)
	owner, other := uuid.New(), uuid.New()
	m := draft.NewManager(owner, nil, nil)

	id := r.OpenDraft(owner, m)

	got, err := r.Draft(id, owner)
	require.NoError(t, err)
	assert.Same(t, m, got)

	_, err = r.Draft(id, other)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.False(t, r.CloseDraft(id, other))

	assert.True(t, r.CloseDraft(id, owner))
	_, err = r.Draft(id, owner)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.False(t, r.CloseDraft(id, owner))
}

func TestOpenModalReplacesSameTarget(t *testing.T) {
	r, _ := newTestRegistry(t)
	owner := uuid.New()

	first := newWorkflow(owner, models.MediaTargetAvatar)
	firstID := r.OpenModal(owner, first)
	banner := r.OpenModal(owner, newWorkflow(owner, models.MediaTargetBanner))

	second := newWorkflow(owner, models.MediaTargetAvatar)
	secondID := r.OpenModal(owner, second)

	_, err := r.Modal(firstID, owner)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.True(t, first.Snapshot().Closed)

	got, err := r.Modal(secondID, owner)
	require.NoError(t, err)
	assert.Same(t, second, got)

	_, err = r.Modal(banner, owner)
	assert.NoError(t, err, "other targets stay open")
	_, modals := r.Len()
	assert.Equal(t, 2, modals)
}

func TestOpenModalOtherUsersUntouched(t *testing.T) {
	r, _ := newTestRegistry(t)
	a, b := uuid.New(), uuid.New()

	wa := newWorkflow(a, models.MediaTargetAvatar)
	idA := r.OpenModal(a, wa)
	r.OpenModal(b, newWorkflow(b, models.MediaTargetAvatar))

	_, err := r.Modal(idA, a)
	assert.NoError(t, err)
	assert.False(t, wa.Snapshot().Closed)

	_, err = r.Modal(idA, b)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCloseModalClosesWorkflow(t *testing.T) {
	r, _ := newTestRegistry(t)
	owner := uuid.New()
	w := newWorkflow(owner, models.MediaTargetBanner)
	id := r.OpenModal(owner, w)

	assert.True(t, r.CloseModal(id, owner))
	assert.True(t, w.Snapshot().Closed)
	_, err := r.Modal(id, owner)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.False(t, r.CloseModal(id, owner))
}

func TestSweepExpiresIdleEntries(t *testing.T) {
	r, c := newTestRegistry(t)
	owner := uuid.New()

	stale := r.OpenDraft(owner, draft.NewManager(owner, nil, nil))
	w := newWorkflow(owner, models.MediaTargetAvatar)
	r.OpenModal(owner, w)

	c.advance(40 * time.Minute)
	fresh := r.OpenDraft(owner, draft.NewManager(owner, nil, nil))

	c.advance(30 * time.Minute)
	assert.Equal(t, 2, r.Sweep())

	_, err := r.Draft(stale, owner)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = r.Draft(fresh, owner)
	assert.NoError(t, err)
	assert.True(t, w.Snapshot().Closed)

	drafts, modals := r.Len()
	assert.Equal(t, 1, drafts)
	assert.Zero(t, modals)
}

func TestAccessRefreshesTTL(t *testing.T) {
	r, c := newTestRegistry(t)
	owner := uuid.New()
	id := r.OpenDraft(owner, draft.NewManager(owner, nil, nil))

	c.advance(50 * time.Minute)
	_, err := r.Draft(id, owner)
	require.NoError(t, err)

	c.advance(50 * time.Minute)
	assert.Zero(t, r.Sweep())
}

func TestStopIdempotent(t *testing.T) {
	r := NewRegistry(0)
	r.Stop()
	r.Stop()
}
