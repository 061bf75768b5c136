// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package media

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foliocraft/internal/models"
)

const original = "https://cdn.example.com/users/old.png"

// gatedDecoder decodes to "preview:<data>" and blocks on a per-file gate
// when one is registered.
type gatedDecoder struct {
	mu    sync.Mutex
	gates map[string]chan struct{}
	fail  map[string]bool
}

func newGatedDecoder() *gatedDecoder {
	return &gatedDecoder{gates: map[string]chan struct{}{}, fail: map[string]bool{}}
}

func (d *gatedDecoder) gate(name string) chan struct{} {
	d.mu.Lock()
	defer d.mu.Unlock()
	ch := make(chan struct{})
	d.gates[name] = ch
	return ch
}

func (d *gatedDecoder) decode(data []byte) (string, error) {
	d.mu.Lock()
	gate, failing := d.gates[string(data)], d.fail[string(data)]
	d.mu.Unlock()
	if gate != nil {
		<-gate
	}
	if failing {
		return "", errors.New("corrupt image")
	}
	return "preview:" + string(data), nil
}

type fakeUploader struct {
	mu    sync.Mutex
	gate  chan struct{}
	err   error
	calls []File
	ctxOK bool
}

func (u *fakeUploader) Upload(ctx context.Context, _ uuid.UUID, target models.MediaTarget, f File) (string, error) {
	if u.gate != nil {
		<-u.gate
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	u.calls = append(u.calls, f)
	u.ctxOK = ctx.Err() == nil
	if u.err != nil {
		return "", u.err
	}
	return "https://cdn.example.com/" + string(target) + "/" + f.Name, nil
}

func wait(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for decode")
	}
}

func result(t *testing.T, ch <-chan error) error {
	t.Helper()
	select {
	case err := <-ch:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for upload")
		return nil
	}
}

func newTestWorkflow(up Uploader, dec *gatedDecoder, opts ...Option) *Workflow {
	return NewWorkflow(uuid.New(), models.MediaTargetAvatar, original, up, dec.decode, opts...)
}

func TestWorkflowSelectShowsLocalPreview(t *testing.T) {
	wf := newTestWorkflow(&fakeUploader{}, newGatedDecoder())
	assert.Equal(t, StateIdle, wf.State())
	assert.Equal(t, original, wf.Displayed())

	done, err := wf.Select(File{Name: "a.png", Data: []byte("A")})
	require.NoError(t, err)
	wait(t, done)

	assert.Equal(t, StateLocallyPreviewing, wf.State())
	assert.Equal(t, "preview:A", wf.Displayed())
}

func TestWorkflowLastSelectionWins(t *testing.T) {
	dec := newGatedDecoder()
	gateA := dec.gate("A")
	wf := newTestWorkflow(&fakeUploader{}, dec)

	doneA, err := wf.Select(File{Name: "a.png", Data: []byte("A")})
	require.NoError(t, err)
	doneB, err := wf.Select(File{Name: "b.png", Data: []byte("B")})
	require.NoError(t, err)
	wait(t, doneB)
	assert.Equal(t, "preview:B", wf.Displayed())

	// A resolves late and must not overwrite B.
	close(gateA)
	wait(t, doneA)
	assert.Equal(t, "preview:B", wf.Displayed())
	assert.Equal(t, "b.png", wf.Snapshot().FileName)
}

func TestWorkflowSelectTwiceThenCancelReverts(t *testing.T) {
	wf := newTestWorkflow(&fakeUploader{}, newGatedDecoder())

	done, _ := wf.Select(File{Name: "a.png", Data: []byte("A")})
	wait(t, done)
	done, _ = wf.Select(File{Name: "b.png", Data: []byte("B")})
	wait(t, done)

	assert.True(t, wf.Cancel())
	assert.Equal(t, StateCancelled, wf.State())
	assert.Equal(t, original, wf.Displayed())
	assert.Empty(t, wf.Snapshot().FileName)

	_, err := wf.Confirm(context.Background())
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestWorkflowDecodeFailureIsSilent(t *testing.T) {
	dec := newGatedDecoder()
	dec.fail["X"] = true
	wf := newTestWorkflow(&fakeUploader{}, dec)

	done, err := wf.Select(File{Name: "x.bin", Data: []byte("X")})
	require.NoError(t, err)
	wait(t, done)

	assert.Equal(t, StateFileSelected, wf.State())
	assert.Equal(t, original, wf.Displayed())
	assert.False(t, wf.Snapshot().HasPreview)

	_, err = wf.Confirm(context.Background())
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestWorkflowConfirmCommits(t *testing.T) {
	up := &fakeUploader{}
	var committed string
	wf := newTestWorkflow(up, newGatedDecoder(), WithOnCommit(func(url string) { committed = url }))

	done, _ := wf.Select(File{Name: "a.png", Data: []byte("A")})
	wait(t, done)

	ch, err := wf.Confirm(context.Background())
	require.NoError(t, err)
	require.NoError(t, result(t, ch))

	assert.Equal(t, StateCommitted, wf.State())
	assert.Equal(t, "https://cdn.example.com/avatar/a.png", wf.Displayed())
	assert.Equal(t, wf.Displayed(), committed)
	require.Len(t, up.calls, 1)
	assert.Equal(t, []byte("A"), up.calls[0].Data, "original bytes are uploaded, not the preview")

	assert.False(t, wf.Cancel(), "cannot cancel after commit")
	_, err = wf.Select(File{Name: "c.png", Data: []byte("C")})
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestWorkflowConfirmFailureKeepsPreview(t *testing.T) {
	up := &fakeUploader{err: errors.New("503 from storage")}
	commits := 0
	wf := newTestWorkflow(up, newGatedDecoder(), WithOnCommit(func(string) { commits++ }))

	done, _ := wf.Select(File{Name: "a.png", Data: []byte("A")})
	wait(t, done)

	ch, err := wf.Confirm(context.Background())
	require.NoError(t, err)
	assert.Error(t, result(t, ch))

	assert.Equal(t, StateFailed, wf.State())
	assert.Equal(t, "preview:A", wf.Displayed())
	assert.False(t, wf.Snapshot().Closed)
	assert.Zero(t, commits)

	// Manual retry succeeds.
	up.mu.Lock()
	up.err = nil
	up.mu.Unlock()
	ch, err = wf.Confirm(context.Background())
	require.NoError(t, err)
	require.NoError(t, result(t, ch))
	assert.Equal(t, StateCommitted, wf.State())
	assert.Equal(t, 1, commits)
}

func TestWorkflowConfirmTwiceRejected(t *testing.T) {
	up := &fakeUploader{gate: make(chan struct{})}
	wf := newTestWorkflow(up, newGatedDecoder())

	done, _ := wf.Select(File{Name: "a.png", Data: []byte("A")})
	wait(t, done)

	ch, err := wf.Confirm(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StateUploading, wf.State())

	_, err = wf.Confirm(context.Background())
	assert.ErrorIs(t, err, ErrInvalidState)
	_, err = wf.Select(File{Name: "b.png", Data: []byte("B")})
	assert.ErrorIs(t, err, ErrInvalidState)

	close(up.gate)
	require.NoError(t, result(t, ch))
}

func TestWorkflowLateUploadAfterClose(t *testing.T) {
	up := &fakeUploader{gate: make(chan struct{})}
	var mu sync.Mutex
	var committed string
	wf := newTestWorkflow(up, newGatedDecoder(), WithOnCommit(func(url string) {
		mu.Lock()
		committed = url
		mu.Unlock()
	}))

	done, _ := wf.Select(File{Name: "a.png", Data: []byte("A")})
	wait(t, done)

	ch, err := wf.Confirm(context.Background())
	require.NoError(t, err)

	wf.Close()
	close(up.gate)
	require.NoError(t, result(t, ch))

	// The side effect still happens, the closed workflow does not move.
	mu.Lock()
	assert.Equal(t, "https://cdn.example.com/avatar/a.png", committed)
	mu.Unlock()
	assert.Equal(t, StateUploading, wf.State())
	assert.Equal(t, original, wf.Displayed())
	assert.True(t, wf.Snapshot().Closed)
}

func TestWorkflowCancelDuringUpload(t *testing.T) {
	up := &fakeUploader{gate: make(chan struct{})}
	wf := newTestWorkflow(up, newGatedDecoder())

	done, _ := wf.Select(File{Name: "a.png", Data: []byte("A")})
	wait(t, done)
	ch, err := wf.Confirm(context.Background())
	require.NoError(t, err)

	assert.True(t, wf.Cancel())
	close(up.gate)
	require.NoError(t, result(t, ch))

	assert.Equal(t, StateCancelled, wf.State())
	assert.Equal(t, original, wf.Displayed())
}

func TestWorkflowUploadSurvivesCallerCancellation(t *testing.T) {
	up := &fakeUploader{}
	wf := newTestWorkflow(up, newGatedDecoder())

	done, _ := wf.Select(File{Name: "a.png", Data: []byte("A")})
	wait(t, done)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ch, err := wf.Confirm(ctx)
	require.NoError(t, err)
	require.NoError(t, result(t, ch))
	assert.True(t, up.ctxOK)
}

func TestWorkflowSelectAfterCloseRejected(t *testing.T) {
	wf := newTestWorkflow(&fakeUploader{}, newGatedDecoder())
	wf.Close()
	_, err := wf.Select(File{Name: "a.png", Data: []byte("A")})
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestWorkflowDecodeAfterCloseDiscarded(t *testing.T) {
	dec := newGatedDecoder()
	gate := dec.gate("A")
	wf := newTestWorkflow(&fakeUploader{}, dec)

	done, _ := wf.Select(File{Name: "a.png", Data: []byte("A")})
	wf.Close()
	close(gate)
	wait(t, done)

	assert.Equal(t, StateFileSelected, wf.State())
	assert.False(t, wf.Snapshot().HasPreview)
}

func TestStateJSON(t *testing.T) {
	b, err := json.Marshal(Snapshot{State: StateLocallyPreviewing, Target: models.MediaTargetBanner})
	require.NoError(t, err)
	assert.Contains(t, string(b), `"state":"locally_previewing"`)
	assert.Equal(t, "unknown", State(99).String())

	var got Snapshot
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, StateLocallyPreviewing, got.State)
	assert.Error(t, json.Unmarshal([]byte(`{"state":"exploded"}`), &got))
}
