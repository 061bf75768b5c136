// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package media implements avatar and banner replacement. A Workflow
// shows a locally decoded preview as soon as a file is picked, uploads
// only on confirmation and reverts to the original image on cancel.
// Service performs the actual upload to object storage.
package media

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"foliocraft/internal/imaging"
	"foliocraft/internal/models"
)

// ErrInvalidState is returned when an action is not allowed in the
// workflow's current state.
var ErrInvalidState = errors.New("action not allowed in current state")

// DefaultUploadTimeout bounds a single upload.
const DefaultUploadTimeout = 2 * time.Minute

// State is a workflow lifecycle state.
type State int

const (
	StateIdle State = iota
	StateFileSelected
	StateLocallyPreviewing
	StateUploading
	StateCommitted
	StateFailed
	StateCancelled
)

var stateNames = [...]string{
	StateIdle:              "idle",
	StateFileSelected:      "file_selected",
	StateLocallyPreviewing: "locally_previewing",
	StateUploading:         "uploading",
	StateCommitted:         "committed",
	StateFailed:            "failed",
	StateCancelled:         "cancelled",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// MarshalText renders the state by name in JSON.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses a state name.
func (s *State) UnmarshalText(b []byte) error {
	for i, name := range stateNames {
		if name == string(b) {
			*s = State(i)
			return nil
		}
	}
	return fmt.Errorf("unknown workflow state %q", b)
}

// File is a user-selected image held in memory until it is uploaded.
type File struct {
	Name string
	Data []byte
}

// Uploader stores the original file bytes and returns the public URL.
type Uploader interface {
	Upload(ctx context.Context, userID uuid.UUID, target models.MediaTarget, f File) (string, error)
}

// Decoder turns raw file bytes into a URL that can be displayed without
// any server round trip.
type Decoder func(data []byte) (string, error)

// DecodePreview is the default Decoder.
func DecodePreview(data []byte) (string, error) {
	return imaging.PreviewDataURL(data, imaging.DefaultPreviewWidth)
}

// Option configures a Workflow.
type Option func(*Workflow)

// WithOnCommit registers a hook run after a successful upload, typically
// to invalidate cached identity and pages. It runs even if the workflow
// has been closed in the meantime.
func WithOnCommit(fn func(url string)) Option {
	return func(w *Workflow) { w.onCommit = fn }
}

// WithUploadTimeout overrides DefaultUploadTimeout.
func WithUploadTimeout(d time.Duration) Option {
	return func(w *Workflow) { w.uploadTimeout = d }
}

// Snapshot is a read-only view of a workflow.
type Snapshot struct {
	Target      models.MediaTarget `json:"target"`
	State       State              `json:"state"`
	DisplayURL  string             `json:"displayUrl"`
	OriginalURL string             `json:"originalUrl"`
	FileName    string             `json:"fileName,omitempty"`
	HasPreview  bool               `json:"hasPreview"`
	Closed      bool               `json:"closed"`
}

// Workflow is the state of one replacement modal.
type Workflow struct {
	userID        uuid.UUID
	target        models.MediaTarget
	original      string
	uploader      Uploader
	decode        Decoder
	onCommit      func(string)
	uploadTimeout time.Duration

	mu         sync.Mutex
	state      State
	pending    *File
	gen        uint64 // bumped on every Select; stale decodes compare against it
	previewURL string
	committed  string
	closed     bool
}

// NewWorkflow starts an Idle workflow displaying originalURL.
func NewWorkflow(userID uuid.UUID, target models.MediaTarget, originalURL string, uploader Uploader, decode Decoder, opts ...Option) *Workflow {
	if decode == nil {
		decode = DecodePreview
	}
	w := &Workflow{
		userID:        userID,
		target:        target,
		original:      originalURL,
		uploader:      uploader,
		decode:        decode,
		uploadTimeout: DefaultUploadTimeout,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Target returns the image this workflow replaces.
func (w *Workflow) Target() models.MediaTarget {
	return w.target
}

// State returns the current state.
func (w *Workflow) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Select makes f the pending file, replacing any earlier selection, and
// starts decoding it in the background. The returned channel is closed
// once the decode attempt has finished. A decode that completes after a
// newer selection is discarded. A failed decode leaves the workflow in
// FileSelected and is only logged.
func (w *Workflow) Select(f File) (<-chan struct{}, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil, ErrInvalidState
	}
	switch w.state {
	case StateIdle, StateFileSelected, StateLocallyPreviewing, StateFailed:
	default:
		return nil, ErrInvalidState
	}

	w.gen++
	gen := w.gen
	w.pending = &f
	w.previewURL = ""
	w.state = StateFileSelected

	done := make(chan struct{})
	go func() {
		defer close(done)
		url, err := w.decode(f.Data)

		w.mu.Lock()
		defer w.mu.Unlock()
		if err != nil {
			slog.Debug("local preview decode failed", "target", w.target, "file", f.Name, "error", err)
			return
		}
		if w.closed || gen != w.gen || w.state != StateFileSelected {
			return
		}
		w.previewURL = url
		w.state = StateLocallyPreviewing
	}()
	return done, nil
}

// Displayed returns the URL the modal shows: the local preview while one
// exists, the uploaded URL once committed, otherwise the original.
func (w *Workflow) Displayed() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.displayedLocked()
}

func (w *Workflow) displayedLocked() string {
	switch {
	case w.state == StateCommitted:
		return w.committed
	case w.state == StateCancelled || w.closed:
		return w.original
	case w.previewURL != "":
		return w.previewURL
	default:
		return w.original
	}
}

// Confirm uploads the pending file's original bytes. It is allowed while
// a local preview is shown, including after a failed attempt. The returned
// channel yields the upload result once. The upload runs on a context
// detached from ctx's cancellation, so closing the modal or ending the
// request does not abort it.
func (w *Workflow) Confirm(ctx context.Context) (<-chan error, error) {
	w.mu.Lock()
	if w.closed || w.pending == nil || w.previewURL == "" ||
		(w.state != StateLocallyPreviewing && w.state != StateFailed) {
		w.mu.Unlock()
		return nil, ErrInvalidState
	}
	w.state = StateUploading
	file := *w.pending
	w.mu.Unlock()

	result := make(chan error, 1)
	go func() {
		defer close(result)

		uctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), w.uploadTimeout)
		defer cancel()

		url, err := w.uploader.Upload(uctx, w.userID, w.target, file)
		if err != nil {
			slog.Error("media upload failed", "user", w.userID, "target", w.target, "file", file.Name, "error", err)
		} else {
			slog.Info("media upload committed", "user", w.userID, "target", w.target, "url", url)
			if w.onCommit != nil {
				w.onCommit(url)
			}
		}

		w.mu.Lock()
		if !w.closed && w.state == StateUploading {
			if err != nil {
				w.state = StateFailed
			} else {
				w.state = StateCommitted
				w.committed = url
				w.pending = nil
				w.previewURL = ""
			}
		}
		w.mu.Unlock()

		result <- err
	}()
	return result, nil
}

// Cancel discards the pending file and preview and reverts the display to
// the original image. It reports false once the workflow has committed.
// An upload already in flight still completes.
func (w *Workflow) Cancel() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state == StateCommitted {
		return false
	}
	w.state = StateCancelled
	w.pending = nil
	w.previewURL = ""
	w.gen++
	return true
}

// Close marks the workflow dead. Pending results arriving later no longer
// change it.
func (w *Workflow) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	w.pending = nil
	w.previewURL = ""
	w.gen++
}

// Snapshot returns a copy of the observable state.
func (w *Workflow) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	s := Snapshot{
		Target:      w.target,
		State:       w.state,
		DisplayURL:  w.displayedLocked(),
		OriginalURL: w.original,
		HasPreview:  w.previewURL != "",
		Closed:      w.closed,
	}
	if w.pending != nil {
		s.FileName = w.pending.Name
	}
	return s
}
