// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"foliocraft/internal/authoring"
	"foliocraft/internal/media"
	"foliocraft/internal/models"
)

// Media groups the avatar/banner replacement modal API. Each modal is a
// media.Workflow held in the registry.
type Media struct {
	registry *authoring.Registry
	users    UserFinder
	uploader media.Uploader
	decode   media.Decoder
	pages    PageCache
}

// NewMedia creates the media handler group. uploader may be nil when
// object storage is not configured; modals then answer 503.
func NewMedia(reg *authoring.Registry, users UserFinder, uploader media.Uploader, decode media.Decoder, pages PageCache) *Media {
	return &Media{
		registry: reg,
		users:    users,
		uploader: uploader,
		decode:   decode,
		pages:    pages,
	}
}

type modalResponse struct {
	ID uuid.UUID `json:"id"`
	media.Snapshot
}

func (h *Media) workflow(w http.ResponseWriter, r *http.Request) (uuid.UUID, *media.Workflow, bool) {
	id, ok := uuidParam(r, "id")
	if !ok {
		writeError(w, "Modal not found.", http.StatusNotFound)
		return uuid.Nil, nil, false
	}
	wf, err := h.registry.Modal(id, userID(r))
	if err != nil {
		writeError(w, "Modal not found.", http.StatusNotFound)
		return uuid.Nil, nil, false
	}
	return id, wf, true
}

// Open starts a replacement modal for {target}, showing the current image.
func (h *Media) Open(w http.ResponseWriter, r *http.Request) {
	if h.uploader == nil {
		writeError(w, "Object storage is not configured.", http.StatusServiceUnavailable)
		return
	}
	target := models.MediaTarget(chi.URLParam(r, "target"))
	if !target.Valid() {
		writeError(w, "Unknown media target.", http.StatusNotFound)
		return
	}

	owner := userID(r)
	user, err := h.users.FindByID(r.Context(), owner)
	if err != nil {
		slog.Error("find user for media modal failed", "error", err)
		writeError(w, "Failed to load profile.", http.StatusInternalServerError)
		return
	}
	if user == nil {
		writeError(w, "Profile not found.", http.StatusNotFound)
		return
	}

	pages := h.pages
	wf := media.NewWorkflow(owner, target, user.ImageURL(target), h.uploader, h.decode,
		media.WithOnCommit(func(string) {
			// The request that confirmed may be long gone.
			pages.InvalidateOwner(context.Background(), owner)
		}),
	)
	id := h.registry.OpenModal(owner, wf)
	writeJSON(w, http.StatusCreated, modalResponse{ID: id, Snapshot: wf.Snapshot()})
}

// Get returns the modal state and the image it currently displays.
func (h *Media) Get(w http.ResponseWriter, r *http.Request) {
	id, wf, ok := h.workflow(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, modalResponse{ID: id, Snapshot: wf.Snapshot()})
}

// SelectFile takes the multipart "file" field as the pending selection and
// waits for its local preview before answering.
func (h *Media) SelectFile(w http.ResponseWriter, r *http.Request) {
	id, wf, ok := h.workflow(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, media.MaxUploadSize+1024)
	if err := r.ParseMultipartForm(media.MaxUploadSize); err != nil {
		writeError(w, "File too large. Maximum size is 10 MB.", http.StatusRequestEntityTooLarge)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, "No file provided.", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, "Failed to read file.", http.StatusInternalServerError)
		return
	}

	done, err := wf.Select(media.File{Name: header.Filename, Data: data})
	if err != nil {
		writeMediaStateError(w, wf, err)
		return
	}

	select {
	case <-done:
	case <-r.Context().Done():
		return
	}
	writeJSON(w, http.StatusOK, modalResponse{ID: id, Snapshot: wf.Snapshot()})
}

// Confirm starts the upload and answers 202 right away. The modal reports
// the outcome through Get.
func (h *Media) Confirm(w http.ResponseWriter, r *http.Request) {
	id, wf, ok := h.workflow(w, r)
	if !ok {
		return
	}
	if _, err := wf.Confirm(r.Context()); err != nil {
		writeMediaStateError(w, wf, err)
		return
	}
	writeJSON(w, http.StatusAccepted, modalResponse{ID: id, Snapshot: wf.Snapshot()})
}

// Cancel reverts the modal to the original image and closes it.
func (h *Media) Cancel(w http.ResponseWriter, r *http.Request) {
	id, wf, ok := h.workflow(w, r)
	if !ok {
		return
	}
	wf.Cancel()
	h.registry.CloseModal(id, userID(r))
	writeJSON(w, http.StatusOK, modalResponse{ID: id, Snapshot: wf.Snapshot()})
}

func writeMediaStateError(w http.ResponseWriter, wf *media.Workflow, err error) {
	if errors.Is(err, media.ErrInvalidState) {
		writeError(w, fmt.Sprintf("Not allowed while %s.", wf.State()), http.StatusConflict)
		return
	}
	writeError(w, err.Error(), http.StatusBadRequest)
}
