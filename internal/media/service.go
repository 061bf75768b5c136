// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"foliocraft/internal/models"
	"foliocraft/internal/storage"
)

// MaxUploadSize is the largest accepted image (10 MB).
const MaxUploadSize = 10 << 20

var (
	ErrEmptyFile       = errors.New("file is empty")
	ErrFileTooLarge    = errors.New("file too large")
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrInvalidTarget   = errors.New("invalid media target")
)

// allowedTypes maps accepted sniffed MIME types to object key extensions.
var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// ObjectStore is the object storage used for uploads.
type ObjectStore interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) error
	Delete(ctx context.Context, key string) error
	FileURL(key string) string
	ExtractS3Key(rawURL string) (string, bool)
	Bucket() string
}

// Recorder keeps the media metadata rows.
type Recorder interface {
	Create(ctx context.Context, m *models.Media) (*models.Media, error)
	DeleteByKey(ctx context.Context, key string) (*models.Media, error)
}

// ImageSetter points a user's avatar or banner at a new URL and returns
// the previous one.
type ImageSetter interface {
	SetImage(ctx context.Context, id uuid.UUID, target models.MediaTarget, url string) (string, error)
}

// Service uploads replacement images and swaps them in.
type Service struct {
	objects ObjectStore
	records Recorder
	users   ImageSetter
}

var _ Uploader = (*Service)(nil)

// NewService creates an upload service.
func NewService(objects ObjectStore, records Recorder, users ImageSetter) *Service {
	return &Service{objects: objects, records: records, users: users}
}

// DetectType sniffs data and returns its MIME type and object extension.
func DetectType(data []byte) (contentType, ext string, err error) {
	if len(data) == 0 {
		return "", "", ErrEmptyFile
	}
	if len(data) > MaxUploadSize {
		return "", "", fmt.Errorf("%w: %d bytes", ErrFileTooLarge, len(data))
	}
	contentType = http.DetectContentType(data)
	ext, ok := allowedTypes[contentType]
	if !ok {
		return "", "", fmt.Errorf("%w: %s", ErrUnsupportedType, contentType)
	}
	return contentType, ext, nil
}

// Upload stores f under users/{id}/{target}/, records it, points the user
// at the new object and deletes the object it replaced. Returns the new
// public URL.
func (s *Service) Upload(ctx context.Context, userID uuid.UUID, target models.MediaTarget, f File) (string, error) {
	if !target.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidTarget, target)
	}
	contentType, ext, err := DetectType(f.Data)
	if err != nil {
		return "", err
	}

	key := storage.ObjectKey(userID, target, ext)
	size := int64(len(f.Data))
	if err := s.objects.Upload(ctx, key, contentType, bytes.NewReader(f.Data), size); err != nil {
		return "", fmt.Errorf("upload %s: %w", target, err)
	}

	rec, err := s.records.Create(ctx, &models.Media{
		OwnerID:     userID,
		Target:      target,
		ContentType: contentType,
		SizeBytes:   size,
		Bucket:      s.objects.Bucket(),
		S3Key:       key,
	})
	if err != nil {
		s.discard(ctx, key, false)
		return "", fmt.Errorf("record %s: %w", target, err)
	}
	slog.Debug("media stored", "key", key, "size", rec.HumanSize())

	url := s.objects.FileURL(key)
	prev, err := s.users.SetImage(ctx, userID, target, url)
	if err != nil {
		s.discard(ctx, key, true)
		return "", fmt.Errorf("set %s: %w", target, err)
	}

	if prevKey, ok := s.objects.ExtractS3Key(prev); ok && prev != "" {
		s.discard(ctx, prevKey, true)
	}
	return url, nil
}

// discard deletes an object and optionally its record. Failures are
// logged only; the object is orphaned at worst.
func (s *Service) discard(ctx context.Context, key string, record bool) {
	if err := s.objects.Delete(ctx, key); err != nil {
		slog.Warn("media object delete failed", "key", key, "error", err)
	}
	if !record {
		return
	}
	if _, err := s.records.DeleteByKey(ctx, key); err != nil {
		slog.Warn("media record delete failed", "key", key, "error", err)
	}
}
