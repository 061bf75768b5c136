// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package media

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foliocraft/internal/models"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

type fakeObjects struct {
	uploaded  map[string][]byte
	deleted   []string
	uploadErr error
}

func newFakeObjects() *fakeObjects {
	return &fakeObjects{uploaded: map[string][]byte{}}
}

func (f *fakeObjects) Upload(_ context.Context, key, _ string, body io.Reader, _ int64) error {
	if f.uploadErr != nil {
		return f.uploadErr
	}
	b, _ := io.ReadAll(body)
	f.uploaded[key] = b
	return nil
}

func (f *fakeObjects) Delete(_ context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeObjects) FileURL(key string) string { return "https://cdn.test/" + key }

func (f *fakeObjects) ExtractS3Key(raw string) (string, bool) {
	return strings.CutPrefix(raw, "https://cdn.test/")
}

func (f *fakeObjects) Bucket() string { return "test-bucket" }

type fakeRecorder struct {
	created []*models.Media
	deleted []string
	err     error
}

func (f *fakeRecorder) Create(_ context.Context, m *models.Media) (*models.Media, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = append(f.created, m)
	return m, nil
}

func (f *fakeRecorder) DeleteByKey(_ context.Context, key string) (*models.Media, error) {
	f.deleted = append(f.deleted, key)
	return &models.Media{S3Key: key}, nil
}

type fakeUsers struct {
	prev string
	set  string
	err  error
}

func (f *fakeUsers) SetImage(_ context.Context, _ uuid.UUID, _ models.MediaTarget, url string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.set = url
	return f.prev, nil
}

func TestDetectType(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		want    string
		wantExt string
		wantErr error
	}{
		{name: "png", data: pngHeader, want: "image/png", wantExt: ".png"},
		{name: "jpeg", data: []byte("\xff\xd8\xff\xe0\x00\x10JFIF"), want: "image/jpeg", wantExt: ".jpg"},
		{name: "gif", data: []byte("GIF89a\x01\x00"), want: "image/gif", wantExt: ".gif"},
		{name: "text", data: []byte("hello world"), wantErr: ErrUnsupportedType},
		{name: "empty", data: nil, wantErr: ErrEmptyFile},
		{name: "too large", data: make([]byte, MaxUploadSize+1), wantErr: ErrFileTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ct, ext, err := DetectType(tt.data)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, ct)
			assert.Equal(t, tt.wantExt, ext)
		})
	}
}

func TestServiceUploadReplacesPrevious(t *testing.T) {
	objects := newFakeObjects()
	records := &fakeRecorder{}
	users := &fakeUsers{prev: "https://cdn.test/users/x/avatar/old.png"}
	svc := NewService(objects, records, users)
	userID := uuid.New()

	url, err := svc.Upload(context.Background(), userID, models.MediaTargetAvatar, File{Name: "me.png", Data: pngHeader})
	require.NoError(t, err)

	require.Len(t, records.created, 1)
	key := records.created[0].S3Key
	assert.True(t, strings.HasPrefix(key, "users/"+userID.String()+"/avatar/"))
	assert.True(t, strings.HasSuffix(key, ".png"))
	assert.Equal(t, "test-bucket", records.created[0].Bucket)
	assert.Equal(t, "image/png", records.created[0].ContentType)
	assert.True(t, bytes.Equal(pngHeader, objects.uploaded[key]))

	assert.Equal(t, "https://cdn.test/"+key, url)
	assert.Equal(t, url, users.set)
	assert.Equal(t, []string{"users/x/avatar/old.png"}, objects.deleted)
	assert.Equal(t, []string{"users/x/avatar/old.png"}, records.deleted)
}

func TestServiceUploadExternalPreviousKept(t *testing.T) {
	objects := newFakeObjects()
	users := &fakeUsers{prev: "https://gravatar.example/me.png"}
	svc := NewService(objects, &fakeRecorder{}, users)

	_, err := svc.Upload(context.Background(), uuid.New(), models.MediaTargetBanner, File{Data: pngHeader})
	require.NoError(t, err)
	assert.Empty(t, objects.deleted)
}

func TestServiceUploadRejects(t *testing.T) {
	objects := newFakeObjects()
	svc := NewService(objects, &fakeRecorder{}, &fakeUsers{})

	_, err := svc.Upload(context.Background(), uuid.New(), "cover", File{Data: pngHeader})
	assert.ErrorIs(t, err, ErrInvalidTarget)

	_, err = svc.Upload(context.Background(), uuid.New(), models.MediaTargetAvatar, File{Data: []byte("not an image")})
	assert.ErrorIs(t, err, ErrUnsupportedType)
	assert.Empty(t, objects.uploaded)
}

func TestServiceUploadStorageError(t *testing.T) {
	objects := newFakeObjects()
	objects.uploadErr = errors.New("connection reset")
	records := &fakeRecorder{}
	svc := NewService(objects, records, &fakeUsers{})

	_, err := svc.Upload(context.Background(), uuid.New(), models.MediaTargetAvatar, File{Data: pngHeader})
	assert.ErrorContains(t, err, "connection reset")
	assert.Empty(t, records.created)
}

func TestServiceUploadCleansUpOnRecordFailure(t *testing.T) {
	objects := newFakeObjects()
	records := &fakeRecorder{err: errors.New("db down")}
	svc := NewService(objects, records, &fakeUsers{})

	_, err := svc.Upload(context.Background(), uuid.New(), models.MediaTargetAvatar, File{Data: pngHeader})
	require.Error(t, err)
	require.Len(t, objects.deleted, 1)
	assert.Empty(t, records.deleted)
}

func TestServiceUploadCleansUpOnSetImageFailure(t *testing.T) {
	objects := newFakeObjects()
	records := &fakeRecorder{}
	svc := NewService(objects, records, &fakeUsers{err: errors.New("no such user")})

	_, err := svc.Upload(context.Background(), uuid.New(), models.MediaTargetAvatar, File{Data: pngHeader})
	require.Error(t, err)
	require.Len(t, records.created, 1)
	key := records.created[0].S3Key
	assert.Equal(t, []string{key}, objects.deleted)
	assert.Equal(t, []string{key}, records.deleted)
}

func TestServiceAsWorkflowUploader(t *testing.T) {
	objects := newFakeObjects()
	svc := NewService(objects, &fakeRecorder{}, &fakeUsers{})
	dec := func(data []byte) (string, error) { return "data:local", nil }

	wf := NewWorkflow(uuid.New(), models.MediaTargetAvatar, "", svc, dec)
	done, err := wf.Select(File{Name: "me.png", Data: pngHeader})
	require.NoError(t, err)
	wait(t, done)

	ch, err := wf.Confirm(context.Background())
	require.NoError(t, err)
	require.NoError(t, result(t, ch))
	assert.Equal(t, StateCommitted, wf.State())
	assert.True(t, strings.HasPrefix(wf.Displayed(), "https://cdn.test/users/"))
}
