// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"foliocraft/internal/models"
)

// MediaStore records uploaded avatar and banner objects.
type MediaStore struct {
	db *sql.DB
}

// NewMediaStore creates a new MediaStore with the given database connection.
func NewMediaStore(db *sql.DB) *MediaStore {
	return &MediaStore{db: db}
}

// mediaColumns lists the columns selected in media queries.
const mediaColumns = `id, owner_id, target, content_type, size_bytes, bucket, s3_key, created_at`

func scanMedia(s scanner) (*models.Media, error) {
	var (
		m      models.Media
		target string
	)
	err := s.Scan(&m.ID, &m.OwnerID, &target, &m.ContentType, &m.SizeBytes,
		&m.Bucket, &m.S3Key, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	m.Target = models.MediaTarget(target)
	return &m, nil
}

// Create inserts a new media record and returns it with the generated ID.
func (s *MediaStore) Create(ctx context.Context, m *models.Media) (*models.Media, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO media (owner_id, target, content_type, size_bytes, bucket, s3_key)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+mediaColumns,
		m.OwnerID, string(m.Target), m.ContentType, m.SizeBytes, m.Bucket, m.S3Key,
	)
	created, err := scanMedia(row)
	if err != nil {
		return nil, fmt.Errorf("create media: %w", err)
	}
	return created, nil
}

// DeleteByKey removes the record for an object key and returns it.
// Returns nil if no record matches.
func (s *MediaStore) DeleteByKey(ctx context.Context, key string) (*models.Media, error) {
	row := s.db.QueryRowContext(ctx, `
		DELETE FROM media WHERE s3_key = $1
		RETURNING `+mediaColumns, key)
	m, err := scanMedia(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("delete media: %w", err)
	}
	return m, nil
}
