// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MediaTarget names the user image a media upload replaces.
type MediaTarget string

const (
	MediaTargetAvatar MediaTarget = "avatar"
	MediaTargetBanner MediaTarget = "banner"
)

// Valid reports whether t is a known upload target.
func (t MediaTarget) Valid() bool {
	return t == MediaTargetAvatar || t == MediaTargetBanner
}

// Media represents a committed avatar or banner upload. Metadata is stored
// in PostgreSQL; the file itself lives in the bucket.
type Media struct {
	ID          uuid.UUID   `json:"id"`
	OwnerID     uuid.UUID   `json:"owner_id"`
	Target      MediaTarget `json:"target"`
	ContentType string      `json:"content_type"`
	SizeBytes   int64       `json:"size_bytes"`
	Bucket      string      `json:"bucket"`
	S3Key       string      `json:"s3_key"`
	CreatedAt   time.Time   `json:"created_at"`
}

// HumanSize formats the upload size for logs.
func (m *Media) HumanSize() string {
	const (
		kb = 1024
		mb = 1024 * kb
	)
	switch {
	case m.SizeBytes >= mb:
		return fmt.Sprintf("%.1f MB", float64(m.SizeBytes)/float64(mb))
	case m.SizeBytes >= kb:
		return fmt.Sprintf("%.0f KB", float64(m.SizeBytes)/float64(kb))
	default:
		return fmt.Sprintf("%d B", m.SizeBytes)
	}
}
