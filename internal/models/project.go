// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Project is one entry of a user's own project collection. Portfolios
// feature a subset of these.
type Project struct {
	ID          int64     `json:"id"`
	OwnerID     uuid.UUID `json:"owner_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Tags        []string  `json:"tags"`
	RepoURL     *string   `json:"repo_url,omitempty"`
	DemoURL     *string   `json:"demo_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
