// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"foliocraft/internal/models"
)

// ProjectStore reads the owner's project collection.
type ProjectStore struct {
	db *sql.DB
}

// NewProjectStore creates a new ProjectStore with the given database connection.
func NewProjectStore(db *sql.DB) *ProjectStore {
	return &ProjectStore{db: db}
}

const projectColumns = `id, owner_id, title, description, tags, repo_url, demo_url, created_at`

func scanProject(s scanner) (*models.Project, error) {
	var (
		p    models.Project
		tags stringList
	)
	err := s.Scan(&p.ID, &p.OwnerID, &p.Title, &p.Description, &tags,
		&p.RepoURL, &p.DemoURL, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	p.Tags = tags
	return &p, nil
}

// ListByOwner returns every project of the owner, newest first. This is
// the collection order used for selection and payload project ids.
func (s *ProjectStore) ListByOwner(ctx context.Context, owner uuid.UUID) ([]models.Project, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+projectColumns+`
		FROM projects
		WHERE owner_id = $1
		ORDER BY created_at DESC, id DESC
	`, owner)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	items := []models.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		items = append(items, *p)
	}
	return items, rows.Err()
}
