// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"foliocraft/internal/models"
)

// UserStore handles user lookups and image pointer updates. Accounts
// themselves are managed by the identity service.
type UserStore struct {
	db *sql.DB
}

// NewUserStore creates a new UserStore with the given database connection.
func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

const userColumns = `id, first_name, last_name, email, avatar_url, banner_url, created_at, updated_at`

func scanUser(s scanner) (*models.User, error) {
	var u models.User
	err := s.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email,
		&u.AvatarURL, &u.BannerURL, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// FindByID retrieves a user by their UUID. Returns nil if not found.
func (s *UserStore) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return u, nil
}

// FindByEmail retrieves a user by their email address. Returns nil if not found.
func (s *UserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return u, nil
}

// imageColumn maps a media target to its users column.
func imageColumn(target models.MediaTarget) (string, error) {
	switch target {
	case models.MediaTargetAvatar:
		return "avatar_url", nil
	case models.MediaTargetBanner:
		return "banner_url", nil
	default:
		return "", fmt.Errorf("unknown media target %q", target)
	}
}

// SetImage points the user's avatar or banner at url and returns the
// previous URL ("" when none was set).
func (s *UserStore) SetImage(ctx context.Context, id uuid.UUID, target models.MediaTarget, url string) (string, error) {
	col, err := imageColumn(target)
	if err != nil {
		return "", err
	}

	var prev sql.NullString
	err = s.db.QueryRowContext(ctx, `
		UPDATE users u SET `+col+` = $2, updated_at = now()
		FROM (SELECT id, `+col+` AS old FROM users WHERE id = $1 FOR UPDATE) p
		WHERE u.id = p.id
		RETURNING p.old
	`, id, url).Scan(&prev)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("set %s: user %s: %w", target, id, ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("set %s: %w", target, err)
	}
	return prev.String, nil
}
