// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the data structures that map to database tables
// and provides the core types used throughout the application.
package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// User is the authenticated identity a portfolio belongs to. Avatar and
// banner point at objects in the public bucket once uploaded.
type User struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	AvatarURL *string   `json:"avatar_url,omitempty"`
	BannerURL *string   `json:"banner_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FullName joins first and last name, skipping empty parts.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Initials returns up to two upper-case initials for avatar placeholders.
func (u *User) Initials() string {
	var b strings.Builder
	for _, part := range []string{u.FirstName, u.LastName} {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		b.WriteString(strings.ToUpper(string([]rune(part)[0])))
	}
	return b.String()
}

// ImageURL returns the current URL for the given media target, or "" when
// none has been uploaded yet.
func (u *User) ImageURL(target MediaTarget) string {
	var p *string
	switch target {
	case MediaTargetAvatar:
		p = u.AvatarURL
	case MediaTargetBanner:
		p = u.BannerURL
	}
	if p == nil {
		return ""
	}
	return *p
}
