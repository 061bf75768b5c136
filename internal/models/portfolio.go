// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// EphemeralID is the sentinel identity of a portfolio value built only for
// previewing. No persisted portfolio ever has this id.
const EphemeralID int64 = 0

// Portfolio is the value every template renderer consumes. Persisted
// portfolios come from the store with User and Projects joined in; preview
// portfolios are synthesized in memory with ID set to EphemeralID.
type Portfolio struct {
	ID                int64      `json:"id"`
	OwnerID           uuid.UUID  `json:"owner_id"`
	Template          TemplateID `json:"template"`
	Title             string     `json:"title,omitempty"`
	About             string     `json:"about,omitempty"`
	JobTitle          string     `json:"job_title,omitempty"`
	GithubURL         string     `json:"github_url,omitempty"`
	LinkedinURL       string     `json:"linkedin_url,omitempty"`
	WebsiteURL        string     `json:"website_url,omitempty"`
	CVDownloadURL     string     `json:"cv_download_url,omitempty"`
	YearsOfExperience *int       `json:"years_of_experience,omitempty"`
	Skills            []string   `json:"skills"`
	IsPublic          bool       `json:"is_public"`
	User              User       `json:"user"`
	Projects          []Project  `json:"projects"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// IsEphemeral reports whether the portfolio is a throwaway preview value.
func (p *Portfolio) IsEphemeral() bool {
	return p.ID == EphemeralID
}

// ProjectIDs returns the ids of the featured projects in display order.
func (p *Portfolio) ProjectIDs() []int64 {
	ids := make([]int64, 0, len(p.Projects))
	for _, pr := range p.Projects {
		ids = append(ids, pr.ID)
	}
	return ids
}
