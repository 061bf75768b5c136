// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package preview builds throwaway portfolio values from an in-progress
// draft so a template can be rendered before anything is saved.
package preview

import (
	"slices"

	"foliocraft/internal/draft"
	"foliocraft/internal/models"
)

// MaxProjects caps how many of the user's projects a preview shows.
const MaxProjects = 6

// Synthesize combines the current user, the live draft and the first
// MaxProjects of the user's projects into an ephemeral portfolio with the
// sentinel id. The project prefix ignores the draft's project selection.
// Returns nil when there is no current user.
func Synthesize(user *models.User, d draft.Draft, projects []models.Project) *models.Portfolio {
	if user == nil {
		return nil
	}

	tmpl := d.PreviewTemplate
	if tmpl == "" {
		tmpl = d.SelectedTemplate
	}

	p := &models.Portfolio{
		ID:            models.EphemeralID,
		OwnerID:       user.ID,
		Template:      tmpl,
		Title:         d.Title,
		About:         d.About,
		JobTitle:      d.JobTitle,
		GithubURL:     d.GithubURL,
		LinkedinURL:   d.LinkedinURL,
		WebsiteURL:    d.WebsiteURL,
		CVDownloadURL: d.CVDownloadURL,
		Skills:        slices.Clone(d.Skills),
		IsPublic:      d.IsPublic,
		User:          *user,
		Projects:      slices.Clone(projects[:min(MaxProjects, len(projects))]),
	}
	if p.Skills == nil {
		p.Skills = []string{}
	}
	if p.Projects == nil {
		p.Projects = []models.Project{}
	}
	if d.YearsOfExperience != nil {
		y := *d.YearsOfExperience
		p.YearsOfExperience = &y
	}
	return p
}
