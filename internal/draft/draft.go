// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package draft holds the in-memory portfolio authoring record and the
// manager that mutates it. A draft is never persisted: only the request
// built from it on submit leaves the process.
package draft

import (
	"maps"
	"slices"

	"foliocraft/internal/models"
)

// Mode distinguishes creating a new portfolio from editing a persisted one.
type Mode string

const (
	ModeCreate Mode = "create"
	ModeEdit   Mode = "edit"
)

// Draft is the mutable authoring record. Skills never hold two entries
// that are equal after trimming, and SelectedProjectIDs only ever holds ids
// from the owner's own project collection.
type Draft struct {
	SelectedTemplate   models.TemplateID  `json:"selectedTemplate"`
	Title              string             `json:"title"`
	About              string             `json:"about"`
	JobTitle           string             `json:"jobTitle"`
	GithubURL          string             `json:"githubUrl"`
	LinkedinURL        string             `json:"linkedinUrl"`
	WebsiteURL         string             `json:"websiteUrl"`
	CVDownloadURL      string             `json:"cvDownloadUrl"`
	YearsOfExperience  *int               `json:"yearsOfExperience"`
	Skills             []string           `json:"skills"`
	PendingSkill       string             `json:"pendingSkill"`
	SelectedProjectIDs map[int64]struct{} `json:"-"`
	IsPublic           bool               `json:"isPublic"`
	CurrentPage        int                `json:"currentPage"`
	PreviewTemplate    models.TemplateID  `json:"previewTemplate,omitempty"`
	IsSubmitting       bool               `json:"isSubmitting"`
	SubmitErr          string             `json:"submitError,omitempty"`
}

// New returns an empty draft with the defaults a new portfolio starts from.
func New() Draft {
	return Draft{
		Skills:             []string{},
		SelectedProjectIDs: make(map[int64]struct{}),
		IsPublic:           true,
	}
}

// ProjectIDs returns the selected project ids in ascending order, never nil.
func (d *Draft) ProjectIDs() []int64 {
	if len(d.SelectedProjectIDs) == 0 {
		return []int64{}
	}
	return slices.Sorted(maps.Keys(d.SelectedProjectIDs))
}

// IsSelected reports whether project id is part of the selection.
func (d *Draft) IsSelected(id int64) bool {
	_, ok := d.SelectedProjectIDs[id]
	return ok
}

// clone returns a deep copy so callers cannot reach the manager's state.
func (d *Draft) clone() Draft {
	cp := *d
	cp.Skills = slices.Clone(d.Skills)
	if cp.Skills == nil {
		cp.Skills = []string{}
	}
	cp.SelectedProjectIDs = maps.Clone(d.SelectedProjectIDs)
	if cp.SelectedProjectIDs == nil {
		cp.SelectedProjectIDs = make(map[int64]struct{})
	}
	if d.YearsOfExperience != nil {
		y := *d.YearsOfExperience
		cp.YearsOfExperience = &y
	}
	return cp
}

// seedFrom builds a draft from a persisted portfolio for edit mode.
func seedFrom(p *models.Portfolio) Draft {
	d := New()
	d.SelectedTemplate = p.Template
	d.Title = p.Title
	d.About = p.About
	d.JobTitle = p.JobTitle
	d.GithubURL = p.GithubURL
	d.LinkedinURL = p.LinkedinURL
	d.WebsiteURL = p.WebsiteURL
	d.CVDownloadURL = p.CVDownloadURL
	if p.YearsOfExperience != nil {
		y := *p.YearsOfExperience
		d.YearsOfExperience = &y
	}
	d.Skills = append(d.Skills, p.Skills...)
	for _, pr := range p.Projects {
		d.SelectedProjectIDs[pr.ID] = struct{}{}
	}
	d.IsPublic = p.IsPublic
	return d
}
