// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package draft

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"foliocraft/internal/models"
)

// Request is the persistence payload derived from a draft. Empty optional
// fields are nil so they are omitted rather than sent as blanks.
type Request struct {
	Template          models.TemplateID `json:"template" validate:"required,template"`
	Title             *string           `json:"title,omitempty"`
	About             *string           `json:"about,omitempty"`
	JobTitle          *string           `json:"jobTitle,omitempty"`
	GithubURL         *string           `json:"githubUrl,omitempty"`
	LinkedinURL       *string           `json:"linkedinUrl,omitempty"`
	WebsiteURL        *string           `json:"websiteUrl,omitempty"`
	CVDownloadURL     *string           `json:"cvDownloadUrl,omitempty"`
	YearsOfExperience *int              `json:"yearsOfExperience,omitempty" validate:"omitempty,gte=0"`
	Skills            []string          `json:"skills,omitempty" validate:"dive,required"`
	ProjectIDs        []int64           `json:"projectIds,omitempty" validate:"dive,gt=0"`
	IsPublic          bool              `json:"isPublic"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("template", func(fl validator.FieldLevel) bool {
		return models.TemplateID(fl.Field().String()).Valid()
	})
	return v
}

// Validate checks the payload shape before it is sent.
func (r *Request) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("invalid portfolio request: %w", err)
	}
	return nil
}

// newRequest maps the draft to a payload. Selected project ids become
// project references in collection order.
func newRequest(d *Draft, projects []models.Project) *Request {
	req := &Request{
		Template:      d.SelectedTemplate,
		Title:         optional(d.Title),
		About:         optional(d.About),
		JobTitle:      optional(d.JobTitle),
		GithubURL:     optional(d.GithubURL),
		LinkedinURL:   optional(d.LinkedinURL),
		WebsiteURL:    optional(d.WebsiteURL),
		CVDownloadURL: optional(d.CVDownloadURL),
		IsPublic:      d.IsPublic,
	}
	if d.YearsOfExperience != nil && *d.YearsOfExperience != 0 {
		y := *d.YearsOfExperience
		req.YearsOfExperience = &y
	}
	if len(d.Skills) > 0 {
		req.Skills = append([]string(nil), d.Skills...)
	}
	for _, p := range projects {
		if d.IsSelected(p.ID) {
			req.ProjectIDs = append(req.ProjectIDs, p.ID)
		}
	}
	return req
}

// optional returns nil for an empty string.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Apply copies the payload onto a portfolio value. Omitted fields are
// cleared, so an update fully replaces the stored record.
func (r *Request) Apply(p *models.Portfolio) {
	p.Template = r.Template
	p.Title = deref(r.Title)
	p.About = deref(r.About)
	p.JobTitle = deref(r.JobTitle)
	p.GithubURL = deref(r.GithubURL)
	p.LinkedinURL = deref(r.LinkedinURL)
	p.WebsiteURL = deref(r.WebsiteURL)
	p.CVDownloadURL = deref(r.CVDownloadURL)
	p.YearsOfExperience = nil
	if r.YearsOfExperience != nil {
		y := *r.YearsOfExperience
		p.YearsOfExperience = &y
	}
	p.Skills = append([]string{}, r.Skills...)
	p.IsPublic = r.IsPublic
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
