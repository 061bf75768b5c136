// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package engine dispatches a portfolio to the renderer registered for its
// template identifier and produces the finished HTML. Every renderer is an
// embedded html/template file compiled on first use and kept in an L1 cache.
// Unknown identifiers, compile failures and execution failures all produce
// the same fallback fragment, so a broken template never takes the page
// down with it.
package engine

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"strings"
	"time"

	"foliocraft/internal/markdown"
	"foliocraft/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

// fallbackTmpl is rendered whenever no renderer can produce output.
var fallbackTmpl = template.Must(template.New("fallback").Parse(
	`<div class="template-fallback" data-template="{{.}}"><p>Template not found: {{.}}</p></div>`,
))

// ProjectView is a project as exposed to renderers.
type ProjectView struct {
	Title       string
	Description string
	Tags        []string
	RepoURL     string
	DemoURL     string
	Year        int
}

// View holds every variable a renderer can reference, e.g. {{.Name}}.
type View struct {
	Template      models.TemplateID
	Name          string
	Initials      string
	Email         string
	AvatarURL     string
	BannerURL     string
	Title         string
	JobTitle      string
	About         template.HTML
	GithubURL     string
	LinkedinURL   string
	WebsiteURL    string
	CVDownloadURL string
	Years         int
	HasYears      bool
	Skills        []string
	Projects      []ProjectView
	IsPreview     bool
	Year          int
}

// Lead is the first project, used by layouts that feature one piece.
func (v View) Lead() *ProjectView {
	if len(v.Projects) == 0 {
		return nil
	}
	return &v.Projects[0]
}

// Rest is every project after Lead.
func (v View) Rest() []ProjectView {
	if len(v.Projects) < 2 {
		return nil
	}
	return v.Projects[1:]
}

// Engine renders portfolios with the embedded template set.
type Engine struct {
	cache *templateCache
	now   func() time.Time
}

// New creates a rendering engine with an empty L1 cache.
func New() *Engine {
	return &Engine{
		cache: newTemplateCache(),
		now:   time.Now,
	}
}

// rendererFile maps a template identifier to its renderer. The switch is
// closed over the known identifiers; anything else reports false.
func rendererFile(id models.TemplateID) (string, bool) {
	switch id {
	case models.TemplateModern:
		return "modern.html", true
	case models.TemplateMinimal:
		return "minimal.html", true
	case models.TemplateClassic:
		return "classic.html", true
	case models.TemplateCreative:
		return "creative.html", true
	case models.TemplateDeveloper:
		return "developer.html", true
	case models.TemplateTerminal:
		return "terminal.html", true
	case models.TemplateElegant:
		return "elegant.html", true
	case models.TemplateBold:
		return "bold.html", true
	case models.TemplateGradient:
		return "gradient.html", true
	case models.TemplateGlassmorphism:
		return "glassmorphism.html", true
	case models.TemplateNeon:
		return "neon.html", true
	case models.TemplateRetro:
		return "retro.html", true
	case models.TemplateMagazine:
		return "magazine.html", true
	case models.TemplateTimeline:
		return "timeline.html", true
	case models.TemplateCards:
		return "cards.html", true
	case models.TemplateSplit:
		return "split.html", true
	case models.TemplateDark:
		return "dark.html", true
	default:
		return "", false
	}
}

// Render produces the HTML for p using the renderer registered for
// p.Template. It never fails: an unknown identifier or a renderer error
// yields the fallback fragment instead.
func (e *Engine) Render(p *models.Portfolio, isPreview bool) []byte {
	if p == nil {
		return e.fallback("")
	}

	file, ok := rendererFile(p.Template)
	if !ok {
		slog.Warn("no renderer for template", "template", p.Template)
		return e.fallback(p.Template)
	}

	out, err := e.execute(p.Template, file, e.view(p, isPreview))
	if err != nil {
		slog.Error("template render failed", "template", p.Template, "error", err)
		return e.fallback(p.Template)
	}
	return out
}

// RenderPublished renders a saved portfolio for its public page.
func (e *Engine) RenderPublished(p *models.Portfolio) []byte {
	return e.Render(p, false)
}

// Exhaustive returns the catalog identifiers that have no working renderer.
// An empty result means every identifier dispatches to a compiled template.
func (e *Engine) Exhaustive() []models.TemplateID {
	var missing []models.TemplateID
	for _, id := range models.TemplateIDs() {
		file, ok := rendererFile(id)
		if !ok {
			missing = append(missing, id)
			continue
		}
		if _, err := e.compile(id, file); err != nil {
			slog.Error("renderer does not compile", "template", id, "error", err)
			missing = append(missing, id)
		}
	}
	return missing
}

// InvalidateAll clears the compiled-template cache.
func (e *Engine) InvalidateAll() {
	e.cache.invalidateAll()
}

// execute runs a renderer, converting a panic inside template execution
// into an error.
func (e *Engine) execute(id models.TemplateID, file string, v View) (out []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, fmt.Errorf("renderer panic: %v", r)
		}
	}()

	tmpl, err := e.compile(id, file)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, v); err != nil {
		return nil, fmt.Errorf("execute template: %w", err)
	}
	return buf.Bytes(), nil
}

// compile returns the cached template for id, parsing it on a miss.
func (e *Engine) compile(id models.TemplateID, file string) (*template.Template, error) {
	if tmpl := e.cache.get(id); tmpl != nil {
		return tmpl, nil
	}

	tmpl, err := template.New(file).Funcs(funcMap).ParseFS(templateFS, "templates/"+file)
	if err != nil {
		return nil, fmt.Errorf("compile template %s: %w", id, err)
	}
	e.cache.put(id, tmpl)
	return tmpl, nil
}

func (e *Engine) fallback(id models.TemplateID) []byte {
	var buf bytes.Buffer
	if err := fallbackTmpl.Execute(&buf, string(id)); err != nil {
		return []byte(`<div class="template-fallback"><p>Template not found</p></div>`)
	}
	return buf.Bytes()
}

// view flattens a portfolio into the variables renderers consume.
func (e *Engine) view(p *models.Portfolio, isPreview bool) View {
	v := View{
		Template:      p.Template,
		Name:          p.User.FullName(),
		Initials:      p.User.Initials(),
		Email:         p.User.Email,
		AvatarURL:     p.User.ImageURL(models.MediaTargetAvatar),
		BannerURL:     p.User.ImageURL(models.MediaTargetBanner),
		Title:         p.Title,
		JobTitle:      p.JobTitle,
		GithubURL:     p.GithubURL,
		LinkedinURL:   p.LinkedinURL,
		WebsiteURL:    p.WebsiteURL,
		CVDownloadURL: p.CVDownloadURL,
		Skills:        p.Skills,
		IsPreview:     isPreview,
		Year:          e.now().Year(),
	}

	if p.YearsOfExperience != nil {
		v.Years = *p.YearsOfExperience
		v.HasYears = true
	}

	about, err := markdown.ToHTML(p.About)
	if err != nil {
		slog.Warn("about markdown conversion failed, escaping as text", "error", err)
		about = template.HTMLEscapeString(p.About)
	}
	v.About = template.HTML(about)

	v.Projects = make([]ProjectView, 0, len(p.Projects))
	for _, pr := range p.Projects {
		pv := ProjectView{
			Title:       pr.Title,
			Description: pr.Description,
			Tags:        pr.Tags,
			Year:        pr.CreatedAt.Year(),
		}
		if pr.RepoURL != nil {
			pv.RepoURL = *pr.RepoURL
		}
		if pr.DemoURL != nil {
			pv.DemoURL = *pr.DemoURL
		}
		v.Projects = append(v.Projects, pv)
	}
	return v
}

var funcMap = template.FuncMap{
	"join": strings.Join,
}
