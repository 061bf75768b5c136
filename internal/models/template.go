// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// TemplateID names one of the visual presentation variants a portfolio can
// be rendered with. The set is closed: every identifier below has exactly
// one renderer in the engine package.
type TemplateID string

const (
	TemplateModern        TemplateID = "modern"
	TemplateMinimal       TemplateID = "minimal"
	TemplateClassic       TemplateID = "classic"
	TemplateCreative      TemplateID = "creative"
	TemplateDeveloper     TemplateID = "developer"
	TemplateTerminal      TemplateID = "terminal"
	TemplateElegant       TemplateID = "elegant"
	TemplateBold          TemplateID = "bold"
	TemplateGradient      TemplateID = "gradient"
	TemplateGlassmorphism TemplateID = "glassmorphism"
	TemplateNeon          TemplateID = "neon"
	TemplateRetro         TemplateID = "retro"
	TemplateMagazine      TemplateID = "magazine"
	TemplateTimeline      TemplateID = "timeline"
	TemplateCards         TemplateID = "cards"
	TemplateSplit         TemplateID = "split"
	TemplateDark          TemplateID = "dark"
)

// templateOrder is the catalog order shown to users.
var templateOrder = []TemplateID{
	TemplateModern,
	TemplateMinimal,
	TemplateClassic,
	TemplateCreative,
	TemplateDeveloper,
	TemplateTerminal,
	TemplateElegant,
	TemplateBold,
	TemplateGradient,
	TemplateGlassmorphism,
	TemplateNeon,
	TemplateRetro,
	TemplateMagazine,
	TemplateTimeline,
	TemplateCards,
	TemplateSplit,
	TemplateDark,
}

// TemplateIDs returns all template identifiers in catalog order. The
// returned slice is a copy and may be modified by the caller.
func TemplateIDs() []TemplateID {
	out := make([]TemplateID, len(templateOrder))
	copy(out, templateOrder)
	return out
}

// Valid reports whether id is one of the enumerated template identifiers.
func (id TemplateID) Valid() bool {
	for _, t := range templateOrder {
		if t == id {
			return true
		}
	}
	return false
}
