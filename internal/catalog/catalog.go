// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package catalog exposes the fixed, ordered list of portfolio templates
// together with their picker metadata, and partitions it into pages.
package catalog

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"foliocraft/internal/models"
)

//go:embed templates.yaml
var metadataYAML []byte

// Info is the picker metadata shown next to a template identifier.
type Info struct {
	ID          models.TemplateID `yaml:"-" json:"id"`
	Label       string            `yaml:"label" json:"label"`
	Description string            `yaml:"description" json:"description"`
	Accent      string            `yaml:"accent" json:"accent"`
}

// metadata is parsed once at init from the embedded YAML file.
var metadata map[models.TemplateID]Info

func init() {
	m, err := parseMetadata(metadataYAML)
	if err != nil {
		panic(err)
	}
	metadata = m
}

// parseMetadata decodes the YAML document keyed by template identifier.
func parseMetadata(data []byte) (map[models.TemplateID]Info, error) {
	raw := make(map[string]Info)
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("catalog: parse metadata: %w", err)
	}
	out := make(map[models.TemplateID]Info, len(raw))
	for k, v := range raw {
		id := models.TemplateID(k)
		if !id.Valid() {
			return nil, fmt.Errorf("catalog: metadata for unknown template %q", k)
		}
		v.ID = id
		out[id] = v
	}
	return out, nil
}

// All returns every template identifier in catalog order.
func All() []models.TemplateID {
	return models.TemplateIDs()
}

// Lookup returns the picker metadata for id. Identifiers without an entry
// get a label equal to the identifier itself.
func Lookup(id models.TemplateID) Info {
	if info, ok := metadata[id]; ok {
		return info
	}
	return Info{ID: id, Label: string(id)}
}

// Describe returns metadata for a list of identifiers, preserving order.
func Describe(ids []models.TemplateID) []Info {
	out := make([]Info, 0, len(ids))
	for _, id := range ids {
		out = append(out, Lookup(id))
	}
	return out
}
