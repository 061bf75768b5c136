// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package engine

import (
	"html/template"
	"log/slog"
	"sync"

	"foliocraft/internal/models"
)

// templateCache is a concurrency-safe in-memory (L1) cache of compiled
// renderers keyed by template identifier.
type templateCache struct {
	mu      sync.RWMutex
	entries map[models.TemplateID]*template.Template
}

func newTemplateCache() *templateCache {
	return &templateCache{
		entries: make(map[models.TemplateID]*template.Template),
	}
}

// get retrieves a compiled template. Returns nil on miss.
func (c *templateCache) get(id models.TemplateID) *template.Template {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.entries[id]
}

func (c *templateCache) put(id models.TemplateID, tmpl *template.Template) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[id] = tmpl
	slog.Debug("template cached", "template", id, "size", len(c.entries))
}

func (c *templateCache) size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// invalidateAll clears the entire cache.
func (c *templateCache) invalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[models.TemplateID]*template.Template)
	slog.Debug("template cache fully cleared")
}
