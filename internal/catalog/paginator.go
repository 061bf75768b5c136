// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package catalog

import "foliocraft/internal/models"

// DefaultPageSize is the number of templates shown per picker page.
const DefaultPageSize = 6

// Paginator partitions an ordered list of template identifiers into
// fixed-size pages and tracks the current page.
type Paginator struct {
	items    []models.TemplateID
	pageSize int
	current  int
}

// NewPaginator creates a paginator over items starting at page 0. A
// non-positive pageSize falls back to DefaultPageSize.
func NewPaginator(items []models.TemplateID, pageSize int) *Paginator {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	cp := make([]models.TemplateID, len(items))
	copy(cp, items)
	return &Paginator{items: cp, pageSize: pageSize}
}

// PageSize returns the configured page size.
func (p *Paginator) PageSize() int {
	return p.pageSize
}

// TotalPages returns ceil(len(items) / pageSize).
func (p *Paginator) TotalPages() int {
	return (len(p.items) + p.pageSize - 1) / p.pageSize
}

// Current returns the current page index.
func (p *Paginator) Current() int {
	return p.current
}

// Items returns the identifiers on the current page. A page outside
// [0, TotalPages) yields an empty slice.
func (p *Paginator) Items() []models.TemplateID {
	start := p.current * p.pageSize
	if p.current < 0 || start >= len(p.items) {
		return []models.TemplateID{}
	}
	end := min(start+p.pageSize, len(p.items))
	out := make([]models.TemplateID, end-start)
	copy(out, p.items[start:end])
	return out
}

// Next advances one page; it is a no-op on the last page.
func (p *Paginator) Next() {
	last := p.TotalPages() - 1
	if p.current+1 > last {
		p.current = max(last, 0)
		return
	}
	p.current++
}

// Prev goes back one page; it is a no-op on the first page.
func (p *Paginator) Prev() {
	p.current = max(0, p.current-1)
}

// SetPage jumps to page n without clamping. Out-of-range values are kept
// as-is; callers check InRange.
func (p *Paginator) SetPage(n int) {
	p.current = n
}

// InRange reports whether the current page satisfies 0 <= current < TotalPages.
func (p *Paginator) InRange() bool {
	return p.current >= 0 && p.current < p.TotalPages()
}
