// Package site renders the three kinds of HTML document the site serves:
// the category index, content pages and the not-found page.
package site

import (
	"context"
	"io"

	"github.com/fullstackmenu/stackdocs/internal/category"
	"github.com/fullstackmenu/stackdocs/internal/engine"
	"github.com/fullstackmenu/stackdocs/internal/layout"
)

// Source resolves routes to rendered pages and supplies the page map.
type Source interface {
	layout.PageMapSource
	Resolve(ctx context.Context, route string) (*engine.Page, error)
}

// Renderer combines a content source with the page shell.
type Renderer struct {
	source     Source
	shell      *layout.Shell
	categories []category.Category
}

// New creates a Renderer listing the built-in categories on the index page.
func New(source Source, shell *layout.Shell) *Renderer {
	return &Renderer{source: source, shell: shell, categories: category.Categories()}
}

// Categories returns the categories shown on the index page.
func (r *Renderer) Categories() []category.Category { return r.categories }

// Year is the footer year of documents rendered now.
func (r *Renderer) Year() int { return r.shell.Year() }

// Index writes the category index page.
func (r *Renderer) Index(ctx context.Context, w io.Writer) error {
	content, err := category.IndexPage(r.categories)
	if err != nil {
		return err
	}
	return r.shell.Render(ctx, w, content)
}

// Page resolves route and writes it inside the shell. Nothing is written
// when resolving fails, so callers can fall back to NotFound.
func (r *Renderer) Page(ctx context.Context, w io.Writer, route string) (*engine.Page, error) {
	page, err := r.source.Resolve(ctx, route)
	if err != nil {
		return nil, err
	}
	if err := r.shell.Render(ctx, w, layout.FromPage(page)); err != nil {
		return nil, err
	}
	return page, nil
}

// NotFound writes the not-found page for route.
func (r *Renderer) NotFound(ctx context.Context, w io.Writer, route string) error {
	return r.shell.Render(ctx, w, layout.NotFound(route))
}
