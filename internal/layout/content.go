package layout

import (
	"html/template"
	"time"

	"github.com/fullstackmenu/stackdocs/internal/engine"
)

// Content is what a page slots into the shell's main region.
type Content struct {
	// Route is the active route, used to highlight and expand the sidebar.
	Route        string
	Title        string
	Description  string
	Body         template.HTML
	TOC          []engine.Heading
	LastModified time.Time
}

// FromPage converts a rendered engine page into shell content. The body is
// trusted: it comes from the markdown renderer.
func FromPage(p *engine.Page) Content {
	return Content{
		Route:        p.Route,
		Title:        p.Title,
		Description:  p.Description,
		Body:         template.HTML(p.Body), //nolint:gosec // rendered by goldmark
		TOC:          p.TOC,
		LastModified: p.LastModified,
	}
}

// NotFound is the content shown for routes nothing resolves.
func NotFound(route string) Content {
	return Content{
		Route: route,
		Title: "404: Page not found",
		Body:  template.HTML(`<div class="not-found"><h1>404</h1><p>Page not found</p><p><a href="/">Back to the menu</a></p></div>`),
	}
}
