// Package layout renders the page shell shared by every page: head metadata,
// navbar, sidebar, table of contents and footer.
package layout

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"strings"
	"time"

	"github.com/fullstackmenu/stackdocs/internal/config"
	"github.com/fullstackmenu/stackdocs/internal/engine"
	derrors "github.com/fullstackmenu/stackdocs/internal/errors"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

// StaticPrefix is the URL path static assets are served from.
const StaticPrefix = "/_static/"

// Static returns the embedded stylesheet and scripts, rooted so that
// "style.css" maps to StaticPrefix+"style.css".
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// PageMapSource supplies the page map the sidebar is built from.
type PageMapSource interface {
	PageMap(ctx context.Context) (*engine.PageMap, error)
}

// Shell renders content inside the site chrome.
type Shell struct {
	source     PageMapSource
	site       config.SiteConfig
	now        func() time.Time
	latex      bool
	liveReload string
	tmpl       *template.Template
}

// Option configures a Shell.
type Option func(*Shell)

// WithClock sets the time source used for the footer year.
func WithClock(now func() time.Time) Option {
	return func(s *Shell) { s.now = now }
}

// WithLatex includes the KaTeX assets.
func WithLatex(enabled bool) Option {
	return func(s *Shell) { s.latex = enabled }
}

// WithLiveReload injects script into every page.
func WithLiveReload(script string) Option {
	return func(s *Shell) { s.liveReload = script }
}

// New creates a Shell.
func New(source PageMapSource, site config.SiteConfig, opts ...Option) *Shell {
	s := &Shell{
		source: source,
		site:   site,
		now:    time.Now,
		tmpl:   template.Must(template.New("shell.html").ParseFS(templateFS, "templates/*.html")),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Year is the copyright year the footer shows at this moment.
func (s *Shell) Year() int { return s.now().Year() }

// CollapseLevel is the sidebar collapse depth used by Render.
func (s *Shell) CollapseLevel() int { return DefaultMenuCollapseLevel }

// Title applies the title template to a page title.
func (s *Shell) Title(pageTitle string) string {
	if strings.TrimSpace(pageTitle) == "" {
		return s.site.DefaultTitle
	}
	if !strings.Contains(s.site.TitleTemplate, "%s") {
		return pageTitle
	}
	return strings.Replace(s.site.TitleTemplate, "%s", pageTitle, 1)
}

type shellData struct {
	Lang             string
	Dir              string
	Title            string
	Description      string
	ApplicationName  string
	Generator        string
	AppleWebAppTitle string
	Favicon          template.URL
	Logo             string
	ProjectLink      string
	Sidebar          []SidebarNode
	Content          Content
	LastUpdated      string
	Year             int
	Latex            bool
	LiveReload       template.JS
	Static           string
}

// Render writes a complete HTML document for c. Page map errors are returned
// unchanged so callers can classify them.
func (s *Shell) Render(ctx context.Context, w io.Writer, c Content) error {
	pm, err := s.source.PageMap(ctx)
	if err != nil {
		return err
	}

	data := shellData{
		Lang:             s.site.Lang,
		Dir:              s.site.Dir,
		Title:            s.Title(c.Title),
		Description:      c.Description,
		ApplicationName:  s.site.ApplicationName,
		Generator:        s.site.Generator,
		AppleWebAppTitle: s.site.AppleWebAppTitle,
		Favicon:          faviconURL(s.site.FaviconGlyph),
		Logo:             s.site.Logo,
		ProjectLink:      s.site.ProjectLink,
		Sidebar:          BuildSidebar(pm, c.Route, s.CollapseLevel()),
		Content:          c,
		Year:             s.Year(),
		Latex:            s.latex,
		LiveReload:       template.JS(s.liveReload), //nolint:gosec // fixed script
		Static:           StaticPrefix,
	}
	if !c.LastModified.IsZero() {
		data.LastUpdated = c.LastModified.Format("January 2, 2006")
	}

	var buf bytes.Buffer
	if err := s.tmpl.ExecuteTemplate(&buf, "shell.html", data); err != nil {
		return derrors.WrapError(err, derrors.CategoryRender, "failed to render page shell").
			WithContext("route", c.Route).Build()
	}
	_, err = w.Write(buf.Bytes())
	return err
}

func faviconURL(glyph string) template.URL {
	if glyph == "" {
		return ""
	}
	svg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 100"><text x="50" y=".9em" font-size="90" text-anchor="middle">%s</text></svg>`,
		template.HTMLEscapeString(glyph))
	return template.URL("data:image/svg+xml;utf8," + svg) //nolint:gosec // built from config glyph
}
