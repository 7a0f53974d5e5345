// Package export writes the whole site to a directory as static files.
package export

import (
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/fullstackmenu/stackdocs/internal/config"
	"github.com/fullstackmenu/stackdocs/internal/engine"
	derrors "github.com/fullstackmenu/stackdocs/internal/errors"
	"github.com/fullstackmenu/stackdocs/internal/layout"
	"github.com/fullstackmenu/stackdocs/internal/logfields"
	"github.com/fullstackmenu/stackdocs/internal/metrics"
	"github.com/fullstackmenu/stackdocs/internal/observability"
	"github.com/fullstackmenu/stackdocs/internal/site"
	"github.com/fullstackmenu/stackdocs/internal/version"
)

// Content is what export needs from the documentation engine.
type Content interface {
	site.Source
	SearchIndex(ctx context.Context) ([]engine.SearchDocument, error)
	ContentDir() string
}

// Options configures an export run.
type Options struct {
	OutputDir string
	Clean     bool
	// BaseURL prefixes sitemap locations. Relative locations are written when empty.
	BaseURL     string
	Concurrency int
	Engine      config.EngineOptions
}

// Result summarizes a finished export.
type Result struct {
	BuildID   string
	OutputDir string
	Pages     int
	Duration  time.Duration
}

// Manifest is written to manifest.json.
type Manifest struct {
	BuildID     string               `json:"build_id"`
	GeneratedAt time.Time            `json:"generated_at"`
	Version     string               `json:"version"`
	Engine      config.EngineOptions `json:"engine"`
	Routes      []string             `json:"routes"`
}

// Exporter renders every route through the same renderer the server uses.
type Exporter struct {
	content  Content
	renderer *site.Renderer
	opts     Options
	recorder metrics.Recorder
	now      func() time.Time
}

// New creates an Exporter.
func New(content Content, renderer *site.Renderer, opts Options, recorder metrics.Recorder) *Exporter {
	if opts.Concurrency <= 0 {
		opts.Concurrency = runtime.NumCPU()
	}
	return &Exporter{
		content:  content,
		renderer: renderer,
		opts:     opts,
		recorder: metrics.OrNoop(recorder),
		now:      time.Now,
	}
}

type pageOutcome struct {
	route   string
	lastmod time.Time
}

// Run writes index.html, one <route>/index.html per page-map route, 404.html,
// the search index, sitemap.xml, manifest.json and the static assets.
func (x *Exporter) Run(ctx context.Context) (*Result, error) {
	start := x.now()
	buildID := uuid.NewString()
	ctx = observability.WithBuildID(ctx, buildID)
	out := x.opts.OutputDir

	if err := x.prepareOutput(); err != nil {
		return nil, err
	}
	pm, err := x.content.PageMap(ctx)
	if err != nil {
		return nil, err
	}
	observability.InfoContext(ctx, "Exporting site", logfields.Path(out), logfields.Count(pm.Len()))

	var buf bytes.Buffer
	if err := x.renderer.Index(ctx, &buf); err != nil {
		return nil, err
	}
	if err := writeFile(filepath.Join(out, "index.html"), buf.Bytes()); err != nil {
		return nil, err
	}

	var mu sync.Mutex
	outcomes := make([]pageOutcome, 0, pm.Len())
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(x.opts.Concurrency)
	for _, route := range pm.Routes() {
		g.Go(func() error {
			var page bytes.Buffer
			p, err := x.renderer.Page(observability.WithRoute(gctx, route), &page, route)
			if err != nil {
				return err
			}
			if err := writeFile(routeFile(out, route), page.Bytes()); err != nil {
				return err
			}
			mu.Lock()
			outcomes = append(outcomes, pageOutcome{route: route, lastmod: p.LastModified})
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	sort.Slice(outcomes, func(i, j int) bool { return outcomes[i].route < outcomes[j].route })

	buf.Reset()
	if err := x.renderer.NotFound(ctx, &buf, "/404"); err != nil {
		return nil, err
	}
	if err := writeFile(filepath.Join(out, "404.html"), buf.Bytes()); err != nil {
		return nil, err
	}

	docs, err := x.content.SearchIndex(ctx)
	if err != nil {
		return nil, err
	}
	if err := writeJSON(filepath.Join(out, "_search", "index.json"), docs); err != nil {
		return nil, err
	}
	if err := x.writeSitemap(filepath.Join(out, "sitemap.xml"), outcomes); err != nil {
		return nil, err
	}

	routes := make([]string, 0, len(outcomes)+1)
	routes = append(routes, "/")
	for _, o := range outcomes {
		routes = append(routes, o.route)
	}
	manifest := Manifest{
		BuildID:     buildID,
		GeneratedAt: start.UTC(),
		Version:     version.String(),
		Engine:      x.opts.Engine,
		Routes:      routes,
	}
	if err := writeJSON(filepath.Join(out, "manifest.json"), manifest); err != nil {
		return nil, err
	}
	if err := copyStatic(out); err != nil {
		return nil, err
	}

	pages := len(outcomes) + 1
	x.recorder.IncExportedPages(pages)
	res := &Result{BuildID: buildID, OutputDir: out, Pages: pages, Duration: time.Since(start)}
	observability.InfoContext(ctx, "Export complete",
		logfields.Count(pages),
		slog.Duration("duration", res.Duration))
	return res, nil
}

// checkCleanTarget refuses to clean a directory that is, contains, or lies
// inside the content directory.
func (x *Exporter) checkCleanTarget(out string) error {
	src, err := filepath.Abs(x.content.ContentDir())
	if err != nil {
		return derrors.WrapError(err, derrors.CategoryFileSystem, "invalid content directory").
			WithContext("content_dir", x.content.ContentDir()).Build()
	}
	if within(out, src) || within(src, out) {
		return derrors.ValidationError("refusing to clean an output directory that overlaps the content directory").
			WithContext("dir", out).WithContext("content_dir", src).Build()
	}
	return nil
}

// within reports whether path equals dir or lies below it.
func within(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func (x *Exporter) prepareOutput() error {
	out := x.opts.OutputDir
	if strings.TrimSpace(out) == "" {
		return derrors.ValidationError("output directory is required").Build()
	}
	abs, err := filepath.Abs(out)
	if err != nil {
		return derrors.WrapError(err, derrors.CategoryFileSystem, "invalid output directory").
			WithContext("dir", out).Build()
	}
	if abs == filepath.Dir(abs) {
		return derrors.ValidationError("refusing to export into the filesystem root").
			WithContext("dir", out).Build()
	}
	if x.opts.Clean {
		if err := x.checkCleanTarget(abs); err != nil {
			return err
		}
		if err := os.RemoveAll(abs); err != nil {
			return derrors.WrapError(err, derrors.CategoryFileSystem, "failed to clean output directory").
				WithContext("dir", out).Build()
		}
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return derrors.WrapError(err, derrors.CategoryFileSystem, "failed to create output directory").
			WithContext("dir", out).Build()
	}
	return nil
}

// copyStatic replaces <out>/_static with the embedded assets.
func copyStatic(out string) error {
	dir := filepath.Join(out, strings.Trim(layout.StaticPrefix, "/"))
	if err := os.RemoveAll(dir); err != nil {
		return derrors.WrapError(err, derrors.CategoryFileSystem, "failed to clear static assets").
			WithContext("dir", dir).Build()
	}
	if err := os.CopyFS(dir, layout.Static()); err != nil {
		return derrors.WrapError(err, derrors.CategoryFileSystem, "failed to copy static assets").
			WithContext("dir", dir).Build()
	}
	return nil
}

func routeFile(out, route string) string {
	rel := filepath.FromSlash(strings.TrimPrefix(engine.NormalizeRoute(route), "/"))
	return filepath.Join(out, rel, "index.html")
}

type urlset struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

func (x *Exporter) writeSitemap(path string, outcomes []pageOutcome) error {
	base := strings.TrimSuffix(x.opts.BaseURL, "/")
	set := urlset{Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9"}
	set.URLs = append(set.URLs, sitemapURL{Loc: base + "/"})
	for _, o := range outcomes {
		u := sitemapURL{Loc: base + o.route}
		if !o.lastmod.IsZero() {
			u.LastMod = o.lastmod.UTC().Format("2006-01-02")
		}
		set.URLs = append(set.URLs, u)
	}
	data, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return derrors.WrapError(err, derrors.CategoryInternal, "failed to encode sitemap").Build()
	}
	return writeFile(path, append([]byte(xml.Header), data...))
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return derrors.WrapError(err, derrors.CategoryInternal, "failed to encode json").
			WithContext("file", path).Build()
	}
	return writeFile(path, data)
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return derrors.WrapError(err, derrors.CategoryFileSystem, "failed to create directory").
			WithContext("file", path).Build()
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return derrors.WrapError(err, derrors.CategoryFileSystem, "failed to write file").
			WithContext("file", path).Build()
	}
	return nil
}
