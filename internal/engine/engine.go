// Package engine turns a directory of markdown files into a routable page map,
// rendered pages and a search index.
package engine

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/yuin/goldmark"

	"github.com/fullstackmenu/stackdocs/internal/config"
	"github.com/fullstackmenu/stackdocs/internal/logfields"
	"github.com/fullstackmenu/stackdocs/internal/metrics"
)

// Engine owns the content directory and caches the page map and search index
// until Invalidate is called. It is safe for concurrent use.
type Engine struct {
	contentDir   string
	opts         config.EngineOptions
	md           goldmark.Markdown
	recorder     metrics.Recorder
	lastModified LastModifiedFunc

	mu           sync.Mutex
	pageMap      *PageMap
	index        []SearchDocument
	indexVersion string
	lastmod      map[string]time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithRecorder reports scans and renders to r.
func WithRecorder(r metrics.Recorder) Option {
	return func(e *Engine) { e.recorder = metrics.OrNoop(r) }
}

// WithLastModified overrides how page modification times are looked up.
func WithLastModified(fn LastModifiedFunc) Option {
	return func(e *Engine) {
		if fn != nil {
			e.lastModified = fn
		}
	}
}

// New creates an Engine over contentDir.
func New(contentDir string, opts config.EngineOptions, options ...Option) *Engine {
	if opts.ContentDirBasePath == "" {
		opts.ContentDirBasePath = config.DefaultContentDirBasePath
	}
	e := &Engine{
		contentDir: contentDir,
		opts:       opts,
		md:         newMarkdown(opts),
		recorder:   metrics.NoopRecorder{},
		lastmod:    map[string]time.Time{},
	}
	for _, o := range options {
		o(e)
	}
	if e.lastModified == nil {
		e.lastModified = GitLastModified(contentDir)
	}
	return e
}

// Options returns the options the engine was built with.
func (e *Engine) Options() config.EngineOptions { return e.opts }

// ContentDir returns the scanned directory.
func (e *Engine) ContentDir() string { return e.contentDir }

// PageMap returns the cached page map, scanning the content directory first
// if needed.
func (e *Engine) PageMap(ctx context.Context) (*PageMap, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.pageMap != nil {
		return e.pageMap, nil
	}

	start := time.Now()
	pm, err := e.scan(ctx)
	if err != nil {
		e.recorder.IncPageMapScan(metrics.ResultFailed)
		return nil, err
	}
	e.recorder.IncPageMapScan(metrics.ResultSuccess)
	e.recorder.ObserveRender("pagemap", time.Since(start))
	e.recorder.SetPages(pm.Len())
	slog.Debug("Scanned content directory",
		logfields.Path(e.contentDir),
		logfields.Count(pm.Len()),
		slog.String("version", pm.Version))
	e.pageMap = pm
	return pm, nil
}

// Invalidate drops cached state so the next call rescans the content directory.
func (e *Engine) Invalidate() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pageMap = nil
	e.index = nil
	e.indexVersion = ""
	e.lastmod = map[string]time.Time{}
}

func (e *Engine) modTime(path string) time.Time {
	e.mu.Lock()
	if t, ok := e.lastmod[path]; ok {
		e.mu.Unlock()
		return t
	}
	e.mu.Unlock()

	t := e.lastModified(path)

	e.mu.Lock()
	e.lastmod[path] = t
	e.mu.Unlock()
	return t
}
