// Package httpserver serves the documentation site over HTTP.
package httpserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/fullstackmenu/stackdocs/internal/engine"
	derrors "github.com/fullstackmenu/stackdocs/internal/errors"
	"github.com/fullstackmenu/stackdocs/internal/layout"
	"github.com/fullstackmenu/stackdocs/internal/logfields"
	"github.com/fullstackmenu/stackdocs/internal/metrics"
	"github.com/fullstackmenu/stackdocs/internal/observability"
	"github.com/fullstackmenu/stackdocs/internal/preview"
	smw "github.com/fullstackmenu/stackdocs/internal/server/middleware"
	"github.com/fullstackmenu/stackdocs/internal/site"
)

const (
	defaultSearchLimit = 20
	maxSearchLimit     = 100
)

// Content is what the server needs from the documentation engine.
type Content interface {
	site.Source
	SearchIndex(ctx context.Context) ([]engine.SearchDocument, error)
	Search(ctx context.Context, query string, limit int) ([]engine.SearchResult, error)
}

// Options configures optional endpoints.
type Options struct {
	Addr     string
	BasePath string
	// Hub enables /livereload when set.
	Hub *preview.Hub
	// Registry enables /metrics when set.
	Registry *prom.Registry
	Recorder metrics.Recorder
}

// Server serves the index page, content pages, search and operational endpoints.
type Server struct {
	opts         Options
	content      Content
	renderer     *site.Renderer
	errorAdapter *derrors.HTTPErrorAdapter
	handler      http.Handler
	srv          *http.Server
	addr         string
}

// New wires routes and middleware.
func New(content Content, renderer *site.Renderer, opts Options) *Server {
	if opts.BasePath == "" {
		opts.BasePath = "/docs"
	}
	s := &Server{
		opts:         opts,
		content:      content,
		renderer:     renderer,
		errorAdapter: derrors.NewHTTPErrorAdapter(slog.Default()),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET "+opts.BasePath, s.handlePage)
	mux.HandleFunc("GET "+opts.BasePath+"/", s.handlePage)
	mux.HandleFunc("GET /_search", s.handleSearch)
	mux.HandleFunc("GET /_search/index.json", s.handleSearchIndex)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET "+layout.StaticPrefix, http.StripPrefix(layout.StaticPrefix, http.FileServerFS(layout.Static())))
	if opts.Registry != nil {
		mux.Handle("GET /metrics", metrics.HTTPHandler(opts.Registry))
	}
	if opts.Hub != nil {
		mux.Handle("GET /livereload", opts.Hub)
	}
	mux.HandleFunc("GET /", s.handleNotFound)

	s.handler = smw.Chain(slog.Default(), s.errorAdapter, opts.Recorder, opts.BasePath)(mux)
	return s
}

// Handler returns the fully wrapped handler.
func (s *Server) Handler() http.Handler { return s.handler }

// Start binds the listen address and serves in the background. The bind
// happens before Start returns so address errors surface immediately.
func (s *Server) Start(ctx context.Context) error {
	lc := net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", s.opts.Addr)
	if err != nil {
		return derrors.WrapError(err, derrors.CategoryRuntime, "failed to bind listen address").
			WithContext("addr", s.opts.Addr).Build()
	}
	s.addr = ln.Addr().String()
	s.srv = &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			observability.ErrorContext(ctx, "HTTP server error", logfields.Error(err))
		}
	}()
	slog.Info("HTTP server started", logfields.Addr(s.addr))
	return nil
}

// Addr returns the bound address once Start has succeeded.
func (s *Server) Addr() string { return s.addr }

// Stop gracefully shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	if s.opts.Hub != nil {
		// SSE streams never finish on their own.
		s.opts.Hub.Shutdown()
	}
	if s.srv == nil {
		return nil
	}
	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	slog.Info("HTTP server stopped")
	return nil
}
