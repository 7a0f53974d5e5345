package commands

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/fullstackmenu/stackdocs/internal/category"
	"github.com/fullstackmenu/stackdocs/internal/layout"
	"github.com/fullstackmenu/stackdocs/internal/logfields"
	"github.com/fullstackmenu/stackdocs/internal/metrics"
	"github.com/fullstackmenu/stackdocs/internal/observability"
	"github.com/fullstackmenu/stackdocs/internal/preview"
	"github.com/fullstackmenu/stackdocs/internal/server/httpserver"
)

// ServeCmd serves the site and optionally reloads browsers on content changes.
type ServeCmd struct {
	Addr       string `short:"a" help:"Listen address (overrides server.addr)"`
	ContentDir string `short:"d" name:"content-dir" help:"Content directory (overrides content_dir)"`
	Watch      bool   `help:"Watch content and live-reload browsers (overrides server.watch)"`
	NoWatch    bool   `name:"no-watch" help:"Disable watching even when server.watch is set"`
}

func (s *ServeCmd) Run(g *Global, cli *CLI) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := loadConfig(g, cli)
	if err != nil {
		return err
	}
	if s.Addr != "" {
		cfg.Server.Addr = s.Addr
	}
	if s.ContentDir != "" {
		cfg.ContentDir = s.ContentDir
	}
	if s.Watch {
		cfg.Server.Watch = true
	}
	if s.NoWatch {
		cfg.Server.Watch = false
	}

	opts := httpserver.Options{Addr: cfg.Server.Addr, BasePath: cfg.Engine.ContentDirBasePath}
	if cfg.Server.Metrics {
		opts.Registry = metrics.NewRegistry()
		opts.Recorder = metrics.NewPrometheusRecorder(opts.Registry)
	}
	var shellOpts []layout.Option
	if cfg.Server.Watch {
		opts.Hub = preview.NewHub(opts.Recorder)
		shellOpts = append(shellOpts, layout.WithLiveReload(preview.Script))
	}
	e, renderer := newSite(cfg, opts.Recorder, shellOpts...)

	pm, err := e.PageMap(ctx)
	if err != nil {
		return err
	}
	for _, c := range category.Verify(renderer.Categories(), pm) {
		slog.Warn("Category links to a missing page", slog.String("name", c.Name), logfields.Path(c.Path))
	}

	srv := httpserver.New(e, renderer, opts)
	if err := srv.Start(ctx); err != nil {
		return err
	}

	if cfg.Server.Watch {
		preview.Reload(ctx, e, opts.Hub)
		reload := func(ctx context.Context) { preview.Reload(ctx, e, opts.Hub) }
		w := preview.NewWatcher(cfg.ContentDir, preview.DefaultDebounce, reload)
		go func() {
			if err := w.Run(ctx); err != nil {
				observability.ErrorContext(ctx, "Content watcher stopped", logfields.Error(err))
			}
		}()
	}
	if every := cfg.Server.RefreshEvery(); every > 0 {
		refresher, err := preview.NewRefresher(every, func(ctx context.Context) { preview.Reload(ctx, e, opts.Hub) })
		if err != nil {
			return err
		}
		if err := refresher.Start(ctx); err != nil {
			return err
		}
		defer func() {
			if err := refresher.Stop(); err != nil {
				slog.Warn("Refresher shutdown error", logfields.Error(err))
			}
		}()
	}

	<-ctx.Done()
	slog.Info("Shutting down")
	stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer stopCancel()
	return srv.Stop(stopCtx)
}
