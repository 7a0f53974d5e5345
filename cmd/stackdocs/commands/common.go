package commands

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/fullstackmenu/stackdocs/internal/config"
	"github.com/fullstackmenu/stackdocs/internal/engine"
	"github.com/fullstackmenu/stackdocs/internal/layout"
	"github.com/fullstackmenu/stackdocs/internal/metrics"
	"github.com/fullstackmenu/stackdocs/internal/observability"
	"github.com/fullstackmenu/stackdocs/internal/site"
)

// Global context passed to subcommands.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"stackdocs.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Serve      ServeCmd   `cmd:"" help:"Serve the documentation site over HTTP"`
	Build      BuildCmd   `cmd:"" help:"Export the site as static files"`
	Init       InitCmd    `cmd:"" help:"Write an example configuration file and content skeleton"`
	Check      CheckCmd   `cmd:"" help:"Verify that every category links to an existing page"`
	VersionCmd VersionCmd `cmd:"" name:"version" help:"Print version information"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return nil
}

// loadConfig reads the configuration and applies its logging section.
// --verbose keeps debug logging regardless of the configured level.
func loadConfig(g *Global, cli *CLI) (*config.Config, error) {
	cfg, err := config.LoadOrDefault(cli.Config)
	if err != nil {
		return nil, err
	}
	level := observability.ParseLevel(cfg.Logging.Level)
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := observability.NewLogger(os.Stderr, level, cfg.Logging.Format)
	slog.SetDefault(logger)
	if g != nil {
		g.Logger = logger
	}
	return cfg, nil
}

// newSite builds the engine and the renderer shared by serve and build.
func newSite(cfg *config.Config, recorder metrics.Recorder, shellOpts ...layout.Option) (*engine.Engine, *site.Renderer) {
	e := engine.New(cfg.ContentDir, cfg.Engine, engine.WithRecorder(recorder))
	opts := append([]layout.Option{layout.WithLatex(cfg.Engine.Latex)}, shellOpts...)
	shell := layout.New(e, cfg.Site, opts...)
	return e, site.New(e, shell)
}
