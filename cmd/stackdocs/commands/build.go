package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/fullstackmenu/stackdocs/internal/export"
)

// BuildCmd exports the site as static files.
type BuildCmd struct {
	Output     string `short:"o" help:"Output directory (overrides output.directory)"`
	ContentDir string `short:"d" name:"content-dir" help:"Content directory (overrides content_dir)"`
	BaseURL    string `name:"base-url" help:"Absolute site URL used in sitemap.xml (overrides site.base_url)"`
	NoClean    bool   `name:"no-clean" help:"Keep existing files in the output directory"`
}

func (b *BuildCmd) Run(g *Global, cli *CLI) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := loadConfig(g, cli)
	if err != nil {
		return err
	}
	if b.Output != "" {
		cfg.Output.Directory = b.Output
	}
	if b.ContentDir != "" {
		cfg.ContentDir = b.ContentDir
	}
	if b.BaseURL != "" {
		cfg.Site.BaseURL = b.BaseURL
	}
	if b.NoClean {
		cfg.Output.Clean = false
	}

	e, renderer := newSite(cfg, nil)
	res, err := export.New(e, renderer, export.Options{
		OutputDir: cfg.Output.Directory,
		Clean:     cfg.Output.Clean,
		BaseURL:   cfg.Site.BaseURL,
		Engine:    cfg.Engine,
	}, nil).Run(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Exported %d pages to %s (build %s)\n", res.Pages, res.OutputDir, res.BuildID)
	return nil
}
