package commands

import (
	"context"
	"fmt"

	"github.com/fullstackmenu/stackdocs/internal/category"
	derrors "github.com/fullstackmenu/stackdocs/internal/errors"
)

// CheckCmd validates the category list against the content directory.
type CheckCmd struct {
	ContentDir string `short:"d" name:"content-dir" help:"Content directory (overrides content_dir)"`
}

func (c *CheckCmd) Run(g *Global, cli *CLI) error {
	cfg, err := loadConfig(g, cli)
	if err != nil {
		return err
	}
	if c.ContentDir != "" {
		cfg.ContentDir = c.ContentDir
	}

	cats := category.Categories()
	if err := category.Validate(cats); err != nil {
		return err
	}
	e, _ := newSite(cfg, nil)
	pm, err := e.PageMap(context.Background())
	if err != nil {
		return err
	}

	missing := category.Verify(cats, pm)
	for _, m := range missing {
		fmt.Printf("missing: %s -> %s\n", m.Name, m.Path)
	}
	if len(missing) > 0 {
		return derrors.NotFoundError(fmt.Sprintf("%d of %d categories link to missing pages", len(missing), len(cats))).
			WithContext("content_dir", cfg.ContentDir).Build()
	}
	fmt.Printf("All %d categories resolve (%d routes)\n", len(cats), pm.Len())
	return nil
}
