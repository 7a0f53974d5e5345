package commands

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fullstackmenu/stackdocs/internal/category"
	"github.com/fullstackmenu/stackdocs/internal/config"
	derrors "github.com/fullstackmenu/stackdocs/internal/errors"
	"github.com/fullstackmenu/stackdocs/internal/logfields"
)

// InitCmd writes an example configuration and one stub page per category.
type InitCmd struct {
	Force     bool `help:"Overwrite existing configuration file"`
	NoContent bool `name:"no-content" help:"Only write the configuration file"`
}

func (i *InitCmd) Run(_ *Global, cli *CLI) error {
	if err := config.Init(cli.Config, i.Force); err != nil {
		return err
	}
	fmt.Printf("Configuration written to %s\n", cli.Config)
	if i.NoContent {
		return nil
	}

	created, err := scaffoldContent(config.Default().ContentDir, config.DefaultContentDirBasePath, category.Categories())
	if err != nil {
		return err
	}
	fmt.Printf("Created %d content pages\n", created)
	return nil
}

// scaffoldContent creates a stub page for every category path that has no
// source file yet. Paths naming a section get an index.md.
func scaffoldContent(contentDir, basePath string, cats []category.Category) (int, error) {
	created := 0
	for _, c := range cats {
		rel := strings.TrimPrefix(strings.TrimPrefix(c.Path, basePath), "/")
		if rel == "" {
			continue
		}
		file := filepath.Join(contentDir, filepath.FromSlash(rel)+".md")
		if !strings.Contains(rel, "/") {
			file = filepath.Join(contentDir, filepath.FromSlash(rel), "index.md")
		}
		if _, err := os.Stat(file); err == nil {
			continue
		}
		if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
			return created, derrors.WrapError(err, derrors.CategoryFileSystem, "failed to create content directory").
				WithContext("file", file).Build()
		}
		body := fmt.Sprintf("---\ntitle: %s\n---\n\n# %s\n", c.Name, c.Name)
		if err := os.WriteFile(file, []byte(body), 0o644); err != nil {
			return created, derrors.WrapError(err, derrors.CategoryFileSystem, "failed to write content page").
				WithContext("file", file).Build()
		}
		slog.Debug("Created content page", logfields.File(file))
		created++
	}
	return created, nil
}
