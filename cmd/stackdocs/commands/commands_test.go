package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fullstackmenu/stackdocs/internal/category"
	"github.com/fullstackmenu/stackdocs/internal/config"
	derrors "github.com/fullstackmenu/stackdocs/internal/errors"
)

func run(t *testing.T, args ...string) error {
	t.Helper()
	cli := &CLI{}
	parser, err := kong.New(cli, kong.Vars{"version": "test"}, kong.Exit(func(int) {}))
	require.NoError(t, err)
	ctx, err := parser.Parse(args)
	require.NoError(t, err)
	return ctx.Run(&Global{}, cli)
}

func TestScaffoldContent_CreatesOnePagePerCategory(t *testing.T) {
	dir := t.TempDir()
	n, err := scaffoldContent(dir, config.DefaultContentDirBasePath, category.Categories())
	require.NoError(t, err)
	assert.Equal(t, 8, n)
	assert.FileExists(t, filepath.Join(dir, "html", "index.md"))
	assert.FileExists(t, filepath.Join(dir, "javascript", "intro.md"))
	assert.FileExists(t, filepath.Join(dir, "problems", "index.md"))

	n, err = scaffoldContent(dir, config.DefaultContentDirBasePath, category.Categories())
	require.NoError(t, err)
	assert.Zero(t, n, "existing pages are left alone")
}

func TestInitThenCheck(t *testing.T) {
	t.Chdir(t.TempDir())

	require.NoError(t, run(t, "init"))
	assert.FileExists(t, config.DefaultConfigFile)
	require.NoError(t, run(t, "check"))

	err := run(t, "init")
	require.Error(t, err)
	assert.True(t, derrors.HasCategory(err, derrors.CategoryValidation))
	require.NoError(t, run(t, "init", "--force", "--no-content"))
}

func TestCheck_ReportsMissingCategories(t *testing.T) {
	t.Chdir(t.TempDir())
	require.NoError(t, os.MkdirAll(filepath.Join("content", "html"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join("content", "html", "index.md"), []byte("# HTML\n"), 0o644))

	err := run(t, "check")
	require.Error(t, err)
	assert.True(t, derrors.HasCategory(err, derrors.CategoryNotFound))
}

func TestBuild_WritesSite(t *testing.T) {
	t.Chdir(t.TempDir())
	require.NoError(t, run(t, "init", "--force"))

	out := filepath.Join(t.TempDir(), "out")
	require.NoError(t, run(t, "build", "--output", out, "--base-url", "https://example.com"))

	assert.FileExists(t, filepath.Join(out, "index.html"))
	assert.FileExists(t, filepath.Join(out, "docs", "html", "index.html"))
	assert.FileExists(t, filepath.Join(out, "sitemap.xml"))
	assert.FileExists(t, filepath.Join(out, "manifest.json"))
}

func TestVersionCommand(t *testing.T) {
	require.NoError(t, run(t, "version"))
}
