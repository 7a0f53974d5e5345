package layout

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fullstackmenu/stackdocs/internal/config"
	"github.com/fullstackmenu/stackdocs/internal/engine"
)

type stubSource struct {
	pm  *engine.PageMap
	err error
}

func (s stubSource) PageMap(context.Context) (*engine.PageMap, error) { return s.pm, s.err }

func testPageMap(t *testing.T) *engine.PageMap {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"html.md":                   "# HTML\n",
		"javascript/intro.md":       "# Intro\n",
		"javascript/async/index.md": "# Async\n",
		"javascript/async/await.md": "# Await\n",
		"react/intro.md":            "# Intro\n",
	}
	for name, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	pm, err := engine.New(dir, config.Engine(), engine.WithLastModified(engine.FileLastModified)).PageMap(context.Background())
	require.NoError(t, err)
	return pm
}

func render(t *testing.T, s *Shell, c Content) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, s.Render(context.Background(), &buf, c))
	return buf.String()
}

func TestShell_FooterUsesCurrentYear(t *testing.T) {
	s := New(stubSource{pm: testPageMap(t)}, config.Default().Site)
	out := render(t, s, Content{Title: "Home"})
	assert.Contains(t, out, `<footer class="footer">`+time.Now().Format("2006")+` © All Rights Reserved.</footer>`)
}

func TestShell_FooterYearFromClock(t *testing.T) {
	clock := func() time.Time { return time.Date(2031, 1, 1, 0, 0, 0, 0, time.UTC) }
	s := New(stubSource{pm: testPageMap(t)}, config.Default().Site, WithClock(clock))
	out := render(t, s, Content{})
	assert.Contains(t, out, "2031 © All Rights Reserved.")
}

func TestShell_StaticMetadata(t *testing.T) {
	s := New(stubSource{pm: testPageMap(t)}, config.Default().Site)
	out := render(t, s, Content{Title: "Closures", Description: "Functions & scope"})

	assert.Contains(t, out, `<html lang="en" dir="ltr">`)
	assert.Contains(t, out, "<title>Closures - Nextra</title>")
	assert.Contains(t, out, `<meta name="application-name" content="Nextra">`)
	assert.Contains(t, out, `<meta name="generator" content="Next.js">`)
	assert.Contains(t, out, `<meta name="apple-mobile-web-app-title" content="My Docs">`)
	assert.Contains(t, out, `<meta name="description" content="Functions &amp; scope">`)
	assert.Contains(t, out, "<b>My Docs</b>")
	assert.Contains(t, out, `href="https://github.com/Poovarasan-Official"`)
	assert.Contains(t, out, `rel="icon" href="data:image/svg`)
	assert.Equal(t, 1, strings.Count(out, `<main id="content">`))
}

func TestShell_SlotsContentAndTOC(t *testing.T) {
	s := New(stubSource{pm: testPageMap(t)}, config.Default().Site)
	out := render(t, s, Content{
		Route:        "/docs/html",
		Body:         "<p>Hello <em>world</em></p>",
		TOC:          []engine.Heading{{Level: 2, ID: "tags", Text: "Tags"}},
		LastModified: time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC),
	})
	assert.Contains(t, out, "<p>Hello <em>world</em></p>")
	assert.Contains(t, out, `<li class="toc-h2"><a href="#tags">Tags</a></li>`)
	assert.Contains(t, out, "Last updated on March 9, 2024")
	assert.Contains(t, out, `<a href="/docs/html" aria-current="page">HTML</a>`)
}

func TestShell_OptionalAssets(t *testing.T) {
	plain := render(t, New(stubSource{pm: testPageMap(t)}, config.Default().Site), Content{})
	assert.NotContains(t, plain, "katex")
	assert.NotContains(t, plain, "EventSource")

	full := render(t, New(stubSource{pm: testPageMap(t)}, config.Default().Site,
		WithLatex(true), WithLiveReload("new EventSource('/livereload')")), Content{})
	assert.Contains(t, full, "katex.min.css")
	assert.Contains(t, full, "<script>new EventSource('/livereload')</script>")
}

func TestShell_PageMapErrorReturned(t *testing.T) {
	boom := errors.New("scan failed")
	s := New(stubSource{err: boom}, config.Default().Site)
	var buf bytes.Buffer
	err := s.Render(context.Background(), &buf, Content{})
	require.ErrorIs(t, err, boom)
	assert.Zero(t, buf.Len())
}

func TestShell_Title(t *testing.T) {
	s := New(stubSource{}, config.Default().Site)
	assert.Equal(t, "HTML - Nextra", s.Title("HTML"))
	assert.Equal(t, "My Docs", s.Title(""))
}

func TestShell_CollapseLevelIsOne(t *testing.T) {
	s := New(stubSource{}, config.Default().Site)
	assert.Equal(t, 1, s.CollapseLevel())
	assert.Equal(t, 1, DefaultMenuCollapseLevel)
}

func TestBuildSidebar_CollapsesAtLevelOne(t *testing.T) {
	pm := testPageMap(t)

	nodes := BuildSidebar(pm, "/", DefaultMenuCollapseLevel)
	require.Len(t, nodes, 3)
	for _, n := range nodes {
		if n.Folder {
			assert.False(t, n.Open, n.Route)
		}
	}

	nodes = BuildSidebar(pm, "/docs/javascript/async/await", DefaultMenuCollapseLevel)
	js := findNode(nodes, "/docs/javascript")
	require.NotNil(t, js)
	assert.True(t, js.Open)
	async := findNode(js.Children, "/docs/javascript/async")
	require.NotNil(t, async)
	assert.True(t, async.Open)
	assert.True(t, async.Linkable)
	assert.True(t, findNode(async.Children, "/docs/javascript/async/await").Active)
	assert.False(t, findNode(nodes, "/docs/react").Open)
}

func TestBuildSidebar_DeeperCollapseLevel(t *testing.T) {
	nodes := BuildSidebar(testPageMap(t), "/", 2)
	js := findNode(nodes, "/docs/javascript")
	require.NotNil(t, js)
	assert.True(t, js.Open)
	assert.False(t, findNode(js.Children, "/docs/javascript/async").Open)
}

func findNode(nodes []SidebarNode, route string) *SidebarNode {
	for i := range nodes {
		if nodes[i].Route == route {
			return &nodes[i]
		}
	}
	return nil
}

func TestStaticAssetsEmbedded(t *testing.T) {
	for _, name := range []string{"style.css", "search.js", "math.js"} {
		data, err := fs.ReadFile(Static(), name)
		require.NoError(t, err, name)
		assert.NotEmpty(t, data, name)
	}
}
