package engine

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"os"
	"strings"
	"time"

	"github.com/inful/mdfp"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"

	"github.com/fullstackmenu/stackdocs/internal/config"
	derrors "github.com/fullstackmenu/stackdocs/internal/errors"
	"github.com/fullstackmenu/stackdocs/internal/frontmatter"
)

// Heading is a table-of-contents entry.
type Heading struct {
	Level int
	ID    string
	Text  string
}

// Page is a rendered document.
type Page struct {
	Route        string
	Title        string
	Description  string
	Body         []byte
	TOC          []Heading
	LastModified time.Time
	Fingerprint  string
	Item         *Item
}

func newMarkdown(opts config.EngineOptions) goldmark.Markdown {
	exts := []goldmark.Extender{extension.GFM}
	if opts.Latex {
		exts = append(exts, Latex)
	}
	var rendererOpts []renderer.Option
	if !opts.Framework.StrictMode {
		rendererOpts = append(rendererOpts, gmhtml.WithUnsafe())
	}
	return goldmark.New(
		goldmark.WithExtensions(exts...),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(rendererOpts...),
	)
}

// Resolve renders the page for route. Routes outside the page map yield a
// not_found classified error.
func (e *Engine) Resolve(ctx context.Context, route string) (*Page, error) {
	route = NormalizeRoute(route)
	pm, err := e.PageMap(ctx)
	if err != nil {
		return nil, err
	}
	item, ok := pm.Lookup(route)
	if !ok {
		return nil, derrors.NotFoundError("page not found").WithContext("route", route).Build()
	}
	return e.renderItem(ctx, item)
}

func (e *Engine) renderItem(ctx context.Context, item *Item) (*Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if item.File == "" {
		return folderPage(item), nil
	}

	start := time.Now()
	src, err := os.ReadFile(item.File)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, derrors.NotFoundError("page source removed").
				WithContext("route", item.Route).WithContext("file", item.File).Build()
		}
		return nil, derrors.WrapError(err, derrors.CategoryFileSystem, "failed to read page").
			WithContext("file", item.File).Build()
	}
	meta, body, err := frontmatter.Parse(src)
	if err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryContent, "invalid front matter").
			WithContext("file", item.File).Build()
	}
	fm, _, _, _ := frontmatter.Split(src)

	doc := e.md.Parser().Parse(text.NewReader(body))
	var buf bytes.Buffer
	if err := e.md.Renderer().Render(&buf, body, doc); err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryRender, "failed to render markdown").
			WithContext("file", item.File).Build()
	}
	e.recorder.ObserveRender("page", time.Since(start))

	return &Page{
		Route:        item.Route,
		Title:        item.Title,
		Description:  meta.Description,
		Body:         buf.Bytes(),
		TOC:          collectHeadings(doc, body),
		LastModified: e.modTime(item.File),
		Fingerprint:  mdfp.CalculateFingerprintFromParts(string(fm), string(body)),
		Item:         item,
	}, nil
}

// folderPage lists the children of a folder that has no page of its own.
func folderPage(item *Item) *Page {
	var b strings.Builder
	b.WriteString(`<ul class="folder-index">`)
	var sig strings.Builder
	for _, child := range item.Children {
		if child.Hidden {
			continue
		}
		fmt.Fprintf(&b, `<li><a href="%s">%s</a></li>`, html.EscapeString(child.Route), html.EscapeString(child.Title))
		sig.WriteString(child.Route + "\n")
	}
	b.WriteString("</ul>\n")
	return &Page{
		Route:       item.Route,
		Title:       item.Title,
		Body:        []byte(b.String()),
		Fingerprint: mdfp.CalculateFingerprintFromParts(item.Title, sig.String()),
		Item:        item,
	}
}

func collectHeadings(doc ast.Node, source []byte) []Heading {
	var out []Heading
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		if h.Level == 2 || h.Level == 3 {
			var id string
			if v, ok := h.AttributeString("id"); ok {
				if b, ok := v.([]byte); ok {
					id = string(b)
				}
			}
			out = append(out, Heading{Level: h.Level, ID: id, Text: nodeText(h, source)})
		}
		return ast.WalkSkipChildren, nil
	})
	return out
}

func nodeText(n ast.Node, source []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(source))
			if t.SoftLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(t.Value)
		case *Math:
			b.Write(t.Literal)
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}
