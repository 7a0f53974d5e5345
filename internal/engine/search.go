package engine

import (
	"bytes"
	"context"
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	derrors "github.com/fullstackmenu/stackdocs/internal/errors"
)

// SearchDocument is one page in the search index.
type SearchDocument struct {
	Route    string   `json:"route"`
	Title    string   `json:"title"`
	Headings []string `json:"headings,omitempty"`
	Text     string   `json:"text"`
}

// SearchResult is a ranked match for a query.
type SearchResult struct {
	Route   string `json:"route"`
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	Score   int    `json:"score"`
}

const snippetRadius = 60

// SearchIndex returns one document per page that has a source file. The index
// is cached per page-map version.
func (e *Engine) SearchIndex(ctx context.Context) ([]SearchDocument, error) {
	pm, err := e.PageMap(ctx)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	if e.index != nil && e.indexVersion == pm.Version {
		docs := e.index
		e.mu.Unlock()
		return docs, nil
	}
	e.mu.Unlock()

	docs := make([]SearchDocument, 0, pm.Len())
	var walkErr error
	pm.Walk(func(item *Item, _ int) bool {
		if walkErr != nil {
			return false
		}
		if item.File == "" {
			return true
		}
		page, err := e.renderItem(ctx, item)
		if err != nil {
			walkErr = err
			return false
		}
		text, headings, err := ExtractSearchText(page.Body, e.opts.Search.Codeblocks)
		if err != nil {
			walkErr = derrors.WrapError(err, derrors.CategoryRender, "failed to index page").
				WithContext("route", item.Route).Build()
			return false
		}
		docs = append(docs, SearchDocument{Route: item.Route, Title: item.Title, Headings: headings, Text: text})
		return true
	})
	if walkErr != nil {
		return nil, walkErr
	}

	e.mu.Lock()
	e.index = docs
	e.indexVersion = pm.Version
	e.mu.Unlock()
	return docs, nil
}

// ExtractSearchText returns the visible text of rendered HTML and its
// headings. Content of <pre> elements is skipped unless includeCode is set.
func ExtractSearchText(body []byte, includeCode bool) (string, []string, error) {
	root, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return "", nil, err
	}

	var words []string
	var headings []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Script, atom.Style:
				return
			case atom.Pre:
				if !includeCode {
					return
				}
			case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
				if h := strings.Join(strings.Fields(textContent(n)), " "); h != "" {
					headings = append(headings, h)
				}
			}
		}
		if n.Type == html.TextNode {
			words = append(words, strings.Fields(n.Data)...)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return strings.Join(words, " "), headings, nil
}

func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(textContent(c))
		b.WriteByte(' ')
	}
	return b.String()
}

// Search ranks indexed pages against every term of query. Titles weigh more
// than headings, headings more than body text.
func (e *Engine) Search(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return nil, nil
	}
	docs, err := e.SearchIndex(ctx)
	if err != nil {
		return nil, err
	}

	var results []SearchResult
	for _, doc := range docs {
		if score, ok := scoreDocument(doc, terms); ok {
			results = append(results, SearchResult{
				Route:   doc.Route,
				Title:   doc.Title,
				Snippet: snippet(doc.Text, terms[0]),
				Score:   score,
			})
		}
	}
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Route < results[j].Route
	})
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func scoreDocument(doc SearchDocument, terms []string) (int, bool) {
	title := strings.ToLower(doc.Title)
	text := strings.ToLower(doc.Text)
	score := 0
	for _, t := range terms {
		matched := false
		if strings.Contains(title, t) {
			score += 10
			matched = true
		}
		for _, h := range doc.Headings {
			if strings.Contains(strings.ToLower(h), t) {
				score += 5
				matched = true
			}
		}
		if n := strings.Count(text, t); n > 0 {
			score += min(n, 5)
			matched = true
		}
		if !matched {
			return 0, false
		}
	}
	return score, true
}

func snippet(text, term string) string {
	lower := strings.ToLower(text)
	idx := strings.Index(lower, term)
	if len(lower) != len(text) {
		// Case folding changed byte offsets; fall back to an exact match.
		idx = strings.Index(text, term)
	}
	if idx < 0 {
		idx = 0
	}
	start := max(idx-snippetRadius, 0)
	end := min(idx+len(term)+snippetRadius, len(text))
	for start > 0 && !utf8.RuneStart(text[start]) {
		start--
	}
	for end < len(text) && !utf8.RuneStart(text[end]) {
		end++
	}
	out := strings.TrimSpace(text[start:end])
	if start > 0 {
		out = "…" + out
	}
	if end < len(text) {
		out += "…"
	}
	return out
}
