package engine

import (
	"context"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestExtractSearchText_SkipsCodeBlocks(t *testing.T) {
	body := []byte("<h2 id=\"a\">Arrays</h2><p>Use <code>push</code> often.</p><pre><code>secretToken()</code></pre>")

	text, headings, err := ExtractSearchText(body, false)
	require.NoError(t, err)
	assert.Equal(t, "Arrays Use push often.", text)
	assert.Equal(t, []string{"Arrays"}, headings)

	text, _, err = ExtractSearchText(body, true)
	require.NoError(t, err)
	assert.Contains(t, text, "secretToken()")
}

func TestSearchIndex_ExcludesCodeByDefault(t *testing.T) {
	e := newTestEngine(t, map[string]string{
		"nodejs/intro.md": "# Node\n\nEvent loop basics.\n\n```js\nconst hidden = require('fs')\n```\n",
	})
	require.False(t, e.Options().Search.Codeblocks)

	docs, err := e.SearchIndex(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "/docs/nodejs/intro", docs[0].Route)
	assert.Contains(t, docs[0].Text, "Event loop basics.")
	assert.NotContains(t, docs[0].Text, "hidden")

	results, err := e.Search(context.Background(), "hidden", 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearch_RanksTitleAboveBody(t *testing.T) {
	e := newTestEngine(t, map[string]string{
		"css.md":  "---\ntitle: Flexbox\n---\nLayout.\n",
		"html.md": "---\ntitle: HTML\n---\nElements can use flexbox via CSS.\n",
		"dsa.md":  "---\ntitle: DSA\n---\nSorting.\n",
	})

	results, err := e.Search(context.Background(), "FlexBox", 0)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "/docs/css", results[0].Route)
	assert.Equal(t, "/docs/html", results[1].Route)
	assert.Contains(t, results[1].Snippet, "flexbox")

	limited, err := e.Search(context.Background(), "flexbox", 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	none, err := e.Search(context.Background(), "flexbox sorting", 0)
	require.NoError(t, err)
	assert.Empty(t, none)

	empty, err := e.Search(context.Background(), "   ", 0)
	require.NoError(t, err)
	assert.Nil(t, empty)
}

func TestSnippet_IsValidUTF8(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		text := rapid.String().Draw(t, "text")
		term := rapid.StringMatching(`[a-z]{1,4}`).Draw(t, "term")
		if out := snippet(text, term); !utf8.ValidString(out) {
			t.Fatalf("snippet produced invalid UTF-8: %q", out)
		}
	})
}
