// Package frontmatter separates YAML front matter from markdown bodies and
// decodes the fields the documentation engine understands.
package frontmatter

import (
	"bytes"
	"errors"

	"gopkg.in/yaml.v3"
)

// ErrMissingClosingDelimiter indicates the document started with a YAML
// front matter delimiter but did not contain a closing delimiter.
var ErrMissingClosingDelimiter = errors.New("yaml frontmatter start delimiter found but closing delimiter is missing")

// Meta holds the front matter fields used for navigation and rendering.
type Meta struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Weight      int    `yaml:"weight"`
	Draft       bool   `yaml:"draft"`
	// Sidebar false hides the page from the sidebar while keeping it routable.
	Sidebar *bool `yaml:"sidebar"`
}

// Hidden reports whether the page opted out of the sidebar.
func (m Meta) Hidden() bool {
	return m.Sidebar != nil && !*m.Sidebar
}

// Split separates YAML front matter (`---` delimited) from the markdown body.
// Documents without a leading delimiter return had=false and the full input as body.
func Split(content []byte) (fm []byte, body []byte, had bool, err error) {
	nl := detectNewline(content)
	open := []byte("---" + nl)
	if !bytes.HasPrefix(content, open) {
		return nil, content, false, nil
	}

	start := len(open)
	if bytes.HasPrefix(content[start:], open) {
		return []byte{}, content[start+len(open):], true, nil
	}

	closeSeq := []byte(nl + "---" + nl)
	idx := bytes.Index(content[start:], closeSeq)
	if idx < 0 {
		// A closing delimiter at EOF without a trailing newline.
		tail := []byte(nl + "---")
		if bytes.HasSuffix(content, tail) {
			return content[start : len(content)-len(tail)+len(nl)], []byte{}, true, nil
		}
		return nil, nil, false, ErrMissingClosingDelimiter
	}
	return content[start : start+idx+len(nl)], content[start+idx+len(closeSeq):], true, nil
}

// Parse splits content and decodes its front matter.
func Parse(content []byte) (Meta, []byte, error) {
	fm, body, had, err := Split(content)
	if err != nil {
		return Meta{}, nil, err
	}
	if !had || len(bytes.TrimSpace(fm)) == 0 {
		return Meta{}, body, nil
	}

	var meta Meta
	if err := yaml.Unmarshal(fm, &meta); err != nil {
		return Meta{}, nil, err
	}
	return meta, body, nil
}

func detectNewline(content []byte) string {
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}
