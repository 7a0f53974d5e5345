package category

import (
	"bytes"
	"html/template"

	"github.com/fullstackmenu/stackdocs/internal/layout"
)

// Heading is the landing page title.
const Heading = "Full Stack Menu"

const indexTemplate = `<div class="category-index">
<h1>{{.Heading}}</h1>
<hr>
<ul class="category-list">
{{- range .Categories}}
<li><a class="category-button" href="{{.Path}}">{{.Name}}</a></li>
{{- end}}
</ul>
</div>
`

var indexTmpl = template.Must(template.New("index").Parse(indexTemplate))

// IndexPage renders the landing page content: the heading, a divider and one
// navigation button per category, in order.
func IndexPage(cats []Category) (layout.Content, error) {
	var buf bytes.Buffer
	err := indexTmpl.Execute(&buf, struct {
		Heading    string
		Categories []Category
	}{Heading, cats})
	if err != nil {
		return layout.Content{}, err
	}
	return layout.Content{
		Route: "/",
		Title: Heading,
		Body:  template.HTML(buf.String()), //nolint:gosec // produced by html/template
	}, nil
}
