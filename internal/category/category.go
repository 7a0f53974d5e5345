// Package category holds the fixed list of documentation sections linked
// from the landing page.
package category

import (
	"strings"

	"github.com/fullstackmenu/stackdocs/internal/engine"
	derrors "github.com/fullstackmenu/stackdocs/internal/errors"
)

// Category is a named link to a documentation section.
type Category struct {
	Name string `json:"name" yaml:"name"`
	Path string `json:"path" yaml:"path"`
}

var categories = [...]Category{
	{Name: "HTML", Path: "/docs/html"},
	{Name: "CSS", Path: "/docs/css"},
	{Name: "JavaScript", Path: "/docs/javascript/intro"},
	{Name: "ReactJS", Path: "/docs/react/intro"},
	{Name: "NodeJS", Path: "/docs/nodejs/intro"},
	{Name: "MongoDB", Path: "/docs/mongodb/intro"},
	{Name: "DSA", Path: "/docs/dsa"},
	{Name: "Problems Solving", Path: "/docs/problems"},
}

// Categories returns the categories in display order. The slice is a copy.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories[:])
	return out
}

// Validate checks that every category has a name, an absolute path, and a
// path no other category uses.
func Validate(cats []Category) error {
	seen := make(map[string]string, len(cats))
	for i, c := range cats {
		if strings.TrimSpace(c.Name) == "" {
			return derrors.ValidationError("category name is empty").
				WithContext("index", i).Build()
		}
		if !strings.HasPrefix(c.Path, "/") {
			return derrors.ValidationError("category path must start with /").
				WithContext("name", c.Name).WithContext("path", c.Path).Build()
		}
		if other, dup := seen[c.Path]; dup {
			return derrors.ValidationError("duplicate category path").
				WithContext("path", c.Path).WithContext("name", c.Name).WithContext("other", other).Build()
		}
		seen[c.Path] = c.Name
	}
	return nil
}

// Verify returns the categories whose path does not resolve in pm.
func Verify(cats []Category, pm *engine.PageMap) []Category {
	var missing []Category
	for _, c := range cats {
		if pm == nil {
			missing = append(missing, c)
			continue
		}
		if _, ok := pm.Lookup(c.Path); !ok {
			missing = append(missing, c)
		}
	}
	return missing
}
