package engine

import (
	"path"
	"sort"
	"strings"
)

// ItemKind distinguishes pages from folders in the page map.
type ItemKind string

const (
	KindPage   ItemKind = "page"
	KindFolder ItemKind = "folder"
)

// Item is a node of the page map. Folders may carry their own page (an index
// file) in File; folders without one are rendered as a listing of their children.
type Item struct {
	Kind     ItemKind
	Name     string
	Route    string
	Title    string
	File     string
	Weight   int
	Hidden   bool
	Children []*Item
}

// IsFolder reports whether the item is a folder.
func (i *Item) IsFolder() bool { return i.Kind == KindFolder }

// Contains reports whether route is the item's route or lies below it.
func (i *Item) Contains(route string) bool {
	if route == i.Route {
		return true
	}
	prefix := i.Route
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return strings.HasPrefix(route, prefix)
}

// PageMap is the tree of routable content produced by a content scan.
type PageMap struct {
	Root    *Item
	Version string

	routes map[string]*Item
}

func newPageMap(root *Item, version string) *PageMap {
	pm := &PageMap{Root: root, Version: version, routes: map[string]*Item{}}
	pm.routes[root.Route] = root
	pm.Walk(func(item *Item, _ int) bool {
		pm.routes[item.Route] = item
		return true
	})
	return pm
}

// BasePath is the URL prefix the content is mounted under.
func (pm *PageMap) BasePath() string { return pm.Root.Route }

// Items returns the top-level items.
func (pm *PageMap) Items() []*Item { return pm.Root.Children }

// Lookup finds the item for a route.
func (pm *PageMap) Lookup(route string) (*Item, bool) {
	item, ok := pm.routes[NormalizeRoute(route)]
	return item, ok
}

// Routes returns every routable path, sorted.
func (pm *PageMap) Routes() []string {
	out := make([]string, 0, len(pm.routes))
	for r := range pm.routes {
		out = append(out, r)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of routable paths.
func (pm *PageMap) Len() int { return len(pm.routes) }

// Walk visits items depth-first in navigation order. Depth starts at 1 for
// top-level items. Returning false from fn skips the item's children.
func (pm *PageMap) Walk(fn func(item *Item, depth int) bool) {
	var walk func(items []*Item, depth int)
	walk = func(items []*Item, depth int) {
		for _, item := range items {
			if fn(item, depth) && len(item.Children) > 0 {
				walk(item.Children, depth+1)
			}
		}
	}
	walk(pm.Root.Children, 1)
}

// NormalizeRoute cleans a URL path and drops any trailing slash.
func NormalizeRoute(route string) string {
	if route == "" {
		return "/"
	}
	if !strings.HasPrefix(route, "/") {
		route = "/" + route
	}
	return path.Clean(route)
}

func joinRoute(base, name string) string {
	return path.Join(base, name)
}
