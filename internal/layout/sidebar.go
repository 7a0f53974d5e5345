package layout

import "github.com/fullstackmenu/stackdocs/internal/engine"

// DefaultMenuCollapseLevel is the folder depth from which sidebar folders
// start collapsed. Top-level folders have depth 1.
const DefaultMenuCollapseLevel = 1

// SidebarNode is one entry of the rendered sidebar tree.
type SidebarNode struct {
	Title    string
	Route    string
	Folder   bool
	Linkable bool
	Active   bool
	Open     bool
	Children []SidebarNode
}

// BuildSidebar converts the page map into sidebar nodes. A folder at depth d
// is open when d < collapseLevel or when it contains the active route.
// Hidden items are left out.
func BuildSidebar(pm *engine.PageMap, active string, collapseLevel int) []SidebarNode {
	if pm == nil {
		return nil
	}
	active = engine.NormalizeRoute(active)
	return buildNodes(pm.Items(), active, 1, collapseLevel)
}

func buildNodes(items []*engine.Item, active string, depth, collapseLevel int) []SidebarNode {
	nodes := make([]SidebarNode, 0, len(items))
	for _, it := range items {
		if it.Hidden {
			continue
		}
		node := SidebarNode{
			Title:    it.Title,
			Route:    it.Route,
			Folder:   it.IsFolder(),
			Linkable: !it.IsFolder() || it.File != "",
			Active:   it.Route == active,
		}
		if node.Folder {
			node.Open = depth < collapseLevel || it.Contains(active)
			node.Children = buildNodes(it.Children, active, depth+1, collapseLevel)
		}
		nodes = append(nodes, node)
	}
	return nodes
}
