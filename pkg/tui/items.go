package tui

import (
	"github.com/stefanpenner/switchback/pkg/graph"
	"github.com/stefanpenner/switchback/pkg/study"
)

const (
	headerPath  = "__header_path"
	headerOther = "__header_other"
)

// TreeItem is one row of the left pane.
type TreeItem struct {
	ID              string // node id, or a header id
	ParentID        string // parent row's ID for search ancestor tracking
	Name            string
	Node            graph.Node
	Depth           int
	Step            int // 1-based position on the path, 0 when off the path
	IsNext          bool
	HasChildren     bool
	IsExpanded      bool
	IsSectionHeader bool // true for the PATH and OTHER headers
}

// BuildItems lays out a plan as rows: the path to the goal in order under a
// PATH header, then every other node nested by parent under OTHER.
func BuildItems(plan *study.Plan, expanded map[string]bool) []TreeItem {
	if plan == nil || plan.Graph == nil {
		return nil
	}
	g := plan.Graph

	var result []TreeItem
	onPath := make(map[string]bool, len(plan.Sequence))
	if len(plan.Sequence) > 0 {
		result = append(result, TreeItem{
			ID:              headerPath,
			Name:            "PATH",
			IsSectionHeader: true,
		})
		for i, id := range plan.Sequence {
			onPath[id] = true
			n, _ := g.Node(id)
			result = append(result, TreeItem{
				ID:       id,
				ParentID: headerPath,
				Name:     displayName(n),
				Node:     n,
				Depth:    1,
				Step:     i + 1,
				IsNext:   plan.HasNext && id == plan.Next,
			})
		}
	}

	var rest []graph.Node
	inRest := make(map[string]bool)
	for _, n := range g.Nodes {
		if !onPath[n.ID] {
			rest = append(rest, n)
			inRest[n.ID] = true
		}
	}
	if len(rest) == 0 {
		return result
	}

	children := make(map[string][]graph.Node)
	var tops []graph.Node
	for _, n := range rest {
		if n.ParentID != "" && n.ParentID != n.ID && inRest[n.ParentID] {
			children[n.ParentID] = append(children[n.ParentID], n)
		} else {
			tops = append(tops, n)
		}
	}
	// Parent loops leave nodes unreachable from any top row; lift them.
	reached := make(map[string]bool)
	var mark func(id string)
	mark = func(id string) {
		if reached[id] {
			return
		}
		reached[id] = true
		for _, c := range children[id] {
			mark(c.ID)
		}
	}
	for _, n := range tops {
		mark(n.ID)
	}
	for _, n := range rest {
		if !reached[n.ID] {
			tops = append(tops, n)
			mark(n.ID)
		}
	}

	header := "OTHER"
	if len(result) == 0 {
		header = "ALL"
	}
	result = append(result, TreeItem{
		ID:              headerOther,
		Name:            header,
		IsSectionHeader: true,
	})
	seen := make(map[string]bool)
	flattenNodes(tops, children, 1, headerOther, expanded, seen, &result)
	return result
}

func flattenNodes(nodes []graph.Node, children map[string][]graph.Node, depth int, parentID string, expanded map[string]bool, seen map[string]bool, result *[]TreeItem) {
	for _, n := range nodes {
		if seen[n.ID] {
			continue
		}
		seen[n.ID] = true
		item := TreeItem{
			ID:          n.ID,
			ParentID:    parentID,
			Name:        displayName(n),
			Node:        n,
			Depth:       depth,
			HasChildren: len(children[n.ID]) > 0,
			IsExpanded:  expanded[n.ID],
		}
		*result = append(*result, item)

		if item.HasChildren && item.IsExpanded {
			flattenNodes(children[n.ID], children, depth+1, n.ID, expanded, seen, result)
		}
	}
}

func displayName(n graph.Node) string {
	if n.Name != "" {
		return n.Name
	}
	return n.ID
}

// FilterVisibleItems filters already-flattened visible items to only include
// items whose ID is in matchIDs or ancestorIDs.
func FilterVisibleItems(items []TreeItem, matchIDs, ancestorIDs map[string]bool) []TreeItem {
	var result []TreeItem
	for _, item := range items {
		if matchIDs[item.ID] || ancestorIDs[item.ID] {
			result = append(result, item)
		}
	}
	return result
}
