// Package graph computes study paths and status changes over a curriculum of
// topics joined by prerequisite links. Every function takes a snapshot and
// returns a new value; nothing here does I/O or mutates its input.
package graph

import "fmt"

// Status represents how far a learner has got with a node.
type Status string

const (
	StatusUnseen   Status = "unseen"
	StatusNext     Status = "next"
	StatusStarted  Status = "started"
	StatusWatched  Status = "watched"
	StatusFinished Status = "finished"
)

// Statuses lists every valid status in learning order.
var Statuses = []Status{StatusUnseen, StatusNext, StatusStarted, StatusWatched, StatusFinished}

// ParseStatus converts a string to a Status. The empty string is unseen.
func ParseStatus(s string) (Status, error) {
	if s == "" {
		return StatusUnseen, nil
	}
	for _, st := range Statuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("invalid status %q (use unseen, next, started, watched or finished)", s)
}

// Node is one unit of knowledge in a curriculum.
type Node struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Type        string `json:"node_type,omitempty"`
	Status      Status `json:"status"`

	// ParentID groups nodes into sub-graphs. It is not a prerequisite edge.
	ParentID string `json:"parent_id,omitempty"`
}

// IsFinished returns true if the node has been mastered.
func (n Node) IsFinished() bool {
	return n.Status == StatusFinished
}

// Link is a prerequisite edge: Source must be learned before Target.
type Link struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// Graph is a snapshot of a curriculum. Node ids are unique within a Graph.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Links []Link `json:"links"`
}

// Node looks up a node by id.
func (g *Graph) Node(id string) (Node, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// IDs returns node ids in node order.
func (g *Graph) IDs() []string {
	ids := make([]string, len(g.Nodes))
	for i, n := range g.Nodes {
		ids[i] = n.ID
	}
	return ids
}

// Clone returns a deep copy of the graph.
func (g *Graph) Clone() *Graph {
	return Clone(g)
}

// IDSet is a set of node ids.
type IDSet map[string]struct{}

// Has reports whether id is in the set.
func (s IDSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

func (s IDSet) add(id string) {
	s[id] = struct{}{}
}
