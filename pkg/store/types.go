package store

import (
	"time"

	"github.com/stefanpenner/switchback/pkg/graph"
)

// Node is a topic loaded from nodes/<id>/node.md.
type Node struct {
	// Frontmatter fields
	Name          string       `yaml:"name" validate:"required"`
	Type          string       `yaml:"type,omitempty"`
	Status        graph.Status `yaml:"status,omitempty" validate:"omitempty,oneof=unseen next started watched finished"`
	Parent        string       `yaml:"parent,omitempty" validate:"excludesall=/\\"`
	Prerequisites []string     `yaml:"prerequisites,omitempty" validate:"dive,required,excludesall=/\\"`
	Created       time.Time    `yaml:"created"`
	Updated       time.Time    `yaml:"updated"`

	// Parsed from markdown body
	Description string `yaml:"-"`

	// Filesystem metadata (not serialized to YAML)
	ID       string `yaml:"-"` // directory name
	FilePath string `yaml:"-"` // absolute path to node.md
}

// IsFinished returns true if the node is mastered.
func (n *Node) IsFinished() bool {
	return n.Status == graph.StatusFinished
}

// GraphNode converts the file representation to the engine's node.
func (n *Node) GraphNode() graph.Node {
	status := n.Status
	if status == "" {
		status = graph.StatusUnseen
	}
	return graph.Node{
		ID:          n.ID,
		Name:        n.Name,
		Description: n.Description,
		Type:        n.Type,
		Status:      status,
		ParentID:    n.Parent,
	}
}

// NewNode holds the fields accepted when creating a node.
type NewNode struct {
	ID            string
	Name          string
	Type          string
	Parent        string
	Prerequisites []string
	Description   string
}

// Curriculum is curriculum.md: a title plus the ordered list of node ids.
// The order decides which root the planner starts from and how ties between
// prerequisites are broken.
type Curriculum struct {
	Title   string    `yaml:"title,omitempty"`
	Updated time.Time `yaml:"updated"`
	Order   []string  `yaml:"-"` // numbered list in the body
}

// Goal is goal.md: the single node the learner is working towards.
type Goal struct {
	Node    string    `yaml:"goal"`
	Updated time.Time `yaml:"updated"`
	Note    string    `yaml:"-"`
}

// Answer is one entry in history.yaml.
type Answer struct {
	ID      string    `yaml:"id" json:"id"`
	Node    string    `yaml:"node" json:"node"`
	Correct bool      `yaml:"correct" json:"correct"`
	Changed []string  `yaml:"changed,omitempty" json:"changed,omitempty"`
	At      time.Time `yaml:"at" json:"at"`
}
