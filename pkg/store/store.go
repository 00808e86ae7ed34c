package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/stefanpenner/switchback/pkg/graph"
	"github.com/stefanpenner/switchback/pkg/validate"
)

var (
	ErrNodeNotFound = errors.New("node not found")
	ErrNodeExists   = errors.New("node already exists")
	ErrInvalidID    = errors.New("invalid node id")
	ErrInvalidLink  = errors.New("invalid prerequisite")
	ErrNoGoal       = errors.New("no goal set")
)

// Store manages the filesystem-backed curriculum.
type Store struct {
	Root string // e.g., ~/.local/share/switchback
}

// NewStore creates a Store rooted at the given directory.
// It creates the directory structure if it doesn't exist.
func NewStore(root string) (*Store, error) {
	nodesDir := filepath.Join(root, "nodes")
	if err := os.MkdirAll(nodesDir, 0755); err != nil {
		return nil, fmt.Errorf("creating nodes directory: %w", err)
	}
	return &Store{Root: root}, nil
}

// NodesDir returns the path to the nodes directory.
func (s *Store) NodesDir() string {
	return filepath.Join(s.Root, "nodes")
}

// CurriculumPath returns the path to curriculum.md.
func (s *Store) CurriculumPath() string {
	return filepath.Join(s.Root, "curriculum.md")
}

// GoalPath returns the path to goal.md.
func (s *Store) GoalPath() string {
	return filepath.Join(s.Root, "goal.md")
}

// NodePath returns the path to a node's node.md.
func (s *Store) NodePath(id string) string {
	return filepath.Join(s.NodesDir(), id, "node.md")
}

// NormalizeID lowercases an id and replaces spaces with dashes.
func NormalizeID(id string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(id), " ", "-"))
}

func checkID(id string) error {
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) || strings.HasPrefix(id, ".") {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return nil
}

// LoadCurriculum reads curriculum.md. A missing file is an empty curriculum.
func (s *Store) LoadCurriculum() (*Curriculum, error) {
	data, err := os.ReadFile(s.CurriculumPath())
	if os.IsNotExist(err) {
		return &Curriculum{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading curriculum.md: %w", err)
	}
	return ParseCurriculum(string(data))
}

// SaveCurriculum writes curriculum.md to disk.
func (s *Store) SaveCurriculum(c *Curriculum) error {
	c.Updated = time.Now()
	content, err := SerializeCurriculum(c)
	if err != nil {
		return err
	}
	return os.WriteFile(s.CurriculumPath(), []byte(content), 0644)
}

// LoadNode reads a single node by id.
func (s *Store) LoadNode(id string) (*Node, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	filePath := s.NodePath(id)
	data, err := os.ReadFile(filePath)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("reading node %s: %w", id, err)
	}

	n, err := ParseNode(string(data))
	if err != nil {
		return nil, fmt.Errorf("node %s: %w", id, err)
	}
	if n.Name == "" {
		n.Name = id
	}
	if err := validate.Struct(n); err != nil {
		return nil, fmt.Errorf("node %s: %w", id, err)
	}

	n.ID = id
	n.FilePath = filePath
	return n, nil
}

// SaveNode writes a node to disk.
func (s *Store) SaveNode(n *Node) error {
	if err := checkID(n.ID); err != nil {
		return err
	}
	if err := validate.Struct(n); err != nil {
		return fmt.Errorf("node %s: %w", n.ID, err)
	}
	n.Updated = time.Now()

	dir := filepath.Join(s.NodesDir(), n.ID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating node directory: %w", err)
	}

	content, err := SerializeNode(n)
	if err != nil {
		return fmt.Errorf("serializing node: %w", err)
	}

	filePath := filepath.Join(dir, "node.md")
	n.FilePath = filePath
	return os.WriteFile(filePath, []byte(content), 0644)
}

func (s *Store) nodeExists(id string) bool {
	_, err := os.Stat(s.NodePath(id))
	return err == nil
}

// CreateNode creates a new node and appends it to the curriculum order.
// Every prerequisite must already exist.
func (s *Store) CreateNode(spec NewNode) (*Node, error) {
	id := NormalizeID(spec.ID)
	if err := checkID(id); err != nil {
		return nil, err
	}
	if s.nodeExists(id) {
		return nil, fmt.Errorf("%w: %s", ErrNodeExists, id)
	}

	var prereqs []string
	for _, p := range spec.Prerequisites {
		p = NormalizeID(p)
		if p == id {
			return nil, fmt.Errorf("%w: %s cannot require itself", ErrInvalidLink, id)
		}
		if !s.nodeExists(p) {
			return nil, fmt.Errorf("%w: prerequisite %s: %w", ErrInvalidLink, p, ErrNodeNotFound)
		}
		if !contains(prereqs, p) {
			prereqs = append(prereqs, p)
		}
	}
	if spec.Parent != "" && !s.nodeExists(NormalizeID(spec.Parent)) {
		return nil, fmt.Errorf("parent %s: %w", spec.Parent, ErrNodeNotFound)
	}

	name := strings.TrimSpace(spec.Name)
	if name == "" {
		name = id
	}

	now := time.Now()
	n := &Node{
		Name:          name,
		Type:          spec.Type,
		Status:        graph.StatusUnseen,
		Parent:        NormalizeID(spec.Parent),
		Prerequisites: prereqs,
		Created:       now,
		Updated:       now,
		Description:   spec.Description,
		ID:            id,
	}
	if err := s.SaveNode(n); err != nil {
		return nil, err
	}

	c, err := s.LoadCurriculum()
	if err != nil {
		return nil, err
	}
	if !contains(c.Order, id) {
		c.Order = append(c.Order, id)
		if err := s.SaveCurriculum(c); err != nil {
			return nil, err
		}
	}
	return n, nil
}

// DeleteNode removes a node, every prerequisite link pointing at it, and its
// place in the curriculum. Clears the goal if it was the goal.
func (s *Store) DeleteNode(id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	dir := filepath.Join(s.NodesDir(), id)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("removing node %s: %w", id, err)
	}

	nodes, err := s.LoadNodes()
	if err != nil {
		return err
	}
	for _, n := range nodes {
		changed := false
		if contains(n.Prerequisites, id) {
			n.Prerequisites = remove(n.Prerequisites, id)
			changed = true
		}
		if n.Parent == id {
			n.Parent = ""
			changed = true
		}
		if changed {
			if err := s.SaveNode(n); err != nil {
				return err
			}
		}
	}

	c, err := s.LoadCurriculum()
	if err != nil {
		return err
	}
	if contains(c.Order, id) {
		c.Order = remove(c.Order, id)
		if err := s.SaveCurriculum(c); err != nil {
			return err
		}
	}

	goal, err := s.LoadGoal()
	if err != nil {
		return err
	}
	if goal.Node == id {
		return s.ClearGoal()
	}
	return nil
}

// RenameNode changes a node's display name. The id is unchanged.
func (s *Store) RenameNode(id, name string) (*Node, error) {
	n, err := s.LoadNode(id)
	if err != nil {
		return nil, err
	}
	n.Name = strings.TrimSpace(name)
	if err := s.SaveNode(n); err != nil {
		return nil, err
	}
	return n, nil
}

// AddPrerequisite records that prereq must be learned before id.
// Links that would close a cycle are rejected. Adding an existing link is a no-op.
func (s *Store) AddPrerequisite(id, prereq string) (*Node, error) {
	if id == prereq {
		return nil, fmt.Errorf("%w: %s cannot require itself", ErrInvalidLink, id)
	}
	n, err := s.LoadNode(id)
	if err != nil {
		return nil, err
	}
	if _, err := s.LoadNode(prereq); err != nil {
		return nil, fmt.Errorf("%w: prerequisite %s: %w", ErrInvalidLink, prereq, err)
	}
	if contains(n.Prerequisites, prereq) {
		return n, nil
	}

	g, err := s.LoadGraph()
	if err != nil {
		return nil, err
	}
	// id already feeds into prereq, so the new link would close a loop.
	if graph.AllPreviousNodes(graph.BuildAdjacency(g.Links), id).Has(prereq) {
		return nil, fmt.Errorf("%w: %s already depends on %s", ErrInvalidLink, prereq, id)
	}

	n.Prerequisites = append(n.Prerequisites, prereq)
	if err := s.SaveNode(n); err != nil {
		return nil, err
	}
	return n, nil
}

// RemovePrerequisite drops the link prereq -> id.
func (s *Store) RemovePrerequisite(id, prereq string) (*Node, error) {
	n, err := s.LoadNode(id)
	if err != nil {
		return nil, err
	}
	if !contains(n.Prerequisites, prereq) {
		return nil, fmt.Errorf("%w: %s does not require %s", ErrInvalidLink, id, prereq)
	}
	n.Prerequisites = remove(n.Prerequisites, prereq)
	if err := s.SaveNode(n); err != nil {
		return nil, err
	}
	return n, nil
}

// NodeError is a node left out of the graph, or a prerequisite that names
// a node which does not exist.
type NodeError struct {
	ID  string
	Err error
}

func (e NodeError) Error() string {
	return e.Err.Error()
}

func (e NodeError) Unwrap() error {
	return e.Err
}

// LoadNodes loads every readable node. Nodes listed in curriculum.md come
// first in that order, the rest follow alphabetically. Use ScanNodes to learn
// which nodes were left out.
func (s *Store) LoadNodes() ([]*Node, error) {
	nodes, _, err := s.ScanNodes()
	return nodes, err
}

// ScanNodes is LoadNodes plus the node directories that failed to parse or
// validate.
func (s *Store) ScanNodes() ([]*Node, []NodeError, error) {
	entries, err := os.ReadDir(s.NodesDir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("reading nodes directory: %w", err)
	}

	nodeMap := make(map[string]*Node)
	var defaultOrder []string
	var broken []NodeError
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		n, err := s.LoadNode(entry.Name())
		if err != nil {
			broken = append(broken, NodeError{ID: entry.Name(), Err: fmt.Errorf("unreadable %w", err)})
			continue
		}
		nodeMap[entry.Name()] = n
		defaultOrder = append(defaultOrder, entry.Name())
	}
	sort.Strings(defaultOrder)

	c, err := s.LoadCurriculum()
	if err != nil {
		return nil, nil, err
	}

	var nodes []*Node
	seen := make(map[string]bool)
	for _, id := range c.Order {
		if n, ok := nodeMap[id]; ok && !seen[id] {
			nodes = append(nodes, n)
			seen[id] = true
		}
	}
	// Append any not in the ordering
	for _, id := range defaultOrder {
		if !seen[id] {
			nodes = append(nodes, nodeMap[id])
		}
	}
	return nodes, broken, nil
}

// ToGraph converts loaded nodes into an engine snapshot. Links follow node
// order and then prerequisite order, which fixes traversal tie-breaks.
// Prerequisites naming a node outside nodes produce no link.
func ToGraph(nodes []*Node) *graph.Graph {
	g := &graph.Graph{Nodes: []graph.Node{}, Links: []graph.Link{}}
	known := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		g.Nodes = append(g.Nodes, n.GraphNode())
		known[n.ID] = true
	}
	for _, n := range nodes {
		for _, p := range n.Prerequisites {
			if known[p] {
				g.Links = append(g.Links, graph.Link{Source: p, Target: n.ID})
			}
		}
	}
	return g
}

// LoadGraph loads the whole curriculum as a graph snapshot.
func (s *Store) LoadGraph() (*graph.Graph, error) {
	g, _, err := s.ScanGraph()
	return g, err
}

// ScanGraph is LoadGraph plus everything that kept a node or a link out of
// it: unreadable node files and prerequisites naming missing nodes. Every
// link endpoint in the returned graph is one of its nodes.
func (s *Store) ScanGraph() (*graph.Graph, []NodeError, error) {
	nodes, problems, err := s.ScanNodes()
	if err != nil {
		return nil, nil, err
	}

	known := make(map[string]bool, len(nodes)+len(problems))
	for _, n := range nodes {
		known[n.ID] = true
	}
	for _, p := range problems {
		known[p.ID] = true
	}
	for _, n := range nodes {
		for _, p := range n.Prerequisites {
			if !known[p] {
				problems = append(problems, NodeError{
					ID:  n.ID,
					Err: fmt.Errorf("node %s requires %s: %w", n.ID, p, ErrNodeNotFound),
				})
			}
		}
	}
	return ToGraph(nodes), problems, nil
}

// SaveStatuses writes back every node whose status in g differs from disk
// and returns their ids. Nodes in g that are not on disk are ignored.
func (s *Store) SaveStatuses(g *graph.Graph) ([]string, error) {
	var changed []string
	for _, gn := range g.Nodes {
		n, err := s.LoadNode(gn.ID)
		if errors.Is(err, ErrNodeNotFound) {
			continue
		}
		if err != nil {
			return changed, err
		}
		if n.GraphNode().Status == gn.Status {
			continue
		}
		n.Status = gn.Status
		if err := s.SaveNode(n); err != nil {
			return changed, err
		}
		changed = append(changed, gn.ID)
	}
	return changed, nil
}

// LoadGoal reads goal.md. A missing file is an empty goal.
func (s *Store) LoadGoal() (*Goal, error) {
	data, err := os.ReadFile(s.GoalPath())
	if os.IsNotExist(err) {
		return &Goal{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading goal.md: %w", err)
	}
	return ParseGoal(string(data))
}

// SaveGoal points goal.md at an existing node.
func (s *Store) SaveGoal(id string) (*Goal, error) {
	if _, err := s.LoadNode(id); err != nil {
		return nil, err
	}
	g, err := s.LoadGoal()
	if err != nil {
		return nil, err
	}
	g.Node = id
	g.Updated = time.Now()
	content, err := SerializeGoal(g)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(s.GoalPath(), []byte(content), 0644); err != nil {
		return nil, err
	}
	return g, nil
}

// ClearGoal removes goal.md.
func (s *Store) ClearGoal() error {
	err := os.Remove(s.GoalPath())
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing goal.md: %w", err)
	}
	return nil
}

// MoveNode swaps a node with its neighbour in the curriculum order
// (delta: -1 for up, +1 for down).
func (s *Store) MoveNode(id string, delta int) error {
	nodes, err := s.LoadNodes()
	if err != nil {
		return err
	}
	order := make([]string, len(nodes))
	for i, n := range nodes {
		order[i] = n.ID
	}

	idx := -1
	for i, name := range order {
		if name == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}

	newIdx := idx + delta
	if newIdx < 0 || newIdx >= len(order) {
		return nil // at boundary, nothing to do
	}
	order[idx], order[newIdx] = order[newIdx], order[idx]

	c, err := s.LoadCurriculum()
	if err != nil {
		return err
	}
	c.Order = order
	return s.SaveCurriculum(c)
}

// SearchNodes returns nodes whose id, name or description contains query.
func (s *Store) SearchNodes(query string) ([]*Node, error) {
	nodes, err := s.LoadNodes()
	if err != nil {
		return nil, err
	}

	query = strings.ToLower(query)
	var matches []*Node
	for _, n := range nodes {
		if strings.Contains(n.ID, query) ||
			strings.Contains(strings.ToLower(n.Name), query) ||
			strings.Contains(strings.ToLower(n.Description), query) {
			matches = append(matches, n)
		}
	}
	return matches, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func remove(list []string, s string) []string {
	var out []string
	for _, v := range list {
		if v != s {
			out = append(out, v)
		}
	}
	return out
}
