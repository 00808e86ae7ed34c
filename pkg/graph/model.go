package graph

// Clone deep-copies a graph so the copy can be mutated without touching g.
// A nil graph clones to an empty one.
func Clone(g *Graph) *Graph {
	if g == nil {
		return &Graph{}
	}
	out := &Graph{
		Nodes: make([]Node, len(g.Nodes)),
		Links: make([]Link, len(g.Links)),
	}
	copy(out.Nodes, g.Nodes)
	copy(out.Links, g.Links)
	return out
}

// Adjacency maps a node id to the ids it points at.
type Adjacency map[string][]string

// BuildAdjacency returns the forward adjacency (prerequisite -> dependents).
// Every endpoint gets a key, even without outgoing edges. Duplicate links are kept.
func BuildAdjacency(links []Link) Adjacency {
	adj := make(Adjacency)
	for _, l := range links {
		ensureKey(adj, l.Source)
		ensureKey(adj, l.Target)
		adj[l.Source] = append(adj[l.Source], l.Target)
	}
	return adj
}

// BuildReverseAdjacency returns the reverse adjacency (node -> its prerequisites).
func BuildReverseAdjacency(links []Link) Adjacency {
	adj := make(Adjacency)
	for _, l := range links {
		ensureKey(adj, l.Source)
		ensureKey(adj, l.Target)
		adj[l.Target] = append(adj[l.Target], l.Source)
	}
	return adj
}

func ensureKey(adj Adjacency, id string) {
	if _, ok := adj[id]; !ok {
		adj[id] = []string{}
	}
}

// Filter returns the subgraph induced by the nodes matching keep.
func Filter(g *Graph, keep func(Node) bool) *Graph {
	out := &Graph{Nodes: []Node{}, Links: []Link{}}
	if g == nil {
		return out
	}
	kept := make(IDSet)
	for _, n := range g.Nodes {
		if keep(n) {
			out.Nodes = append(out.Nodes, n)
			kept.add(n.ID)
		}
	}
	for _, l := range g.Links {
		if kept.Has(l.Source) && kept.Has(l.Target) {
			out.Links = append(out.Links, l)
		}
	}
	return out
}

// Roots returns the nodes without prerequisites, in node order.
func Roots(g *Graph) []string {
	reverse := BuildReverseAdjacency(g.Links)
	var roots []string
	for _, n := range g.Nodes {
		if len(reverse[n.ID]) == 0 {
			roots = append(roots, n.ID)
		}
	}
	return roots
}
