package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chain builds a graph where each id is a prerequisite of the next.
func chain(ids ...string) *Graph {
	g := &Graph{}
	for i, id := range ids {
		g.Nodes = append(g.Nodes, Node{ID: id, Name: id, Status: StatusUnseen})
		if i > 0 {
			g.Links = append(g.Links, Link{Source: ids[i-1], Target: id})
		}
	}
	return g
}

// build creates a graph from node ids and "a>b" link strings.
func build(t *testing.T, ids []string, links ...string) *Graph {
	t.Helper()
	g := &Graph{}
	for _, id := range ids {
		g.Nodes = append(g.Nodes, Node{ID: id, Name: id, Status: StatusUnseen})
	}
	for _, l := range links {
		var src, dst string
		for i := 0; i < len(l); i++ {
			if l[i] == '>' {
				src, dst = l[:i], l[i+1:]
				break
			}
		}
		require.NotEmpty(t, src, "bad link %q", l)
		g.Links = append(g.Links, Link{Source: src, Target: dst})
	}
	return g
}

func statuses(g *Graph) map[string]Status {
	m := make(map[string]Status, len(g.Nodes))
	for _, n := range g.Nodes {
		m[n.ID] = n.Status
	}
	return m
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    Status
		wantErr bool
	}{
		{"", StatusUnseen, false},
		{"unseen", StatusUnseen, false},
		{"next", StatusNext, false},
		{"started", StatusStarted, false},
		{"watched", StatusWatched, false},
		{"finished", StatusFinished, false},
		{"done", "", true},
		{"Finished", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseStatus(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCloneIndependence(t *testing.T) {
	g := chain("a", "b", "c")
	g.Nodes[0].ParentID = "intro"

	c := Clone(g)
	require.Equal(t, g, c)

	c.Nodes[0].Status = StatusFinished
	c.Nodes[0].Name = "changed"
	c.Nodes[0].ParentID = ""
	c.Links[0].Source = "zzz"
	c.Nodes = append(c.Nodes, Node{ID: "d"})
	c.Links = append(c.Links, Link{Source: "c", Target: "d"})

	assert.Equal(t, StatusUnseen, g.Nodes[0].Status)
	assert.Equal(t, "a", g.Nodes[0].Name)
	assert.Equal(t, "intro", g.Nodes[0].ParentID)
	assert.Equal(t, "a", g.Links[0].Source)
	assert.Len(t, g.Nodes, 3)
	assert.Len(t, g.Links, 2)
}

func TestCloneNil(t *testing.T) {
	c := Clone(nil)
	require.NotNil(t, c)
	assert.Empty(t, c.Nodes)
	assert.Empty(t, c.Links)
}

func TestBuildAdjacency(t *testing.T) {
	links := []Link{
		{Source: "a", Target: "b"},
		{Source: "a", Target: "c"},
		{Source: "b", Target: "c"},
		{Source: "a", Target: "b"}, // duplicate is tolerated
	}

	fwd := BuildAdjacency(links)
	assert.Equal(t, Adjacency{
		"a": {"b", "c", "b"},
		"b": {"c"},
		"c": {},
	}, fwd)

	rev := BuildReverseAdjacency(links)
	assert.Equal(t, Adjacency{
		"a": {},
		"b": {"a", "a"},
		"c": {"a", "b"},
	}, rev)
}

func TestAdjacencyCompleteness(t *testing.T) {
	g := build(t, []string{"a", "b", "c", "d", "e"}, "a>b", "c>d", "d>b", "e>e")

	fwd := BuildAdjacency(g.Links)
	rev := BuildReverseAdjacency(g.Links)
	for _, l := range g.Links {
		for _, id := range []string{l.Source, l.Target} {
			assert.Contains(t, fwd, id)
			assert.Contains(t, rev, id)
		}
	}
}

func TestBuildAdjacencyEmpty(t *testing.T) {
	assert.Empty(t, BuildAdjacency(nil))
	assert.Empty(t, BuildReverseAdjacency(nil))
}

func TestFilter(t *testing.T) {
	g := build(t, []string{"a", "b", "c", "d"}, "a>b", "b>c", "c>d", "a>d")
	g.Nodes[1].ParentID = "algebra"
	g.Nodes[2].ParentID = "algebra"
	g.Nodes[3].ParentID = "algebra"

	sub := Filter(g, func(n Node) bool { return n.ParentID == "algebra" })
	assert.Equal(t, []string{"b", "c", "d"}, sub.IDs())
	assert.Equal(t, []Link{{Source: "b", Target: "c"}, {Source: "c", Target: "d"}}, sub.Links)

	// Input is untouched
	assert.Len(t, g.Nodes, 4)
	assert.Len(t, g.Links, 4)

	none := Filter(g, func(Node) bool { return false })
	assert.Empty(t, none.Nodes)
	assert.Empty(t, none.Links)
}

func TestRoots(t *testing.T) {
	g := build(t, []string{"x", "a", "b", "c"}, "a>b", "b>c")
	assert.Equal(t, []string{"x", "a"}, Roots(g))

	cyclic := build(t, []string{"a", "b"}, "a>b", "b>a")
	assert.Empty(t, Roots(cyclic))
}

func TestGraphNodeLookup(t *testing.T) {
	g := chain("a", "b")

	n, ok := g.Node("b")
	require.True(t, ok)
	assert.Equal(t, "b", n.Name)

	_, ok = g.Node("missing")
	assert.False(t, ok)
}
