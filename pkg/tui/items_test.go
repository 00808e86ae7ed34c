package tui

import (
	"testing"

	"github.com/stefanpenner/switchback/pkg/graph"
	"github.com/stefanpenner/switchback/pkg/study"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPlan() *study.Plan {
	g := &graph.Graph{
		Nodes: []graph.Node{
			{ID: "a", Name: "Arithmetic", Status: graph.StatusFinished},
			{ID: "b", Name: "Algebra", Status: graph.StatusStarted},
			{ID: "c", Name: "Calculus", Status: graph.StatusUnseen},
			{ID: "geo", Name: "Geometry", Status: graph.StatusUnseen},
			{ID: "tri", Name: "Triangles", Status: graph.StatusWatched, ParentID: "geo"},
		},
		Links: []graph.Link{
			{Source: "a", Target: "b"},
			{Source: "b", Target: "c"},
			{Source: "a", Target: "geo"},
		},
	}
	return &study.Plan{
		Graph:    g,
		Goal:     "c",
		Path:     graph.PathMap{"a": "b", "b": "c"},
		Sequence: []string{"a", "b", "c"},
		Next:     "b",
		HasNext:  true,
	}
}

func ids(items []TreeItem) []string {
	var out []string
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func TestBuildItems(t *testing.T) {
	items := BuildItems(testPlan(), map[string]bool{})

	assert.Equal(t, []string{headerPath, "a", "b", "c", headerOther, "geo"}, ids(items))
	assert.Equal(t, 1, items[1].Step)
	assert.True(t, items[2].IsNext)
	assert.False(t, items[3].IsNext)
	assert.True(t, items[5].HasChildren)
	assert.False(t, items[5].IsExpanded)
	assert.Equal(t, "Geometry", items[5].Name)
}

func TestBuildItemsExpanded(t *testing.T) {
	items := BuildItems(testPlan(), map[string]bool{"geo": true})

	assert.Equal(t, []string{headerPath, "a", "b", "c", headerOther, "geo", "tri"}, ids(items))
	tri := items[6]
	assert.Equal(t, 2, tri.Depth)
	assert.Equal(t, "geo", tri.ParentID)
	assert.Equal(t, graph.StatusWatched, tri.Node.Status)
}

func TestBuildItemsWithoutGoal(t *testing.T) {
	plan := testPlan()
	plan.Goal, plan.Path, plan.Sequence, plan.HasNext = "", nil, nil, false

	items := BuildItems(plan, map[string]bool{})
	require.NotEmpty(t, items)
	assert.Equal(t, "ALL", items[0].Name)
	assert.Equal(t, []string{headerOther, "a", "b", "c", "geo"}, ids(items))
}

func TestBuildItemsParentLoop(t *testing.T) {
	plan := &study.Plan{Graph: &graph.Graph{Nodes: []graph.Node{
		{ID: "x", ParentID: "y"},
		{ID: "y", ParentID: "x"},
	}}}

	items := BuildItems(plan, map[string]bool{"x": true, "y": true})
	assert.Equal(t, []string{headerOther, "x", "y"}, ids(items))
}

func TestBuildItemsNil(t *testing.T) {
	assert.Empty(t, BuildItems(nil, nil))
}

func TestFilterVisibleItems(t *testing.T) {
	items := BuildItems(testPlan(), map[string]bool{})
	got := FilterVisibleItems(items, map[string]bool{"c": true}, map[string]bool{headerPath: true})
	assert.Equal(t, []string{headerPath, "c"}, ids(got))
}
