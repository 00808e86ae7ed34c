package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateGraphRightAnswer(t *testing.T) {
	g := chain("A", "B", "C")

	out := UpdateGraph(g, "B", true)
	assert.Equal(t, map[string]Status{
		"A": StatusFinished,
		"B": StatusFinished,
		"C": StatusUnseen,
	}, statuses(out))

	// The input snapshot is untouched.
	for _, n := range g.Nodes {
		assert.Equal(t, StatusUnseen, n.Status)
	}
}

func TestUpdateGraphWrongAnswer(t *testing.T) {
	g := chain("A", "B", "C")

	out := UpdateGraph(g, "B", false)
	assert.Equal(t, map[string]Status{
		"A": StatusStarted,
		"B": StatusStarted,
		"C": StatusStarted,
	}, statuses(out))
}

func TestUpdateGraphWrongAnswerKeepsFinishedAncestor(t *testing.T) {
	g := chain("A", "B", "C")
	g.Nodes[0].Status = StatusFinished

	out := UpdateGraph(g, "B", false)
	assert.Equal(t, map[string]Status{
		"A": StatusFinished,
		"B": StatusStarted,
		"C": StatusStarted,
	}, statuses(out))
}

func TestUpdateGraphFinishedIsSticky(t *testing.T) {
	g := build(t, []string{"a", "b", "c", "d", "e"}, "a>b", "b>c", "c>d", "b>e")

	for _, y := range g.IDs() {
		for _, x := range g.IDs() {
			in := Clone(g)
			for i := range in.Nodes {
				if in.Nodes[i].ID == x {
					in.Nodes[i].Status = StatusFinished
				}
			}
			out := UpdateGraph(in, y, false)
			n, ok := out.Node(x)
			require.True(t, ok)
			assert.Equal(t, StatusFinished, n.Status, "wrong answer on %s downgraded %s", y, x)
		}
	}
}

func TestUpdateGraphWrongAnswerLeavesUnrelatedNodes(t *testing.T) {
	g := build(t, []string{"a", "b", "c", "x"}, "a>b", "b>c", "a>x")
	g.Nodes[3].Status = StatusWatched

	out := UpdateGraph(g, "b", false)
	assert.Equal(t, StatusWatched, statuses(out)["x"])
	assert.Equal(t, StatusStarted, statuses(out)["a"])
}

func TestUpdateGraphMissingNode(t *testing.T) {
	g := chain("a", "b", "c")
	g.Nodes[1].Status = StatusStarted

	assert.Equal(t, Clone(g), UpdateGraph(g, "nonexistent-id", true))
	assert.Equal(t, Clone(g), UpdateGraph(g, "nonexistent-id", false))
	assert.Equal(t, Clone(g), UpdateGraph(g, "", true))
}

func TestUpdateGraphCycle(t *testing.T) {
	g := build(t, []string{"a", "b", "c"}, "a>b", "b>c", "c>a")

	var out *Graph
	withinDeadline(t, func() { out = UpdateGraph(g, "b", true) })
	for _, n := range out.Nodes {
		assert.Equal(t, StatusFinished, n.Status)
	}
}

func TestMarkKnown(t *testing.T) {
	g := chain("a", "b", "c")

	out := MarkKnown(g, "b")
	assert.Equal(t, map[string]Status{
		"a": StatusFinished,
		"b": StatusFinished,
		"c": StatusUnseen,
	}, statuses(out))
	assert.Equal(t, StatusUnseen, g.Nodes[0].Status)
}

func TestSetStatus(t *testing.T) {
	g := chain("a", "b")
	g.Nodes[0].Status = StatusFinished

	out := SetStatus(g, "b", StatusWatched)
	assert.Equal(t, StatusWatched, statuses(out)["b"])
	assert.Equal(t, StatusFinished, statuses(out)["a"])
	assert.Equal(t, StatusUnseen, statuses(g)["b"])

	reset := SetStatus(out, "a", StatusUnseen)
	assert.Equal(t, StatusUnseen, statuses(reset)["a"])
}

func TestChanged(t *testing.T) {
	g := chain("a", "b", "c")
	out := UpdateGraph(g, "b", true)

	assert.Equal(t, []string{"a", "b"}, Changed(g, out))
	assert.Empty(t, Changed(out, out))
}
