package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stefanpenner/switchback/pkg/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	s, err := NewStore(dir)
	require.NoError(t, err)
	return s
}

// seed creates nodes in order; "b:a,c" makes b require a and c.
func seed(t *testing.T, s *Store, specs ...string) {
	t.Helper()
	for _, spec := range specs {
		id, rest := spec, ""
		for i := 0; i < len(spec); i++ {
			if spec[i] == ':' {
				id, rest = spec[:i], spec[i+1:]
				break
			}
		}
		var prereqs []string
		start := 0
		for i := 0; i <= len(rest); i++ {
			if i == len(rest) || rest[i] == ',' {
				if i > start {
					prereqs = append(prereqs, rest[start:i])
				}
				start = i + 1
			}
		}
		_, err := s.CreateNode(NewNode{ID: id, Prerequisites: prereqs})
		require.NoError(t, err, "creating %s", spec)
	}
}

func TestCreateNode(t *testing.T) {
	s := setupTestStore(t)

	n, err := s.CreateNode(NewNode{ID: "Linear Algebra", Name: "Linear Algebra", Type: "course"})
	require.NoError(t, err)
	assert.Equal(t, "linear-algebra", n.ID)
	assert.Equal(t, "Linear Algebra", n.Name)
	assert.Equal(t, graph.StatusUnseen, n.Status)

	_, err = os.Stat(filepath.Join(s.NodesDir(), "linear-algebra", "node.md"))
	assert.NoError(t, err)

	c, err := s.LoadCurriculum()
	require.NoError(t, err)
	assert.Equal(t, []string{"linear-algebra"}, c.Order)
}

func TestCreateNodeDefaultsName(t *testing.T) {
	s := setupTestStore(t)

	n, err := s.CreateNode(NewNode{ID: "sets"})
	require.NoError(t, err)
	assert.Equal(t, "sets", n.Name)
}

func TestCreateNodeErrors(t *testing.T) {
	s := setupTestStore(t)
	seed(t, s, "a")

	_, err := s.CreateNode(NewNode{ID: "a"})
	assert.ErrorIs(t, err, ErrNodeExists)

	_, err = s.CreateNode(NewNode{ID: "b", Prerequisites: []string{"ghost"}})
	assert.ErrorIs(t, err, ErrInvalidLink)
	assert.ErrorIs(t, err, ErrNodeNotFound)

	_, err = s.CreateNode(NewNode{ID: "b", Prerequisites: []string{"b"}})
	assert.ErrorIs(t, err, ErrInvalidLink)

	_, err = s.CreateNode(NewNode{ID: "../escape"})
	assert.ErrorIs(t, err, ErrInvalidID)

	_, err = s.CreateNode(NewNode{ID: "b", Parent: "ghost"})
	assert.ErrorIs(t, err, ErrNodeNotFound)
}

func TestLoadNodeNotFound(t *testing.T) {
	s := setupTestStore(t)

	_, err := s.LoadNode("nope")
	assert.ErrorIs(t, err, ErrNodeNotFound)
}

func TestSaveAndLoadNode(t *testing.T) {
	s := setupTestStore(t)
	seed(t, s, "a", "b:a")

	n, err := s.LoadNode("b")
	require.NoError(t, err)
	n.Description = "Vectors and matrices."
	n.Status = graph.StatusWatched
	require.NoError(t, s.SaveNode(n))

	got, err := s.LoadNode("b")
	require.NoError(t, err)
	assert.Equal(t, "Vectors and matrices.", got.Description)
	assert.Equal(t, graph.StatusWatched, got.Status)
	assert.Equal(t, []string{"a"}, got.Prerequisites)
	assert.Equal(t, "b", got.ID)
}

func TestSaveNodeRejectsInvalidStatus(t *testing.T) {
	s := setupTestStore(t)
	seed(t, s, "a")

	n, err := s.LoadNode("a")
	require.NoError(t, err)
	n.Status = "mastered"
	assert.Error(t, s.SaveNode(n))
}

func TestSaveNodeRejectsPathInLinks(t *testing.T) {
	s := setupTestStore(t)
	seed(t, s, "a", "b:a")

	n, err := s.LoadNode("b")
	require.NoError(t, err)
	n.Prerequisites = []string{"../a"}
	err = s.SaveNode(n)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "prerequisites[0] must not contain any of")

	n.Prerequisites = []string{"a"}
	n.Parent = `x\y`
	err = s.SaveNode(n)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parent must not contain any of")
}

func TestLoadNodesOrder(t *testing.T) {
	s := setupTestStore(t)
	seed(t, s, "c", "a", "b")

	// A node dir written by hand is not in curriculum.md and sorts last.
	dir := filepath.Join(s.NodesDir(), "0-manual")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "node.md"), []byte("---\nname: Manual\n---\n"), 0644))

	nodes, err := s.LoadNodes()
	require.NoError(t, err)
	var ids []string
	for _, n := range nodes {
		ids = append(ids, n.ID)
	}
	assert.Equal(t, []string{"c", "a", "b", "0-manual"}, ids)
}

func TestLoadNodesSkipsBroken(t *testing.T) {
	s := setupTestStore(t)
	seed(t, s, "a")

	dir := filepath.Join(s.NodesDir(), "broken")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "node.md"), []byte("---\nstatus: bogus\n---\n"), 0644))

	nodes, err := s.LoadNodes()
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, "a", nodes[0].ID)

	nodes, broken, err := s.ScanNodes()
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	require.Len(t, broken, 1)
	assert.Equal(t, "broken", broken[0].ID)
	assert.Contains(t, broken[0].Error(), "unreadable node broken: status must be one of")
}

func TestScanGraphDropsLinksToBrokenNodes(t *testing.T) {
	s := setupTestStore(t)
	seed(t, s, "a", "b:a", "c:b")

	// A hand edit leaves b invalid; c still lists it as a prerequisite.
	require.NoError(t, os.WriteFile(s.NodePath("b"), []byte("---\nname: b\nstatus: done\nprerequisites:\n    - a\n---\n"), 0644))

	g, problems, err := s.ScanGraph()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, g.IDs())
	assert.Empty(t, g.Links)
	require.Len(t, problems, 1)
	assert.Equal(t, "b", problems[0].ID)
	assert.Contains(t, problems[0].Error(), "unreadable node b")

	loaded, err := s.LoadGraph()
	require.NoError(t, err)
	assert.Equal(t, g, loaded)
}

func TestScanGraphReportsMissingPrerequisite(t *testing.T) {
	s := setupTestStore(t)
	seed(t, s, "a", "b:a")

	n, err := s.LoadNode("b")
	require.NoError(t, err)
	n.Prerequisites = append(n.Prerequisites, "ghost")
	require.NoError(t, s.SaveNode(n))

	g, problems, err := s.ScanGraph()
	require.NoError(t, err)
	assert.Equal(t, []graph.Link{{Source: "a", Target: "b"}}, g.Links)
	require.Len(t, problems, 1)
	assert.Equal(t, "b", problems[0].ID)
	assert.ErrorIs(t, problems[0], ErrNodeNotFound)
	assert.Equal(t, "node b requires ghost: node not found", problems[0].Error())
}

func TestLoadGraph(t *testing.T) {
	s := setupTestStore(t)
	seed(t, s, "a", "b:a", "c:a", "d:c,b")

	g, err := s.LoadGraph()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "d"}, g.IDs())
	assert.Equal(t, []graph.Link{
		{Source: "a", Target: "b"},
		{Source: "a", Target: "c"},
		{Source: "c", Target: "d"},
		{Source: "b", Target: "d"},
	}, g.Links)
}

func TestLoadGraphEmpty(t *testing.T) {
	s := setupTestStore(t)

	g, err := s.LoadGraph()
	require.NoError(t, err)
	assert.Empty(t, g.Nodes)
	assert.NotNil(t, g.Links)
}

func TestAddPrerequisite(t *testing.T) {
	s := setupTestStore(t)
	seed(t, s, "a", "b", "c:b")

	n, err := s.AddPrerequisite("b", "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, n.Prerequisites)

	// Idempotent.
	n, err = s.AddPrerequisite("b", "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, n.Prerequisites)
}

func TestAddPrerequisiteRejects(t *testing.T) {
	s := setupTestStore(t)
	seed(t, s, "a", "b:a", "c:b")

	tests := []struct {
		name    string
		id      string
		prereq  string
		wantErr error
	}{
		{"self link", "a", "a", ErrInvalidLink},
		{"unknown prerequisite", "a", "ghost", ErrInvalidLink},
		{"unknown node", "ghost", "a", ErrNodeNotFound},
		{"direct cycle", "a", "b", ErrInvalidLink},
		{"transitive cycle", "a", "c", ErrInvalidLink},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.AddPrerequisite(tt.id, tt.prereq)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	g, err := s.LoadGraph()
	require.NoError(t, err)
	assert.Empty(t, graph.Validate(g))
}

func TestRemovePrerequisite(t *testing.T) {
	s := setupTestStore(t)
	seed(t, s, "a", "b:a")

	n, err := s.RemovePrerequisite("b", "a")
	require.NoError(t, err)
	assert.Empty(t, n.Prerequisites)

	_, err = s.RemovePrerequisite("b", "a")
	assert.ErrorIs(t, err, ErrInvalidLink)
}

func TestDeleteNode(t *testing.T) {
	s := setupTestStore(t)
	seed(t, s, "a", "b:a", "c:a,b")
	_, err := s.SaveGoal("b")
	require.NoError(t, err)

	require.NoError(t, s.DeleteNode("b"))

	_, err = s.LoadNode("b")
	assert.ErrorIs(t, err, ErrNodeNotFound)

	c, err := s.LoadNode("c")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, c.Prerequisites)

	cur, err := s.LoadCurriculum()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, cur.Order)

	goal, err := s.LoadGoal()
	require.NoError(t, err)
	assert.Empty(t, goal.Node)

	assert.ErrorIs(t, s.DeleteNode("b"), ErrNodeNotFound)
}

func TestDeleteNodeClearsParent(t *testing.T) {
	s := setupTestStore(t)
	seed(t, s, "calculus")
	_, err := s.CreateNode(NewNode{ID: "limits", Parent: "calculus"})
	require.NoError(t, err)

	require.NoError(t, s.DeleteNode("calculus"))
	n, err := s.LoadNode("limits")
	require.NoError(t, err)
	assert.Empty(t, n.Parent)
}

func TestRenameNode(t *testing.T) {
	s := setupTestStore(t)
	seed(t, s, "a")

	n, err := s.RenameNode("a", "  Arithmetic ")
	require.NoError(t, err)
	assert.Equal(t, "Arithmetic", n.Name)
	assert.Equal(t, "a", n.ID)

	_, err = s.RenameNode("a", "")
	assert.Error(t, err)
}

func TestSaveStatuses(t *testing.T) {
	s := setupTestStore(t)
	seed(t, s, "a", "b:a", "c:b")

	g, err := s.LoadGraph()
	require.NoError(t, err)
	out := graph.UpdateGraph(g, "b", true)
	out.Nodes = append(out.Nodes, graph.Node{ID: "not-on-disk", Status: graph.StatusFinished})

	changed, err := s.SaveStatuses(out)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, changed)

	a, err := s.LoadNode("a")
	require.NoError(t, err)
	assert.True(t, a.IsFinished())

	// Nothing left to write.
	changed, err = s.SaveStatuses(out)
	require.NoError(t, err)
	assert.Empty(t, changed)
}

func TestGoal(t *testing.T) {
	s := setupTestStore(t)
	seed(t, s, "a")

	goal, err := s.LoadGoal()
	require.NoError(t, err)
	assert.Empty(t, goal.Node)

	_, err = s.SaveGoal("ghost")
	assert.ErrorIs(t, err, ErrNodeNotFound)

	_, err = s.SaveGoal("a")
	require.NoError(t, err)
	goal, err = s.LoadGoal()
	require.NoError(t, err)
	assert.Equal(t, "a", goal.Node)

	require.NoError(t, s.ClearGoal())
	require.NoError(t, s.ClearGoal())
	goal, err = s.LoadGoal()
	require.NoError(t, err)
	assert.Empty(t, goal.Node)
}

func TestSaveGoalKeepsNote(t *testing.T) {
	s := setupTestStore(t)
	seed(t, s, "a", "b")
	require.NoError(t, os.WriteFile(s.GoalPath(), []byte("---\ngoal: a\n---\n\nFinals in May.\n"), 0644))

	_, err := s.SaveGoal("b")
	require.NoError(t, err)
	goal, err := s.LoadGoal()
	require.NoError(t, err)
	assert.Equal(t, "b", goal.Node)
	assert.Equal(t, "Finals in May.", goal.Note)
}

func TestMoveNode(t *testing.T) {
	s := setupTestStore(t)
	seed(t, s, "a", "b", "c")

	require.NoError(t, s.MoveNode("c", -1))
	c, err := s.LoadCurriculum()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c", "b"}, c.Order)

	// Boundaries are no-ops.
	require.NoError(t, s.MoveNode("a", -1))
	require.NoError(t, s.MoveNode("b", 1))
	c, err = s.LoadCurriculum()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c", "b"}, c.Order)

	assert.ErrorIs(t, s.MoveNode("ghost", 1), ErrNodeNotFound)
}

func TestSearchNodes(t *testing.T) {
	s := setupTestStore(t)
	_, err := s.CreateNode(NewNode{ID: "vectors", Name: "Vectors", Description: "Arrows with magnitude."})
	require.NoError(t, err)
	_, err = s.CreateNode(NewNode{ID: "matrices", Name: "Matrices"})
	require.NoError(t, err)

	matches, err := s.SearchNodes("MAGNITUDE")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "vectors", matches[0].ID)

	matches, err = s.SearchNodes("ces")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "matrices", matches[0].ID)

	matches, err = s.SearchNodes("nothing")
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestHistory(t *testing.T) {
	s := setupTestStore(t)

	answers, err := s.LoadHistory()
	require.NoError(t, err)
	assert.Empty(t, answers)

	first, err := s.AppendAnswer("b", true, []string{"a", "b"})
	require.NoError(t, err)
	_, err = s.AppendAnswer("c", false, nil)
	require.NoError(t, err)

	answers, err = s.LoadHistory()
	require.NoError(t, err)
	require.Len(t, answers, 2)
	assert.Equal(t, first.ID, answers[0].ID)
	assert.NotEmpty(t, answers[0].ID)
	assert.NotEqual(t, answers[0].ID, answers[1].ID)
	assert.Equal(t, []string{"a", "b"}, answers[0].Changed)
	assert.False(t, answers[1].Correct)
}
