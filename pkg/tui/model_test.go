package tui

import (
	"os"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stefanpenner/switchback/pkg/graph"
	"github.com/stefanpenner/switchback/pkg/store"
	"github.com/stefanpenner/switchback/pkg/study"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupModel builds a sized model over a -> b -> c with goal c.
func setupModel(t *testing.T) (Model, *store.Store) {
	t.Helper()
	s, err := store.NewStore(t.TempDir())
	require.NoError(t, err)
	for _, n := range []store.NewNode{
		{ID: "a", Name: "Arithmetic", Description: "Adding things up."},
		{ID: "b", Name: "Algebra", Prerequisites: []string{"a"}},
		{ID: "c", Name: "Calculus", Prerequisites: []string{"b"}},
		{ID: "d", Name: "Drawing"},
	} {
		_, err := s.CreateNode(n)
		require.NoError(t, err)
	}
	_, err = s.SaveGoal("c")
	require.NoError(t, err)

	m := NewModel(study.NewService(s, nil), Options{GlamourStyle: "notty"})
	return send(t, m, tea.WindowSizeMsg{Width: 120, Height: 40}), s
}

func send(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out
}

func press(t *testing.T, m Model, keys string) Model {
	t.Helper()
	for _, r := range keys {
		m = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func status(t *testing.T, s *store.Store, id string) graph.Status {
	t.Helper()
	n, err := s.LoadNode(id)
	require.NoError(t, err)
	return n.GraphNode().Status
}

func TestModelStartsOnPath(t *testing.T) {
	m, _ := setupModel(t)

	item, ok := m.selected()
	require.True(t, ok)
	assert.Equal(t, "a", item.ID)
	assert.Equal(t, []string{"a", "b", "c"}, m.plan.Sequence)

	view := m.View()
	assert.Contains(t, view, "PATH")
	assert.Contains(t, view, "Calculus")
	assert.Contains(t, view, "0/4 finished")
}

func TestModelAnswerRight(t *testing.T) {
	m, s := setupModel(t)

	m = press(t, m, "j") // b
	m = press(t, m, "y")

	assert.Equal(t, graph.StatusFinished, status(t, s, "a"))
	assert.Equal(t, graph.StatusFinished, status(t, s, "b"))
	assert.Equal(t, "c", m.plan.Next)
	assert.Contains(t, m.statusMsg, "next: c")
	assert.Equal(t, "b", m.selectedID())
}

func TestModelAnswerWrong(t *testing.T) {
	m, s := setupModel(t)

	m = press(t, m, "jn")
	assert.Equal(t, graph.StatusStarted, status(t, s, "a"))
	assert.Equal(t, graph.StatusStarted, status(t, s, "c"))
	assert.Equal(t, graph.StatusUnseen, status(t, s, "d"))
	assert.True(t, strings.HasPrefix(m.statusMsg, "Wrong"))
}

func TestModelKnownWatchedReset(t *testing.T) {
	m, s := setupModel(t)

	m = press(t, m, "jK")
	assert.Equal(t, graph.StatusFinished, status(t, s, "a"))
	assert.Equal(t, graph.StatusFinished, status(t, s, "b"))

	m = press(t, m, "jw")
	assert.Equal(t, graph.StatusWatched, status(t, s, "c"))

	press(t, m, "x")
	assert.Equal(t, graph.StatusUnseen, status(t, s, "c"))
}

func TestModelJumpNext(t *testing.T) {
	m, _ := setupModel(t)
	m = press(t, m, "jy")
	m = press(t, m, "k")
	require.Equal(t, "a", m.selectedID())

	m = press(t, m, ".")
	assert.Equal(t, "c", m.selectedID())
}

func TestModelSetGoal(t *testing.T) {
	m, s := setupModel(t)

	m = press(t, m, "j") // b
	m = press(t, m, "g")
	goal, err := s.LoadGoal()
	require.NoError(t, err)
	assert.Equal(t, "b", goal.Node)
	assert.Equal(t, []string{"a", "b"}, m.plan.Sequence)

	m = press(t, m, "G")
	assert.Empty(t, m.plan.Goal)
	assert.Equal(t, "Goal cleared", m.statusMsg)
}

func TestModelAddNode(t *testing.T) {
	m, s := setupModel(t)

	m = press(t, m, "jja") // under c
	require.Equal(t, modeAdd, m.mode)
	m = press(t, m, "Limits")
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, modeBrowse, m.mode)
	n, err := s.LoadNode("limits")
	require.NoError(t, err)
	assert.Equal(t, []string{"c"}, n.Prerequisites)
	assert.Equal(t, "limits", m.selectedID())
}

func TestModelDeleteNode(t *testing.T) {
	m, s := setupModel(t)

	m = press(t, m, "jjjd") // d
	require.Equal(t, modeConfirmDelete, m.mode)
	assert.Equal(t, "d", m.deleteTarget)
	m = press(t, m, "y")

	_, err := s.LoadNode("d")
	assert.ErrorIs(t, err, store.ErrNodeNotFound)
	assert.Equal(t, modeBrowse, m.mode)
}

func TestModelSearch(t *testing.T) {
	m, _ := setupModel(t)

	m = press(t, m, "/draw")
	assert.Equal(t, modeSearch, m.mode)
	assert.Equal(t, []string{headerOther, "d"}, ids(m.visibleItems))

	m = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, modeBrowse, m.mode)
	assert.Len(t, m.visibleItems, 6)
}

func TestModelMoveMode(t *testing.T) {
	m, s := setupModel(t)

	m = press(t, m, "jjj") // d
	m = press(t, m, "mk")
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, modeBrowse, m.mode)

	c, err := s.LoadCurriculum()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "d", "c"}, c.Order)
}

func TestModelNotesPanel(t *testing.T) {
	m, _ := setupModel(t)

	notes := strings.Join(m.renderNotesPanel(80, 20), "\n")
	assert.Contains(t, notes, "Arithmetic")
	assert.Contains(t, notes, "Adding things up.")
	assert.Contains(t, notes, "Unlocks")
}

func TestModelHelpModal(t *testing.T) {
	m, _ := setupModel(t)

	m = press(t, m, "?")
	assert.Contains(t, m.View(), "Keyboard Shortcuts")
	m = press(t, m, "?")
	assert.Equal(t, modeBrowse, m.mode)
}

func TestModelReloadNamesSkippedNode(t *testing.T) {
	m, s := setupModel(t)
	require.NoError(t, os.WriteFile(s.NodePath("d"), []byte("---\nname: Drawing\nstatus: done\n---\n"), 0644))

	m = send(t, m, FileChangedMsg{})
	assert.Contains(t, m.statusMsg, "1 node(s) skipped: unreadable node d")
	for _, item := range m.visibleItems {
		assert.NotEqual(t, "d", item.ID)
	}
}
