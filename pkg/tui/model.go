// Package tui is the full-screen curriculum view: the path to the goal on the
// left, the selected node's description on the right.
package tui

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/stefanpenner/switchback/pkg/store"
	"github.com/stefanpenner/switchback/pkg/study"
	gsync "github.com/stefanpenner/switchback/pkg/sync"
	"go.uber.org/zap"
)

// FileChangedMsg is sent when the file watcher detects changes.
type FileChangedMsg struct{}

// SyncDoneMsg is sent when git sync completes.
type SyncDoneMsg struct {
	Err error
}

// EditorFinishedMsg is sent when $EDITOR returns.
type EditorFinishedMsg struct {
	Err error
}

// Options tune the view.
type Options struct {
	Logger *zap.Logger
	// GlamourStyle is a glamour standard style name; "auto" picks by terminal.
	GlamourStyle string
}

// mode decides which handler owns the keyboard.
type mode int

const (
	modeBrowse mode = iota
	modeHelp
	modeConfirmDelete
	modeMove
	modeAdd
	modeRename
	modeEdit
	modeSearch
)

const (
	paneTree = iota
	paneNotes
)

// Model is the Bubble Tea model for the curriculum TUI.
type Model struct {
	svc    *study.Service
	store  *store.Store
	logger *zap.Logger
	keys   KeyMap
	help   help.Model

	width, height int
	mode          mode

	plan         *study.Plan
	visibleItems []TreeItem
	expanded     map[string]bool
	allExpanded  bool
	cursor       int
	focusedPane  int
	notesScroll  int

	// target of the active mode
	deleteTarget string
	moveTarget   string
	renameID     string
	editID       string

	// add-node input
	textInput        textinput.Model
	inputPrereq      string
	inputDepth       int
	inputInsertAfter int

	noteEditor textarea.Model

	// searchQuery stays set after typing ends so the filter persists
	searchQuery    string
	searchMatchIDs map[string]bool
	searchAncIDs   map[string]bool

	statusMsg     string
	statusTimeout time.Time

	glamourStyle    string
	glamourRenderer *glamour.TermRenderer
	glamourWidth    int
}

// NewModel creates a new TUI model.
func NewModel(svc *study.Service, opts Options) Model {
	ti := textinput.New()
	ti.Placeholder = "node-name"
	ti.CharLimit = 64

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	style := opts.GlamourStyle
	if style == "" {
		style = "auto"
	}

	return Model{
		svc:          svc,
		store:        svc.Store(),
		logger:       logger,
		keys:         DefaultKeyMap(),
		help:         help.New(),
		expanded:     make(map[string]bool),
		textInput:    ti,
		glamourStyle: style,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.WindowSize()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.renderer(m.frame().notesWidth - 2)
		if m.mode == modeEdit {
			m.sizeEditor()
		}
		m.reload()
		return m, tea.ClearScreen

	case FileChangedMsg:
		m.reload()
		return m, nil

	case SyncDoneMsg:
		if msg.Err != nil {
			m.logger.Warn("sync failed", zap.Error(msg.Err))
			m.setStatus("Sync failed: " + msg.Err.Error())
			return m, nil
		}
		m.setStatus("Synced successfully")
		m.reload()
		return m, nil

	case EditorFinishedMsg:
		if msg.Err != nil {
			m.setStatus("Editor: " + msg.Err.Error())
		}
		m.reload()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	switch m.mode {
	case modeAdd, modeRename:
		m.textInput, cmd = m.textInput.Update(msg)
	case modeEdit:
		m.noteEditor, cmd = m.noteEditor.Update(msg)
	}
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case modeAdd:
		return m.handleAddInput(msg)
	case modeRename:
		return m.handleRenameInput(msg)
	case modeEdit:
		return m.handleEditMode(msg)
	case modeSearch:
		return m.handleSearchInput(msg)
	case modeMove:
		return m.handleMoveMode(msg)
	case modeConfirmDelete:
		return m.handleDeleteConfirm(msg)
	case modeHelp:
		switch msg.String() {
		case "esc", "enter", "?", "q":
			m.mode = modeBrowse
		}
		return m, nil
	}
	return m.handleBrowse(msg)
}

func (m Model) handleBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searchQuery != "" && (msg.Type == tea.KeyEsc || msg.Type == tea.KeyEnter) {
		cur := m.selectedID()
		m.clearSearch()
		m.rebuildVisible()
		m.moveCursorTo(cur)
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.focusedPane == paneNotes {
			m.notesScroll = max(m.notesScroll-1, 0)
		} else {
			m.step(-1)
		}

	case key.Matches(msg, m.keys.Down):
		if m.focusedPane == paneNotes {
			m.notesScroll++
		} else {
			m.step(1)
		}

	case key.Matches(msg, m.keys.Right):
		m.setExpanded(func(item TreeItem) bool { return item.HasChildren }, true)

	case key.Matches(msg, m.keys.Left):
		m.setExpanded(func(item TreeItem) bool { return item.IsExpanded }, false)

	case key.Matches(msg, m.keys.Enter):
		if item, ok := m.selected(); ok && item.HasChildren {
			m.setExpanded(func(TreeItem) bool { return true }, !m.expanded[item.ID])
		}

	case key.Matches(msg, m.keys.Tab):
		m.focusedPane = 1 - m.focusedPane

	case key.Matches(msg, m.keys.JumpNext):
		if m.plan != nil && m.plan.HasNext {
			m.moveCursorTo(m.plan.Next)
		} else {
			m.setStatus("Nothing to study next")
		}

	case key.Matches(msg, m.keys.Correct):
		m.answer(true)
	case key.Matches(msg, m.keys.Wrong):
		m.answer(false)
	case key.Matches(msg, m.keys.Known):
		m.mutate("Known", m.svc.MarkKnown)
	case key.Matches(msg, m.keys.Watched):
		m.mutate("Watched", m.svc.MarkWatched)
	case key.Matches(msg, m.keys.Reset):
		m.mutate("Reset", m.svc.Reset)

	case key.Matches(msg, m.keys.Goal):
		m.setGoal()

	case key.Matches(msg, m.keys.ClearGoal):
		if err := m.svc.ClearGoal(); err != nil {
			m.setStatus("Error: " + err.Error())
			break
		}
		m.setStatus("Goal cleared")
		m.reload()

	case key.Matches(msg, m.keys.InlineEdit):
		if item, ok := m.selected(); ok {
			m.enterEditMode(item)
			return m, textarea.Blink
		}

	case key.Matches(msg, m.keys.ExternalEdit):
		if item, ok := m.selected(); ok {
			return m, m.openEditor(item.ID)
		}

	case key.Matches(msg, m.keys.AddTop):
		cmd := m.startAdd("", 1, len(m.visibleItems)-1, "new node name")
		return m, cmd

	case key.Matches(msg, m.keys.Add):
		var cmd tea.Cmd
		if item, ok := m.selected(); ok {
			cmd = m.startAdd(item.ID, item.Depth+1, m.cursor, "node that requires "+item.Name)
		} else {
			cmd = m.startAdd("", 1, len(m.visibleItems)-1, "new node name")
		}
		return m, cmd

	case key.Matches(msg, m.keys.Rename):
		if item, ok := m.selected(); ok {
			cmd := m.startRename(item)
			return m, cmd
		}

	case key.Matches(msg, m.keys.Delete):
		if item, ok := m.selected(); ok {
			m.deleteTarget = item.ID
			m.mode = modeConfirmDelete
		}

	case key.Matches(msg, m.keys.ToggleExpand):
		m.allExpanded = !m.allExpanded
		m.expanded = make(map[string]bool)
		if m.allExpanded {
			m.expandAll()
		}
		m.rebuildVisible()

	case key.Matches(msg, m.keys.Reload):
		m.reload()
		m.setStatus("Reloaded")

	case key.Matches(msg, m.keys.Sync):
		m.setStatus("Syncing...")
		return m, m.doSync()

	case key.Matches(msg, m.keys.Move):
		if item, ok := m.selected(); ok {
			m.mode = modeMove
			m.moveTarget = item.ID
			m.setStatus("Move mode: j/k reorder, enter/esc exit")
		}

	case key.Matches(msg, m.keys.Search):
		m.clearSearch()
		m.mode = modeSearch

	case key.Matches(msg, m.keys.Help):
		m.mode = modeHelp
	}

	return m, nil
}

// setExpanded sets the selected item's expansion when cond holds for it.
func (m *Model) setExpanded(cond func(TreeItem) bool, open bool) {
	item, ok := m.selected()
	if !ok || !cond(item) {
		return
	}
	m.expanded[item.ID] = open
	m.rebuildVisible()
}

// answer records a right or wrong answer for the selected node.
func (m *Model) answer(correct bool) {
	item, ok := m.selected()
	if !ok {
		return
	}
	res, err := m.svc.Answer(item.ID, correct)
	if err != nil {
		m.setStatus("Error: " + err.Error())
		return
	}
	m.applyResult(res)

	verdict := "Wrong"
	if correct {
		verdict = "Right"
	}
	status := fmt.Sprintf("%s: %d updated", verdict, len(res.Changed))
	switch {
	case res.Plan.GoalFinished:
		status += ", goal reached"
	case res.Plan.HasNext:
		status += ", next: " + res.Plan.Next
	}
	m.setStatus(status)
}

// mutate applies a status action to the selected node.
func (m *Model) mutate(label string, fn func(string) (*study.Result, error)) {
	item, ok := m.selected()
	if !ok {
		return
	}
	res, err := fn(item.ID)
	if err != nil {
		m.setStatus("Error: " + err.Error())
		return
	}
	m.applyResult(res)
	m.setStatus(fmt.Sprintf("%s: %s (%d updated)", label, item.Name, len(res.Changed)))
}

func (m *Model) applyResult(res *study.Result) {
	cur := m.selectedID()
	m.plan = res.Plan
	m.rebuildVisible()
	m.moveCursorTo(cur)
}

func (m *Model) setGoal() {
	item, ok := m.selected()
	if !ok {
		return
	}
	plan, err := m.svc.SetGoal(item.ID)
	if err != nil {
		m.setStatus("Error: " + err.Error())
		return
	}
	m.plan = plan
	m.rebuildVisible()
	m.moveCursorTo(item.ID)
	if len(plan.Sequence) == 0 {
		m.setStatus("Goal set, but no path leads to " + item.Name)
		return
	}
	m.setStatus(fmt.Sprintf("Goal: %s (%d steps)", item.Name, len(plan.Sequence)))
}

func (m *Model) reload() {
	plan, err := m.svc.Snapshot()
	if err != nil {
		m.logger.Error("reload failed", zap.Error(err))
		m.setStatus("Load error: " + err.Error())
		return
	}
	m.plan = plan
	if len(plan.Problems) > 0 {
		m.setStatus(fmt.Sprintf("%d node(s) skipped: %s", len(plan.Problems), plan.Problems[0]))
	}
	if m.searchQuery != "" {
		m.applySearchFilter()
	}
	m.rebuildVisible()
}

// renderer returns the cached glamour renderer, rebuilding it when the width
// changes.
func (m *Model) renderer(width int) *glamour.TermRenderer {
	width = max(width, treeMin)
	if m.glamourRenderer != nil && m.glamourWidth == width {
		return m.glamourRenderer
	}
	style := glamour.WithStandardStyle(m.glamourStyle)
	if m.glamourStyle == "auto" {
		style = glamour.WithAutoStyle()
	}
	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(width))
	if err != nil {
		m.logger.Warn("glamour renderer", zap.Error(err))
		return nil
	}
	m.glamourRenderer, m.glamourWidth = r, width
	return r
}

func (m *Model) setStatus(msg string) {
	m.statusMsg = msg
	m.statusTimeout = time.Now().Add(3 * time.Second)
}

func (m *Model) openEditor(id string) tea.Cmd {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vim"
	}
	c := exec.Command(editor, m.store.NodePath(id))
	return tea.ExecProcess(c, func(err error) tea.Msg {
		return EditorFinishedMsg{Err: err}
	})
}

func (m Model) doSync() tea.Cmd {
	root := m.store.Root
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		return SyncDoneMsg{Err: gsync.SyncRepo(ctx, root, io.Discard)}
	}
}
