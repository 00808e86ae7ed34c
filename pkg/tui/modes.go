package tui

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stefanpenner/switchback/pkg/store"
	"github.com/stefanpenner/switchback/pkg/study"
	"go.uber.org/zap"
)

// Add and rename

func (m *Model) startAdd(prereq string, depth, after int, placeholder string) tea.Cmd {
	m.mode = modeAdd
	m.textInput.Reset()
	m.textInput.Placeholder = placeholder
	m.inputPrereq = prereq
	m.inputDepth = depth
	m.inputInsertAfter = after
	return tea.Batch(m.textInput.Focus(), textinput.Blink)
}

func (m *Model) startRename(item TreeItem) tea.Cmd {
	m.mode = modeRename
	m.renameID = item.ID
	m.textInput.Reset()
	m.textInput.SetValue(item.Name)
	m.textInput.Placeholder = "new name"
	return tea.Batch(m.textInput.Focus(), textinput.Blink)
}

// submitInput runs the shared esc/enter handling of the single-line input.
// commit gets the trimmed, non-empty value.
func (m Model) submitInput(msg tea.KeyMsg, commit func(*Model, string)) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = modeBrowse
		return m, nil
	case tea.KeyEnter:
		m.mode = modeBrowse
		if value := strings.TrimSpace(m.textInput.Value()); value != "" {
			commit(&m, value)
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m Model) handleAddInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	return m.submitInput(msg, func(m *Model, name string) {
		spec := store.NewNode{ID: name, Name: name}
		if m.inputPrereq != "" {
			spec.Prerequisites = []string{m.inputPrereq}
		}
		n, err := m.store.CreateNode(spec)
		if err != nil {
			m.setStatus("Error: " + err.Error())
			return
		}
		m.logger.Info("node created", zap.String("node", n.ID), zap.Strings("requires", n.Prerequisites))
		m.setStatus("Created: " + n.ID)
		m.reload()
		m.moveCursorTo(n.ID)
	})
}

func (m Model) handleRenameInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	return m.submitInput(msg, func(m *Model, name string) {
		if _, err := m.store.RenameNode(m.renameID, name); err != nil {
			m.setStatus("Error: " + err.Error())
			return
		}
		m.setStatus("Renamed to: " + name)
		m.reload()
	})
}

// Delete confirmation

func (m Model) handleDeleteConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.mode = modeBrowse
		if err := m.store.DeleteNode(m.deleteTarget); err != nil {
			m.setStatus("Delete failed: " + err.Error())
			return m, nil
		}
		m.logger.Info("node deleted", zap.String("node", m.deleteTarget))
		m.setStatus("Deleted: " + m.deleteTarget)
		m.reload()
	case "n", "N", "esc":
		m.mode = modeBrowse
	}
	return m, nil
}

// Inline description editing

func (m *Model) editorSize() (int, int) {
	f := m.frame()
	// node header estimate and the file path line
	return f.notesWidth, max(f.bodyHeight-5, 3)
}

func (m *Model) sizeEditor() {
	w, h := m.editorSize()
	m.noteEditor.SetWidth(w)
	m.noteEditor.SetHeight(h)
}

func (m *Model) enterEditMode(item TreeItem) {
	ta := textarea.New()
	ta.ShowLineNumbers = false
	ta.SetValue(item.Node.Description)
	m.noteEditor = ta
	m.sizeEditor()
	m.noteEditor.Focus()

	m.mode = modeEdit
	m.editID = item.ID
	m.focusedPane = paneNotes
}

// saveInlineEdit writes the textarea back as the node's description.
func (m *Model) saveInlineEdit() {
	n, err := m.store.LoadNode(m.editID)
	if err == nil {
		n.Description = m.noteEditor.Value()
		err = m.store.SaveNode(n)
	}
	if err != nil {
		m.setStatus("Save error: " + err.Error())
		return
	}
	m.setStatus("Saved")
	m.reload()
}

func (m Model) handleEditMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.saveInlineEdit()
		m.mode = modeBrowse
		m.noteEditor.Blur()
		return m, nil
	case tea.KeyCtrlS:
		m.saveInlineEdit()
		return m, nil
	case tea.KeyCtrlC:
		m.mode = modeBrowse
		m.noteEditor.Blur()
		m.setStatus("Edit cancelled")
		return m, nil
	}
	var cmd tea.Cmd
	m.noteEditor, cmd = m.noteEditor.Update(msg)
	return m, cmd
}

// Search

func (m Model) handleSearchInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = modeBrowse
		m.clearSearch()
	case tea.KeyEnter, tea.KeyDown, tea.KeyTab:
		// keep the filter, stop typing
		m.mode = modeBrowse
		return m, nil
	case tea.KeyBackspace:
		_, size := utf8.DecodeLastRuneInString(m.searchQuery)
		m.searchQuery = m.searchQuery[:len(m.searchQuery)-size]
		m.applySearchFilter()
	case tea.KeyRunes:
		m.searchQuery += string(msg.Runes)
		m.applySearchFilter()
	default:
		return m, nil
	}
	m.rebuildVisible()
	return m, nil
}

func (m *Model) clearSearch() {
	m.searchQuery = ""
	m.searchMatchIDs = nil
	m.searchAncIDs = nil
}

// applySearchFilter matches searchQuery against every node, collapsed or
// not, and opens the parents of each match.
func (m *Model) applySearchFilter() {
	m.searchMatchIDs, m.searchAncIDs = nil, nil
	if m.searchQuery == "" {
		return
	}

	query := strings.ToLower(m.searchQuery)
	m.searchMatchIDs = make(map[string]bool)
	m.searchAncIDs = make(map[string]bool)

	all := BuildItems(m.plan, everyExpanded(m.plan))
	parents := make(map[string]string, len(all))
	for _, item := range all {
		if !item.IsSectionHeader {
			parents[item.ID] = item.ParentID
		}
	}
	for _, item := range all {
		if item.IsSectionHeader {
			continue
		}
		if strings.Contains(strings.ToLower(item.Name), query) || strings.Contains(item.ID, query) {
			m.searchMatchIDs[item.ID] = true
			for p := item.ParentID; p != "" && !m.searchAncIDs[p]; p = parents[p] {
				m.searchAncIDs[p] = true
				m.expanded[p] = true
			}
		}
	}
}

// everyExpanded marks every node as expanded.
func everyExpanded(plan *study.Plan) map[string]bool {
	expanded := make(map[string]bool)
	if plan == nil || plan.Graph == nil {
		return expanded
	}
	for _, n := range plan.Graph.Nodes {
		expanded[n.ID] = true
	}
	return expanded
}

// Move

func (m Model) handleMoveMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.mode, m.moveTarget = modeBrowse, ""
		m.setStatus("Move cancelled")
	case msg.Type == tea.KeyEsc || msg.Type == tea.KeyEnter:
		m.mode, m.moveTarget = modeBrowse, ""
		m.setStatus("Move complete")
	case key.Matches(msg, m.keys.Down):
		m.reorder(1)
	case key.Matches(msg, m.keys.Up):
		m.reorder(-1)
	}
	return m, nil
}

// reorder shifts the move target in the curriculum order. The order decides
// the planner's root and its tie-breaks, so the plan is reloaded.
func (m *Model) reorder(delta int) {
	if err := m.store.MoveNode(m.moveTarget, delta); err != nil {
		m.setStatus("Move error: " + err.Error())
		return
	}
	m.reload()
	m.moveCursorTo(m.moveTarget)
}
