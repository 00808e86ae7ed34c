package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/stefanpenner/switchback/pkg/graph"
)

const (
	minWidth  = 40
	minHeight = 10
	treeMin   = 20
)

// frame is the screen split for one render.
type frame struct {
	width, height int
	treeWidth     int
	notesWidth    int
	bodyHeight    int
}

func (m Model) frame() frame {
	f := frame{width: max(m.width, minWidth), height: max(m.height, minHeight)}

	chrome := 5 // header, goal line, two rules, footer
	if m.searchActive() {
		chrome++
	}
	f.bodyHeight = f.height - chrome

	f.treeWidth = max(f.width/4, treeMin)
	f.notesWidth = max(f.width-f.treeWidth-1, treeMin)
	return f
}

func (m Model) searchActive() bool {
	return m.mode == modeSearch || m.searchQuery != ""
}

// View implements tea.Model.
func (m Model) View() string {
	f := m.frame()

	switch {
	case m.mode == modeHelp:
		return lipgloss.Place(f.width, f.height, lipgloss.Center, lipgloss.Center, m.renderHelpModal())
	case m.mode == modeConfirmDelete:
		return lipgloss.Place(f.width, f.height, lipgloss.Center, lipgloss.Center, m.renderDeleteModal())
	}

	rule := lipgloss.NewStyle().Foreground(ColorGrayDim).Render(strings.Repeat("─", f.width))
	rows := []string{m.renderHeader(f.width), m.renderGoalLine(), rule}
	if m.searchActive() {
		rows = append(rows, m.renderSearchBar(f.width))
	}

	divider := ColorGrayDim
	if m.focusedPane == paneNotes || m.mode == modeEdit {
		divider = ColorPurple
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top,
		column(m.renderTreePanel(f.treeWidth, f.bodyHeight), f.treeWidth),
		lipgloss.NewStyle().Foreground(divider).Render(strings.TrimSuffix(strings.Repeat("│\n", f.bodyHeight), "\n")),
		column(m.renderNotesPanel(f.notesWidth, f.bodyHeight), f.notesWidth),
	)

	rows = append(rows, body, rule, m.renderFooter(f.width))
	return strings.Join(rows, "\n")
}

func (m Model) renderHeader(width int) string {
	title := HeaderStyle.Render("Switchback")

	var total, finished int
	if m.plan != nil {
		total = len(m.plan.Graph.Nodes)
		for _, n := range m.plan.Graph.Nodes {
			if n.IsFinished() {
				finished++
			}
		}
	}
	right := HeaderCountStyle.Render(fmt.Sprintf("%d/%d finished", finished, total))
	if m.statusMsg != "" && time.Now().Before(m.statusTimeout) {
		right = StatusMsgStyle.Render(m.statusMsg) + "  " + right
	}

	return spread(title, right, width)
}

// renderGoalLine shows the goal, progress along the path and the next node.
func (m Model) renderGoalLine() string {
	if m.plan == nil || m.plan.Goal == "" {
		return FooterStyle.Render("Goal: (none, press g on a node)")
	}

	parts := []string{GoalLabelStyle.Render("Goal: ") + GoalValueStyle.Render(m.nameOf(m.plan.Goal))}
	if len(m.plan.Sequence) == 0 {
		parts = append(parts, GoalLabelStyle.Render("no path from the root"))
		return strings.Join(parts, "  ")
	}

	done := 0
	for _, id := range m.plan.Sequence {
		if n, ok := m.plan.Graph.Node(id); ok && n.IsFinished() {
			done++
		}
	}
	parts = append(parts, GoalLabelStyle.Render(fmt.Sprintf("%d/%d on path", done, len(m.plan.Sequence))))

	if m.plan.GoalFinished {
		parts = append(parts, FinishedStyle.Render(IconFinished+" reached"))
	} else if m.plan.HasNext {
		parts = append(parts, GoalLabelStyle.Render("next: ")+NextStyle.Render(m.nameOf(m.plan.Next)))
	}
	return strings.Join(parts, "  ")
}

func (m Model) nameOf(id string) string {
	if n, ok := m.plan.Graph.Node(id); ok {
		return displayName(n)
	}
	return id
}

func (m Model) renderSearchBar(width int) string {
	left := SearchBarStyle.Render(" / " + m.searchQuery)
	if m.mode == modeSearch {
		left += SearchBarStyle.Render("█")
	}
	right := ""
	if m.searchQuery != "" {
		right = SearchCountStyle.Render(fmt.Sprintf(" %d matches", len(m.searchMatchIDs)))
	}
	return spread(left, right, width)
}

// window returns the [start, end) slice of n rows that fits height while
// keeping cursor roughly centred.
func window(cursor, n, height int) (int, int) {
	if n <= height {
		return 0, n
	}
	start := min(max(cursor-height/2, 0), n-height)
	return start, start + height
}

func (m Model) inputLine(depth int, prompt string) string {
	return strings.Repeat(DepthIndent, depth) + InputPromptStyle.Render(prompt) + m.textInput.View()
}

func (m Model) renderTreePanel(width, height int) []string {
	rows := max(height-1, 1) // last row is the data dir
	var lines []string

	if len(m.visibleItems) == 0 {
		lines = append(lines, FooterStyle.Render("No nodes yet. Press 'A' to add one."))
	}

	start, end := window(m.cursor, len(m.visibleItems), rows)
	inputShown := false
	for i := start; i < end; i++ {
		item := m.visibleItems[i]
		switch {
		case item.IsSectionHeader:
			lines = append(lines, renderSectionHeader(item, width))
		case m.mode == modeRename && item.ID == m.renameID:
			lines = append(lines, m.inputLine(item.Depth, "✎ "))
		default:
			lines = append(lines, m.renderTreeItem(item, i == m.cursor, width))
		}
		if m.mode == modeAdd && i == m.inputInsertAfter {
			lines = append(lines, m.inputLine(m.inputDepth, "> "))
			inputShown = true
		}
	}
	if m.mode == modeAdd && !inputShown {
		lines = append(lines, m.inputLine(m.inputDepth, "> "))
	}

	return pinFooter(lines, rows, PathStyle.Render(fileHyperlink(m.store.Root)))
}

func renderSectionHeader(item TreeItem, width int) string {
	style := OtherSectionStyle
	if item.ID == headerPath {
		style = PathSectionStyle
	}
	label := style.Render("── " + item.Name + " ")
	if rest := width - lipgloss.Width(label); rest > 0 {
		label += PathStyle.Render(strings.Repeat("─", rest))
	}
	return label
}

func (m Model) renderTreeItem(item TreeItem, selected bool, width int) string {
	var b strings.Builder
	b.WriteString(strings.Repeat(DepthIndent, item.Depth))

	moving := m.mode == modeMove && item.ID == m.moveTarget
	if moving {
		b.WriteString(IconMove + " ")
	}
	switch {
	case !item.HasChildren:
		b.WriteString("  ")
	case item.IsExpanded:
		b.WriteString(IconExpanded + " ")
	default:
		b.WriteString(IconCollapsed + " ")
	}

	if item.IsNext {
		b.WriteString(NextStyle.Render(IconNext))
	} else {
		b.WriteString(statusIcon(item.Node.Status))
	}
	b.WriteString(" ")
	if item.Step > 0 {
		fmt.Fprintf(&b, "%d. ", item.Step)
	}

	matched := m.searchQuery != "" && m.searchMatchIDs[item.ID]
	switch {
	case matched && selected:
		b.WriteString(highlightMatch(item.Name, m.searchQuery, SearchCharSelectedStyle, SelectedStyle))
	case matched:
		b.WriteString(highlightMatch(item.Name, m.searchQuery, SearchCharStyle, SearchRowStyle))
	case item.IsNext:
		b.WriteString(NextStyle.Render(item.Name))
	default:
		b.WriteString(item.Name)
	}

	line := padRight(b.String(), width)
	switch {
	case moving:
		return MoveStyle.Render(line)
	case selected:
		return SelectedStyle.Render(line)
	case matched:
		return SearchRowStyle.Render(line)
	}
	return line
}

// markdown renders src with the cached glamour renderer, falling back to the
// raw text.
func (m Model) markdown(src string) []string {
	out := src
	if m.glamourRenderer != nil {
		if rendered, err := m.glamourRenderer.Render(src); err == nil {
			out = rendered
		}
	}
	return strings.Split(strings.TrimRight(out, "\n "), "\n")
}

func (m Model) renderNotesPanel(width, height int) []string {
	item, ok := m.selected()
	if !ok || item.IsSectionHeader {
		return []string{FooterStyle.Render(" Select a node to view its description")}
	}
	rows := max(height-1, 1)
	footer := PathStyle.Render(fileHyperlink(m.store.NodePath(item.ID)))
	header := m.renderNodeHeader(item)

	if m.mode == modeEdit {
		lines := append(m.markdown(header), strings.Split(m.noteEditor.View(), "\n")...)
		return pinFooter(lines, rows, footer)
	}

	src := header
	if desc := item.Node.Description; desc != "" {
		src += strings.TrimRight(desc, "\n") + "\n"
	}
	lines := m.markdown(src)
	scroll := min(max(m.notesScroll, 0), len(lines)-1)
	return pinFooter(lines[scroll:], rows, footer)
}

// renderNodeHeader builds the markdown header for a node: name, metadata,
// direct prerequisites and what it unlocks.
func (m Model) renderNodeHeader(item TreeItem) string {
	node := item.Node

	meta := []string{"**Status:** " + string(node.Status)}
	if node.Type != "" {
		meta = append(meta, "**Type:** "+node.Type)
	}
	if node.ParentID != "" {
		meta = append(meta, "**Part of:** "+node.ParentID)
	}
	if item.Step > 0 && m.plan != nil {
		meta = append(meta, fmt.Sprintf("**Step:** %d of %d", item.Step, len(m.plan.Sequence)))
	}

	md := fmt.Sprintf("# %s\n\n%s\n\n", displayName(node), strings.Join(meta, " | "))
	if m.plan == nil {
		return md
	}

	var links []string
	if requires := graph.BuildReverseAdjacency(m.plan.Graph.Links)[node.ID]; len(requires) > 0 {
		links = append(links, "- **Requires:** "+strings.Join(requires, ", "))
	}
	if unlocks := graph.BuildAdjacency(m.plan.Graph.Links)[node.ID]; len(unlocks) > 0 {
		links = append(links, "- **Unlocks:** "+strings.Join(unlocks, ", "))
	}
	if len(links) > 0 {
		md += strings.Join(links, "\n") + "\n\n"
	}
	return md
}

var (
	confirmHelp = []key.Binding{bind("enter", "confirm", "enter"), bind("esc", "cancel", "esc")}
	editHelp    = []key.Binding{bind("esc", "save & exit", "esc"), bind("ctrl+s", "save", "ctrl+s"), bind("ctrl+c", "cancel", "ctrl+c")}
	searchHelp  = []key.Binding{bind("type", "search", ""), bind("enter/↓", "keep filter", "enter"), bind("esc", "clear", "esc")}
	filterHelp  = []key.Binding{bind("esc/enter", "clear filter", "esc"), bind("↑↓", "nav", "up")}
	moveHelp    = []key.Binding{bind("↑↓", "reorder", "up"), bind("enter/esc", "exit move", "enter")}
)

func (m Model) footerBindings() []key.Binding {
	switch m.mode {
	case modeAdd, modeRename:
		return confirmHelp
	case modeEdit:
		return editHelp
	case modeSearch:
		return searchHelp
	case modeMove:
		return moveHelp
	}
	switch {
	case m.searchQuery != "":
		return filterHelp
	case m.focusedPane == paneNotes:
		return []key.Binding{bind("↑↓", "scroll notes", "up"), m.keys.Tab, m.keys.InlineEdit, m.keys.ExternalEdit, m.keys.Help}
	}
	return m.keys.ShortHelp()
}

func (m Model) renderFooter(width int) string {
	h := m.help
	h.Width = width
	return h.ShortHelpView(m.footerBindings())
}

func (m Model) renderHelpModal() string {
	h := m.help
	h.ShowAll = true
	return ModalStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		ModalTitleStyle.Render("Keyboard Shortcuts"),
		"",
		h.FullHelpView(m.keys.FullHelp()),
		"",
		FooterStyle.Render("Press Esc or ? to close"),
	))
}

func (m Model) renderDeleteModal() string {
	return ModalStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		ModalTitleStyle.Render("Delete Node"),
		"",
		fmt.Sprintf("Delete '%s' and every link to it?", m.deleteTarget),
		"",
		ConfirmYesStyle.Render("[y]")+" Yes  "+ConfirmNoStyle.Render("[n]")+" No",
	))
}

// highlightMatch styles the first case-insensitive occurrence of query in
// name with charStyle and the rest with rowStyle.
func highlightMatch(name, query string, charStyle, rowStyle lipgloss.Style) string {
	idx := strings.Index(strings.ToLower(name), strings.ToLower(query))
	if idx < 0 {
		return rowStyle.Render(name)
	}
	end := idx + len(query)

	var b strings.Builder
	if idx > 0 {
		b.WriteString(rowStyle.Render(name[:idx]))
	}
	b.WriteString(charStyle.Render(name[idx:end]))
	if end < len(name) {
		b.WriteString(rowStyle.Render(name[end:]))
	}
	return b.String()
}

// fileHyperlink wraps a path in an OSC 8 terminal hyperlink.
func fileHyperlink(path string) string {
	return fmt.Sprintf("\x1b]8;;file://%s\x1b\\%s\x1b]8;;\x1b\\", path, path)
}

// Layout helpers

func padRight(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

// spread places left and right at the edges of width.
func spread(left, right string, width int) string {
	gap := max(width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return left + strings.Repeat(" ", gap) + right
}

// pinFooter cuts or pads lines to rows and appends footer.
func pinFooter(lines []string, rows int, footer string) []string {
	if len(lines) > rows {
		lines = lines[:rows]
	}
	for len(lines) < rows {
		lines = append(lines, "")
	}
	return append(lines, footer)
}

// column pads every line to width so panels join cleanly.
func column(lines []string, width int) string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = padRight(l, width)
	}
	return strings.Join(out, "\n")
}
