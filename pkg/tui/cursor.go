package tui

func (m *Model) selected() (TreeItem, bool) {
	if m.cursor < 0 || m.cursor >= len(m.visibleItems) {
		return TreeItem{}, false
	}
	item := m.visibleItems[m.cursor]
	return item, !item.IsSectionHeader
}

func (m *Model) selectedID() string {
	if item, ok := m.selected(); ok {
		return item.ID
	}
	return ""
}

// step moves the cursor by delta rows, skipping section headers.
func (m *Model) step(delta int) {
	for i := m.cursor + delta; i >= 0 && i < len(m.visibleItems); i += delta {
		if !m.visibleItems[i].IsSectionHeader {
			m.cursor = i
			break
		}
	}
	m.notesScroll = 0
}

// moveCursorTo puts the cursor on id if it is visible.
func (m *Model) moveCursorTo(id string) {
	if id == "" {
		return
	}
	for i, item := range m.visibleItems {
		if item.ID == id && !item.IsSectionHeader {
			m.cursor = i
			m.notesScroll = 0
			return
		}
	}
}

func (m *Model) rebuildVisible() {
	m.visibleItems = BuildItems(m.plan, m.expanded)
	if m.searchQuery != "" {
		m.visibleItems = FilterVisibleItems(m.visibleItems, m.searchMatchIDs, m.searchAncIDs)
	}

	m.cursor = min(m.cursor, len(m.visibleItems)-1)
	m.cursor = max(m.cursor, 0)
	for i := m.cursor; i < len(m.visibleItems); i++ {
		if !m.visibleItems[i].IsSectionHeader {
			m.cursor = i
			return
		}
	}
}

func (m *Model) expandAll() {
	for _, item := range BuildItems(m.plan, everyExpanded(m.plan)) {
		if item.HasChildren {
			m.expanded[item.ID] = true
		}
	}
}
