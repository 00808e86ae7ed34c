package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the TUI. It satisfies help.KeyMap.
type KeyMap struct {
	Up           key.Binding
	Down         key.Binding
	Left         key.Binding
	Right        key.Binding
	Enter        key.Binding
	Tab          key.Binding
	JumpNext     key.Binding
	Correct      key.Binding
	Wrong        key.Binding
	Known        key.Binding
	Watched      key.Binding
	Reset        key.Binding
	Goal         key.Binding
	ClearGoal    key.Binding
	InlineEdit   key.Binding
	ExternalEdit key.Binding
	Add          key.Binding
	AddTop       key.Binding
	Delete       key.Binding
	Rename       key.Binding
	ToggleExpand key.Binding
	Reload       key.Binding
	Sync         key.Binding
	Help         key.Binding
	Move         key.Binding
	Search       key.Binding
	Quit         key.Binding
}

func bind(help, desc string, keys ...string) key.Binding {
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(help, desc))
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:           bind("↑/k", "up", "up", "k"),
		Down:         bind("↓/j", "down", "down", "j"),
		Left:         bind("←/h", "collapse", "left", "h"),
		Right:        bind("→/l", "expand", "right", "l"),
		Enter:        bind("enter", "toggle expand", "enter"),
		Tab:          bind("tab", "switch pane", "tab"),
		JumpNext:     bind(".", "jump to the next node on the path", "."),
		Correct:      bind("y", "answered right, finishes prerequisites", "y"),
		Wrong:        bind("n", "answered wrong, reopens the chain", "n"),
		Known:        bind("K", "mark known without an answer", "K"),
		Watched:      bind("w", "mark watched", "w"),
		Reset:        bind("x", "reset to unseen", "x"),
		Goal:         bind("g", "set selection as goal", "g"),
		ClearGoal:    bind("G", "clear goal", "G"),
		InlineEdit:   bind("e", "edit description inline", "e"),
		ExternalEdit: bind("E", "edit in $EDITOR", "E"),
		Add:          bind("a", "add node requiring the selection", "a"),
		AddTop:       bind("A", "add node with no prerequisites", "A"),
		Delete:       bind("d", "delete node", "d"),
		Rename:       bind("r", "rename node", "r"),
		ToggleExpand: bind("C", "expand/collapse all", "C"),
		Reload:       bind("R", "reload from disk", "R"),
		Sync:         bind("s", "git sync", "s"),
		Move:         bind("m", "move mode", "m"),
		Search:       bind("/", "search", "/"),
		Help:         bind("?", "help", "?"),
		Quit:         bind("q", "quit", "q", "ctrl+c"),
	}
}

// ShortHelp lists the bindings shown in the footer.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("up", "down"), key.WithHelp("↑↓", "nav")),
		key.NewBinding(key.WithKeys("y", "n"), key.WithHelp("y/n", "answer")),
		withDesc(k.Known, "known"),
		withDesc(k.Watched, "watched"),
		withDesc(k.Goal, "goal"),
		withDesc(k.JumpNext, "next"),
		k.Search,
		withDesc(k.Add, "add"),
		k.Help,
	}
}

// FullHelp groups every binding for the help modal.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.Enter, k.Tab, k.JumpNext, k.Search, k.ToggleExpand},
		{k.Correct, k.Wrong, k.Known, k.Watched, k.Reset, k.Goal, k.ClearGoal},
		{k.Add, k.AddTop, k.Rename, k.Delete, k.Move, k.InlineEdit, k.ExternalEdit},
		{k.Reload, k.Sync, k.Help, k.Quit},
	}
}

func withDesc(b key.Binding, desc string) key.Binding {
	b.SetHelp(b.Help().Key, desc)
	return b
}
