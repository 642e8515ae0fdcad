package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keybindings for the blame view.
type KeyMap struct {
	// Global
	Quit   key.Binding
	Help   key.Binding
	Escape key.Binding

	// Cursor movement
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Home     key.Binding
	End      key.Binding
	GotoLine key.Binding

	// Search
	Search     key.Binding
	SearchNext key.Binding
	SearchPrev key.Binding

	// History navigation
	Older key.Binding
	Newer key.Binding

	// Actions
	ShowCommit key.Binding
	ShowDiff   key.Binding
	History    key.Binding
	Copy       key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close/back"),
		),

		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("pgup", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("pgdn", "page down"),
		),
		Home: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("home", "top"),
		),
		End: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("end", "bottom"),
		),
		GotoLine: key.NewBinding(
			key.WithKeys(":"),
			key.WithHelp(":", "goto line"),
		),

		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		SearchNext: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "next match"),
		),
		SearchPrev: key.NewBinding(
			key.WithKeys("N"),
			key.WithHelp("N", "prev match"),
		),

		Older: key.NewBinding(
			key.WithKeys("left", "h", "o"),
			key.WithHelp("←/o", "older"),
		),
		Newer: key.NewBinding(
			key.WithKeys("right", "l", "u"),
			key.WithHelp("→/u", "newer"),
		),

		ShowCommit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("↵", "show commit"),
		),
		ShowDiff: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "show diff"),
		),
		History: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "line history"),
		),
		Copy: key.NewBinding(
			key.WithKeys("c", "y"),
			key.WithHelp("c", "copy hash"),
		),
	}
}

// ShortHelp returns the bindings for the one-line help bar.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.Older, k.Newer, k.ShowCommit, k.Help, k.Quit,
	}
}

// FullHelp returns all keybindings for the help overlay.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown, k.Home, k.End, k.GotoLine},
		{k.Search, k.SearchNext, k.SearchPrev},
		{k.Older, k.Newer, k.ShowCommit, k.ShowDiff, k.History, k.Copy},
		{k.Escape, k.Help, k.Quit},
	}
}
