package app

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the global key bindings. Tabs add their own on top.
type KeyMap struct {
	Tab1       key.Binding
	Tab2       key.Binding
	Tab3       key.Binding
	NextTab    key.Binding
	PrevTab    key.Binding
	Refresh    key.Binding
	Boundaries key.Binding
	Export     key.Binding
	Help       key.Binding
	Close      key.Binding
	Quit       key.Binding
}

// DefaultKeyMap returns the default global key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Tab1:       key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "report")),
		Tab2:       key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "counties")),
		Tab3:       key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "notes")),
		NextTab:    key.NewBinding(key.WithKeys("tab", "right"), key.WithHelp("tab", "next tab")),
		PrevTab:    key.NewBinding(key.WithKeys("shift+tab", "left"), key.WithHelp("shift+tab", "previous tab")),
		Refresh:    key.NewBinding(key.WithKeys("r", "ctrl+r"), key.WithHelp("r", "rebuild report")),
		Boundaries: key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "refetch boundaries")),
		Export:     key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export HTML report")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
		Close:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close help")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp returns key bindings for the status bar.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Refresh, k.Export, k.Help, k.Quit}
}

// FullHelp returns key bindings for the help overlay, one column per group.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab1, k.Tab2, k.Tab3, k.NextTab, k.PrevTab},
		{k.Refresh, k.Boundaries, k.Export},
		{k.Help, k.Close, k.Quit},
	}
}
