package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Next      key.Binding
	Alternate key.Binding
	Timer     key.Binding
	Log       key.Binding
	Discard   key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Next: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "next"),
		),
		Alternate: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "another"),
		),
		Timer: key.NewBinding(
			key.WithKeys(" ", "s"),
			key.WithHelp("space", "start/stop"),
		),
		Log: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "log"),
		),
		Discard: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "discard timer"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Timer, k.Log, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Alternate},
		{k.Timer, k.Log, k.Discard},
		{k.Help, k.Quit},
	}
}
