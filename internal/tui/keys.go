package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Add    key.Binding
	Toggle key.Binding
	Next   key.Binding
	Prev   key.Binding
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Focus  key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Add:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add files")),
		Toggle: key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "play/pause")),
		Next:   key.NewBinding(key.WithKeys("n", "right"), key.WithHelp("n/→", "next")),
		Prev:   key.NewBinding(key.WithKeys("p", "left"), key.WithHelp("p/←", "previous")),
		Up:     key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "up")),
		Down:   key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "down")),
		Select: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "play selected")),
		Focus:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch panel")),
		Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.Toggle, k.Prev, k.Next, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Next, k.Prev},
		{k.Up, k.Down, k.Select, k.Focus},
		{k.Add, k.Help, k.Quit},
	}
}
