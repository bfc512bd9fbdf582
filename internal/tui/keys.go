package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Restart key.Binding
	Again   key.Binding
	Timer   key.Binding
	Race    key.Binding
	Share   key.Binding
	Quit    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Restart: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "restart")),
		Again:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "play again")),
		Timer:   key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "timer")),
		Race:    key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "race")),
		Share:   key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "share")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Restart, k.Again, k.Timer, k.Race, k.Share, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
