package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Toggle  key.Binding
	Restart key.Binding
	Faster  key.Binding
	Slower  key.Binding
	Back    key.Binding
	Forward key.Binding
	Mode    key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Toggle:  key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "pause/resume")),
		Restart: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "restart")),
		Faster:  key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑", "faster")),
		Slower:  key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓", "slower")),
		Back:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "back 10")),
		Forward: key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "ahead 10")),
		Mode:    key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "flash/teleprompter")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
		Quit:    key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Faster, k.Slower, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Restart, k.Mode},
		{k.Faster, k.Slower, k.Back, k.Forward},
		{k.Help, k.Quit},
	}
}
