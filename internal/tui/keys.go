package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Next    key.Binding
	Prev    key.Binding
	Dec     key.Binding
	Inc     key.Binding
	FineDec key.Binding
	FineInc key.Binding
	Create  key.Binding
	Add     key.Binding
	Back    key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Next:    key.NewBinding(key.WithKeys("tab", "down", "j"), key.WithHelp("tab/↓", "next control")),
		Prev:    key.NewBinding(key.WithKeys("shift+tab", "up", "k"), key.WithHelp("shift+tab/↑", "previous control")),
		Dec:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "decrease")),
		Inc:     key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "increase")),
		FineDec: key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "fine decrease")),
		FineInc: key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "fine increase")),
		Create:  key.NewBinding(key.WithKeys("c", "enter"), key.WithHelp("c", "create reflection")),
		Add:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add to design")),
		Back:    key.NewBinding(key.WithKeys("b", "esc"), key.WithHelp("b", "go back")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Dec, k.Inc, k.Add, k.Back, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev, k.Dec, k.Inc, k.FineDec, k.FineInc},
		{k.Create, k.Add, k.Back, k.Help, k.Quit},
	}
}
