package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	NextTab  key.Binding
	PrevTab  key.Binding
	Add      key.Binding
	Cart     key.Binding
	Identity key.Binding
	Theme    key.Binding
	Inc      key.Binding
	Dec      key.Binding
	Remove   key.Binding
	Clear    key.Binding
	Back     key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		NextTab:  key.NewBinding(key.WithKeys("tab", "right", "l"), key.WithHelp("tab", "next tab")),
		PrevTab:  key.NewBinding(key.WithKeys("shift+tab", "left", "h"), key.WithHelp("shift+tab", "prev tab")),
		Add:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add to cart")),
		Cart:     key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "cart")),
		Identity: key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "account")),
		Theme:    key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "theme")),
		Inc:      key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "more")),
		Dec:      key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "less")),
		Remove:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "remove")),
		Clear:    key.NewBinding(key.WithKeys("X"), key.WithHelp("X", "clear cart")),
		Back:     key.NewBinding(key.WithKeys("esc", "b"), key.WithHelp("esc", "back")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.Cart, k.Identity, k.Theme, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextTab, k.PrevTab},
		{k.Add, k.Cart, k.Identity, k.Theme},
		{k.Inc, k.Dec, k.Remove, k.Clear},
		{k.Back, k.Help, k.Quit},
	}
}
