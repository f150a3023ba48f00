package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Spin        key.Binding
	Normal      key.Binding
	Elimination key.Binding
	Clear       key.Binding
	Edit        key.Binding
	Help        key.Binding
	Quit        key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Spin:        key.NewBinding(key.WithKeys(" ", "s"), key.WithHelp("space/s", "spin")),
		Normal:      key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "normal mode")),
		Elimination: key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "elimination mode")),
		Clear:       key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear")),
		Edit:        key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "edit range")),
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Spin, k.Edit, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Spin, k.Clear},
		{k.Normal, k.Elimination},
		{k.Edit, k.Help, k.Quit},
	}
}

// editing mode: tab cycles, enter applies, esc leaves
var (
	nextField = key.NewBinding(key.WithKeys("tab"))
	prevField = key.NewBinding(key.WithKeys("shift+tab"))
	apply     = key.NewBinding(key.WithKeys("enter"))
	leave     = key.NewBinding(key.WithKeys("esc"))
	forceQuit = key.NewBinding(key.WithKeys("ctrl+c"))
)
