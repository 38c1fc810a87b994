package shell

import (
	"strconv"

	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	Quit  key.Binding
	Next  key.Binding
	Prev  key.Binding
	Brand key.Binding
	Jump  []key.Binding
}

func newKeyMap(links []NavLink) keyMap {
	km := keyMap{
		Quit:  key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Next:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next")),
		Prev:  key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev")),
		Brand: key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "home")),
	}
	for i, l := range links {
		n := strconv.Itoa(i + 1)
		km.Jump = append(km.Jump, key.NewBinding(key.WithKeys(n), key.WithHelp(n, l.Label)))
	}
	return km
}

func (k keyMap) ShortHelp() []key.Binding {
	out := append([]key.Binding{}, k.Jump...)
	return append(out, k.Next, k.Brand, k.Quit)
}
