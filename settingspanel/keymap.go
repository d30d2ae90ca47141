package settingspanel

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the form key bindings.
type KeyMap struct {
	Next, Prev key.Binding
	Dec, Inc   key.Binding
	Toggle     key.Binding
	Apply      key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Next:   key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab/↓", "next field")),
		Prev:   key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab/↑", "previous field")),
		Dec:    key.NewBinding(key.WithKeys("left", "-"), key.WithHelp("←/-", "decrease")),
		Inc:    key.NewBinding(key.WithKeys("right", "+", "="), key.WithHelp("→/+", "increase")),
		Toggle: key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "toggle")),
		Apply:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "apply")),
	}
}

func (km KeyMap) empty() bool {
	return len(km.Next.Keys()) == 0 && len(km.Toggle.Keys()) == 0
}
