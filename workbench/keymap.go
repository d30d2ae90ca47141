package workbench

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the workbench bindings. They are matched before the focused
// editor or panel sees the key.
type KeyMap struct {
	Quit key.Binding
	Help key.Binding

	HelloWorld     key.Binding
	ShowConfetti   key.Binding
	ShowSettings   key.Binding
	ShowDisplay    key.Binding
	ShowPlayground key.Binding
	Trigger        key.Binding

	FocusNext   key.Binding
	FocusEditor key.Binding
	Close       key.Binding
	NewDoc      key.Binding
	NextDoc     key.Binding
	PrevDoc     key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(key.WithKeys("ctrl+q"), key.WithHelp("ctrl+q", "quit")),
		Help: key.NewBinding(key.WithKeys("f10"), key.WithHelp("f10", "more keys")),

		HelloWorld:     key.NewBinding(key.WithKeys("f1"), key.WithHelp("f1", "hello")),
		ShowConfetti:   key.NewBinding(key.WithKeys("f2", "ctrl+g"), key.WithHelp("f2", "confetti")),
		ShowSettings:   key.NewBinding(key.WithKeys("f3"), key.WithHelp("f3", "settings")),
		ShowDisplay:    key.NewBinding(key.WithKeys("f4"), key.WithHelp("f4", "display")),
		ShowPlayground: key.NewBinding(key.WithKeys("f5"), key.WithHelp("f5", "playground")),
		Trigger:        key.NewBinding(key.WithKeys("f6"), key.WithHelp("f6", "trigger")),

		FocusNext:   key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "next pane")),
		FocusEditor: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "editor")),
		Close:       key.NewBinding(key.WithKeys("ctrl+w"), key.WithHelp("ctrl+w", "close")),
		NewDoc:      key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "new file")),
		NextDoc:     key.NewBinding(key.WithKeys("ctrl+pgdown", "alt+]"), key.WithHelp("alt+]", "next tab")),
		PrevDoc:     key.NewBinding(key.WithKeys("ctrl+pgup", "alt+["), key.WithHelp("alt+[", "prev tab")),
	}
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.ShowConfetti, k.ShowDisplay, k.Trigger, k.FocusNext, k.Close, k.Help, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.HelloWorld, k.ShowConfetti, k.ShowSettings, k.ShowDisplay, k.ShowPlayground, k.Trigger},
		{k.FocusNext, k.FocusEditor, k.Close, k.NewDoc, k.NextDoc, k.PrevDoc, k.Help, k.Quit},
	}
}
