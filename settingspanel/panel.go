// Package settingspanel provides the confetti settings form as a panel, and
// the playground panel that pairs the form with a live display.
package settingspanel

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/iw2rmb/flourish-confetti/emission"
	"github.com/iw2rmb/flourish-confetti/panel"
)

type Options struct {
	// Settings seeds the form; nil means emission.DefaultSettings.
	Settings *emission.Settings
	KeyMap   KeyMap
	OnReveal func()
}

func (o Options) settings() emission.Settings {
	if o.Settings != nil {
		return o.Settings.Clone()
	}
	return emission.DefaultSettings()
}

// Panel is the settings panel. Its form changes leave the panel as
// panel.Envelope messages for the host to route.
type Panel struct {
	id        panel.ID
	form      Form
	onReveal  func()
	onDispose func()
	disposed  bool
}

var _ panel.Panel = (*Panel)(nil)

func New(id panel.ID, onDispose func(), opts Options) *Panel {
	if onDispose == nil {
		onDispose = func() {}
	}
	p := &Panel{id: id, onReveal: opts.OnReveal, onDispose: onDispose}
	p.form = NewForm(opts.settings(), func(msg panel.Message) tea.Cmd {
		return panel.Send(panel.KindSettings, id, msg)
	}).WithKeyMap(opts.KeyMap)
	return p
}

// Factory returns a panel.Factory that hands every new panel to opened.
func Factory(opts Options, opened func(*Panel)) panel.Factory {
	return func(id panel.ID, onDispose func()) (panel.Panel, error) {
		p := New(id, onDispose, opts)
		if opened != nil {
			opened(p)
		}
		return p, nil
	}
}

func (p *Panel) Kind() panel.Kind { return panel.KindSettings }
func (p *Panel) ID() panel.ID     { return p.id }

func (p *Panel) Reveal() {
	if p.onReveal != nil {
		p.onReveal()
	}
}

// Post accepts updateSettings to keep the form in step with the session.
func (p *Panel) Post(msg panel.Message) error {
	if p.disposed {
		return panel.ErrAlreadyDisposed
	}
	if msg.Command != panel.CommandUpdateSettings {
		return panel.ErrUnsupported
	}
	if msg.Settings != nil {
		p.form = p.form.Apply(*msg.Settings)
	}
	return nil
}

func (p *Panel) Dispose() {
	if p.disposed {
		return
	}
	p.disposed = true
	p.onDispose()
}

func (p *Panel) Disposed() bool { return p.disposed }

func (p *Panel) Settings() emission.Settings { return p.form.Settings() }

// Update feeds input to the form.
func (p *Panel) Update(msg tea.Msg) tea.Cmd {
	if p.disposed {
		return nil
	}
	var cmd tea.Cmd
	p.form, cmd = p.form.Update(msg)
	return cmd
}

func (p *Panel) View(width, height int) string {
	return clip(p.form.View(width), height)
}
