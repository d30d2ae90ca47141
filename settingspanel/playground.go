package settingspanel

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/iw2rmb/flourish-confetti/display"
	"github.com/iw2rmb/flourish-confetti/emission"
	"github.com/iw2rmb/flourish-confetti/panel"
)

// Playground is a form and a live display in one panel. The two halves talk
// only through panel messages and the playground never reports to the host.
type Playground struct {
	id        panel.ID
	form      Form
	preview   *display.Panel
	onReveal  func()
	onDispose func()
	disposed  bool
}

var _ panel.Panel = (*Playground)(nil)

func NewPlayground(id panel.ID, onDispose func(), opts Options, displayOpts display.Options) *Playground {
	if onDispose == nil {
		onDispose = func() {}
	}
	s := opts.settings()
	displayOpts.Settings = &s
	displayOpts.OnReveal = nil

	p := &Playground{id: id, onReveal: opts.OnReveal, onDispose: onDispose}
	p.preview = display.New(id, nil, displayOpts)
	p.form = NewForm(s, func(msg panel.Message) tea.Cmd {
		_ = p.preview.Post(msg)
		return nil
	}).WithKeyMap(opts.KeyMap)
	return p
}

// PlaygroundFactory returns a panel.Factory that hands every new playground
// to opened.
func PlaygroundFactory(opts Options, displayOpts display.Options, opened func(*Playground)) panel.Factory {
	return func(id panel.ID, onDispose func()) (panel.Panel, error) {
		p := NewPlayground(id, onDispose, opts, displayOpts)
		if opened != nil {
			opened(p)
		}
		return p, nil
	}
}

func (p *Playground) Kind() panel.Kind { return panel.KindPlayground }
func (p *Playground) ID() panel.ID     { return p.id }

func (p *Playground) Reveal() {
	if p.onReveal != nil {
		p.onReveal()
	}
}

func (p *Playground) Post(msg panel.Message) error {
	if p.disposed {
		return panel.ErrAlreadyDisposed
	}
	if msg.Command == panel.CommandUpdateSettings && msg.Settings != nil {
		p.form = p.form.Apply(*msg.Settings)
	}
	return p.preview.Post(msg)
}

func (p *Playground) Dispose() {
	if p.disposed {
		return
	}
	p.disposed = true
	p.preview.Dispose()
	p.onDispose()
}

func (p *Playground) Disposed() bool { return p.disposed }

func (p *Playground) Preview() *display.Panel { return p.preview }

func (p *Playground) Settings() emission.Settings { return p.form.Settings() }

func (p *Playground) Update(msg tea.Msg) tea.Cmd {
	if p.disposed {
		return nil
	}
	var cmd tea.Cmd
	p.form, cmd = p.form.Update(msg)
	return cmd
}

// View puts the form on the left and the preview in the remaining width.
func (p *Playground) View(width, height int) string {
	form := clip(p.form.View(0), height)
	formWidth := lipgloss.Width(form) + 2
	previewWidth := width - formWidth
	if previewWidth < 4 {
		return form
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(formWidth).Render(form),
		p.preview.View(previewWidth, max(height, 1)),
	)
}

// clip keeps at most height lines of s; a non-positive height keeps all.
func clip(s string, height int) string {
	if height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	return strings.Join(lines, "\n")
}
