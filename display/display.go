// Package display is the terminal confetti display panel.
//
// A Panel owns its settings and a simulation of every burst in flight, in
// normalized coordinates. It learns about the outside world only through
// panel messages and draws itself into whatever cell grid the host gives it.
package display

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/iw2rmb/flourish-confetti/emission"
	"github.com/iw2rmb/flourish-confetti/panel"
	"github.com/iw2rmb/flourish-confetti/particle"
)

// DefaultInterval is the simulation step, roughly 30 frames per second.
const DefaultInterval = 33 * time.Millisecond

// PopKey asks the host for a test pop while the panel has focus.
var PopKey = key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "test pop"))

type Options struct {
	Scheduler particle.Scheduler
	Rand      particle.Rand
	Interval  time.Duration

	// Settings seeds the panel; nil means emission.DefaultSettings.
	Settings *emission.Settings

	// OnReveal is called when the host asks to bring the panel forward.
	OnReveal func()
	// OnPop observes every burst the panel emits.
	OnPop func(ev emission.Event)
}

type burst struct {
	ev        emission.Event
	phys      particle.Physics
	particles []particle.Particle
	age       int
}

// Panel is a display panel. It is not safe for concurrent use; hosts drive it
// from their event loop.
type Panel struct {
	id        panel.ID
	opts      Options
	onDispose func()

	settings emission.Settings
	bursts   []*burst
	cancel   func()
	disposed bool
	pops     int
	frames   int
}

var _ panel.Panel = (*Panel)(nil)

func New(id panel.ID, onDispose func(), opts Options) *Panel {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if onDispose == nil {
		onDispose = func() {}
	}
	settings := emission.DefaultSettings()
	if opts.Settings != nil {
		settings = opts.Settings.Clone()
	}
	return &Panel{id: id, opts: opts, onDispose: onDispose, settings: settings}
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

func (p *Panel) Kind() panel.Kind { return panel.KindDisplay }
func (p *Panel) ID() panel.ID     { return p.id }

func (p *Panel) Reveal() {
	if p.opts.OnReveal != nil {
		p.opts.OnReveal()
	}
}

func (p *Panel) Post(msg panel.Message) error {
	if p.disposed {
		return panel.ErrAlreadyDisposed
	}
	switch msg.Command {
	case panel.CommandTriggerConfetti, panel.CommandTestPop:
		p.Pop()
	case panel.CommandUpdateSettings:
		if msg.Settings != nil {
			p.settings = emission.Merge(p.settings, *msg.Settings)
		}
	default:
		return panel.ErrUnsupported
	}
	return nil
}

// Pop emits one burst with the current settings.
func (p *Panel) Pop() emission.Event {
	ev := emission.Emit(p.settings, p.opts.Rand)
	p.pops++
	if p.opts.OnPop != nil {
		p.opts.OnPop(ev)
	}
	if ps := emission.Spawn(ev, p.opts.Rand); len(ps) > 0 {
		p.bursts = append(p.bursts, &burst{ev: ev, phys: emission.BurstPhysics(ev), particles: ps})
		if p.cancel == nil {
			p.schedule()
		}
	}
	return ev
}

func (p *Panel) schedule() {
	p.cancel = p.opts.Scheduler.After(p.opts.Interval, p.tick)
}

func (p *Panel) tick() {
	p.cancel = nil
	if p.disposed {
		return
	}
	p.frames++
	live := p.bursts[:0]
	for _, b := range p.bursts {
		b.age++
		b.particles = particle.Tick(b.particles, b.phys, emission.ExitY)
		if len(b.particles) > 0 && emission.Alive(b.particles[0], b.age, b.ev) {
			live = append(live, b)
		}
	}
	clear(p.bursts[len(live):])
	p.bursts = live
	if len(p.bursts) > 0 {
		p.schedule()
	}
}

// Dispose stops the simulation and reports the panel closed.
func (p *Panel) Dispose() {
	if p.disposed {
		return
	}
	p.disposed = true
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.bursts = nil
	p.onDispose()
}

func (p *Panel) Disposed() bool { return p.disposed }

// Settings returns a copy of the panel's current settings.
func (p *Panel) Settings() emission.Settings { return p.settings.Clone() }

// Animating reports whether a simulation step is scheduled.
func (p *Panel) Animating() bool { return p.cancel != nil }

// Live returns the number of particles in flight.
func (p *Panel) Live() int {
	n := 0
	for _, b := range p.bursts {
		n += len(b.particles)
	}
	return n
}

// Pops returns how many bursts the panel has emitted.
func (p *Panel) Pops() int { return p.pops }

// Update turns PopKey into a testPop message for the host, the same request
// a browser display sends from its button.
func (p *Panel) Update(msg tea.Msg) tea.Cmd {
	km, ok := msg.(tea.KeyMsg)
	if !ok || p.disposed || !key.Matches(km, PopKey) {
		return nil
	}
	return panel.Send(panel.KindDisplay, p.id, panel.TestPop())
}
