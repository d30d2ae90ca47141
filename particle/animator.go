package particle

import (
	"errors"
	"time"

	"github.com/iw2rmb/flourish-confetti/buffer"
)

// ErrNoActiveSurface is returned by Start when there is nothing to draw on.
var ErrNoActiveSurface = errors.New("particle: no active surface")

// Scheduler runs fn once after d and returns a function that cancels it.
// Cancelling an already-fired or already-cancelled callback is a no-op.
type Scheduler interface {
	After(d time.Duration, fn func()) (cancel func())
}

// Decoration is one view-only glyph painted at a document position.
type Decoration struct {
	Pos   buffer.Pos
	Text  string
	Color string
}

// Surface is the text document the animator paints on.
type Surface interface {
	LineCount() int
	LineLen(row int) int
	SetDecorations(decs []Decoration)
}

// Target is a Surface that can disappear while an animation runs.
type Target interface {
	Surface
	Available() bool
}

type State uint8

const (
	StateIdle State = iota
	StateActive
	StateFinished
)

func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateFinished:
		return "finished"
	}
	return "idle"
}

// Outcome reports why an animation run ended.
type Outcome uint8

const (
	OutcomeCompleted Outcome = iota // every particle left the document
	OutcomeAborted                  // the target became unavailable
	OutcomeStopped                  // Stop or a restart interrupted the run
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAborted:
		return "aborted"
	case OutcomeStopped:
		return "stopped"
	}
	return "completed"
}

// AnimatorConfig configures an Animator. Zero fields take defaults.
type AnimatorConfig struct {
	Count    int           // particles per run; default 50
	Interval time.Duration // delay between ticks; default 100ms
	Physics  *Physics      // default DefaultPhysics
	Glyph    string        // decoration text; default "🎉"

	// OnDone is called once per run with the number of ticks it took.
	OnDone func(outcome Outcome, ticks int)
}

const (
	DefaultCount    = 50
	DefaultInterval = 100 * time.Millisecond
	DefaultGlyph    = "🎉"
)

func (c AnimatorConfig) withDefaults() AnimatorConfig {
	if c.Count <= 0 {
		c.Count = DefaultCount
	}
	if c.Interval <= 0 {
		c.Interval = DefaultInterval
	}
	if c.Physics == nil {
		phys := DefaultPhysics
		c.Physics = &phys
	}
	if c.Glyph == "" {
		c.Glyph = DefaultGlyph
	}
	return c
}

// Animator runs one in-buffer confetti animation at a time.
//
// States: Idle -> Active -> Finished. Finished is absorbing until the next
// Start, which replaces any running batch with a fresh one.
type Animator struct {
	cfg   AnimatorConfig
	sched Scheduler
	rng   Rand

	target    Target
	particles []Particle
	state     State
	ticks     int
	cancel    func()
}

func NewAnimator(sched Scheduler, rng Rand, cfg AnimatorConfig) *Animator {
	return &Animator{cfg: cfg.withDefaults(), sched: sched, rng: rng}
}

func (a *Animator) State() State { return a.state }

// Ticks reports how many ticks the current (or last) run has executed.
func (a *Animator) Ticks() int { return a.ticks }

// Particles returns a copy of the live particle set.
func (a *Animator) Particles() []Particle {
	return append([]Particle(nil), a.particles...)
}

// Start launches a fresh batch on target and runs the first tick immediately.
//
// Particles start on line 0 spread across its width.
func (a *Animator) Start(target Target) error {
	if target == nil || !target.Available() {
		return ErrNoActiveSurface
	}
	if a.state == StateActive {
		a.Stop()
	}

	width := float64(target.LineLen(0))
	batch := make([]Particle, a.cfg.Count)
	for i := range batch {
		batch[i] = Spawn(a.rng, a.rng.Float64()*width, 0)
	}

	a.target = target
	a.particles = batch
	a.ticks = 0
	a.state = StateActive
	a.tick()
	return nil
}

// Stop cancels a pending tick and clears the decorations of a running animation.
func (a *Animator) Stop() {
	if a.state != StateActive {
		return
	}
	a.cancelPending()
	if a.target.Available() {
		a.target.SetDecorations(nil)
	}
	a.finish(OutcomeStopped)
}

func (a *Animator) tick() {
	a.cancel = nil
	if a.state != StateActive {
		return
	}
	if !a.target.Available() {
		a.finish(OutcomeAborted)
		return
	}

	a.ticks++
	lines := a.target.LineCount()
	a.particles = Tick(a.particles, *a.cfg.Physics, float64(lines))
	if len(a.particles) == 0 {
		a.target.SetDecorations(nil)
		a.finish(OutcomeCompleted)
		return
	}

	decs := make([]Decoration, 0, len(a.particles))
	for _, p := range a.particles {
		decs = append(decs, Decoration{
			Pos:   Project(p, lines, a.target.LineLen),
			Text:  a.cfg.Glyph,
			Color: p.Color,
		})
	}
	a.target.SetDecorations(decs)
	a.cancel = a.sched.After(a.cfg.Interval, a.tick)
}

func (a *Animator) cancelPending() {
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
}

func (a *Animator) finish(o Outcome) {
	a.state = StateFinished
	a.particles = nil
	a.target = nil
	if a.cfg.OnDone != nil {
		a.cfg.OnDone(o, a.ticks)
	}
}
