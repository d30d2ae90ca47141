// Package extension is the confetti add-on: it wires commands, document
// edits and panel messages to the in-buffer animator and the confetti panels.
//
// Everything runs on the host's event loop. The only state the add-on keeps
// between events is the panel registry, the animator and the session
// settings that are replayed to every newly opened display.
package extension

import (
	"errors"
	"fmt"
	"io"
	"log"
	"math/rand/v2"
	"slices"

	"github.com/iw2rmb/flourish-confetti/buffer"
	"github.com/iw2rmb/flourish-confetti/emission"
	"github.com/iw2rmb/flourish-confetti/notify"
	"github.com/iw2rmb/flourish-confetti/panel"
	"github.com/iw2rmb/flourish-confetti/particle"
)

// Command names.
const (
	CommandHelloWorld      = "confetti-code.helloWorld"
	CommandShowConfetti    = "confetti-code.showConfetti"
	CommandShowSettings    = "confetti-code.showConfettiSettings"
	CommandShowDisplay     = "confetti-code.showConfettiDisplay"
	CommandShowPlayground  = "confetti-code.showConfettiPlayground"
	CommandTriggerConfetti = "confetti-code.triggerConfetti"
)

// User-visible messages.
const (
	msgHelloWorld      = "Hello World from confetti-code!"
	msgNoActiveEditor  = "No active text editor found. Open a file to see confetti!"
	msgConfetti        = "🎉 Confetti!"
	msgOpenPanelFailed = "Could not open %s: %v"
)

var (
	ErrUnknownCommand = errors.New("extension: unknown command")
	ErrNoRegistry     = errors.New("extension: no panel registry")
	ErrNoScheduler    = errors.New("extension: no scheduler")
	ErrInactive       = errors.New("extension: not active")
)

// Document is an open text document the animator can paint on.
type Document interface {
	particle.Target
	ID() string
}

// Workspace reports the focused document.
type Workspace interface {
	ActiveDocument() (Document, bool)
}

// ContentChange is one replaced span of a document edit.
type ContentChange struct {
	Range buffer.Range
	Text  string
}

// DocumentChange is a text-change notification from the host.
type DocumentChange struct {
	DocID   string
	Changes []ContentChange
}

// Inserts reports whether any change inserted text, newlines included.
func (c DocumentChange) Inserts() bool {
	return slices.ContainsFunc(c.Changes, func(ch ContentChange) bool { return ch.Text != "" })
}

type Options struct {
	Registry  *panel.Registry
	Notifier  notify.Notifier
	Workspace Workspace
	Scheduler particle.Scheduler
	// Rand defaults to a randomly seeded PCG source.
	Rand      particle.Rand
	Logger    *log.Logger

	// Animator configures the in-buffer animation. OnDone is chained after
	// the add-on's own logging.
	Animator particle.AnimatorConfig

	// Settings seeds the session settings; nil means emission.DefaultSettings.
	Settings *emission.Settings
}

type handler func(e *Extension) error

// Extension is one activation of the add-on.
type Extension struct {
	reg       *panel.Registry
	notifier  notify.Notifier
	workspace Workspace
	logger    *log.Logger

	animator *particle.Animator
	commands map[string]handler
	settings emission.Settings
	active   bool
}

// Activate wires the command table and returns the running add-on.
func Activate(opts Options) (*Extension, error) {
	if opts.Registry == nil {
		return nil, ErrNoRegistry
	}
	if opts.Scheduler == nil {
		return nil, ErrNoScheduler
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	e := &Extension{
		reg:       opts.Registry,
		notifier:  opts.Notifier,
		workspace: opts.Workspace,
		logger:    opts.Logger,
		settings:  emission.DefaultSettings(),
		active:    true,
	}
	if e.notifier == nil {
		e.notifier = notify.Discard
	}
	if e.logger == nil {
		e.logger = log.New(io.Discard, "", 0)
	}
	if opts.Settings != nil {
		e.settings = opts.Settings.Clone()
	}

	cfg := opts.Animator
	onDone := cfg.OnDone
	cfg.OnDone = func(o particle.Outcome, ticks int) {
		e.logger.Printf("confetti animation %s after %d ticks", o, ticks)
		if onDone != nil {
			onDone(o, ticks)
		}
	}
	e.animator = particle.NewAnimator(opts.Scheduler, opts.Rand, cfg)

	e.commands = map[string]handler{
		CommandHelloWorld:      (*Extension).helloWorld,
		CommandShowConfetti:    (*Extension).showConfetti,
		CommandShowSettings:    (*Extension).showSettings,
		CommandShowDisplay:     (*Extension).showDisplay,
		CommandShowPlayground:  (*Extension).showPlayground,
		CommandTriggerConfetti: (*Extension).triggerConfetti,
	}
	e.logger.Printf("confetti-code activated with %d commands", len(e.commands))
	return e, nil
}

// Commands lists the command names in sorted order.
func (e *Extension) Commands() []string {
	names := make([]string, 0, len(e.commands))
	for name := range e.commands {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Execute runs a command. Failures the user should know about have already
// been reported through the notifier when the error is returned.
func (e *Extension) Execute(name string) error {
	if !e.active {
		return ErrInactive
	}
	h, ok := e.commands[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCommand, name)
	}
	e.logger.Printf("%s command triggered", name)
	return h(e)
}

// Settings returns a copy of the session settings.
func (e *Extension) Settings() emission.Settings { return e.settings.Clone() }

// Animator exposes the in-buffer animator for inspection.
func (e *Extension) Animator() *particle.Animator { return e.animator }

func (e *Extension) Active() bool { return e.active }

// Deactivate stops the animation and closes every panel.
func (e *Extension) Deactivate() {
	if !e.active {
		return
	}
	e.active = false
	e.animator.Stop()
	e.reg.DisposeAll()
	e.logger.Printf("confetti-code deactivated")
}

func (e *Extension) helloWorld() error {
	e.notifier.Info(msgHelloWorld)
	return nil
}

func (e *Extension) showConfetti() error {
	var target particle.Target
	if e.workspace != nil {
		if doc, ok := e.workspace.ActiveDocument(); ok {
			target = doc
		}
	}
	if err := e.animator.Start(target); err != nil {
		if errors.Is(err, particle.ErrNoActiveSurface) {
			e.logger.Printf("no active editor found")
			e.notifier.Info(msgNoActiveEditor)
		}
		return err
	}
	e.logger.Printf("confetti animation started")
	e.notifier.Info(msgConfetti)
	return nil
}

func (e *Extension) showSettings() error {
	p, created, err := e.open(panel.KindSettings)
	if err != nil || !created {
		return err
	}
	if err := p.Post(panel.UpdateSettings(emission.Full(e.settings))); err != nil {
		e.logger.Printf("replaying settings to %s: %v", p.ID(), err)
	}
	return nil
}

func (e *Extension) showDisplay() error {
	p, created, err := e.open(panel.KindDisplay)
	if err != nil || !created {
		return err
	}
	if err := p.Post(panel.UpdateSettings(emission.Full(e.settings))); err != nil {
		e.logger.Printf("replaying settings to %s: %v", p.ID(), err)
	}
	return nil
}

func (e *Extension) showPlayground() error {
	_, _, err := e.open(panel.KindPlayground)
	return err
}

func (e *Extension) triggerConfetti() error {
	return e.reg.Post(panel.KindDisplay, panel.Trigger())
}

func (e *Extension) open(kind panel.Kind) (panel.Panel, bool, error) {
	p, created, err := e.reg.Open(kind)
	if err != nil {
		e.notifier.Error(fmt.Sprintf(msgOpenPanelFailed, kind.Title(), err))
		return nil, false, err
	}
	return p, created, nil
}

// HandleDocumentChange fires one emission on the display panel when the
// focused document gained text. It reports whether a burst was requested.
//
// Edits with no open display are skipped without a message: they are not
// requests the user made.
func (e *Extension) HandleDocumentChange(ev DocumentChange) bool {
	if !e.active || !ev.Inserts() || e.workspace == nil {
		return false
	}
	doc, ok := e.workspace.ActiveDocument()
	if !ok || doc.ID() != ev.DocID {
		return false
	}
	if !e.reg.Has(panel.KindDisplay) {
		return false
	}
	return e.reg.Post(panel.KindDisplay, panel.Trigger()) == nil
}

// HandlePanelMessage routes a message a panel sent to the host.
func (e *Extension) HandlePanelMessage(env panel.Envelope) error {
	if !e.active {
		return ErrInactive
	}
	msg := env.Msg
	switch msg.Command {
	case panel.CommandUpdateSettings:
		if msg.Settings == nil {
			return nil
		}
		e.settings = emission.Merge(e.settings, *msg.Settings)
		if env.From == panel.KindDisplay {
			if e.reg.Has(panel.KindSettings) {
				return e.reg.Post(panel.KindSettings, msg)
			}
			return nil
		}
		return e.reg.Post(panel.KindDisplay, msg)
	case panel.CommandTestPop, panel.CommandTriggerConfetti:
		return e.reg.Post(panel.KindDisplay, panel.Trigger())
	}
	return fmt.Errorf("%w: %q", panel.ErrUnknownCommand, msg.Command)
}
