package panel

import (
	"fmt"
	"io"
	"log"

	"github.com/iw2rmb/flourish-confetti/notify"
)

// Registry owns the live panel of every kind.
type Registry struct {
	factories map[Kind]Factory
	live      map[Kind]Panel
	nextID    ID

	notifier notify.Notifier
	logger   *log.Logger
}

func NewRegistry(notifier notify.Notifier, logger *log.Logger) *Registry {
	if notifier == nil {
		notifier = notify.Discard
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Registry{
		factories: make(map[Kind]Factory),
		live:      make(map[Kind]Panel),
		notifier:  notifier,
		logger:    logger,
	}
}

// Register installs the factory used by Open for kind.
func (r *Registry) Register(kind Kind, f Factory) {
	r.factories[kind] = f
}

// Open reveals the live panel of kind or creates one. created reports which
// happened.
func (r *Registry) Open(kind Kind) (p Panel, created bool, err error) {
	if p, ok := r.live[kind]; ok {
		p.Reveal()
		return p, false, nil
	}
	f, ok := r.factories[kind]
	if !ok {
		return nil, false, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	r.nextID++
	id := r.nextID
	p, err = f(id, func() { r.forget(kind, id) })
	if err != nil {
		return nil, false, fmt.Errorf("panel: open %s: %w", kind, err)
	}
	r.live[kind] = p
	r.logger.Printf("panel %s opened as %s", kind, id)
	return p, true, nil
}

func (r *Registry) forget(kind Kind, id ID) {
	p, ok := r.live[kind]
	if !ok || p.ID() != id {
		// A callback from an instance that was already replaced.
		return
	}
	delete(r.live, kind)
	r.logger.Printf("panel %s disposed (%s)", kind, id)
}

// Get returns the live panel of kind.
func (r *Registry) Get(kind Kind) (Panel, bool) {
	p, ok := r.live[kind]
	return p, ok
}

func (r *Registry) Has(kind Kind) bool {
	_, ok := r.live[kind]
	return ok
}

// Count reports the number of live panels of kind: 0 or 1.
func (r *Registry) Count(kind Kind) int {
	if r.Has(kind) {
		return 1
	}
	return 0
}

// Dispose closes the live panel of kind, if any.
func (r *Registry) Dispose(kind Kind) bool {
	p, ok := r.live[kind]
	if !ok {
		return false
	}
	p.Dispose()
	// Panels must report disposal; forget them anyway if one does not.
	r.forget(kind, p.ID())
	return true
}

// DisposeAll closes every live panel.
func (r *Registry) DisposeAll() {
	for kind := range r.live {
		r.Dispose(kind)
	}
}

// Post delivers msg to the live panel of kind. Without one it tells the user
// and returns ErrNoOpenPanel; registry state is unchanged either way.
func (r *Registry) Post(kind Kind, msg Message) error {
	p, ok := r.live[kind]
	if !ok {
		r.notifier.Error(fmt.Sprintf("No %s is open. Open it first.", kind.Title()))
		return fmt.Errorf("%w: %s", ErrNoOpenPanel, kind)
	}
	if err := p.Post(msg); err != nil {
		return fmt.Errorf("panel: post %s to %s: %w", msg.Command, kind, err)
	}
	return nil
}
