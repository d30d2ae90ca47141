package panel

import (
	"errors"
	"fmt"
)

var (
	ErrNoOpenPanel     = errors.New("panel: no open panel")
	ErrUnknownKind     = errors.New("panel: unknown kind")
	ErrUnknownCommand  = errors.New("panel: unknown command")
	ErrUnsupported     = errors.New("panel: message not supported")
	ErrAlreadyDisposed = errors.New("panel: already disposed")
)

// Kind names a family of panels; each Kind has at most one live panel.
type Kind string

const (
	KindSettings   Kind = "settings"
	KindDisplay    Kind = "display"
	KindPlayground Kind = "playground"
)

// Title is the heading hosts show for the kind.
func (k Kind) Title() string {
	switch k {
	case KindSettings:
		return "Confetti Settings"
	case KindDisplay:
		return "Confetti Display"
	case KindPlayground:
		return "Confetti Playground"
	}
	return string(k)
}

// ID identifies one panel instance. IDs are never reused by a Registry.
type ID uint64

func (id ID) String() string { return fmt.Sprintf("panel-%d", uint64(id)) }

// Panel is a live rendering surface.
type Panel interface {
	Kind() Kind
	ID() ID

	// Reveal brings an already open panel to the front.
	Reveal()

	// Post delivers msg. It must not block on the panel's renderer.
	Post(msg Message) error

	// Dispose closes the panel. It calls the disposal callback exactly once,
	// whether the close was requested here or by the user.
	Dispose()
}

// Factory creates the panel for one kind. onDispose must be called exactly
// once when the panel goes away.
type Factory func(id ID, onDispose func()) (Panel, error)
