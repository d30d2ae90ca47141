package editor

// Config configures the editor Model.
type Config struct {
	// Initial text for the internal buffer.
	Text string

	// DocID identifies the document in change events.
	DocID string

	// Rendering options.
	ShowLineNums bool
	Style        Style

	// KeyMap defaults to DefaultKeyMap when it has no bindings.
	KeyMap   KeyMap
	ReadOnly bool

	// Clipboard is optional; without it copy, cut and paste do nothing.
	Clipboard Clipboard

	// Forwarded to buffer.Options.
	HistoryLimit int

	// OnChange is called after any update that changed the text, the cursor
	// or the selection.
	OnChange func(ChangeEvent)
}
