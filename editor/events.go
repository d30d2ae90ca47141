package editor

import "github.com/iw2rmb/flourish-confetti/buffer"

type ChangeEvent struct {
	DocID     string
	Version   uint64
	Cursor    buffer.Pos
	Selection struct {
		Range  buffer.Range
		Active bool
	}

	// TextChanged is false for cursor or selection moves.
	TextChanged bool
	// Edits describes the text change that produced Version, if any.
	Edits []buffer.AppliedEdit

	Text string
}

// Inserts reports whether the event carries an edit that inserted text.
func (ev ChangeEvent) Inserts() bool {
	for _, e := range ev.Edits {
		if e.InsertText != "" {
			return true
		}
	}
	return false
}

func buildChangeEvent(docID string, b *buffer.Buffer, textChanged bool) ChangeEvent {
	ev := ChangeEvent{
		DocID:       docID,
		Version:     b.Version(),
		Cursor:      b.Cursor(),
		TextChanged: textChanged,
		Text:        b.Text(),
	}
	if r, ok := b.Selection(); ok {
		ev.Selection.Active = true
		ev.Selection.Range = r
	}
	if textChanged {
		if ch, ok := b.LastChange(); ok && ch.VersionAfter == ev.Version {
			ev.Edits = ch.AppliedEdits
		}
	}
	return ev
}
