package workbench

import (
	"github.com/iw2rmb/flourish-confetti/editor"
	"github.com/iw2rmb/flourish-confetti/extension"
	"github.com/iw2rmb/flourish-confetti/particle"
)

// Doc is a document to open at start.
type Doc struct {
	Name string
	Text string
}

// document is an open editor tab. It is the surface the in-buffer animation
// paints on, and stops being available once it is closed or another tab
// takes its place.
type document struct {
	name   string
	editor editor.Model
	closed bool
	wb     *Model
}

var _ extension.Document = (*document)(nil)

func (d *document) ID() string { return d.name }

func (d *document) Available() bool {
	return !d.closed && d.wb.current() == d
}

func (d *document) LineCount() int      { return d.editor.Buffer().LineCount() }
func (d *document) LineLen(row int) int { return d.editor.Buffer().LineLen(row) }

func (d *document) SetDecorations(decs []particle.Decoration) {
	out := make([]editor.Decoration, len(decs))
	for i, dec := range decs {
		out[i] = editor.Decoration{Pos: dec.Pos, Text: dec.Text, Color: dec.Color}
	}
	d.editor.SetDecorations(out)
}

func documentChange(ev editor.ChangeEvent) extension.DocumentChange {
	out := extension.DocumentChange{DocID: ev.DocID}
	for _, e := range ev.Edits {
		out.Changes = append(out.Changes, extension.ContentChange{Range: e.RangeBefore, Text: e.InsertText})
	}
	return out
}
