package editor

import (
	"slices"
	"strings"

	"github.com/iw2rmb/flourish-confetti/buffer"
)

// Decoration is view-only text painted right after the grapheme at Pos, or at
// the end of the line when Pos is there. It never enters the buffer and does
// not move the cursor.
//
// Color is any lipgloss colour string; empty uses Style.Decoration as is.
type Decoration struct {
	Pos   buffer.Pos
	Text  string
	Color string
}

// decorationLayer is shared by every copy of a Model so hosts can repaint
// without routing a message through Update.
type decorationLayer struct {
	items   []Decoration
	version uint64
}

// SetDecorations replaces every decoration. Positions are clamped to the
// document and newlines are dropped from the text.
func (m Model) SetDecorations(decs []Decoration) {
	if m.decos == nil {
		return
	}
	items := make([]Decoration, 0, len(decs))
	for _, d := range decs {
		d.Text = sanitizeSingleLine(d.Text)
		if d.Text == "" {
			continue
		}
		d.Pos = buffer.ClampPos(d.Pos, m.buf.LineCount(), m.buf.LineLen)
		items = append(items, d)
	}
	slices.SortStableFunc(items, func(a, b Decoration) int {
		return buffer.ComparePos(a.Pos, b.Pos)
	})
	m.decos.items = items
	m.decos.version++
}

// ClearDecorations removes every decoration.
func (m Model) ClearDecorations() { m.SetDecorations(nil) }

// Decorations returns a copy of the current decorations in document order.
func (m Model) Decorations() []Decoration {
	if m.decos == nil {
		return nil
	}
	return slices.Clone(m.decos.items)
}

// decorationsByRow groups decorations by row, keeping document order.
func (m Model) decorationsByRow() map[int][]Decoration {
	if m.decos == nil || len(m.decos.items) == 0 {
		return nil
	}
	out := make(map[int][]Decoration)
	for _, d := range m.decos.items {
		out[d.Pos.Row] = append(out[d.Pos.Row], d)
	}
	return out
}

func (m Model) decorationVersion() uint64 {
	if m.decos == nil {
		return 0
	}
	return m.decos.version
}

func sanitizeSingleLine(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ReplaceAll(s, "\r", "")
	s = strings.ReplaceAll(s, "\n", "")
	return s
}
