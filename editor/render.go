package editor

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/iw2rmb/flourish-confetti/buffer"
)

func (m *Model) renderContent() string {
	if m.buf == nil {
		return ""
	}

	lineCount := m.buf.LineCount()
	cursor := m.buf.Cursor()
	sel, selOK := m.buf.Selection()
	decos := m.decorationsByRow()
	digitCount := 0
	if m.cfg.ShowLineNums {
		digitCount = gutterDigits(lineCount)
	}

	out := make([]string, 0, lineCount)
	for row := 0; row < lineCount; row++ {
		var sb strings.Builder
		if m.cfg.ShowLineNums {
			numStyle := m.cfg.Style.LineNum
			if m.focused && row == cursor.Row {
				numStyle = m.cfg.Style.LineNumActive
			}
			sb.WriteString(numStyle.Render(fmt.Sprintf("%*d", digitCount, row+1)))
			sb.WriteString(m.cfg.Style.Gutter.Render(" "))
		}
		sb.WriteString(renderLine(m.cfg.Style, m.buf.Graphemes(row), row, cursor, m.focused, sel, selOK, decos[row]))
		out = append(out, sb.String())
	}
	return strings.Join(out, "\n")
}

func renderLine(
	st Style,
	line []string,
	row int,
	cursor buffer.Pos,
	focused bool,
	sel buffer.Range,
	selOK bool,
	decos []Decoration,
) string {
	rawLen := len(line)
	cursorCol := -1
	if focused && row == cursor.Row {
		cursorCol = clampInt(cursor.GraphemeCol, 0, rawLen)
	}
	selStart, selEnd, hasSel := selectionColsForRow(sel, selOK, row, rawLen)

	var sb strings.Builder
	di := 0
	for col := 0; col <= rawLen; col++ {
		for di < len(decos) && decorationAnchor(decos[di], rawLen) == col {
			sb.WriteString(decorationStyle(st, decos[di].Color).Render(decos[di].Text))
			di++
		}
		if col == rawLen {
			break
		}

		g := line[col]
		if g == "\t" {
			g = " "
		}
		switch {
		case col == cursorCol:
			sb.WriteString(st.Cursor.Render(g))
		case hasSel && col >= selStart && col < selEnd:
			sb.WriteString(st.Selection.Render(g))
		default:
			sb.WriteString(st.Text.Render(g))
		}
	}
	// Cursor at EOL is rendered as a 1-cell placeholder space.
	if cursorCol == rawLen {
		sb.WriteString(st.Cursor.Render(" "))
	}
	return sb.String()
}

// decorationAnchor is the column a decoration is drawn in front of: right
// after its grapheme, or the end of the line.
func decorationAnchor(d Decoration, rawLen int) int {
	return min(d.Pos.GraphemeCol+1, rawLen)
}

func decorationStyle(st Style, color string) lipgloss.Style {
	if color == "" {
		return st.Decoration
	}
	return st.Decoration.Foreground(lipgloss.Color(color))
}

// selectionColsForRow returns the selected grapheme columns [start, end) of row.
func selectionColsForRow(sel buffer.Range, ok bool, row, rawLen int) (start, end int, has bool) {
	if !ok {
		return 0, 0, false
	}
	sel = buffer.NormalizeRange(sel)
	if row < sel.Start.Row || row > sel.End.Row {
		return 0, 0, false
	}
	start, end = 0, rawLen
	if row == sel.Start.Row {
		start = clampInt(sel.Start.GraphemeCol, 0, rawLen)
	}
	if row == sel.End.Row {
		end = clampInt(sel.End.GraphemeCol, 0, rawLen)
	}
	return start, end, start < end
}

func gutterDigits(lineCount int) int {
	if lineCount < 1 {
		lineCount = 1
	}
	return len(fmt.Sprintf("%d", lineCount))
}

func clampInt(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
