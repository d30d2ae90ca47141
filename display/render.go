package display

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/iw2rmb/flourish-confetti/internal/grapheme"
	"github.com/iw2rmb/flourish-confetti/particle"
)

// glyphs per shape; rotation flips between the two.
var glyphs = map[particle.Shape][2]string{
	particle.ShapeSquare: {"■", "◆"},
	particle.ShapeCircle: {"●", "•"},
	particle.ShapeStar:   {"★", "✦"},
}

// maxFade is how far a particle blends into the background by the end of its burst.
const maxFade = 0.75

var background = colorful.Color{}

type cell struct {
	glyph string
	color string
}

// View draws the panel into a width x height block of cells.
func (p *Panel) View(width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	grid := make([][]cell, height)
	for y := range grid {
		grid[y] = make([]cell, width)
	}

	for _, b := range p.bursts {
		fade := 0.0
		if b.ev.Ticks > 0 {
			fade = maxFade * float64(b.age) / float64(b.ev.Ticks)
		}
		for _, pt := range b.particles {
			x := int(math.Floor(pt.X * float64(width)))
			y := int(math.Floor(pt.Y * float64(height)))
			if x < 0 || x >= width || y < 0 || y >= height {
				continue
			}
			grid[y][x] = cell{glyph: glyphFor(pt), color: fadeColor(pt.Color, fade)}
		}
	}

	lines := make([]string, height)
	for y, row := range grid {
		var sb strings.Builder
		for x := 0; x < width; x++ {
			c := row[x]
			if c.glyph == "" {
				sb.WriteByte(' ')
				continue
			}
			w := grapheme.Width(c.glyph)
			if x+w > width {
				sb.WriteByte(' ')
				continue
			}
			sb.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(c.color)).Render(c.glyph))
			x += w - 1
		}
		lines[y] = sb.String()
	}
	return strings.Join(lines, "\n")
}

func glyphFor(p particle.Particle) string {
	pair, ok := glyphs[p.Shape]
	if !ok {
		pair = glyphs[particle.ShapeSquare]
	}
	phase := int(math.Floor(math.Abs(p.Rotation) / (math.Pi / 2)))
	return pair[phase%2]
}

func fadeColor(hex string, fade float64) string {
	c, err := colorful.Hex(hex)
	if err != nil {
		return hex
	}
	if fade <= 0 {
		return c.Hex()
	}
	return c.BlendLab(background, min(max(fade, 0), 1)).Clamped().Hex()
}
