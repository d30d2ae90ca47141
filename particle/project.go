package particle

import (
	"math"

	"github.com/iw2rmb/flourish-confetti/buffer"
)

// Project maps a particle onto the nearest valid document position.
//
// The line is floor(Y) clamped to [0, lineCount-1]; the column is floor(X)
// clamped to [0, lineLen(line)]. Non-finite coordinates clamp like any other
// out-of-range value.
func Project(p Particle, lineCount int, lineLen func(row int) int) buffer.Pos {
	return buffer.ClampPos(buffer.Pos{
		Row:         floorInt(p.Y),
		GraphemeCol: floorInt(p.X),
	}, lineCount, lineLen)
}

const maxCoord = 1 << 30

func floorInt(v float64) int {
	switch {
	case math.IsNaN(v):
		return 0
	case v >= maxCoord:
		return maxCoord
	case v <= -maxCoord:
		return -maxCoord
	}
	return int(math.Floor(v))
}
