package particle

import "math"

// Shape is the visual form of a particle on renderers that draw shapes.
type Shape string

const (
	ShapeSquare Shape = "square"
	ShapeCircle Shape = "circle"
	ShapeStar   Shape = "star"
)

// Shapes lists every known Shape in display order.
var Shapes = []Shape{ShapeSquare, ShapeCircle, ShapeStar}

// Known reports whether s is one of Shapes.
func (s Shape) Known() bool {
	switch s {
	case ShapeSquare, ShapeCircle, ShapeStar:
		return true
	}
	return false
}

// Palette is the fixed colour set used by in-buffer batches.
var Palette = []string{
	"#ff0000",
	"#00ff00",
	"#0000ff",
	"#ffff00",
	"#ff00ff",
	"#00ffff",
}

// Rand is the randomness a batch needs. *math/rand/v2.Rand satisfies it.
type Rand interface {
	Float64() float64
	IntN(n int) int
}

// Particle is one confetti unit.
//
// X is measured in host columns (or normalized width), Y in host lines (or
// normalized height). Rotation is in radians.
type Particle struct {
	X, Y   float64
	VX, VY float64

	Color string
	Shape Shape

	Rotation      float64
	RotationSpeed float64
	Size          float64
}

// Physics holds the per-tick constants applied by Step.
type Physics struct {
	Gravity float64 // added to VY after each move
	Drag    float64 // fraction of velocity lost per tick; 0 means none
}

// DefaultPhysics drives the in-buffer animation.
var DefaultPhysics = Physics{Gravity: 0.05}

const (
	minSpawnVY   = 0.5
	spawnVYRange = 1.0
)

// Spawn creates one particle at (x, y) with vx in [-1, 1), vy in [0.5, 1.5)
// and a colour drawn uniformly from Palette.
func Spawn(rng Rand, x, y float64) Particle {
	return Particle{
		X:     x,
		Y:     y,
		VX:    (rng.Float64() - 0.5) * 2,
		VY:    rng.Float64()*spawnVYRange + minSpawnVY,
		Color: Palette[rng.IntN(len(Palette))],
		Shape: ShapeSquare,
		Size:  1,
	}
}

// NewBatch returns n particles spawned at the origin. n <= 0 yields nil.
func NewBatch(rng Rand, n int, originX, originY float64) []Particle {
	if n <= 0 {
		return nil
	}
	out := make([]Particle, n)
	for i := range out {
		out[i] = Spawn(rng, originX, originY)
	}
	return out
}

// Step advances p by one tick.
func Step(p *Particle, phys Physics) {
	p.X += p.VX
	p.Y += p.VY
	p.Rotation = math.Mod(p.Rotation+p.RotationSpeed, 2*math.Pi)
	if phys.Drag > 0 && phys.Drag < 1 {
		keep := 1 - phys.Drag
		p.VX *= keep
		p.VY *= keep
	}
	p.VY += phys.Gravity
}

// Tick steps every particle and keeps only those still above bound.
//
// A particle at or past bound after its step is removed on this call. The
// input slice is reused for the result.
func Tick(ps []Particle, phys Physics, bound float64) []Particle {
	out := ps[:0]
	for i := range ps {
		p := ps[i]
		Step(&p, phys)
		if p.Y < bound {
			out = append(out, p)
		}
	}
	clear(ps[len(out):])
	return out
}
