package emission

import (
	"math"

	"github.com/iw2rmb/flourish-confetti/particle"
)

// A burst simulates in normalized coordinates; one unit of start velocity
// moves a particle 1/velocityScale of the surface per tick.
const (
	velocityScale = 1000.0
	gravityScale  = 0.3 / velocityScale

	// ExitY is how far below the surface a particle may fall before it is dropped.
	ExitY = 1.1
)

// Spawn creates the particles of ev at its origin, fanned across
// angle ± spread/2.
func Spawn(ev Event, rng particle.Rand) []particle.Particle {
	if ev.ParticleCount <= 0 {
		return nil
	}
	colors := ev.Colors
	if len(colors) == 0 {
		colors = particle.Palette
	}
	shapes := ev.Shapes
	if len(shapes) == 0 {
		shapes = []particle.Shape{particle.ShapeSquare}
	}

	angle := ev.Angle * math.Pi / 180
	spread := ev.Spread * math.Pi / 180
	out := make([]particle.Particle, ev.ParticleCount)
	for i := range out {
		// Screen y grows downwards, so an angle of 90 degrees points up.
		dir := -angle + (0.5*spread - rng.Float64()*spread)
		speed := (ev.StartVelocity*0.5 + rng.Float64()*ev.StartVelocity) / velocityScale
		out[i] = particle.Particle{
			X:             ev.Origin.X,
			Y:             ev.Origin.Y,
			VX:            math.Cos(dir) * speed,
			VY:            math.Sin(dir) * speed,
			Color:         colors[rng.IntN(len(colors))],
			Shape:         shapes[rng.IntN(len(shapes))],
			Rotation:      rng.Float64() * 2 * math.Pi,
			RotationSpeed: (rng.Float64() - 0.5) * 0.6,
			Size:          1,
		}
	}
	return out
}

// BurstPhysics returns the per-tick constants for particles spawned from ev.
func BurstPhysics(ev Event) particle.Physics {
	return particle.Physics{
		Gravity: ev.Gravity * gravityScale,
		Drag:    1 - ev.Decay,
	}
}

// Alive reports whether a particle of ev is still drawn after age ticks.
func Alive(p particle.Particle, age int, ev Event) bool {
	return p.Y < ExitY && age < ev.Ticks
}
