package emission

import (
	"math"
	"slices"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/iw2rmb/flourish-confetti/particle"
)

// Point is a normalized surface coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Event is one resolved burst. Its JSON form is the canvas-confetti options
// object.
type Event struct {
	ParticleCount int              `json:"particleCount"`
	Spread        float64          `json:"spread"`
	Angle         float64          `json:"angle"`
	Origin        Point            `json:"origin"`
	OriginName    string           `json:"-"`
	Colors        []string         `json:"colors"`
	Shapes        []particle.Shape `json:"shapes"`
	StartVelocity float64          `json:"startVelocity"`
	Decay         float64          `json:"decay"`
	Gravity       float64          `json:"gravity"`
	Ticks         int              `json:"ticks"`
}

// Hard limits applied by Emit regardless of what the input surface allowed.
const (
	MaxParticleCount = 1000
	MaxTicks         = 2000
	MaxStartVelocity = 200
)

// Emit resolves s into a burst, clamping every numeric field into a safe
// range and replacing unusable colours and shapes with defaults.
func Emit(s Settings, rng particle.Rand) Event {
	def := DefaultSettings()
	o := ResolveOrigin(s, rng)

	ev := Event{
		ParticleCount: clampInt(s.ParticleCount, 0, MaxParticleCount),
		Spread:        Bounds{Min: 0, Max: 360}.Clamp(s.Spread),
		Angle:         o.Angle,
		Origin:        Point{X: o.X, Y: o.Y},
		OriginName:    o.Name,
		Colors:        NormalizeColors(s.Colors),
		Shapes:        normalizeShapes(s.Shapes),
		StartVelocity: Bounds{Min: 0, Max: MaxStartVelocity}.Clamp(s.StartVelocity),
		Decay:         s.Decay,
		Gravity:       s.Gravity,
		Ticks:         clampInt(s.Ticks, 1, MaxTicks),
	}
	if len(ev.Colors) == 0 {
		ev.Colors = slices.Clone(def.Colors)
	}
	if !(ev.Decay > 0 && ev.Decay <= 1) {
		ev.Decay = def.Decay
	}
	if math.IsNaN(ev.Gravity) || math.IsInf(ev.Gravity, 0) {
		ev.Gravity = def.Gravity
	}
	if s.Ticks <= 0 {
		ev.Ticks = def.Ticks
	}
	return ev
}

// NormalizeColors keeps the parseable colours of in as lowercase #rrggbb.
func NormalizeColors(in []string) []string {
	out := make([]string, 0, len(in))
	for _, c := range in {
		parsed, err := colorful.Hex(c)
		if err != nil {
			continue
		}
		out = append(out, parsed.Hex())
	}
	return out
}

func normalizeShapes(in []particle.Shape) []particle.Shape {
	out := make([]particle.Shape, 0, len(in))
	for _, s := range in {
		if s.Known() && !slices.Contains(out, s) {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		out = append(out, particle.ShapeSquare)
	}
	return out
}

func clampInt(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
