package emission

import (
	"slices"

	"github.com/iw2rmb/flourish-confetti/particle"
)

// Settings controls how a display surface emits confetti.
type Settings struct {
	ParticleCount int              `json:"particleCount"`
	Spread        float64          `json:"spread"`
	Angle         float64          `json:"angle"`
	Origins       []string         `json:"origins"`
	Colors        []string         `json:"colors"`
	Shapes        []particle.Shape `json:"shapes"`

	StartVelocity float64 `json:"startVelocity"`
	Decay         float64 `json:"decay"`
	Gravity       float64 `json:"gravity"`
	Ticks         int     `json:"ticks"`
}

// DefaultSettings returns the settings a freshly opened panel starts with.
func DefaultSettings() Settings {
	return Settings{
		ParticleCount: 100,
		Spread:        70,
		Angle:         90,
		Colors:        slices.Clone(particle.Palette),
		Shapes:        []particle.Shape{particle.ShapeSquare, particle.ShapeCircle},
		StartVelocity: 45,
		Decay:         0.9,
		Gravity:       1,
		Ticks:         200,
	}
}

// Clone returns a copy that shares no slices with s.
func (s Settings) Clone() Settings {
	s.Origins = slices.Clone(s.Origins)
	s.Colors = slices.Clone(s.Colors)
	s.Shapes = slices.Clone(s.Shapes)
	return s
}

// Partial is a settings update. Nil fields are absent and leave the current
// value alone. An empty, non-nil slice clears the field and is encoded as [].
type Partial struct {
	ParticleCount *int             `json:"particleCount,omitempty"`
	Spread        *float64         `json:"spread,omitempty"`
	Angle         *float64         `json:"angle,omitempty"`
	Origins       []string         `json:"origins,omitzero"`
	Colors        []string         `json:"colors,omitzero"`
	Shapes        []particle.Shape `json:"shapes,omitzero"`

	StartVelocity *float64 `json:"startVelocity,omitempty"`
	Decay         *float64 `json:"decay,omitempty"`
	Gravity       *float64 `json:"gravity,omitempty"`
	Ticks         *int     `json:"ticks,omitempty"`
}

// Ptr returns a pointer to v, for building Partial literals.
func Ptr[T any](v T) *T { return &v }

// Full returns a Partial that carries every field of s.
func Full(s Settings) Partial {
	s = s.Clone()
	return Partial{
		ParticleCount: &s.ParticleCount,
		Spread:        &s.Spread,
		Angle:         &s.Angle,
		Origins:       nonNil(s.Origins),
		Colors:        nonNil(s.Colors),
		Shapes:        nonNil(s.Shapes),
		StartVelocity: &s.StartVelocity,
		Decay:         &s.Decay,
		Gravity:       &s.Gravity,
		Ticks:         &s.Ticks,
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// IsEmpty reports whether p changes nothing.
func (p Partial) IsEmpty() bool {
	return p.ParticleCount == nil && p.Spread == nil && p.Angle == nil &&
		p.Origins == nil && p.Colors == nil && p.Shapes == nil &&
		p.StartVelocity == nil && p.Decay == nil && p.Gravity == nil && p.Ticks == nil
}

// Merge overrides every field present in p. Slices are replaced wholesale,
// never appended to, and the result shares no memory with p.
func Merge(current Settings, p Partial) Settings {
	out := current.Clone()
	if p.ParticleCount != nil {
		out.ParticleCount = *p.ParticleCount
	}
	if p.Spread != nil {
		out.Spread = *p.Spread
	}
	if p.Angle != nil {
		out.Angle = *p.Angle
	}
	if p.Origins != nil {
		out.Origins = slices.Clone(p.Origins)
	}
	if p.Colors != nil {
		out.Colors = slices.Clone(p.Colors)
	}
	if p.Shapes != nil {
		out.Shapes = slices.Clone(p.Shapes)
	}
	if p.StartVelocity != nil {
		out.StartVelocity = *p.StartVelocity
	}
	if p.Decay != nil {
		out.Decay = *p.Decay
	}
	if p.Gravity != nil {
		out.Gravity = *p.Gravity
	}
	if p.Ticks != nil {
		out.Ticks = *p.Ticks
	}
	return out
}

// Bounds is an inclusive numeric range.
type Bounds struct {
	Min, Max float64
}

// Clamp returns v limited to b. NaN clamps to Min.
func (b Bounds) Clamp(v float64) float64 {
	if v != v || v < b.Min {
		return b.Min
	}
	if v > b.Max {
		return b.Max
	}
	return v
}

// Ranges the settings input surfaces offer.
var (
	ParticleCountInput = Bounds{Min: 10, Max: 200}
	SpreadInput        = Bounds{Min: 20, Max: 180}
	AngleInput         = Bounds{Min: 0, Max: 360}
)
