package emission

import (
	"math"

	"github.com/iw2rmb/flourish-confetti/particle"
)

// Origin is a named anchor in normalized surface coordinates with the spray
// angle (degrees, 90 = straight up) that reads well from that anchor.
type Origin struct {
	Name  string
	X, Y  float64
	Angle float64
}

const (
	OriginTopLeft      = "topLeft"
	OriginTopCenter    = "topCenter"
	OriginTopRight     = "topRight"
	OriginCenterLeft   = "centerLeft"
	OriginCenter       = "center"
	OriginCenterRight  = "centerRight"
	OriginBottomLeft   = "bottomLeft"
	OriginBottomCenter = "bottomCenter"
	OriginBottomRight  = "bottomRight"
)

var origins = [...]Origin{
	{Name: OriginTopLeft, X: 0, Y: 0, Angle: 316},
	{Name: OriginTopCenter, X: 0.5, Y: 0, Angle: 270},
	{Name: OriginTopRight, X: 1, Y: 0, Angle: 224},
	{Name: OriginCenterLeft, X: 0, Y: 0.5, Angle: 0},
	{Name: OriginCenter, X: 0.5, Y: 0.5, Angle: 90},
	{Name: OriginCenterRight, X: 1, Y: 0.5, Angle: 180},
	{Name: OriginBottomLeft, X: 0, Y: 1, Angle: 44},
	{Name: OriginBottomCenter, X: 0.5, Y: 1, Angle: 90},
	{Name: OriginBottomRight, X: 1, Y: 1, Angle: 136},
}

// DefaultOriginX and DefaultOriginY place bursts when no named origin is set.
const (
	DefaultOriginX = 0.5
	DefaultOriginY = 0.6
)

// Origins returns the 3x3 anchor table, row by row from the top left.
func Origins() []Origin {
	out := make([]Origin, len(origins))
	copy(out, origins[:])
	return out
}

// LookupOrigin finds a named origin.
func LookupOrigin(name string) (Origin, bool) {
	for _, o := range origins {
		if o.Name == name {
			return o, true
		}
	}
	return Origin{}, false
}

// ResolveOrigin picks the origin for one burst.
//
// One of the configured, known origins is chosen uniformly; a single origin is
// therefore deterministic. With none configured the burst leaves from
// (DefaultOriginX, DefaultOriginY) at the settings angle.
func ResolveOrigin(s Settings, rng particle.Rand) Origin {
	known := make([]Origin, 0, len(s.Origins))
	for _, name := range s.Origins {
		if o, ok := LookupOrigin(name); ok {
			known = append(known, o)
		}
	}
	switch len(known) {
	case 0:
		return Origin{X: DefaultOriginX, Y: DefaultOriginY, Angle: normalizeAngle(s.Angle)}
	case 1:
		return known[0]
	}
	return known[rng.IntN(len(known))]
}

func normalizeAngle(deg float64) float64 {
	if math.IsNaN(deg) || math.IsInf(deg, 0) {
		return 90
	}
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}
