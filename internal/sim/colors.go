package sim

import (
	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/orbitsim/internal/dynamo"
)

// Palette maps a particle's collision highlight to a colour.
type Palette struct {
	Base  colorful.Color
	Flash colorful.Color
}

// DefaultPalette is hot pink fading in from black after a collision.
func DefaultPalette() Palette {
	return Palette{
		Base:  colorful.Color{R: 1, G: 105.0 / 255, B: 180.0 / 255},
		Flash: colorful.Color{R: 0, G: 0, B: 0},
	}
}

// Color blends from Flash back to Base as the highlight runs down.
func (p Palette) Color(flash, flashTicks int) colorful.Color {
	if flash <= 0 || flashTicks <= 0 {
		return p.Base
	}
	t := float64(flash) / float64(flashTicks)
	if t > 1 {
		t = 1
	}
	return p.Base.BlendLab(p.Flash, t).Clamped()
}

func (p Palette) instance(q *dynamo.Particle, flashTicks int) dynamo.Instance {
	return dynamo.Instance{
		Position: q.Position,
		Radius:   q.Radius,
		Color:    p.Color(q.Flash, flashTicks),
	}
}
