package integrators

import (
	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/vec"
)

// Force returns the inverse-square pull of the body (at the origin) on p.
// A particle sitting exactly on the origin has no defined direction and
// yields ErrDegenerateForce.
func Force(p *dynamo.Particle, body dynamo.Body, g float64) (vec.Vec3, error) {
	toBody := p.Position.Scale(-1)
	r2 := toBody.LengthSq()
	if r2 == 0 {
		return vec.Vec3{}, dynamo.ErrDegenerateForce
	}
	magnitude := g * body.Mass * p.Mass / r2
	return toBody.Normalize().Scale(magnitude), nil
}

// Acceleration returns Force / m.
func Acceleration(p *dynamo.Particle, body dynamo.Body, g float64) (vec.Vec3, error) {
	f, err := Force(p, body, g)
	if err != nil {
		return vec.Vec3{}, err
	}
	return f.Scale(1 / p.Mass), nil
}
