package integrators

import "github.com/san-kum/orbitsim/internal/dynamo"

// SemiImplicitEuler updates velocity first, then moves the particle with the
// updated velocity.
type SemiImplicitEuler struct{}

func NewSemiImplicitEuler() *SemiImplicitEuler {
	return &SemiImplicitEuler{}
}

func (e *SemiImplicitEuler) Step(p *dynamo.Particle, body dynamo.Body, g, dt float64) {
	if a, err := Acceleration(p, body, g); err == nil {
		p.Velocity.AddScaledInPlace(a, dt)
	}
	p.Position.AddScaledInPlace(p.Velocity, dt)
}

// Euler is the explicit variant: position advances with the old velocity.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(p *dynamo.Particle, body dynamo.Body, g, dt float64) {
	a, err := Acceleration(p, body, g)
	p.Position.AddScaledInPlace(p.Velocity, dt)
	if err == nil {
		p.Velocity.AddScaledInPlace(a, dt)
	}
}
