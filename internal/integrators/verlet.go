package integrators

import "github.com/san-kum/orbitsim/internal/dynamo"

// Verlet is velocity Verlet for the central field. It evaluates the
// acceleration twice per step and keeps no state between steps, since the
// particle slice is reordered every tick.
type Verlet struct{}

func NewVerlet() *Verlet {
	return &Verlet{}
}

func (v *Verlet) Step(p *dynamo.Particle, body dynamo.Body, g, dt float64) {
	a0, err0 := Acceleration(p, body, g)

	p.Position.AddScaledInPlace(p.Velocity, dt)
	if err0 == nil {
		p.Position.AddScaledInPlace(a0, 0.5*dt*dt)
	}

	a1, err1 := Acceleration(p, body, g)
	halfDt := 0.5 * dt
	if err0 == nil {
		p.Velocity.AddScaledInPlace(a0, halfDt)
	}
	if err1 == nil {
		p.Velocity.AddScaledInPlace(a1, halfDt)
	}
}
