package metrics

import (
	"math"

	"github.com/san-kum/orbitsim/internal/dynamo"
)

// KineticEnergy is the mean total kinetic energy of the population per tick.
type KineticEnergy struct {
	name    string
	total   float64
	samples int
}

func NewKineticEnergy() *KineticEnergy {
	return &KineticEnergy{name: "kinetic_energy"}
}

func (k *KineticEnergy) Name() string { return k.name }

func (k *KineticEnergy) Observe(ps []dynamo.Particle, _ dynamo.TickStats) {
	k.total += TotalKinetic(ps)
	k.samples++
}

func (k *KineticEnergy) Value() float64 {
	if k.samples == 0 {
		return 0
	}
	return k.total / float64(k.samples)
}

func (k *KineticEnergy) Reset() {
	k.total = 0
	k.samples = 0
}

// TotalKinetic sums 0.5*m*v^2 over ps.
func TotalKinetic(ps []dynamo.Particle) float64 {
	var e float64
	for i := range ps {
		e += ps[i].KineticEnergy()
	}
	return e
}

// SpecificEnergy returns the mean orbital energy per unit mass,
// v^2/2 - GM/r, over ps. Particles at the origin are skipped.
func SpecificEnergy(ps []dynamo.Particle, gm float64) float64 {
	var sum float64
	n := 0
	for i := range ps {
		r := ps[i].Position.Length()
		if r == 0 {
			continue
		}
		sum += 0.5*ps[i].Velocity.LengthSq() - gm/r
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// EnergyDrift tracks the largest relative change of the mean specific
// orbital energy from its first observed value. Collisions with
// restitution below 1 make it grow even with a perfect integrator.
type EnergyDrift struct {
	name          string
	gm            float64
	initialEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift(gm float64) *EnergyDrift {
	return &EnergyDrift{name: "energy_drift", gm: gm}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(ps []dynamo.Particle, _ dynamo.TickStats) {
	energy := SpecificEnergy(ps, e.gm)
	if e.samples == 0 {
		e.initialEnergy = energy
	}
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}
