package metrics

import (
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/vec"
)

// SpeedSpread is the mean over ticks of the standard deviation of particle
// speeds. A freshly spawned population on circular orbits has a spread set
// only by its radial distribution; collisions widen it.
type SpeedSpread struct {
	name    string
	speeds  []float64
	total   float64
	samples int
}

func NewSpeedSpread() *SpeedSpread {
	return &SpeedSpread{name: "speed_spread"}
}

func (s *SpeedSpread) Name() string { return s.name }

func (s *SpeedSpread) Observe(ps []dynamo.Particle, _ dynamo.TickStats) {
	if len(ps) < 2 {
		return
	}
	s.speeds = s.speeds[:0]
	for i := range ps {
		s.speeds = append(s.speeds, ps[i].Velocity.Length())
	}
	s.total += stat.StdDev(s.speeds, nil)
	s.samples++
}

func (s *SpeedSpread) Value() float64 {
	if s.samples == 0 {
		return 0
	}
	return s.total / float64(s.samples)
}

func (s *SpeedSpread) Reset() {
	s.total = 0
	s.samples = 0
}

// Momentum is the mean magnitude of the population's total momentum.
type Momentum struct {
	name    string
	total   float64
	samples int
}

func NewMomentum() *Momentum {
	return &Momentum{name: "momentum"}
}

func (m *Momentum) Name() string { return m.name }

func (m *Momentum) Observe(ps []dynamo.Particle, _ dynamo.TickStats) {
	var total vec.Vec3
	for i := range ps {
		total = total.Add(ps[i].Momentum())
	}
	m.total += total.Length()
	m.samples++
}

func (m *Momentum) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.total / float64(m.samples)
}

func (m *Momentum) Reset() {
	m.total = 0
	m.samples = 0
}
