// Package population spawns, removes and replenishes particles.
package population

import (
	"fmt"
	"math/rand"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/grid"
	"github.com/san-kum/orbitsim/internal/orbit"
	"github.com/san-kum/orbitsim/internal/vec"
)

// Sampler draws new particles from a seeded source. It is not safe for
// concurrent use.
type Sampler struct {
	params dynamo.Params
	rng    *rand.Rand
}

func NewSampler(p dynamo.Params, rng *rand.Rand) *Sampler {
	return &Sampler{params: p, rng: rng}
}

// DefaultExclusion is the box around the body that fresh spawns avoid.
func (s *Sampler) DefaultExclusion() dynamo.Bounds {
	return dynamo.Cube(s.params.AbsorptionRadius)
}

// Position samples the spawn cube uniformly until the point lies outside
// exclude on at least one axis.
func (s *Sampler) Position(exclude dynamo.Bounds) (vec.Vec3, error) {
	ext := s.params.SpawnExtent
	if exclude.MaxX >= ext && exclude.MaxY >= ext && exclude.MaxZ >= ext {
		return vec.Vec3{}, &dynamo.ConfigurationError{
			Field:  "spawn_extent",
			Value:  ext,
			Reason: fmt.Sprintf("exclusion box %+v covers the whole spawn volume", exclude),
		}
	}
	for {
		pos := vec.Random(s.rng, -ext, ext)
		if exclude.Outside(pos) && !pos.IsZero() {
			return pos, nil
		}
	}
}

func (s *Sampler) uniform(min, max float64) float64 {
	return min + s.rng.Float64()*(max-min)
}

// Particle builds a particle on a circular orbit at a sampled position.
func (s *Sampler) Particle(exclude dynamo.Bounds) (dynamo.Particle, error) {
	pos, err := s.Position(exclude)
	if err != nil {
		return dynamo.Particle{}, err
	}
	vel, err := orbit.Velocity(pos, s.params.GM(), s.rng)
	if err != nil {
		return dynamo.Particle{}, err
	}
	return dynamo.Particle{
		Position: pos,
		Velocity: vel,
		Mass:     s.uniform(s.params.MassMin, s.params.MassMax),
		Radius:   s.uniform(s.params.RadiusMin, s.params.RadiusMax),
		Cell:     grid.KeyOf(pos, s.params.CellSize),
	}, nil
}

// Populate appends n particles spawned outside the default exclusion box.
func (s *Sampler) Populate(ps []dynamo.Particle, n int) ([]dynamo.Particle, error) {
	exclude := s.DefaultExclusion()
	for i := 0; i < n; i++ {
		p, err := s.Particle(exclude)
		if err != nil {
			return ps, err
		}
		ps = append(ps, p)
	}
	return ps, nil
}
