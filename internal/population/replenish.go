package population

import (
	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/vec"
)

// Shortfall returns how many particles should be spawned to bring len(ps)
// back to target, or 0 while the gap is within threshold.
func Shortfall(live, target, threshold int) int {
	if gap := target - live; gap > threshold {
		return gap
	}
	return 0
}

// Replenish tops ps up to target once the shortfall exceeds threshold. Each
// new particle gets its orbital velocity first and is then displaced by a
// per-axis jitter, so it drifts in rather than appearing on the spawn shell.
func (s *Sampler) Replenish(ps []dynamo.Particle, target, threshold int) ([]dynamo.Particle, int, error) {
	n := Shortfall(len(ps), target, threshold)
	if n == 0 {
		return ps, 0, nil
	}

	exclude := s.DefaultExclusion()
	j := s.params.SpawnJitter
	for i := 0; i < n; i++ {
		p, err := s.Particle(exclude)
		if err != nil {
			return ps, i, err
		}
		if j > 0 {
			p.Position = p.Position.Add(vec.Random(s.rng, -j, j))
		}
		ps = append(ps, p)
	}
	return ps, n, nil
}
