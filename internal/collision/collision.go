// Package collision detects overlapping particles within a grid cell and
// resolves them with an impulse along the line of centres.
package collision

import (
	"github.com/san-kum/orbitsim/internal/dynamo"
)

// Overlapping reports whether the spheres of a and b intersect.
func Overlapping(a, b *dynamo.Particle) bool {
	r := a.Radius + b.Radius
	return a.Position.Sub(b.Position).LengthSq() < r*r
}

// Resolve applies the restitution impulse between a and b and reports whether
// it did. Coincident centres have no normal and are left alone.
//
// The impulse is applied whatever the sign of the normal velocity; a pair
// already moving apart is pushed back together if it still overlaps.
func Resolve(a, b *dynamo.Particle, restitution float64, separate bool) bool {
	delta := a.Position.Sub(b.Position)
	dist := delta.Length()
	if dist == 0 {
		return false
	}
	n := delta.Scale(1 / dist)

	vn := a.Velocity.Sub(b.Velocity).Dot(n)
	invA, invB := 1/a.Mass, 1/b.Mass
	j := -(1 + restitution) * vn / (invA + invB)

	a.Velocity.AddScaledInPlace(n, j*invA)
	b.Velocity.AddScaledInPlace(n, -j*invB)

	if separate {
		if overlap := a.Radius + b.Radius - dist; overlap > 0 {
			share := overlap / (invA + invB)
			a.Position.AddScaledInPlace(n, share*invA)
			b.Position.AddScaledInPlace(n, -share*invB)
		}
	}
	return true
}

// Stats counts the work done by one scan.
type Stats struct {
	Tested     int
	Collisions int
}

func (s *Stats) add(o Stats) {
	s.Tested += o.Tested
	s.Collisions += o.Collisions
}

// Detector scans a cell-sorted particle slice for collisions.
type Detector struct {
	Restitution float64
	Separate    bool
	FlashTicks  int
	// Workers > 1 splits the scan across goroutines on cell boundaries.
	Workers int
}

func NewDetector(p dynamo.Params) *Detector {
	return &Detector{
		Restitution: p.Restitution,
		Separate:    p.Separate,
		FlashTicks:  p.FlashTicks,
		Workers:     p.Workers,
	}
}

// Scan resolves every overlapping pair that shares a cell. ps must have its
// cells assigned and be sorted by cell key. Pairs are visited in scan order,
// so a particle in several overlaps sees the velocities left by earlier pairs.
func (d *Detector) Scan(ps []dynamo.Particle) Stats {
	if d.Workers > 1 && len(ps) >= minParallel {
		return d.scanParallel(ps)
	}
	return d.scanRange(ps, 0, len(ps))
}

// scanRange scans [start, end). The range must begin and end on cell
// boundaries.
func (d *Detector) scanRange(ps []dynamo.Particle, start, end int) Stats {
	var st Stats
	for i := start; i < end; i++ {
		a := &ps[i]
		for j := i + 1; j < end && ps[j].Cell == a.Cell; j++ {
			b := &ps[j]
			st.Tested++
			if !Overlapping(a, b) {
				continue
			}
			if Resolve(a, b, d.Restitution, d.Separate) {
				st.Collisions++
				a.Flash = d.FlashTicks
				b.Flash = d.FlashTicks
			}
		}
	}
	return st
}
