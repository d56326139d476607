// Package grid assigns particles to uniform cubic cells and orders them so
// that particles sharing a cell are contiguous.
package grid

import (
	"math"
	"slices"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/vec"
)

// KeyOf returns the cell containing pos. Floor division keeps negative
// coordinates in their own cells, so -0.05 and 0.05 never share cell 0.
func KeyOf(pos vec.Vec3, cellSize float64) dynamo.CellKey {
	return dynamo.CellKey{
		X: int32(math.Floor(pos.X / cellSize)),
		Y: int32(math.Floor(pos.Y / cellSize)),
		Z: int32(math.Floor(pos.Z / cellSize)),
	}
}

// Assign recomputes Cell for every particle.
func Assign(ps []dynamo.Particle, cellSize float64) {
	for i := range ps {
		ps[i].Cell = KeyOf(ps[i].Position, cellSize)
	}
}

// Sort orders ps by cell key. The sort is stable so the scan order within a
// cell, and therefore the collision results, depend only on the input order.
func Sort(ps []dynamo.Particle) {
	slices.SortStableFunc(ps, func(a, b dynamo.Particle) int {
		return a.Cell.Compare(b.Cell)
	})
}

// Run is a half-open index range [Start, End) of particles sharing a cell.
type Run struct {
	Start, End int
}

func (r Run) Len() int { return r.End - r.Start }

// Runs returns the cell runs of a sorted slice, in order.
func Runs(ps []dynamo.Particle) []Run {
	if len(ps) == 0 {
		return nil
	}
	var runs []Run
	start := 0
	for i := 1; i < len(ps); i++ {
		if ps[i].Cell != ps[start].Cell {
			runs = append(runs, Run{Start: start, End: i})
			start = i
		}
	}
	return append(runs, Run{Start: start, End: len(ps)})
}

// IsSorted reports whether ps is ordered by cell key.
func IsSorted(ps []dynamo.Particle) bool {
	return slices.IsSortedFunc(ps, func(a, b dynamo.Particle) int {
		return a.Cell.Compare(b.Cell)
	})
}
