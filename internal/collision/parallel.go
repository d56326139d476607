package collision

import (
	"golang.org/x/sync/errgroup"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/grid"
)

// minParallel is the population below which goroutine start-up costs more
// than the scan itself.
const minParallel = 1024

// Partition splits the cell runs of ps into at most workers contiguous
// ranges of roughly equal particle count. No run is ever split.
func Partition(ps []dynamo.Particle, workers int) []grid.Run {
	runs := grid.Runs(ps)
	if len(runs) == 0 {
		return nil
	}
	if workers < 1 {
		workers = 1
	}

	target := (len(ps) + workers - 1) / workers
	parts := make([]grid.Run, 0, workers)
	cur := grid.Run{Start: runs[0].Start, End: runs[0].Start}
	for _, r := range runs {
		cur.End = r.End
		if cur.Len() >= target && len(parts) < workers-1 {
			parts = append(parts, cur)
			cur = grid.Run{Start: r.End, End: r.End}
		}
	}
	if cur.Len() > 0 {
		parts = append(parts, cur)
	}
	return parts
}

func (d *Detector) scanParallel(ps []dynamo.Particle) Stats {
	parts := Partition(ps, d.Workers)
	results := make([]Stats, len(parts))

	var g errgroup.Group
	for i, part := range parts {
		g.Go(func() error {
			results[i] = d.scanRange(ps, part.Start, part.End)
			return nil
		})
	}
	_ = g.Wait()

	var total Stats
	for _, r := range results {
		total.add(r)
	}
	return total
}
