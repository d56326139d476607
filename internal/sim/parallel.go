package sim

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/orbitsim/internal/dynamo"
)

// Ensemble runs independent simulations of the same parameters with
// consecutive seeds.
type Ensemble struct {
	params    dynamo.Params
	numRuns   int
	seedStart int64

	// NewIntegrator and NewMetrics build fresh per-run instances; metrics
	// carry state and cannot be shared between runs.
	NewIntegrator func() dynamo.Integrator
	NewMetrics    func() []dynamo.Metric
}

func NewEnsemble(p dynamo.Params, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{params: p, numRuns: numRuns, seedStart: seedStart}
}

func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, e.numRuns)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := 0; i < e.numRuns; i++ {
		g.Go(func() error {
			p := e.params
			p.Seed = e.seedStart + int64(i)

			var integ dynamo.Integrator
			if e.NewIntegrator != nil {
				integ = e.NewIntegrator()
			}
			s, err := New(p, integ)
			if err != nil {
				return err
			}
			if e.NewMetrics != nil {
				for _, m := range e.NewMetrics() {
					s.AddMetric(m)
				}
			}

			results[i], err = s.Run(ctx, cfg)
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// MeanMetrics averages each named metric over results.
func MeanMetrics(results []*Result) map[string]float64 {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, r := range results {
		for name, v := range r.Metrics {
			sums[name] += v
			counts[name]++
		}
	}
	for name := range sums {
		sums[name] /= float64(counts[name])
	}
	return sums
}
