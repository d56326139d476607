package sim

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"slices"

	"github.com/san-kum/orbitsim/internal/collision"
	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/grid"
	"github.com/san-kum/orbitsim/internal/integrators"
	"github.com/san-kum/orbitsim/internal/population"
)

// integrateChunk is the smallest slice of particles handed to a goroutine
// during integration.
const integrateChunk = 512

// Simulator owns the particle collection and advances it one tick at a time.
// It is not safe for concurrent use; hosts drive it from one goroutine and
// hand Snapshot copies to others.
type Simulator struct {
	params     dynamo.Params
	body       dynamo.Body
	integrator dynamo.Integrator
	detector   *collision.Detector
	sampler    *population.Sampler
	palette    Palette

	particles []dynamo.Particle
	tick      int
	last      dynamo.TickStats
	corrupted bool

	metrics   []dynamo.Metric
	observers []dynamo.Observer
}

// New validates p and returns an empty simulator. A nil integrator selects
// semi-implicit Euler.
func New(p dynamo.Params, integrator dynamo.Integrator) (*Simulator, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if integrator == nil {
		integrator = integrators.NewSemiImplicitEuler()
	}
	return &Simulator{
		params:     p,
		body:       p.Body(),
		integrator: integrator,
		detector:   collision.NewDetector(p),
		sampler:    population.NewSampler(p, rand.New(rand.NewSource(p.Seed))),
		palette:    DefaultPalette(),
	}, nil
}

func (s *Simulator) AddMetric(m dynamo.Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o dynamo.Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Params() dynamo.Params       { return s.params }
func (s *Simulator) Len() int                    { return len(s.particles) }
func (s *Simulator) TickCount() int              { return s.tick }
func (s *Simulator) LastStats() dynamo.TickStats { return s.last }
func (s *Simulator) SetPalette(p Palette)        { s.palette = p }

// SetReplenish toggles replenishment between ticks.
func (s *Simulator) SetReplenish(on bool) { s.params.Replenish = on }

// Particles returns a copy of the current collection.
func (s *Simulator) Particles() []dynamo.Particle {
	return slices.Clone(s.particles)
}

// GenerateParticle spawns one particle outside bounds, or outside the
// default exclusion box when bounds is nil.
func (s *Simulator) GenerateParticle(bounds *dynamo.Bounds) (dynamo.Particle, error) {
	exclude := s.sampler.DefaultExclusion()
	if bounds != nil {
		exclude = *bounds
	}
	return s.sampler.Particle(exclude)
}

// Populate appends n freshly generated particles and re-sorts the
// collection so it is ready for the next scan.
func (s *Simulator) Populate(n int) error {
	ps, err := s.sampler.Populate(s.particles, n)
	s.particles = ps
	if err != nil {
		return fmt.Errorf("populate: %w", err)
	}
	grid.Sort(s.particles)
	return nil
}

// Reset clears the collection, reseeds the sampler and repopulates to the
// target count. It also clears a corrupted state.
func (s *Simulator) Reset() error {
	s.particles = s.particles[:0]
	s.tick = 0
	s.last = dynamo.TickStats{}
	s.corrupted = false
	s.sampler = population.NewSampler(s.params, rand.New(rand.NewSource(s.params.Seed)))
	for _, m := range s.metrics {
		m.Reset()
	}
	return s.Populate(s.params.TargetCount)
}

// Step advances ps by one tick and returns the next collection. The backing
// array of ps is reused; callers must not keep using ps afterwards. A
// particle without positive finite mass and radius rejects the whole call
// with a *dynamo.ConfigurationError before anything moves.
func (s *Simulator) Step(ps []dynamo.Particle) ([]dynamo.Particle, dynamo.TickStats, error) {
	stats := dynamo.TickStats{Tick: s.tick + 1}
	for i := range ps {
		if err := ps[i].Validate(); err != nil {
			return ps, stats, fmt.Errorf("particle %d: %w", i, err)
		}
	}
	dt := s.params.Dt()

	dynamo.ParallelFor(len(ps), s.params.Workers, integrateChunk, func(start, end int) {
		for i := start; i < end; i++ {
			p := &ps[i]
			s.integrator.Step(p, s.body, s.params.G, dt)
			if p.Flash > 0 {
				p.Flash--
			}
		}
	})
	for i := range ps {
		if !ps[i].IsValid() {
			return ps, stats, &dynamo.TickError{Tick: stats.Tick, Wrapped: dynamo.ErrInvalidState}
		}
	}

	ps, stats.Absorbed, stats.Escaped = population.Cull(ps, s.body, s.params.EscapeRadius)

	if s.params.Replenish {
		var err error
		ps, stats.Spawned, err = s.sampler.Replenish(ps, s.params.TargetCount, s.params.ReplenishThreshold)
		if err != nil {
			return ps, stats, &dynamo.TickError{Tick: stats.Tick, Wrapped: err}
		}
	}

	grid.Assign(ps, s.params.CellSize)
	grid.Sort(ps)

	cs := s.detector.Scan(ps)
	stats.Tested = cs.Tested
	stats.Collisions = cs.Collisions
	stats.Cells = len(grid.Runs(ps))
	stats.Count = len(ps)
	for i := range ps {
		stats.Kinetic += ps[i].KineticEnergy()
	}
	return ps, stats, nil
}

// Tick runs Step on the owned collection, updates metrics and notifies
// observers. After a failed tick every call returns ErrCorrupted until Reset.
func (s *Simulator) Tick() (dynamo.TickStats, error) {
	if s.corrupted {
		return s.last, dynamo.ErrCorrupted
	}

	ps, stats, err := s.Step(s.particles)
	s.particles = ps
	if err != nil {
		// rejected input was left untouched
		if !errors.Is(err, dynamo.ErrConfiguration) {
			s.corrupted = true
		}
		return stats, err
	}

	s.tick = stats.Tick
	s.last = stats
	for _, m := range s.metrics {
		m.Observe(s.particles, stats)
	}
	if len(s.observers) > 0 {
		snap := s.Snapshot()
		for _, o := range s.observers {
			o.OnTick(snap)
		}
	}
	return stats, nil
}

// Snapshot copies what a renderer needs. The result shares nothing with the
// simulator.
func (s *Simulator) Snapshot() dynamo.Snapshot {
	inst := make([]dynamo.Instance, len(s.particles))
	for i := range s.particles {
		inst[i] = s.palette.instance(&s.particles[i], s.params.FlashTicks)
	}
	return dynamo.Snapshot{Tick: s.tick, Instances: inst, Stats: s.last}
}

// Extent returns the largest absolute coordinate per axis.
func (s *Simulator) Extent() dynamo.Bounds {
	return Extent(s.particles)
}

// Extent returns the largest absolute coordinate per axis of ps.
func Extent(ps []dynamo.Particle) dynamo.Bounds {
	var b dynamo.Bounds
	for _, p := range ps {
		b.MaxX = max(b.MaxX, abs(p.Position.X))
		b.MaxY = max(b.MaxY, abs(p.Position.Y))
		b.MaxZ = max(b.MaxZ, abs(p.Position.Z))
	}
	return b
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// Run populates to the target count and ticks cfg.Ticks times, stopping
// early when ctx is cancelled.
func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if cfg.Ticks <= 0 {
		return nil, fmt.Errorf("ticks must be positive, got %d", cfg.Ticks)
	}
	if err := s.Reset(); err != nil {
		return nil, err
	}

	result := &Result{
		Stats:   make([]dynamo.TickStats, 0, cfg.Ticks),
		Metrics: make(map[string]float64),
		Seed:    s.params.Seed,
	}
	if cfg.Record > 0 {
		result.Frames = append(result.Frames, s.Snapshot())
	}

	for i := 0; i < cfg.Ticks; i++ {
		select {
		case <-ctx.Done():
			s.collect(result)
			return result, ctx.Err()
		default:
		}

		stats, err := s.Tick()
		if err != nil {
			s.collect(result)
			return result, err
		}
		result.Stats = append(result.Stats, stats)
		result.TicksTaken++

		if cfg.Record > 0 && stats.Tick%cfg.Record == 0 {
			result.Frames = append(result.Frames, s.Snapshot())
		}
	}

	s.collect(result)
	return result, nil
}

func (s *Simulator) collect(r *Result) {
	for _, m := range s.metrics {
		r.Metrics[m.Name()] = m.Value()
	}
}
