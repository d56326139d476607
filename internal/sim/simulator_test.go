package sim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/vec"
)

func testParams() dynamo.Params {
	p := dynamo.DefaultParams()
	p.TargetCount = 500
	return p
}

func newSim(t *testing.T, p dynamo.Params) *Simulator {
	t.Helper()
	s, err := New(p, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestNewRejectsInvalidParams(t *testing.T) {
	p := testParams()
	p.CellSize = 0
	_, err := New(p, nil)

	var cfgErr *dynamo.ConfigurationError
	if !errors.As(err, &cfgErr) || cfgErr.Field != "cell_size" {
		t.Errorf("New error = %v, want ConfigurationError on cell_size", err)
	}
}

func TestStepBoundaryRemoval(t *testing.T) {
	s := newSim(t, testParams())
	ps := []dynamo.Particle{
		{Position: vec.New(0, 0, 0), Mass: 0.005, Radius: 0.01},
		{Position: vec.New(80, 0, 0), Velocity: vec.New(0, 0.1, 0), Mass: 0.005, Radius: 0.01},
		{Position: vec.New(4, 0, 0), Velocity: vec.New(0, 0.5, 0), Mass: 0.005, Radius: 0.01},
	}

	out, stats, err := s.Step(ps)
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	if len(out) != 1 || out[0].Position.X > 4.1 || out[0].Position.X < 3.9 {
		t.Fatalf("Step kept %+v, want only the orbiting particle", out)
	}
	if stats.Absorbed != 1 || stats.Escaped != 1 || stats.Count != 1 {
		t.Errorf("stats = %+v, want 1 absorbed 1 escaped 1 live", stats)
	}
}

func TestPopulationNonIncreasingWithoutReplenish(t *testing.T) {
	s := newSim(t, testParams())
	if err := s.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}

	prev := s.Len()
	for i := 0; i < 40; i++ {
		stats, err := s.Tick()
		if err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
		if stats.Spawned != 0 || stats.Count > prev {
			t.Fatalf("tick %d: count %d after %d, spawned %d", i, stats.Count, prev, stats.Spawned)
		}
		prev = stats.Count
	}
}

func TestPopulationBoundWithReplenish(t *testing.T) {
	p := testParams()
	p.Replenish = true
	p.ReplenishThreshold = 5
	// spawn cube corners lie beyond this radius, so every tick loses some
	p.EscapeRadius = 6
	s := newSim(t, p)
	if err := s.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}

	spawned := 0
	for i := 0; i < 60; i++ {
		stats, err := s.Tick()
		if err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
		if stats.Count > p.TargetCount {
			t.Fatalf("tick %d: count %d exceeds target %d", i, stats.Count, p.TargetCount)
		}
		if stats.Count < p.TargetCount-p.ReplenishThreshold-stats.Absorbed-stats.Escaped {
			t.Fatalf("tick %d: count %d fell below the hysteresis band", i, stats.Count)
		}
		spawned += stats.Spawned
	}
	if spawned == 0 {
		t.Error("replenishment never spawned")
	}
}

func TestDeterministicBySeed(t *testing.T) {
	run := func(workers int) []dynamo.Particle {
		p := testParams()
		p.TargetCount = 2000
		p.Replenish = true
		p.Workers = workers
		s := newSim(t, p)
		if err := s.Reset(); err != nil {
			t.Fatalf("Reset: %v", err)
		}
		for i := 0; i < 20; i++ {
			if _, err := s.Tick(); err != nil {
				t.Fatalf("tick %d: %v", i, err)
			}
		}
		return s.Particles()
	}

	a, b, c := run(1), run(1), run(4)
	if len(a) != len(b) || len(a) != len(c) {
		t.Fatalf("lengths differ: %d %d %d", len(a), len(b), len(c))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("particle %d differs between equal seeds", i)
		}
		if a[i] != c[i] {
			t.Fatalf("particle %d differs between serial and parallel runs", i)
		}
	}
}

func TestStepRejectsInvalidParticles(t *testing.T) {
	tests := []struct {
		name  string
		p     dynamo.Particle
		field string
	}{
		{"negative mass and radius", dynamo.Particle{Position: vec.New(4, 0, 0), Mass: -1, Radius: -0.1}, "mass"},
		{"zero mass", dynamo.Particle{Position: vec.New(4, 0, 0), Mass: 0, Radius: 0.05}, "mass"},
		{"zero radius", dynamo.Particle{Position: vec.New(4, 0, 0), Mass: 0.005, Radius: 0}, "radius"},
		{"nan radius", dynamo.Particle{Position: vec.New(4, 0, 0), Mass: 0.005, Radius: math.NaN()}, "radius"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSim(t, testParams())
			good := dynamo.Particle{Position: vec.New(-4, 0, 0), Velocity: vec.New(0, 0.5, 0), Mass: 0.005, Radius: 0.05}
			ps := []dynamo.Particle{good, tt.p}

			out, _, err := s.Step(ps)
			var cfgErr *dynamo.ConfigurationError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("Step error = %v, want *ConfigurationError", err)
			}
			if cfgErr.Field != tt.field {
				t.Errorf("Field = %q, want %q", cfgErr.Field, tt.field)
			}
			if len(out) != 2 || out[0].Position != good.Position {
				t.Errorf("rejected Step moved particles: %+v", out)
			}
		})
	}
}

func TestTickRejectsInvalidParticleWithoutCorrupting(t *testing.T) {
	s := newSim(t, testParams())
	s.particles = []dynamo.Particle{{Position: vec.New(4, 0, 0), Mass: 0, Radius: 0.1}}

	for i := 0; i < 2; i++ {
		_, err := s.Tick()
		if !errors.Is(err, dynamo.ErrConfiguration) {
			t.Fatalf("Tick %d error = %v, want ErrConfiguration", i+1, err)
		}
	}
	if s.TickCount() != 0 {
		t.Errorf("TickCount = %d, want 0", s.TickCount())
	}
}

func TestLastStats(t *testing.T) {
	s := newSim(t, testParams())
	if got := s.LastStats(); got.Tick != 0 || got.Count != 0 {
		t.Errorf("LastStats before any tick = %+v", got)
	}
	stats, err := s.Tick()
	if err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if s.LastStats() != stats {
		t.Errorf("LastStats = %+v, want %+v", s.LastStats(), stats)
	}
}

func TestCorruptedUntilReset(t *testing.T) {
	s := newSim(t, testParams())
	s.particles = []dynamo.Particle{
		{Position: vec.New(4, 0, 0), Velocity: vec.New(math.NaN(), 0, 0), Mass: 1, Radius: 0.1},
	}

	_, err := s.Tick()
	var tickErr *dynamo.TickError
	if !errors.As(err, &tickErr) || !errors.Is(err, dynamo.ErrInvalidState) {
		t.Fatalf("Tick error = %v, want TickError wrapping ErrInvalidState", err)
	}
	if tickErr.Tick != 1 {
		t.Errorf("TickError.Tick = %d, want 1", tickErr.Tick)
	}

	if _, err := s.Tick(); !errors.Is(err, dynamo.ErrCorrupted) {
		t.Errorf("second Tick error = %v, want ErrCorrupted", err)
	}

	if err := s.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if _, err := s.Tick(); err != nil {
		t.Errorf("Tick after Reset: %v", err)
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	s := newSim(t, testParams())
	if err := s.Populate(10); err != nil {
		t.Fatalf("Populate: %v", err)
	}

	snap := s.Snapshot()
	if len(snap.Instances) != 10 {
		t.Fatalf("len(Instances) = %d, want 10", len(snap.Instances))
	}
	before := s.Particles()[0].Position
	snap.Instances[0].Position = vec.New(99, 99, 99)
	if s.Particles()[0].Position != before {
		t.Error("editing a snapshot changed simulator state")
	}
}

func TestGenerateParticleBounds(t *testing.T) {
	s := newSim(t, testParams())
	b := dynamo.Cube(4)
	for i := 0; i < 100; i++ {
		p, err := s.GenerateParticle(&b)
		if err != nil {
			t.Fatalf("GenerateParticle: %v", err)
		}
		if !b.Outside(p.Position) {
			t.Fatalf("%v inside %+v", p.Position, b)
		}
	}
	if _, err := s.GenerateParticle(nil); err != nil {
		t.Errorf("GenerateParticle(nil): %v", err)
	}
}

func TestExtent(t *testing.T) {
	ps := []dynamo.Particle{
		{Position: vec.New(1, -4, 2)},
		{Position: vec.New(-3, 2, 0.5)},
	}
	want := dynamo.Bounds{MaxX: 3, MaxY: 4, MaxZ: 2}
	if got := Extent(ps); got != want {
		t.Errorf("Extent = %+v, want %+v", got, want)
	}
}

func TestPaletteColor(t *testing.T) {
	pal := DefaultPalette()

	if got := pal.Color(0, 60); got != pal.Base {
		t.Errorf("Color(0) = %v, want base", got)
	}
	if got := pal.Color(60, 60); !got.AlmostEqualRgb(pal.Flash) {
		t.Errorf("Color(full) = %v, want flash colour", got.Hex())
	}
	mid := pal.Color(30, 60)
	if mid.AlmostEqualRgb(pal.Base) || mid.AlmostEqualRgb(pal.Flash) {
		t.Errorf("Color(half) = %v, want a blend", mid.Hex())
	}
}

type countMetric struct{ n int }

func (m *countMetric) Name() string                                     { return "ticks" }
func (m *countMetric) Observe(ps []dynamo.Particle, _ dynamo.TickStats) { m.n++ }
func (m *countMetric) Value() float64                                   { return float64(m.n) }
func (m *countMetric) Reset()                                           { m.n = 0 }

func TestRun(t *testing.T) {
	s := newSim(t, testParams())
	s.AddMetric(&countMetric{})

	res, err := s.Run(context.Background(), Config{Ticks: 10, Record: 5})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.TicksTaken != 10 || len(res.Stats) != 10 {
		t.Errorf("TicksTaken = %d, len(Stats) = %d, want 10", res.TicksTaken, len(res.Stats))
	}
	if len(res.Frames) != 3 {
		t.Errorf("len(Frames) = %d, want 3", len(res.Frames))
	}
	if res.Metrics["ticks"] != 10 {
		t.Errorf("ticks metric = %v, want 10", res.Metrics["ticks"])
	}
	for _, name := range SeriesNames {
		col, err := res.Series(name)
		if err != nil {
			t.Fatalf("Series(%q): %v", name, err)
		}
		if len(col) != 10 {
			t.Errorf("len(Series(%q)) = %d, want 10", name, len(col))
		}
	}
	if _, err := res.Series("nope"); err == nil {
		t.Error("expected error for unknown series")
	}
	if k, _ := res.Series("kinetic"); k[0] <= 0 {
		t.Errorf("kinetic energy = %v, want positive", k[0])
	}
}

func TestRunCancelled(t *testing.T) {
	s := newSim(t, testParams())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := s.Run(ctx, Config{Ticks: 10})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run error = %v, want context.Canceled", err)
	}
	if res == nil || res.TicksTaken != 0 {
		t.Errorf("cancelled run result = %+v", res)
	}
}

func TestRunInvalidConfig(t *testing.T) {
	s := newSim(t, testParams())
	for _, ticks := range []int{0, -1} {
		if _, err := s.Run(context.Background(), Config{Ticks: ticks}); err == nil {
			t.Errorf("Run(ticks=%d) expected error", ticks)
		}
	}
}

func TestEnsemble(t *testing.T) {
	e := NewEnsemble(testParams(), 3, 10)
	e.NewMetrics = func() []dynamo.Metric { return []dynamo.Metric{&countMetric{}} }

	results, err := e.Run(context.Background(), Config{Ticks: 5})
	if err != nil {
		t.Fatalf("Ensemble.Run: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("len(results) = %d, want 3", len(results))
	}
	for i, r := range results {
		if r.Seed != 10+int64(i) {
			t.Errorf("results[%d].Seed = %d, want %d", i, r.Seed, 10+i)
		}
	}
	if got := MeanMetrics(results)["ticks"]; got != 5 {
		t.Errorf("mean ticks = %v, want 5", got)
	}
}
