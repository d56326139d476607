package optim

import (
	"context"
	"errors"
	"testing"

	"github.com/san-kum/orbitsim/internal/config"
	"github.com/san-kum/orbitsim/internal/experiment"
)

func builder(t *testing.T) func(map[string]float64) (*experiment.Experiment, error) {
	return func(params map[string]float64) (*experiment.Experiment, error) {
		cfg := config.DefaultConfig()
		cfg.Population.Target = 200
		cfg.Run.Ticks = 3
		cfg.Run.Metrics = []string{"kinetic_energy"}
		for k, v := range params {
			if err := cfg.Set(k, v); err != nil {
				return nil, err
			}
		}
		exp := experiment.New(cfg, experiment.NewRegistry())
		if err := exp.Setup(); err != nil {
			return nil, err
		}
		return exp, nil
	}
}

func TestGridSearch(t *testing.T) {
	// kinetic energy grows with particle count
	g := NewGridSearch([]string{"target"}, [][]float64{{100, 200, 400}})

	best, val, err := g.Search(context.Background(), builder(t), "kinetic_energy")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if best["target"] != 100 {
		t.Errorf("min target = %v, want 100", best["target"])
	}
	if val <= 0 {
		t.Errorf("best value = %v, want positive", val)
	}
	if len(g.Trials()) != 3 {
		t.Errorf("len(Trials) = %d, want 3", len(g.Trials()))
	}

	g.Maximize = true
	best, _, err = g.Search(context.Background(), builder(t), "kinetic_energy")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if best["target"] != 400 {
		t.Errorf("max target = %v, want 400", best["target"])
	}
}

func TestGridSearchSkipsInvalid(t *testing.T) {
	g := NewGridSearch([]string{"restitution", "jitter"}, [][]float64{{-1, 0.9}, {0, 1}})

	best, _, err := g.Search(context.Background(), builder(t), "kinetic_energy")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if best["restitution"] != 0.9 {
		t.Errorf("best = %v, want restitution 0.9", best)
	}

	failed := 0
	for _, tr := range g.Trials() {
		if tr.Err != nil {
			failed++
		}
	}
	if failed != 2 {
		t.Errorf("failed trials = %d, want 2", failed)
	}
}

func TestGridSearchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	g := NewGridSearch([]string{"target"}, [][]float64{{100, 200}})
	_, _, err := g.Search(ctx, builder(t), "kinetic_energy")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Search error = %v, want context.Canceled", err)
	}
}
