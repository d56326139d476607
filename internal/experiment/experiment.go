package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/orbitsim/internal/config"
	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/sim"
)

type Experiment struct {
	cfg       *config.Config
	registry  *Registry
	simulator *sim.Simulator
}

func New(cfg *config.Config, registry *Registry) *Experiment {
	return &Experiment{cfg: cfg, registry: registry}
}

// Setup resolves the integrator and metrics by name and builds the simulator.
func (e *Experiment) Setup() error {
	params := e.cfg.Params()

	integ, err := e.registry.GetIntegrator(e.cfg.Run.Integrator)
	if err != nil {
		return err
	}
	ms, err := e.registry.Metrics(e.cfg.Run.Metrics, params)
	if err != nil {
		return err
	}

	s, err := sim.New(params, integ)
	if err != nil {
		return fmt.Errorf("setup: %w", err)
	}
	for _, m := range ms {
		s.AddMetric(m)
	}
	e.simulator = s
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.simulator.Run(ctx, sim.Config{Ticks: e.cfg.Run.Ticks, Record: e.cfg.Run.Record})
}

// RunEnsemble repeats the experiment with seeds Seed, Seed+1, ...
func (e *Experiment) RunEnsemble(ctx context.Context, runs int) ([]*sim.Result, error) {
	if runs < 1 {
		return nil, fmt.Errorf("runs must be positive, got %d", runs)
	}
	params := e.cfg.Params()
	if _, err := e.registry.GetIntegrator(e.cfg.Run.Integrator); err != nil {
		return nil, err
	}
	if _, err := e.registry.Metrics(e.cfg.Run.Metrics, params); err != nil {
		return nil, err
	}

	ens := sim.NewEnsemble(params, runs, params.Seed)
	ens.NewIntegrator = func() dynamo.Integrator {
		integ, _ := e.registry.GetIntegrator(e.cfg.Run.Integrator)
		return integ
	}
	ens.NewMetrics = func() []dynamo.Metric {
		ms, _ := e.registry.Metrics(e.cfg.Run.Metrics, params)
		return ms
	}
	return ens.Run(ctx, sim.Config{Ticks: e.cfg.Run.Ticks})
}

// Simulator returns the underlying simulator for adding observers.
func (e *Experiment) Simulator() *sim.Simulator {
	return e.simulator
}
