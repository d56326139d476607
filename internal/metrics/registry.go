package metrics

import (
	"fmt"
	"sort"

	"github.com/san-kum/orbitsim/internal/dynamo"
)

var factories = map[string]func(p dynamo.Params) dynamo.Metric{
	"kinetic_energy": func(dynamo.Params) dynamo.Metric { return NewKineticEnergy() },
	"energy_drift":   func(p dynamo.Params) dynamo.Metric { return NewEnergyDrift(p.GM()) },
	"collision_rate": func(dynamo.Params) dynamo.Metric { return NewCollisionRate() },
	"retention":      func(dynamo.Params) dynamo.Metric { return NewRetention() },
	"speed_spread":   func(dynamo.Params) dynamo.Metric { return NewSpeedSpread() },
	"momentum":       func(dynamo.Params) dynamo.Metric { return NewMomentum() },
}

// New returns a fresh metric by name.
func New(name string, p dynamo.Params) (dynamo.Metric, error) {
	f, ok := factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown metric: %s", name)
	}
	return f(p), nil
}

// Build returns fresh instances of the named metrics.
func Build(names []string, p dynamo.Params) ([]dynamo.Metric, error) {
	out := make([]dynamo.Metric, 0, len(names))
	for _, n := range names {
		m, err := New(n, p)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// Names lists the known metrics in sorted order.
func Names() []string {
	names := make([]string, 0, len(factories))
	for n := range factories {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
