package main

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/san-kum/orbitsim/internal/config"
	"github.com/san-kum/orbitsim/internal/dynamo"
)

// resolveConfig builds the run config. A config file replaces the preset,
// and flags the user actually set override both.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("integrator") {
		cfg.Run.Integrator = integrator
	}
	if flags.Changed("ticks") {
		cfg.Run.Ticks = ticks
	}
	if flags.Changed("seed") {
		cfg.Run.Seed = seed
	}
	if flags.Changed("workers") {
		cfg.Run.Workers = workers
	}
	if flags.Changed("target") {
		cfg.Population.Target = target
	}
	if flags.Changed("replenish") {
		cfg.Population.Replenish = replenish
	}
	if flags.Changed("shape") {
		cfg.Body.Shape = shape
	}
	if flags.Changed("metrics") {
		cfg.Run.Metrics = metricNames
	}

	for _, kv := range overrides {
		name, v, err := parseAssignment(kv)
		if err != nil {
			return nil, err
		}
		if err := cfg.Set(name, v); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// parseAssignment splits "name=value" with a numeric value.
func parseAssignment(s string) (string, float64, error) {
	name, raw, ok := strings.Cut(s, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return "", 0, fmt.Errorf("expected name=value, got %q", s)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return "", 0, fmt.Errorf("%s: %w", name, err)
	}
	return name, v, nil
}

// parseSweep reads "name=v1,v2,..." or "name=lo:hi:n" (n evenly spaced
// values, inclusive).
func parseSweep(s string) (string, []float64, error) {
	name, raw, ok := strings.Cut(s, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" || raw == "" {
		return "", nil, fmt.Errorf("expected name=v1,v2 or name=lo:hi:n, got %q", s)
	}

	if parts := strings.Split(raw, ":"); len(parts) == 3 {
		lo, err1 := strconv.ParseFloat(parts[0], 64)
		hi, err2 := strconv.ParseFloat(parts[1], 64)
		n, err3 := strconv.Atoi(parts[2])
		if err1 != nil || err2 != nil || err3 != nil || n < 1 {
			return "", nil, fmt.Errorf("%s: bad range %q", name, raw)
		}
		if n == 1 {
			return name, []float64{lo}, nil
		}
		vals := make([]float64, n)
		for i := range vals {
			vals[i] = lo + (hi-lo)*float64(i)/float64(n-1)
		}
		return name, vals, nil
	}

	var vals []float64
	for _, f := range strings.Split(raw, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return "", nil, fmt.Errorf("%s: %w", name, err)
		}
		vals = append(vals, v)
	}
	return name, vals, nil
}

// sampledObserver forwards every nth snapshot.
type sampledObserver struct {
	every int
	next  dynamo.Observer
}

func (o sampledObserver) OnTick(snap dynamo.Snapshot) {
	if o.every <= 1 || snap.Tick%o.every == 0 {
		o.next.OnTick(snap)
	}
}

// snapshotExtent is the largest absolute coordinate per axis of snap.
func snapshotExtent(snap dynamo.Snapshot) dynamo.Bounds {
	var b dynamo.Bounds
	for _, in := range snap.Instances {
		b.MaxX = math.Max(b.MaxX, math.Abs(in.Position.X))
		b.MaxY = math.Max(b.MaxY, math.Abs(in.Position.Y))
		b.MaxZ = math.Max(b.MaxZ, math.Abs(in.Position.Z))
	}
	return b
}
