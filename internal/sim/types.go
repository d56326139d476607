package sim

import (
	"fmt"

	"github.com/san-kum/orbitsim/internal/dynamo"
)

// Config controls a headless run.
type Config struct {
	Ticks int
	// Record keeps a snapshot every Record ticks; 0 disables recording.
	Record int
}

// Result collects a headless run.
type Result struct {
	Stats      []dynamo.TickStats
	Frames     []dynamo.Snapshot
	Metrics    map[string]float64
	TicksTaken int
	Seed       int64
}

// SeriesNames lists the per-tick columns Series understands, in the order
// they are written to disk.
var SeriesNames = []string{"count", "collisions", "absorbed", "escaped", "spawned", "tested", "cells", "kinetic"}

// Field returns the named column of a single tick.
func Field(s dynamo.TickStats, name string) (float64, error) {
	switch name {
	case "count":
		return float64(s.Count), nil
	case "collisions":
		return float64(s.Collisions), nil
	case "absorbed":
		return float64(s.Absorbed), nil
	case "escaped":
		return float64(s.Escaped), nil
	case "spawned":
		return float64(s.Spawned), nil
	case "tested":
		return float64(s.Tested), nil
	case "cells":
		return float64(s.Cells), nil
	case "kinetic":
		return s.Kinetic, nil
	}
	return 0, fmt.Errorf("unknown series: %s", name)
}

// Series extracts one column from a run's tick stats.
func Series(stats []dynamo.TickStats, name string) ([]float64, error) {
	out := make([]float64, len(stats))
	for i, s := range stats {
		v, err := Field(s, name)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// Series extracts one column of the run.
func (r *Result) Series(name string) ([]float64, error) {
	return Series(r.Stats, name)
}
