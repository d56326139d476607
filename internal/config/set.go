package config

import (
	"fmt"
	"sort"
)

var setters = map[string]func(c *Config, v float64){
	"mass":          func(c *Config, v float64) { c.Body.Mass = v },
	"g":             func(c *Config, v float64) { c.Body.G = v },
	"body_radius":   func(c *Config, v float64) { c.Body.Radius = v },
	"cell_size":     func(c *Config, v float64) { c.Physics.CellSize = v },
	"restitution":   func(c *Config, v float64) { c.Physics.Restitution = v },
	"escape_radius": func(c *Config, v float64) { c.Physics.EscapeRadius = v },
	"speed_scale":   func(c *Config, v float64) { c.Physics.SpeedScale = v },
	"target":        func(c *Config, v float64) { c.Population.Target = int(v) },
	"threshold":     func(c *Config, v float64) { c.Population.Threshold = int(v) },
	"spawn_extent":  func(c *Config, v float64) { c.Population.SpawnExtent = v },
	"jitter":        func(c *Config, v float64) { c.Population.Jitter = v },
	"radius_max":    func(c *Config, v float64) { c.Population.RadiusMax = v },
	"mass_max":      func(c *Config, v float64) { c.Population.MassMax = v },
}

// Set assigns a numeric parameter by name, as used by sweeps and --set.
func (c *Config) Set(name string, v float64) error {
	fn, ok := setters[name]
	if !ok {
		return fmt.Errorf("unknown parameter: %s", name)
	}
	fn(c, v)
	return nil
}

// Settable lists the names Set accepts.
func Settable() []string {
	names := make([]string, 0, len(setters))
	for n := range setters {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
