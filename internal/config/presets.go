package config

import "sort"

func preset(edit func(c *Config)) *Config {
	c := DefaultConfig()
	edit(c)
	return c
}

var Presets = map[string]*Config{
	// the default scene: a shell of 5000 particles left to decay
	"ring": preset(func(c *Config) {}),
	"sparse": preset(func(c *Config) {
		c.Population.Target = 1000
		c.Population.RadiusMax = 0.05
	}),
	"decay": preset(func(c *Config) {
		c.Physics.Restitution = 0.5
		c.Run.Ticks = 2000
		c.Run.Metrics = []string{"kinetic_energy", "energy_drift", "retention"}
	}),
	"dense": preset(func(c *Config) {
		c.Population.Target = 10000
		c.Population.Replenish = true
		c.Run.Workers = 4
	}),
	"storm": preset(func(c *Config) {
		c.Physics.SpeedScale = 5
		c.Physics.Separate = true
		c.Population.Replenish = true
		c.Population.Threshold = 10
		c.Population.Jitter = 5
		c.Run.Metrics = []string{"collision_rate", "speed_spread", "momentum"}
	}),
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

// ListPresets returns the preset names in sorted order.
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
