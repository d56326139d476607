package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/gcfg.v1"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/orbitsim/internal/dynamo"
)

const (
	DefaultIntegrator = "semi_implicit"
	DefaultTicks      = 600
)

// DefaultMetrics are recorded when a config names none.
var DefaultMetrics = []string{"kinetic_energy", "collision_rate", "retention"}

// Config is the on-disk run description. It reads from YAML, or from INI
// when the file extension is .ini or .gcfg; INI names use dashes.
type Config struct {
	Run        RunConfig        `yaml:"run" gcfg:"run"`
	Body       BodyConfig       `yaml:"body" gcfg:"body"`
	Physics    PhysicsConfig    `yaml:"physics" gcfg:"physics"`
	Population PopulationConfig `yaml:"population" gcfg:"population"`
}

type RunConfig struct {
	Integrator string   `yaml:"integrator" gcfg:"integrator"`
	Ticks      int      `yaml:"ticks" gcfg:"ticks"`
	Seed       int64    `yaml:"seed" gcfg:"seed"`
	Workers    int      `yaml:"workers" gcfg:"workers"`
	Record     int      `yaml:"record" gcfg:"record"`
	Metrics    []string `yaml:"metrics" gcfg:"metrics"`
}

type BodyConfig struct {
	Mass   float64 `yaml:"mass" gcfg:"mass"`
	Radius float64 `yaml:"radius" gcfg:"radius"`
	Shape  string  `yaml:"shape" gcfg:"shape"`
	G      float64 `yaml:"g" gcfg:"g"`
}

type PhysicsConfig struct {
	CellSize     float64 `yaml:"cell_size" gcfg:"cell-size"`
	Restitution  float64 `yaml:"restitution" gcfg:"restitution"`
	EscapeRadius float64 `yaml:"escape_radius" gcfg:"escape-radius"`
	FrameDt      float64 `yaml:"frame_dt" gcfg:"frame-dt"`
	SpeedScale   float64 `yaml:"speed_scale" gcfg:"speed-scale"`
	Separate     bool    `yaml:"separate" gcfg:"separate"`
}

type PopulationConfig struct {
	Target      int     `yaml:"target" gcfg:"target"`
	Replenish   bool    `yaml:"replenish" gcfg:"replenish"`
	Threshold   int     `yaml:"threshold" gcfg:"threshold"`
	SpawnExtent float64 `yaml:"spawn_extent" gcfg:"spawn-extent"`
	Jitter      float64 `yaml:"jitter" gcfg:"jitter"`
	MassMin     float64 `yaml:"mass_min" gcfg:"mass-min"`
	MassMax     float64 `yaml:"mass_max" gcfg:"mass-max"`
	RadiusMin   float64 `yaml:"radius_min" gcfg:"radius-min"`
	RadiusMax   float64 `yaml:"radius_max" gcfg:"radius-max"`
	FlashTicks  int     `yaml:"flash_ticks" gcfg:"flash-ticks"`
}

func DefaultConfig() *Config {
	p := dynamo.DefaultParams()
	return FromParams(p)
}

// FromParams builds a Config carrying p with default run settings.
func FromParams(p dynamo.Params) *Config {
	return &Config{
		Run: RunConfig{
			Integrator: DefaultIntegrator,
			Ticks:      DefaultTicks,
			Seed:       p.Seed,
			Workers:    p.Workers,
			Metrics:    slices.Clone(DefaultMetrics),
		},
		Body: BodyConfig{
			Mass:   p.CentralMass,
			Radius: p.AbsorptionRadius,
			Shape:  string(p.AbsorptionShape),
			G:      p.G,
		},
		Physics: PhysicsConfig{
			CellSize:     p.CellSize,
			Restitution:  p.Restitution,
			EscapeRadius: p.EscapeRadius,
			FrameDt:      p.FrameDt,
			SpeedScale:   p.SpeedScale,
			Separate:     p.Separate,
		},
		Population: PopulationConfig{
			Target:      p.TargetCount,
			Replenish:   p.Replenish,
			Threshold:   p.ReplenishThreshold,
			SpawnExtent: p.SpawnExtent,
			Jitter:      p.SpawnJitter,
			MassMin:     p.MassMin,
			MassMax:     p.MassMax,
			RadiusMin:   p.RadiusMin,
			RadiusMax:   p.RadiusMax,
			FlashTicks:  p.FlashTicks,
		},
	}
}

// Params maps the config onto the core parameter bundle.
func (c *Config) Params() dynamo.Params {
	return dynamo.Params{
		CentralMass:        c.Body.Mass,
		G:                  c.Body.G,
		CellSize:           c.Physics.CellSize,
		Restitution:        c.Physics.Restitution,
		EscapeRadius:       c.Physics.EscapeRadius,
		AbsorptionRadius:   c.Body.Radius,
		AbsorptionShape:    dynamo.Shape(c.Body.Shape),
		TargetCount:        c.Population.Target,
		Replenish:          c.Population.Replenish,
		ReplenishThreshold: c.Population.Threshold,
		FrameDt:            c.Physics.FrameDt,
		SpeedScale:         c.Physics.SpeedScale,
		SpawnExtent:        c.Population.SpawnExtent,
		SpawnJitter:        c.Population.Jitter,
		MassMin:            c.Population.MassMin,
		MassMax:            c.Population.MassMax,
		RadiusMin:          c.Population.RadiusMin,
		RadiusMax:          c.Population.RadiusMax,
		FlashTicks:         c.Population.FlashTicks,
		Separate:           c.Physics.Separate,
		Workers:            c.Run.Workers,
		Seed:               c.Run.Seed,
	}
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	cp := *c
	cp.Run.Metrics = slices.Clone(c.Run.Metrics)
	return &cp
}

func isINI(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ini", ".gcfg":
		return true
	}
	return false
}

// Load reads path over the defaults. Fields the file omits keep their
// default values.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if isINI(path) {
		cfg.Run.Metrics = nil
		if err := gcfg.ReadFileInto(cfg, path); err != nil {
			return nil, err
		}
		if len(cfg.Run.Metrics) == 0 {
			cfg.Run.Metrics = slices.Clone(DefaultMetrics)
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
