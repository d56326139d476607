package dynamo

import (
	"cmp"
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/san-kum/orbitsim/internal/vec"
)

// CellKey is the integer cell coordinate of a position, floor(axis/cellSize)
// per axis. Keys order lexicographically by X, then Y, then Z.
type CellKey struct {
	X, Y, Z int32
}

// Compare returns -1, 0 or +1 following the lexicographic order.
func (k CellKey) Compare(o CellKey) int {
	if c := cmp.Compare(k.X, o.X); c != 0 {
		return c
	}
	if c := cmp.Compare(k.Y, o.Y); c != 0 {
		return c
	}
	return cmp.Compare(k.Z, o.Z)
}

func (k CellKey) String() string {
	return fmt.Sprintf("%d,%d,%d", k.X, k.Y, k.Z)
}

// Particle is a point mass. It carries no identity and never references
// another particle; interactions go through indices into the owning slice.
type Particle struct {
	Position vec.Vec3
	Velocity vec.Vec3
	Mass     float64
	Radius   float64
	Cell     CellKey
	// Flash counts the ticks of collision highlight left.
	Flash int
}

// IsValid reports whether position and velocity are finite.
func (p Particle) IsValid() bool {
	return p.Position.IsFinite() && p.Velocity.IsFinite()
}

// Validate rejects a particle whose mass or radius is not positive and
// finite.
func (p Particle) Validate() error {
	if !(p.Mass > 0) || math.IsInf(p.Mass, 0) {
		return &ConfigurationError{Field: "mass", Value: p.Mass, Reason: "must be positive and finite"}
	}
	if !(p.Radius > 0) || math.IsInf(p.Radius, 0) {
		return &ConfigurationError{Field: "radius", Value: p.Radius, Reason: "must be positive and finite"}
	}
	return nil
}

// Momentum returns m*v.
func (p Particle) Momentum() vec.Vec3 {
	return p.Velocity.Scale(p.Mass)
}

// KineticEnergy returns 0.5*m*|v|^2.
func (p Particle) KineticEnergy() float64 {
	return 0.5 * p.Mass * p.Velocity.LengthSq()
}

// Shape selects how the central body's absorption volume is tested.
type Shape string

const (
	ShapeSphere Shape = "sphere"
	ShapeCube   Shape = "cube"
)

// Body is the fixed central attractor at the origin.
type Body struct {
	Mass   float64
	Radius float64
	Shape  Shape
}

// Contains reports whether pos lies inside the absorption volume.
func (b Body) Contains(pos vec.Vec3) bool {
	if b.Shape == ShapeCube {
		return math.Abs(pos.X) <= b.Radius &&
			math.Abs(pos.Y) <= b.Radius &&
			math.Abs(pos.Z) <= b.Radius
	}
	return pos.LengthSq() <= b.Radius*b.Radius
}

// Bounds is an axis-aligned half-extent box centred at the origin.
type Bounds struct {
	MaxX, MaxY, MaxZ float64
}

// Cube returns Bounds with the same half-extent on every axis.
func Cube(r float64) Bounds {
	return Bounds{MaxX: r, MaxY: r, MaxZ: r}
}

// Outside reports whether pos lies on or beyond the box on at least one axis.
func (b Bounds) Outside(pos vec.Vec3) bool {
	return math.Abs(pos.X) >= b.MaxX ||
		math.Abs(pos.Y) >= b.MaxY ||
		math.Abs(pos.Z) >= b.MaxZ
}

// Params is the configuration bundle consumed by the core.
type Params struct {
	CentralMass        float64
	G                  float64
	CellSize           float64
	Restitution        float64
	EscapeRadius       float64
	AbsorptionRadius   float64
	AbsorptionShape    Shape
	TargetCount        int
	Replenish          bool
	ReplenishThreshold int
	FrameDt            float64
	SpeedScale         float64
	SpawnExtent        float64
	SpawnJitter        float64
	MassMin, MassMax   float64
	RadiusMin          float64
	RadiusMax          float64
	FlashTicks         int
	Separate           bool
	Workers            int
	Seed               int64
}

func DefaultParams() Params {
	return Params{
		CentralMass:        10,
		G:                  0.1,
		CellSize:           0.1,
		Restitution:        0.9,
		EscapeRadius:       50,
		AbsorptionRadius:   3,
		AbsorptionShape:    ShapeSphere,
		TargetCount:        5000,
		Replenish:          false,
		ReplenishThreshold: 100,
		FrameDt:            0.016,
		SpeedScale:         3,
		SpawnExtent:        5,
		SpawnJitter:        3,
		MassMin:            0.001,
		MassMax:            0.01,
		RadiusMin:          0.005,
		RadiusMax:          0.1,
		FlashTicks:         60,
		Workers:            1,
		Seed:               1,
	}
}

// Dt is the fixed integration timestep.
func (p Params) Dt() float64 { return p.FrameDt * p.SpeedScale }

// GM is the central body's gravitational parameter.
func (p Params) GM() float64 { return p.G * p.CentralMass }

func (p Params) Body() Body {
	return Body{Mass: p.CentralMass, Radius: p.AbsorptionRadius, Shape: p.AbsorptionShape}
}

// Validate rejects parameter sets the core cannot run with.
func (p Params) Validate() error {
	positive := []struct {
		name string
		v    float64
	}{
		{"central_mass", p.CentralMass},
		{"g", p.G},
		{"cell_size", p.CellSize},
		{"absorption_radius", p.AbsorptionRadius},
		{"frame_dt", p.FrameDt},
		{"speed_scale", p.SpeedScale},
		{"mass_min", p.MassMin},
		{"radius_min", p.RadiusMin},
	}
	for _, f := range positive {
		if !(f.v > 0) || math.IsInf(f.v, 0) {
			return &ConfigurationError{Field: f.name, Value: f.v, Reason: "must be positive and finite"}
		}
	}
	if !(p.MassMax >= p.MassMin) || math.IsInf(p.MassMax, 0) {
		return &ConfigurationError{Field: "mass_max", Value: p.MassMax, Reason: "must be finite and >= mass_min"}
	}
	if !(p.RadiusMax >= p.RadiusMin) || math.IsInf(p.RadiusMax, 0) {
		return &ConfigurationError{Field: "radius_max", Value: p.RadiusMax, Reason: "must be finite and >= radius_min"}
	}
	if !(p.Restitution > 0 && p.Restitution <= 1) {
		return &ConfigurationError{Field: "restitution", Value: p.Restitution, Reason: "must be in (0, 1]"}
	}
	if !(p.EscapeRadius > p.AbsorptionRadius) || math.IsInf(p.EscapeRadius, 0) {
		return &ConfigurationError{Field: "escape_radius", Value: p.EscapeRadius, Reason: "must be finite and exceed absorption_radius"}
	}
	if !(p.SpawnExtent > p.AbsorptionRadius) || math.IsInf(p.SpawnExtent, 0) {
		return &ConfigurationError{Field: "spawn_extent", Value: p.SpawnExtent, Reason: "must be finite and exceed absorption_radius"}
	}
	if !(p.SpawnJitter >= 0) || math.IsInf(p.SpawnJitter, 0) {
		return &ConfigurationError{Field: "spawn_jitter", Value: p.SpawnJitter, Reason: "must be finite and not negative"}
	}
	// Cell coordinates are int32. Escaped particles are culled before keys
	// are assigned, but replenished ones can land up to spawn_extent+jitter
	// out on each axis.
	if reach := math.Max(p.EscapeRadius, p.SpawnExtent+p.SpawnJitter); reach/p.CellSize >= math.MaxInt32 {
		return &ConfigurationError{Field: "cell_size", Value: p.CellSize, Reason: "too small for escape_radius: cell coordinates overflow int32"}
	}
	if p.TargetCount < 0 {
		return &ConfigurationError{Field: "target_count", Value: float64(p.TargetCount), Reason: "must not be negative"}
	}
	if p.ReplenishThreshold < 0 {
		return &ConfigurationError{Field: "replenish_threshold", Value: float64(p.ReplenishThreshold), Reason: "must not be negative"}
	}
	if p.FlashTicks < 0 {
		return &ConfigurationError{Field: "flash_ticks", Value: float64(p.FlashTicks), Reason: "must not be negative"}
	}
	if p.Workers < 0 {
		return &ConfigurationError{Field: "workers", Value: float64(p.Workers), Reason: "must not be negative"}
	}
	switch p.AbsorptionShape {
	case ShapeSphere, ShapeCube:
	default:
		return &ConfigurationError{Field: "absorption_shape", Reason: fmt.Sprintf("unknown shape %q", p.AbsorptionShape)}
	}
	return nil
}

// Integrator advances a single particle by dt under the body's gravity.
type Integrator interface {
	Step(p *Particle, body Body, g, dt float64)
}

// TickStats summarises one tick.
type TickStats struct {
	Tick       int `msgpack:"tick" json:"tick"`
	Count      int `msgpack:"count" json:"count"`
	Absorbed   int `msgpack:"absorbed" json:"absorbed"`
	Escaped    int `msgpack:"escaped" json:"escaped"`
	Spawned    int `msgpack:"spawned" json:"spawned"`
	Cells      int `msgpack:"cells" json:"cells"`
	Tested     int `msgpack:"tested" json:"tested"`
	Collisions int `msgpack:"collisions" json:"collisions"`

	// Kinetic is the total kinetic energy after the tick.
	Kinetic float64 `msgpack:"kinetic" json:"kinetic"`
}

// Instance is what a renderer needs to draw one particle.
type Instance struct {
	Position vec.Vec3       `msgpack:"p"`
	Radius   float64        `msgpack:"r"`
	Color    colorful.Color `msgpack:"c"`
}

// Snapshot is a read-only copy of the population after a tick. It stays valid
// after later ticks because nothing in it aliases simulator state.
type Snapshot struct {
	Tick      int        `msgpack:"tick"`
	Instances []Instance `msgpack:"instances"`
	Stats     TickStats  `msgpack:"stats"`
}

// Metric accumulates a scalar over a run.
type Metric interface {
	Name() string
	Observe(ps []Particle, stats TickStats)
	Value() float64
	Reset()
}

// Observer is notified after each completed tick.
type Observer interface {
	OnTick(snap Snapshot)
}
