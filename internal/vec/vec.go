// Package vec provides the 3D vector type shared by the simulation core.
//
// Vec3 is a defined type over gonum's r3.Vec so the arithmetic is gonum's,
// while the method set reads the way the integrator and collision code use it.
package vec

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"
)

type Vec3 r3.Vec

// New returns the vector (x, y, z).
func New(x, y, z float64) Vec3 { return Vec3{X: x, Y: y, Z: z} }

func (v Vec3) r3() r3.Vec { return r3.Vec(v) }

func (v Vec3) Add(o Vec3) Vec3      { return Vec3(r3.Add(v.r3(), o.r3())) }
func (v Vec3) Sub(o Vec3) Vec3      { return Vec3(r3.Sub(v.r3(), o.r3())) }
func (v Vec3) Scale(s float64) Vec3 { return Vec3(r3.Scale(s, v.r3())) }
func (v Vec3) Dot(o Vec3) float64   { return r3.Dot(v.r3(), o.r3()) }
func (v Vec3) Cross(o Vec3) Vec3    { return Vec3(r3.Cross(v.r3(), o.r3())) }
func (v Vec3) Length() float64      { return r3.Norm(v.r3()) }
func (v Vec3) LengthSq() float64    { return r3.Norm2(v.r3()) }

// DistanceTo returns |v - o|.
func (v Vec3) DistanceTo(o Vec3) float64 { return r3.Norm(r3.Sub(v.r3(), o.r3())) }

// Normalize returns the unit vector along v. The zero vector maps to itself;
// callers that need a direction must check for that case first.
func (v Vec3) Normalize() Vec3 {
	if v.IsZero() {
		return Vec3{}
	}
	return Vec3(r3.Unit(v.r3()))
}

func (v Vec3) IsZero() bool { return v.X == 0 && v.Y == 0 && v.Z == 0 }

// IsFinite reports whether no component is NaN or Inf.
func (v Vec3) IsFinite() bool {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// AddScaledInPlace sets v += o*s without allocating a temporary.
func (v *Vec3) AddScaledInPlace(o Vec3, s float64) {
	v.X += o.X * s
	v.Y += o.Y * s
	v.Z += o.Z * s
}

// Random samples each component uniformly from [min, max).
func Random(rng *rand.Rand, min, max float64) Vec3 {
	span := max - min
	return Vec3{
		X: min + rng.Float64()*span,
		Y: min + rng.Float64()*span,
		Z: min + rng.Float64()*span,
	}
}
