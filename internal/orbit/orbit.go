// Package orbit generates velocities for approximately circular orbits
// around the central body.
package orbit

import (
	"math"
	"math/rand"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/vec"
)

// parallelLimit is the |cos| above which a reference axis is considered
// too close to the radius vector to give a stable cross product.
const parallelLimit = 0.99

// CircularSpeed returns sqrt(GM/r).
func CircularSpeed(gm, r float64) float64 {
	return math.Sqrt(gm / r)
}

// Velocity returns a velocity of circular-orbit magnitude, perpendicular to
// pos, in a plane through the origin picked by a random reference axis.
func Velocity(pos vec.Vec3, gm float64, rng *rand.Rand) (vec.Vec3, error) {
	r := pos.Length()
	if r == 0 {
		return vec.Vec3{}, dynamo.ErrInvalidOrbit
	}

	radial := pos.Scale(1 / r)
	ref := ReferenceAxis(radial, rng)

	normal := pos.Cross(ref).Normalize()
	dir := pos.Cross(normal).Normalize()
	return dir.Scale(CircularSpeed(gm, r)), nil
}

// ReferenceAxis draws random unit axes until one is not near-parallel to the
// unit vector radial.
func ReferenceAxis(radial vec.Vec3, rng *rand.Rand) vec.Vec3 {
	for {
		ref := vec.Random(rng, -1, 1)
		if ref.LengthSq() == 0 {
			continue
		}
		ref = ref.Normalize()
		if math.Abs(ref.Dot(radial)) <= parallelLimit {
			return ref
		}
	}
}
