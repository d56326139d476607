package gui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/vec"
)

// Particles are tiny; a coarse mesh is enough and keeps thousands per frame
// affordable.
const (
	sphereRings  = 4
	sphereSlices = 6
)

func toVector3(v vec.Vec3) rl.Vector3 {
	return rl.NewVector3(float32(v.X), float32(v.Y), float32(v.Z))
}

func toColor(c colorful.Color) rl.Color {
	r, g, b := c.Clamped().RGB255()
	return rl.NewColor(r, g, b, 255)
}

// RenderSnapshot draws one sphere per instance in its own colour.
func RenderSnapshot(snap dynamo.Snapshot) {
	for _, in := range snap.Instances {
		rl.DrawSphereEx(toVector3(in.Position), float32(in.Radius), sphereRings, sphereSlices, toColor(in.Color))
	}
}

// RenderBody outlines the absorption volume.
func RenderBody(b dynamo.Body) {
	col := rl.ColorAlpha(rl.Gray, 0.5)
	r := float32(b.Radius)
	origin := rl.NewVector3(0, 0, 0)
	if b.Shape == dynamo.ShapeCube {
		rl.DrawCubeWires(origin, 2*r, 2*r, 2*r, col)
		return
	}
	rl.DrawSphereWires(origin, r, 12, 16, col)
	rl.DrawSphere(origin, 0.1, rl.Gray)
}
