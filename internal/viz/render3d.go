package viz

import (
	"cmp"
	"math"
	"slices"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/vec"
)

const (
	minZoom = 0.01
	maxZoom = 10

	// fitFraction of the half-screen is used by the largest extent after Fit.
	fitFraction = 0.9
)

// Camera orbits the origin and projects world points onto the canvas.
type Camera struct {
	Distance         float64
	RotX, RotY, RotZ float64
	Zoom             float64
	Near             float64
}

func NewCamera() *Camera {
	return &Camera{Distance: 50, Zoom: 1, Near: 0.1}
}

func (c *Camera) RotateX(a float64) { c.RotX += a }
func (c *Camera) RotateY(a float64) { c.RotY += a }
func (c *Camera) RotateZ(a float64) { c.RotZ += a }
func (c *Camera) ZoomIn()           { c.SetZoom(c.Zoom * 1.2) }
func (c *Camera) ZoomOut()          { c.SetZoom(c.Zoom / 1.2) }

func (c *Camera) SetZoom(z float64) {
	c.Zoom = math.Max(minZoom, math.Min(maxZoom, z))
}

// Fit picks a zoom that keeps a box of half-extent b on screen. An empty box
// leaves the zoom untouched.
func (c *Camera) Fit(b dynamo.Bounds) {
	e := math.Max(b.MaxX, math.Max(b.MaxY, b.MaxZ))
	if e <= 0 {
		return
	}
	// Any rotation keeps the box inside a sphere of radius e*sqrt(3).
	c.SetZoom(1.5 * fitFraction / (e * math.Sqrt(3)))
}

// RotatePoint rotates a point around the camera's axes.
func (c *Camera) RotatePoint(p vec.Vec3) vec.Vec3 {
	cx, sx := math.Cos(c.RotX), math.Sin(c.RotX)
	p.Y, p.Z = p.Y*cx-p.Z*sx, p.Y*sx+p.Z*cx
	cy, sy := math.Cos(c.RotY), math.Sin(c.RotY)
	p.X, p.Z = p.X*cy+p.Z*sy, -p.X*sy+p.Z*cy
	cz, sz := math.Cos(c.RotZ), math.Sin(c.RotZ)
	p.X, p.Y = p.X*cz-p.Y*sz, p.X*sz+p.Y*cz
	return p
}

// UnitScale is the number of dots one world unit covers at depth z.
func (c *Camera) UnitScale(z float64, sw, sh int) float64 {
	return c.Zoom * c.Distance / (c.Distance - z) * float64(min(sw, sh)) / 3
}

// Project converts world coordinates to dot coordinates on an sw x sh
// screen. It returns x, y, depth and visibility; larger depth is nearer.
func (c *Camera) Project(p vec.Vec3, sw, sh int) (int, int, float64, bool) {
	rot := c.RotatePoint(p).Scale(c.Zoom)
	if rot.Z >= c.Distance-c.Near {
		return 0, 0, 0, false
	}
	s := c.UnitScale(rot.Z, sw, sh) / c.Zoom
	sx := int(math.Round(rot.X*s)) + sw/2
	sy := int(math.Round(-rot.Y*s)) + sh/2
	return sx, sy, rot.Z, sx >= 0 && sx < sw && sy >= 0 && sy < sh
}

type Edge struct {
	Start, End vec.Vec3
}

type Wireframe struct{ Edges []Edge }

func NewWireframe() *Wireframe             { return &Wireframe{} }
func (w *Wireframe) AddEdge(s, e vec.Vec3) { w.Edges = append(w.Edges, Edge{s, e}) }

type projectedEdge struct {
	x1, y1, x2, y2 int
	depth          float64
}

// Render3D draws the wireframe to the canvas, far edges first.
func Render3D(c *Canvas, w *Wireframe, cam *Camera) {
	if c == nil || w == nil || cam == nil {
		return
	}
	sw, sh := c.Dots()
	proj := make([]projectedEdge, 0, len(w.Edges))
	for _, e := range w.Edges {
		x1, y1, d1, v1 := cam.Project(e.Start, sw, sh)
		x2, y2, d2, v2 := cam.Project(e.End, sw, sh)
		if v1 || v2 {
			proj = append(proj, projectedEdge{x1, y1, x2, y2, (d1 + d2) / 2})
		}
	}
	slices.SortFunc(proj, func(a, b projectedEdge) int { return cmp.Compare(a.depth, b.depth) })
	for _, e := range proj {
		c.DrawLine(e.x1, e.y1, e.x2, e.y2)
	}
}

type projectedInstance struct {
	x, y, r int
	depth   float64
	i       int
}

// RenderSnapshot draws every visible instance as a tinted disc, far
// particles first so near ones win a shared cell. It returns the number of
// instances drawn.
func RenderSnapshot(c *Canvas, snap dynamo.Snapshot, cam *Camera) int {
	if c == nil || cam == nil {
		return 0
	}
	sw, sh := c.Dots()
	proj := make([]projectedInstance, 0, len(snap.Instances))
	for i, in := range snap.Instances {
		x, y, d, ok := cam.Project(in.Position, sw, sh)
		if !ok {
			continue
		}
		r := int(in.Radius * cam.UnitScale(d, sw, sh))
		proj = append(proj, projectedInstance{x, y, r, d, i})
	}
	slices.SortFunc(proj, func(a, b projectedInstance) int { return cmp.Compare(a.depth, b.depth) })
	for _, p := range proj {
		c.Disc(p.x, p.y, p.r, snap.Instances[p.i].Color)
	}
	return len(proj)
}

func CreateCubeWireframe(size float64) *Wireframe {
	w, s := NewWireframe(), size/2
	v := []vec.Vec3{
		vec.New(-s, -s, -s), vec.New(s, -s, -s), vec.New(s, s, -s), vec.New(-s, s, -s),
		vec.New(-s, -s, s), vec.New(s, -s, s), vec.New(s, s, s), vec.New(-s, s, s),
	}
	ei := [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 0}, {4, 5}, {5, 6}, {6, 7}, {7, 4}, {0, 4}, {1, 5}, {2, 6}, {3, 7}}
	for _, e := range ei {
		w.AddEdge(v[e[0]], v[e[1]])
	}
	return w
}

// CreateSphereWireframe approximates a sphere by its three great circles.
func CreateSphereWireframe(r float64, segments int) *Wireframe {
	w := NewWireframe()
	if segments < 3 {
		segments = 3
	}
	point := func(plane, k int) vec.Vec3 {
		a := 2 * math.Pi * float64(k) / float64(segments)
		u, v := r*math.Cos(a), r*math.Sin(a)
		switch plane {
		case 0:
			return vec.New(u, v, 0)
		case 1:
			return vec.New(u, 0, v)
		}
		return vec.New(0, u, v)
	}
	for plane := 0; plane < 3; plane++ {
		for k := 0; k < segments; k++ {
			w.AddEdge(point(plane, k), point(plane, k+1))
		}
	}
	return w
}

func CreateAxesWireframe(l float64) *Wireframe {
	w, o := NewWireframe(), vec.Vec3{}
	w.AddEdge(o, vec.New(l, 0, 0))
	w.AddEdge(o, vec.New(0, l, 0))
	w.AddEdge(o, vec.New(0, 0, l))
	return w
}

// BodyWireframe outlines the absorption volume of b.
func BodyWireframe(b dynamo.Body) *Wireframe {
	if b.Shape == dynamo.ShapeCube {
		return CreateCubeWireframe(2 * b.Radius)
	}
	return CreateSphereWireframe(b.Radius, 24)
}
