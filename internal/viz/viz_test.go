package viz

import (
	"errors"
	"image/gif"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/sim"
	"github.com/san-kum/orbitsim/internal/vec"
)

func litDots(c *Canvas) int {
	n := 0
	sw, sh := c.Dots()
	for y := 0; y < sh; y++ {
		for x := 0; x < sw; x++ {
			if c.IsSet(x, y) {
				n++
			}
		}
	}
	return n
}

func TestCanvasSetUnset(t *testing.T) {
	c := NewCanvas(2, 1)
	if w, h := c.Dots(); w != 4 || h != 4 {
		t.Fatalf("Dots() = %d,%d, want 4,4", w, h)
	}

	c.Set(0, 0)
	if c.Grid[0][0] != 0x2801 {
		t.Errorf("Grid[0][0] = %U, want U+2801", c.Grid[0][0])
	}
	c.Set(3, 3)
	if c.Grid[0][1] != 0x2880 {
		t.Errorf("Grid[0][1] = %U, want U+2880", c.Grid[0][1])
	}

	c.Set(-1, 0)
	c.Set(4, 0)
	c.Set(0, 4)
	if got := litDots(c); got != 2 {
		t.Errorf("lit dots = %d, want 2", got)
	}

	c.Unset(0, 0)
	if c.IsSet(0, 0) || c.Grid[0][0] != brailleBase {
		t.Errorf("Unset left %U", c.Grid[0][0])
	}

	c.Clear()
	if litDots(c) != 0 {
		t.Error("Clear left dots lit")
	}
}

func TestDrawLineEndpoints(t *testing.T) {
	c := NewCanvas(10, 5)
	c.DrawLine(0, 0, 19, 19)
	if !c.IsSet(0, 0) || !c.IsSet(19, 19) || !c.IsSet(10, 10) {
		t.Error("diagonal line missing points")
	}
	if got := litDots(c); got != 20 {
		t.Errorf("lit dots = %d, want 20", got)
	}
}

func TestDisc(t *testing.T) {
	red := colorful.Color{R: 1}
	c := NewCanvas(10, 5)
	c.Disc(5, 5, 1, red)
	if got := litDots(c); got != 5 {
		t.Errorf("radius 1 disc lit %d dots, want 5", got)
	}
	if tint := c.Tint[5/4][5/2]; tint == nil || tint.Hex() != red.Hex() {
		t.Errorf("tint = %v, want %v", tint, red)
	}

	c.Clear()
	c.Disc(0, 0, 0, red)
	if got := litDots(c); got != 1 {
		t.Errorf("radius 0 disc lit %d dots, want 1", got)
	}
	if c.Tint[0][0] == nil {
		t.Error("radius 0 disc should tint its cell")
	}
}

func TestCanvasRenderShape(t *testing.T) {
	c := NewCanvas(6, 3)
	c.Disc(3, 3, 1, colorful.Color{G: 1})
	if got := strings.Count(c.String(), "\n"); got != 3 {
		t.Errorf("String() lines = %d, want 3", got)
	}
	if got := strings.Count(c.Render(), "\n"); got != 2 {
		t.Errorf("Render() newlines = %d, want 2", got)
	}
}

func TestProjectOrigin(t *testing.T) {
	cam := NewCamera()
	x, y, _, ok := cam.Project(vec.Vec3{}, 40, 20)
	if !ok || x != 20 || y != 10 {
		t.Errorf("Project(origin) = %d,%d,%v, want 20,10,true", x, y, ok)
	}
}

func TestRotatePoint(t *testing.T) {
	cam := NewCamera()
	cam.RotateY(math.Pi / 2)
	p := cam.RotatePoint(vec.New(1, 0, 0))
	if math.Abs(p.X) > 1e-12 || math.Abs(p.Y) > 1e-12 || math.Abs(p.Z+1) > 1e-12 {
		t.Errorf("RotatePoint = %v, want (0,0,-1)", p)
	}
}

func TestZoomClamp(t *testing.T) {
	cam := NewCamera()
	for i := 0; i < 100; i++ {
		cam.ZoomIn()
	}
	if cam.Zoom != maxZoom {
		t.Errorf("Zoom = %v, want %v", cam.Zoom, maxZoom)
	}
	cam.SetZoom(0)
	if cam.Zoom != minZoom {
		t.Errorf("Zoom = %v, want %v", cam.Zoom, minZoom)
	}
}

func TestFitKeepsCubeOnScreen(t *testing.T) {
	rotations := [][3]float64{{0, 0, 0}, {0.4, 0.7, 0}, {1.1, 2.3, 0.5}, {math.Pi / 4, math.Pi / 4, math.Pi / 4}}
	for _, r := range rotations {
		cam := NewCamera()
		cam.RotX, cam.RotY, cam.RotZ = r[0], r[1], r[2]
		cam.Fit(dynamo.Cube(5))
		for _, e := range CreateCubeWireframe(10).Edges {
			if _, _, _, ok := cam.Project(e.Start, 160, 96); !ok {
				t.Errorf("rotation %v: corner %v off screen", r, e.Start)
			}
		}
	}

	cam := NewCamera()
	cam.Fit(dynamo.Bounds{})
	if cam.Zoom != 1 {
		t.Errorf("Fit(empty) changed zoom to %v", cam.Zoom)
	}
}

func TestBodyWireframe(t *testing.T) {
	if got := len(BodyWireframe(dynamo.Body{Radius: 3, Shape: dynamo.ShapeSphere}).Edges); got != 72 {
		t.Errorf("sphere edges = %d, want 72", got)
	}
	if got := len(BodyWireframe(dynamo.Body{Radius: 3, Shape: dynamo.ShapeCube}).Edges); got != 12 {
		t.Errorf("cube edges = %d, want 12", got)
	}
}

func TestRenderSnapshot(t *testing.T) {
	pink := colorful.Color{R: 1, G: 0.4, B: 0.7}
	snap := dynamo.Snapshot{Instances: []dynamo.Instance{
		{Position: vec.Vec3{}, Color: pink},
		{Position: vec.New(1000, 0, 0), Radius: 0.1, Color: pink},
	}}
	c := NewCanvas(20, 10)
	cam := NewCamera()
	cam.Fit(dynamo.Cube(1))

	if got := RenderSnapshot(c, snap, cam); got != 1 {
		t.Errorf("RenderSnapshot drew %d, want 1", got)
	}
	if !c.IsSet(20, 20) {
		t.Error("instance at origin not drawn at canvas centre")
	}
	if tint := c.Tint[20/4][20/2]; tint == nil || tint.Hex() != pink.Hex() {
		t.Errorf("centre tint = %v, want %v", tint, pink)
	}
}

func TestGIFRecorder(t *testing.T) {
	rec := NewGIFRecorder(0)
	path := filepath.Join(t.TempDir(), "out.gif")
	if err := rec.Save(path); !errors.Is(err, ErrNoFrames) {
		t.Fatalf("Save with no frames error = %v, want ErrNoFrames", err)
	}

	c := NewCanvas(4, 2)
	c.DrawLine(0, 0, 7, 7)
	rec.Capture(c)
	c.Disc(4, 4, 1, colorful.Color{B: 1})
	rec.Capture(c)
	if rec.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", rec.Len())
	}
	if err := rec.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if rec.Len() != 0 {
		t.Errorf("Len() after Save = %d, want 0", rec.Len())
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	anim, err := gif.DecodeAll(f)
	if err != nil {
		t.Fatalf("DecodeAll: %v", err)
	}
	if len(anim.Image) != 2 {
		t.Errorf("frames = %d, want 2", len(anim.Image))
	}
	if b := anim.Image[0].Bounds(); b.Dx() != 4*charW || b.Dy() != 2*charH {
		t.Errorf("frame bounds = %v", b)
	}
}

func TestThemePalette(t *testing.T) {
	p := GetTheme("ice").Palette()
	want, _ := colorful.Hex("#00d4ff")
	if p.Base.Hex() != want.Hex() {
		t.Errorf("Base = %s, want %s", p.Base.Hex(), want.Hex())
	}
	if GetTheme("missing").Name != ThemeHotPink.Name {
		t.Error("unknown theme should fall back to hotpink")
	}
}

func key(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func newTestModel(t *testing.T) Model {
	t.Helper()
	p := dynamo.DefaultParams()
	p.TargetCount = 50
	s, err := sim.New(p, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Reset(); err != nil {
		t.Fatal(err)
	}
	return NewModel(s)
}

func TestModelTicks(t *testing.T) {
	m := newTestModel(t)
	next, cmd := m.Update(TickMsg{})
	if cmd == nil {
		t.Error("tick should schedule the next tick")
	}
	m = next.(Model)
	if len(m.counts) != 1 || m.sim.TickCount() != 1 {
		t.Errorf("after one tick: history %d, sim tick %d", len(m.counts), m.sim.TickCount())
	}
	if m.snap.Tick != 1 {
		t.Errorf("snapshot tick = %d, want 1", m.snap.Tick)
	}
	if m.View() == "" {
		t.Error("empty view")
	}
}

func TestModelPauseAndStep(t *testing.T) {
	m := newTestModel(t)
	next, _ := m.Update(key(' '))
	m = next.(Model)
	if m.running {
		t.Fatal("space should pause")
	}

	next, _ = m.Update(TickMsg{})
	m = next.(Model)
	if m.sim.TickCount() != 0 {
		t.Errorf("paused model ticked to %d", m.sim.TickCount())
	}

	next, _ = m.Update(key('n'))
	m = next.(Model)
	if m.sim.TickCount() != 1 {
		t.Errorf("single step tick = %d, want 1", m.sim.TickCount())
	}
}

func TestModelToggles(t *testing.T) {
	t.Cleanup(func() { SetTheme(ThemeHotPink.Name) })
	m := newTestModel(t)

	next, _ := m.Update(key('p'))
	m = next.(Model)
	if !m.sim.Params().Replenish {
		t.Error("p should enable replenishment")
	}

	before := CurrentTheme.Name
	next, _ = m.Update(key('t'))
	m = next.(Model)
	if CurrentTheme.Name == before {
		t.Error("t should cycle the theme")
	}

	next, _ = m.Update(key('?'))
	m = next.(Model)
	if !m.showHelp || !strings.Contains(m.View(), "quit") {
		t.Error("? should show the help overlay")
	}
	next, _ = m.Update(key('x'))
	m = next.(Model)
	if m.showHelp || m.camera.RotX != -0.4 {
		t.Error("a key in help should only close the overlay")
	}
}
