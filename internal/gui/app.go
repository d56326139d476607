package gui

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/sim"
)

var (
	colSpace = rl.NewColor(6, 6, 14, 255)
	colTitle = rl.NewColor(255, 105, 180, 255)
	colLabel = rl.NewColor(150, 150, 165, 255)
	colFaint = rl.NewColor(70, 70, 85, 255)
	colRing  = rl.NewColor(35, 35, 50, 255)
	colTrace = rl.NewColor(0, 212, 255, 255)
)

const fontPath = "/usr/share/fonts/liberation/LiberationMono-Regular.ttf"

const (
	screenW      = 1280
	screenH      = 720
	maxTelemetry = 200
	minDistance  = 2.0
)

// App renders a running simulator in a raylib window. The camera orbits
// the origin; yaw, pitch and distance are eased toward their targets.
type App struct {
	Sim     *sim.Simulator
	Snap    dynamo.Snapshot
	Camera  rl.Camera3D
	Running bool
	Font    rl.Font
	Err     error

	ShowBody  bool
	ShowRings bool

	// Telemetry is the population count over recent ticks.
	Telemetry []float64

	yaw, pitch, distance          float64
	yawTgt, pitchTgt, distanceTgt float64
}

// openWindow opens a 60fps window that closes on Q rather than Escape.
func openWindow() {
	rl.SetConfigFlags(rl.FlagMsaa4xHint)
	rl.InitWindow(screenW, screenH, "orbitsim")
	rl.SetTargetFPS(60)
	rl.SetExitKey(rl.KeyQ)
}

// hudFont uses a system monospace face when present and raylib's built-in
// font otherwise.
func hudFont() rl.Font {
	if !rl.FileExists(fontPath) {
		return rl.GetFontDefault()
	}
	font := rl.LoadFontEx(fontPath, 32, nil, 0)
	rl.SetTextureFilter(font.Texture, rl.FilterBilinear)
	return font
}

// NewApp wraps s, which should already be populated. The window must be
// open.
func NewApp(s *sim.Simulator) *App {
	p := s.Params()
	d := 3 * p.SpawnExtent
	a := &App{
		Sim: s,
		Camera: rl.NewCamera3D(
			rl.NewVector3(0, 0, float32(d)),
			rl.NewVector3(0, 0, 0),
			rl.NewVector3(0, 1, 0),
			45.0,
			rl.CameraPerspective,
		),
		Running:   true,
		Font:      hudFont(),
		ShowBody:  true,
		Telemetry: make([]float64, 0, maxTelemetry),
		pitch:     0.4,
		pitchTgt:  0.4,
		distance:  d,
	}
	a.distanceTgt = d
	a.Snap = s.Snapshot()
	return a
}

// Run opens a window on s and blocks until it is closed. It returns the
// simulator error that stopped the run, if any.
func Run(s *sim.Simulator) error {
	openWindow()
	defer rl.CloseWindow()
	app := NewApp(s)
	for !rl.WindowShouldClose() {
		app.Update()
		app.Draw()
	}
	return app.Err
}

func (a *App) step() {
	if a.Err != nil {
		return
	}
	stats, err := a.Sim.Tick()
	if err != nil {
		a.Err = err
		a.Running = false
		return
	}
	a.Telemetry = append(a.Telemetry, float64(stats.Count))
	if len(a.Telemetry) > maxTelemetry {
		a.Telemetry = a.Telemetry[1:]
	}
	a.Snap = a.Sim.Snapshot()
}

func (a *App) Update() {
	if rl.IsKeyPressed(rl.KeySpace) {
		a.Running = !a.Running
	}
	if rl.IsKeyPressed(rl.KeyN) && !a.Running {
		a.step()
	}
	if rl.IsKeyPressed(rl.KeyR) {
		if err := a.Sim.Reset(); err != nil {
			a.Err = err
		} else {
			a.Err = nil
			a.Telemetry = a.Telemetry[:0]
			a.Snap = a.Sim.Snapshot()
		}
	}
	if rl.IsKeyPressed(rl.KeyP) {
		a.Sim.SetReplenish(!a.Sim.Params().Replenish)
	}
	if rl.IsKeyPressed(rl.KeyB) {
		a.ShowBody = !a.ShowBody
	}
	if rl.IsKeyPressed(rl.KeyG) {
		a.ShowRings = !a.ShowRings
	}

	// Input modifies the targets, not the camera directly
	if rl.IsKeyDown(rl.KeyA) {
		a.yawTgt -= 0.03
	}
	if rl.IsKeyDown(rl.KeyD) {
		a.yawTgt += 0.03
	}
	if rl.IsKeyDown(rl.KeyW) {
		a.pitchTgt += 0.03
	}
	if rl.IsKeyDown(rl.KeyS) {
		a.pitchTgt -= 0.03
	}
	if rl.IsMouseButtonDown(rl.MouseRightButton) {
		delta := rl.GetMouseDelta()
		a.yawTgt += float64(delta.X) * 0.005
		a.pitchTgt += float64(delta.Y) * 0.005
	}
	a.pitchTgt = math.Max(-1.5, math.Min(1.5, a.pitchTgt))

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		a.distanceTgt = math.Max(minDistance, a.distanceTgt*(1-0.1*float64(wheel)))
	}

	lerp := math.Min(1, 5*float64(rl.GetFrameTime()))
	a.yaw += (a.yawTgt - a.yaw) * lerp
	a.pitch += (a.pitchTgt - a.pitch) * lerp
	a.distance += (a.distanceTgt - a.distance) * lerp
	a.Camera.Position = orbitPosition(a.yaw, a.pitch, a.distance)

	if a.Running {
		a.step()
	}
}

// orbitPosition places the camera on a sphere around the origin.
func orbitPosition(yaw, pitch, distance float64) rl.Vector3 {
	return rl.NewVector3(
		float32(distance*math.Cos(pitch)*math.Sin(yaw)),
		float32(distance*math.Sin(pitch)),
		float32(distance*math.Cos(pitch)*math.Cos(yaw)),
	)
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(colSpace)

	rl.BeginMode3D(a.Camera)
	p := a.Sim.Params()
	if a.ShowRings {
		drawRings(p.SpawnExtent, p.EscapeRadius)
	}
	if a.ShowBody {
		RenderBody(p.Body())
	}
	RenderSnapshot(a.Snap)
	rl.EndMode3D()

	a.DrawHUD()
	rl.EndDrawing()
}

// drawRings marks the spawn extent and the escape radius in the equatorial
// plane. Must be called inside 3D mode.
func drawRings(spawn, escape float64) {
	flat := rl.NewVector3(1, 0, 0)
	rl.DrawCircle3D(rl.NewVector3(0, 0, 0), float32(spawn), flat, 90, colRing)
	rl.DrawCircle3D(rl.NewVector3(0, 0, 0), float32(escape), flat, 90, colFaint)
}

func (a *App) DrawHUD() {
	st := a.Sim.LastStats()
	p := a.Sim.Params()
	a.drawText("orbitsim", 30, 30, 24, colTitle)
	a.drawText(fmt.Sprintf("tick %d", st.Tick), 160, 34, 16, colLabel)

	lines := []string{
		fmt.Sprintf("particles  %d / %d", st.Count, p.TargetCount),
		fmt.Sprintf("cells      %d", st.Cells),
		fmt.Sprintf("collisions %d", st.Collisions),
		fmt.Sprintf("absorbed   %d", st.Absorbed),
		fmt.Sprintf("escaped    %d", st.Escaped),
		fmt.Sprintf("spawned    %d", st.Spawned),
		fmt.Sprintf("replenish  %v", p.Replenish),
	}
	for i, l := range lines {
		a.drawText(l, 30, 80+i*20, 14, colLabel)
	}

	a.DrawTelemetry()

	status, col := "RUNNING", colTitle
	switch {
	case a.Err != nil:
		status, col = "ERROR: "+a.Err.Error(), rl.Red
	case !a.Running:
		status, col = "PAUSED", colFaint
	}
	a.drawText(status, 1100, 30, 16, col)

	a.drawText("space pause  n step  r reset  p replenish  b body  g rings  q quit", 640, 690, 14, colFaint)
	a.drawText(fmt.Sprintf("%d fps", rl.GetFPS()), 30, 690, 14, colFaint)
}

func (a *App) drawText(text string, x, y int, size int, color rl.Color) {
	rl.DrawTextEx(a.Font, text, rl.NewVector2(float32(x), float32(y)), float32(size), 1, color)
}

// DrawTelemetry plots the recent population as a fraction of the target,
// so a steady population is a flat line at the top of the strip.
func (a *App) DrawTelemetry() {
	n := len(a.Telemetry)
	if n < 2 {
		return
	}
	const x0, y0, w, h = 30, 610, 400, 60
	target := math.Max(1, float64(a.Sim.Params().TargetCount))

	rl.DrawRectangleLines(x0, y0, w, h, colRing)
	points := make([]rl.Vector2, n)
	for i, count := range a.Telemetry {
		frac := math.Min(1, count/target)
		points[i] = rl.NewVector2(
			float32(x0)+float32(i)*float32(w)/float32(maxTelemetry-1),
			float32(y0+h)-float32(frac)*float32(h),
		)
	}
	rl.DrawLineStrip(points, colTrace)
	a.drawText(fmt.Sprintf("%.0f%%", 100*a.Telemetry[n-1]/target), x0+w+10, y0+h/2-7, 14, colLabel)
}
