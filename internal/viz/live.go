package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/sim"
)

const (
	width           = 80
	height          = 24
	statsWidth      = 45
	historyCapacity = 600
	graphWidth      = 30
	rotateStep      = 0.1
)

// GIFPath is where the live view writes a recording when it stops.
var GIFPath = "orbitsim.gif"

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Model drives a simulator from the bubbletea event loop and renders the
// population through a rotating camera.
type Model struct {
	sim        *sim.Simulator
	canvas     *Canvas
	camera     *Camera
	body, axes *Wireframe
	snap       dynamo.Snapshot
	counts     []float64
	collisions []float64
	theme      int
	running    bool
	autoFit    bool
	showHelp   bool
	recorder   *GIFRecorder
	status     string
	err        error
	lastFrame  time.Time
	fps        float64
}

// NewModel wraps s, which should already be populated.
func NewModel(s *sim.Simulator) Model {
	p := s.Params()
	m := Model{
		sim:        s,
		canvas:     NewCanvas(width, height),
		camera:     NewCamera(),
		body:       BodyWireframe(p.Body()),
		axes:       CreateAxesWireframe(p.AbsorptionRadius * 2),
		counts:     make([]float64, 0, historyCapacity),
		collisions: make([]float64, 0, historyCapacity),
		running:    true,
		autoFit:    true,
	}
	m.theme = themeIndex(CurrentTheme.Name)
	s.SetPalette(CurrentTheme.Palette())
	m.snap = s.Snapshot()
	m.camera.RotateX(-0.4)
	m.fit(false)
	m.draw()
	return m
}

// Run starts the live view on the alternate screen and blocks until quit.
func Run(s *sim.Simulator) error {
	_, err := tea.NewProgram(NewModel(s), tea.WithAltScreen()).Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return tick()
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.showHelp && msg.String() != "ctrl+c" {
			m.showHelp = false
			return m, nil
		}
		switch msg.String() {
		case "q", "ctrl+c":
			m.stopRecording()
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "n", ".":
			if !m.running {
				m.step()
			}
		case "p":
			on := !m.sim.Params().Replenish
			m.sim.SetReplenish(on)
			m.status = "replenish " + onOff(on)
		case "t":
			m.theme = (m.theme + 1) % len(Themes)
			SetTheme(Themes[m.theme].Name)
			m.sim.SetPalette(CurrentTheme.Palette())
			m.snap = m.sim.Snapshot()
			m.status = "theme " + CurrentTheme.Name
		case "g":
			if m.recorder == nil {
				m.recorder = NewGIFRecorder(2)
				m.status = "recording"
			} else {
				m.stopRecording()
			}
		case "f":
			m.autoFit = true
			m.fit(false)
		case "x":
			m.camera.RotateX(rotateStep)
		case "X":
			m.camera.RotateX(-rotateStep)
		case "y":
			m.camera.RotateY(rotateStep)
		case "Y":
			m.camera.RotateY(-rotateStep)
		case "z":
			m.camera.RotateZ(rotateStep)
		case "Z":
			m.camera.RotateZ(-rotateStep)
		case "+", "=":
			m.autoFit = false
			m.camera.ZoomIn()
		case "-", "_":
			m.autoFit = false
			m.camera.ZoomOut()
		case "?":
			m.showHelp = true
		}
		m.draw()

	case tea.WindowSizeMsg:
		w := max(20, msg.Width-statsWidth-8)
		h := max(8, msg.Height-4)
		m.canvas = NewCanvas(w, h)
		m.draw()

	case TickMsg:
		now := time.Time(msg)
		if !m.lastFrame.IsZero() {
			if dt := now.Sub(m.lastFrame).Seconds(); dt > 0 {
				m.fps = 0.9*m.fps + 0.1/dt
			}
		}
		m.lastFrame = now
		if m.running {
			m.step()
			m.draw()
			if m.recorder != nil {
				m.recorder.Capture(m.canvas)
			}
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) step() {
	if m.err != nil {
		return
	}
	stats, err := m.sim.Tick()
	if err != nil {
		m.err = err
		m.running = false
		return
	}
	m.counts = pushHistory(m.counts, float64(stats.Count))
	m.collisions = pushHistory(m.collisions, float64(stats.Collisions))
	m.snap = m.sim.Snapshot()
	if m.autoFit {
		m.fit(true)
	}
}

func (m *Model) reset() {
	if err := m.sim.Reset(); err != nil {
		m.err = err
		return
	}
	m.err = nil
	m.counts = m.counts[:0]
	m.collisions = m.collisions[:0]
	m.snap = m.sim.Snapshot()
	m.autoFit = true
	m.fit(false)
	m.status = "reset"
}

// fit frames the population, never tighter than the spawn cube. With
// widenOnly the zoom may only decrease, so the view does not pump in and out
// as outliers come and go.
func (m *Model) fit(widenOnly bool) {
	ext := m.sim.Extent()
	p := m.sim.Params()
	floor := p.SpawnExtent
	ext.MaxX = math.Max(ext.MaxX, floor)
	ext.MaxY = math.Max(ext.MaxY, floor)
	ext.MaxZ = math.Max(ext.MaxZ, floor)
	before := m.camera.Zoom
	m.camera.Fit(ext)
	if widenOnly && m.camera.Zoom > before {
		m.camera.Zoom = before
	}
}

func (m *Model) draw() {
	m.canvas.Clear()
	Render3D(m.canvas, m.axes, m.camera)
	Render3D(m.canvas, m.body, m.camera)
	RenderSnapshot(m.canvas, m.snap, m.camera)
}

func (m *Model) stopRecording() {
	if m.recorder == nil {
		return
	}
	if err := m.recorder.Save(GIFPath); err != nil {
		m.status = "gif: " + err.Error()
	} else {
		m.status = "saved " + GIFPath
	}
	m.recorder = nil
}

func pushHistory(h []float64, v float64) []float64 {
	if len(h) == historyCapacity {
		copy(h, h[1:])
		h = h[:len(h)-1]
	}
	return append(h, v)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func (m Model) View() string {
	if m.showHelp {
		return m.helpView()
	}

	stats := m.snap.Stats
	p := m.sim.Params()
	row := func(label, value string) string {
		return labelStyle.Render(label) + valueStyle.Render(value) + "\n"
	}

	var b strings.Builder
	b.WriteString(GradientText("ORBITSIM", CurrentTheme.Primary, CurrentTheme.Secondary) + "\n\n")
	b.WriteString(row("tick", fmt.Sprintf("%d", stats.Tick)))
	b.WriteString(row("particles", fmt.Sprintf("%d / %d", stats.Count, p.TargetCount)))
	if p.TargetCount > 0 {
		b.WriteString(labelStyle.Render("") + ProgressBar(float64(stats.Count)/float64(p.TargetCount), 20) + "\n")
	}
	b.WriteString(row("cells", fmt.Sprintf("%d", stats.Cells)))
	b.WriteString(row("tested", fmt.Sprintf("%d", stats.Tested)))
	b.WriteString(row("collisions", fmt.Sprintf("%d", stats.Collisions)))
	b.WriteString(row("absorbed", fmt.Sprintf("%d", stats.Absorbed)))
	b.WriteString(row("escaped", fmt.Sprintf("%d", stats.Escaped)))
	b.WriteString(row("spawned", fmt.Sprintf("%d", stats.Spawned)))
	b.WriteString(row("kinetic", fmt.Sprintf("%.4g", stats.Kinetic)))
	b.WriteString(row("replenish", onOff(p.Replenish)))
	b.WriteString(row("zoom", fmt.Sprintf("%.3f", m.camera.Zoom)))
	b.WriteString(row("fps", fmt.Sprintf("%.0f", m.fps)))
	b.WriteString("\n" + Separator(statsWidth-6) + "\n")

	if len(m.counts) > 1 {
		hist := m.counts
		if len(hist) > historyCapacity/2 {
			hist = hist[len(hist)-historyCapacity/2:]
		}
		graph := asciigraph.Plot(hist, asciigraph.Height(4), asciigraph.Width(graphWidth), asciigraph.Caption("population"))
		b.WriteString(graphStyle.Render(graph) + "\n")
	}
	b.WriteString(labelStyle.Render("collisions") + SparklineChart(m.collisions, graphWidth) + "\n\n")

	switch {
	case m.err != nil:
		b.WriteString(StatusRecording.Render("error: "+m.err.Error()) + "\n")
	case m.recorder != nil:
		b.WriteString(StatusRecording.Render(fmt.Sprintf("REC %d", m.recorder.Len())) + "\n")
	case m.running:
		b.WriteString(StatusRunning.Render("running") + "\n")
	default:
		b.WriteString(StatusPaused.Render("paused") + "\n")
	}
	if m.status != "" {
		b.WriteString(Subtle.Render(m.status) + "\n")
	}
	b.WriteString(helpStyle.Render("space pause  r reset  ? help  q quit"))

	return lipgloss.JoinHorizontal(lipgloss.Top,
		canvasStyle.Render(m.canvas.Render()),
		statsStyle.Render(b.String()),
	)
}

func (m Model) helpView() string {
	keys := [][2]string{
		{"space", "pause / resume"},
		{"n .", "single tick while paused"},
		{"r", "reset population"},
		{"p", "toggle replenishment"},
		{"x y z", "rotate (shift reverses)"},
		{"+ -", "zoom"},
		{"f", "fit view to population"},
		{"t", "cycle theme"},
		{"g", "start / stop gif recording"},
		{"q", "quit"},
	}
	var b strings.Builder
	b.WriteString(GradientText("KEYS", CurrentTheme.Primary, CurrentTheme.Secondary) + "\n\n")
	for _, k := range keys {
		b.WriteString(labelStyle.Render(k[0]) + valueStyle.Render(k[1]) + "\n")
	}
	b.WriteString(helpStyle.Render("press any key to return"))
	return canvasStyle.Render(b.String())
}
