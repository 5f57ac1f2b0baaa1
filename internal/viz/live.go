package viz

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/nbodysim/internal/clock"
	"github.com/san-kum/nbodysim/internal/control"
	"github.com/san-kum/nbodysim/internal/sim"
)

const (
	width           = 80
	height          = 24
	historyCapacity = 240
	maxBodies       = 20000
)

type TickMsg time.Time

// Options configure the live view.
type Options struct {
	Bodies     int
	FPS        float64
	ViewRadius float64
	Theme      string
}

// Model drives a simulation from the Bubble Tea update loop. It is the
// simulation's only caller while the program runs.
type Model struct {
	sim    *sim.Simulation
	bodies int
	fps    float64

	watch       *clock.Stopwatch
	pauseOffset float64
	pausedAt    float64

	frame   sim.Frame
	canvas  *Canvas
	camera  *Camera
	theme   Theme
	styles  styles
	visible int

	running       bool
	showHelp      bool
	status        string
	err           error
	energyHistory []float64
	tickDuration  time.Duration
}

// NewModel wraps an initialized simulation.
func NewModel(s *sim.Simulation, opts Options) Model {
	fps := opts.FPS
	if fps <= 0 {
		fps = 60
	}
	theme := GetTheme(opts.Theme)
	m := Model{
		sim:           s,
		bodies:        opts.Bodies,
		fps:           fps,
		watch:         clock.NewStopwatch(),
		canvas:        NewCanvas(width, height),
		camera:        NewCamera(opts.ViewRadius),
		theme:         theme,
		styles:        newStyles(theme),
		running:       true,
		energyHistory: make([]float64, 0, historyCapacity),
	}
	if bs := s.Bodies(); bs != nil {
		m.bodies = bs.Len()
		m.camera.Follow(bs.Position(0))
	}
	return m
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Duration(float64(time.Second)/m.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case TickMsg:
		if m.running {
			m.step()
		}
		return m, m.tick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ctx := context.Background()
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case " ":
		m.togglePause()
	case "m":
		m.scale(ctx, control.Up)
	case "n":
		m.scale(ctx, control.Down)
	case "r":
		m.reset(ctx, m.bodies)
	case "]":
		m.reset(ctx, min(m.bodies*2, maxBodies))
	case "[":
		m.reset(ctx, max(m.bodies/2, 1))
	case "+", "=":
		m.camera.ZoomIn()
	case "-", "_":
		m.camera.ZoomOut()
	case "x":
		m.camera.RotateX(0.1)
	case "X":
		m.camera.RotateX(-0.1)
	case "y":
		m.camera.RotateY(0.1)
	case "Y":
		m.camera.RotateY(-0.1)
	case "t":
		m.theme = NextTheme(m.theme)
		m.styles = newStyles(m.theme)
	case "?":
		m.showHelp = !m.showHelp
	}
	return m, nil
}

// elapsed is wall time since the run started, minus time spent paused.
func (m *Model) elapsed() float64 {
	return m.watch.Elapsed() - m.pauseOffset
}

func (m *Model) togglePause() {
	if m.running {
		m.pausedAt = m.watch.Elapsed()
	} else {
		m.pauseOffset += m.watch.Elapsed() - m.pausedAt
	}
	m.running = !m.running
}

// step advances the simulation to the current wall time.
func (m *Model) step() {
	start := time.Now()
	frame, err := m.sim.Tick(context.Background(), m.elapsed())
	if err != nil {
		m.err = err
		m.running = false
		return
	}
	m.tickDuration = time.Since(start)
	m.frame = frame
	m.camera.Follow(frame.Target)

	m.energyHistory = append(m.energyHistory, m.sim.Field().Energy(m.sim.Bodies()))
	if len(m.energyHistory) > historyCapacity {
		m.energyHistory = m.energyHistory[1:]
	}
}

func (m *Model) scale(ctx context.Context, d control.Direction) {
	if err := m.sim.ScalePrimaryMass(ctx, d); err != nil {
		m.err = err
		return
	}
	m.status = fmt.Sprintf("primary mass %s: %.3e kg", d, m.sim.Bodies().Mass(0))
}

// reset reinitializes with n bodies and restarts the wall clock.
func (m *Model) reset(ctx context.Context, n int) {
	if err := m.sim.Reset(ctx, n); err != nil {
		m.err = err
		return
	}
	m.bodies = n
	m.err = nil
	m.watch.Restart()
	m.pauseOffset, m.pausedAt = 0, 0
	m.frame = sim.Frame{}
	m.energyHistory = m.energyHistory[:0]
	m.camera.Follow(m.sim.Bodies().Position(0))
	m.status = fmt.Sprintf("reinitialized with %d bodies", n)
	if !m.running {
		m.pausedAt = m.watch.Elapsed()
	}
}

// draw renders the latest frame into the canvas.
func (m *Model) draw() {
	m.canvas.Clear()
	f := m.frame
	if f.Bodies == nil {
		f = m.sim.Snapshot()
	}
	m.visible = RenderFrame(m.canvas, f, m.camera)
}

// View renders the TUI interface.
func (m Model) View() string {
	m.draw()
	st := m.styles

	canvasView := st.canvas.Render(st.body.Render(m.canvas.String()))

	var s strings.Builder
	s.WriteString(st.header.Render("N-BODY") + "\n")
	switch {
	case m.err != nil:
		s.WriteString(st.err.Render("ERROR: "+m.err.Error()) + "\n\n")
	case !m.running:
		s.WriteString(st.paused.Render("PAUSED") + "\n\n")
	default:
		s.WriteString("RUNNING\n\n")
	}

	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Energy"))
		s.WriteString(st.graph.Render(chart) + "\n\n")
	}

	row := func(label, value string) {
		s.WriteString(st.label.Render(label) + st.value.Render(value) + "\n")
	}
	row("Bodies", fmt.Sprintf("%d (%d on screen)", m.bodies, m.visible))
	row("Tick", fmt.Sprintf("%d", m.frame.Tick))
	row("Sim time", fmt.Sprintf("%.3e s", m.frame.SimTime))
	row("Delta t", fmt.Sprintf("%.1f s", m.frame.DeltaT))
	if bs := m.sim.Bodies(); bs != nil {
		row("Primary", fmt.Sprintf("%.3e kg", bs.Mass(0)))
	}
	row("Target", fmt.Sprintf("%.0f %.0f %.0f", m.camera.Target.X, m.camera.Target.Y, m.camera.Target.Z))
	row("Zoom", fmt.Sprintf("%.2fx", m.camera.Zoom))
	row("Compute", m.tickDuration.Round(time.Microsecond).String())
	row("Backend", m.sim.Field().BackendName())
	if m.status != "" {
		s.WriteString("\n" + st.value.Render(m.status) + "\n")
	}

	s.WriteString(st.help.Render("─────────────────────\nSP:Pause R:Reset Q:Quit\nM/N:Mass  [ ]:Bodies ?:Help"))
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, st.stats.Render(s.String()))

	if m.showHelp {
		return helpText + "\n\n" + mainView
	}
	return mainView
}

const helpText = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume simulation  ║
║  M / N    - Primary mass x10 / ÷10   ║
║  R        - Reinitialize             ║
║  [ / ]    - Halve / double bodies    ║
║  + / -    - Zoom in / out            ║
║  x X y Y  - Rotate camera            ║
║  T        - Cycle themes             ║
║  Q        - Quit                     ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝`

// Run starts the live view on the alternate screen.
func Run(m Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
