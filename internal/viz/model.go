package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/fieldtrace/internal/trace"
)

const (
	canvasWidth  = 60
	canvasHeight = 24
	frameRate    = 30
)

type TickMsg time.Time

// Model replays a finished trace. Both branches grow from the seed at the
// same pace, so the reveal order matches the order the engine wrote them.
type Model struct {
	res      *trace.Result
	title    string
	order    []int
	revealed []bool
	shown    int
	perFrame int
	running  bool
	showHelp bool

	canvas *Canvas
	camera *Camera
	is3D   bool
	scale  float64
	extent [4]float64

	theme  Theme
	styles styles
	bar    progress.Model
}

// NewModel prepares a replay of res that reveals perFrame slots per tick.
func NewModel(res *trace.Result, title string, perFrame int) Model {
	if perFrame < 1 {
		perFrame = 1
	}
	m := Model{
		res:      res,
		title:    title,
		order:    RevealOrder(res),
		revealed: make([]bool, len(res.Points)),
		perFrame: perFrame,
		running:  true,
		canvas:   NewCanvas(canvasWidth, canvasHeight),
		camera:   NewCamera(),
		theme:    Themes[0],
	}
	m.styles = newStyles(m.theme)
	m.bar = newBar(m.theme)
	if len(res.Points) > 0 && len(res.Points[0]) >= 3 {
		m.is3D = true
		m.camera.RotateX(-1.2)
	}
	m.fit()
	return m
}

// RevealOrder lists the defined slots in the order they were produced:
// the anchor first, then the two branches interleaved step by step.
func RevealOrder(res *trace.Result) []int {
	if !res.IsDefined(res.Anchor) {
		return nil
	}
	order := []int{res.Anchor}
	fwd, bwd := res.Anchor+1, res.Anchor-1
	for res.IsDefined(fwd) || res.IsDefined(bwd) {
		if res.IsDefined(fwd) {
			order = append(order, fwd)
			fwd++
		}
		if res.IsDefined(bwd) {
			order = append(order, bwd)
			bwd--
		}
	}
	return order
}

func (m *Model) fit() {
	maxNorm := 0.0
	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, i := range m.order {
		p := m.res.Points[i]
		maxNorm = math.Max(maxNorm, p.Norm())
		if len(p) >= 2 {
			minX, maxX = math.Min(minX, p[0]), math.Max(maxX, p[0])
			minY, maxY = math.Min(minY, p[1]), math.Max(maxY, p[1])
		} else {
			minX, maxX = math.Min(minX, p[0]), math.Max(maxX, p[0])
			minY, maxY = 0, 0
		}
	}
	if maxNorm == 0 {
		maxNorm = 1
	}
	m.scale = 1.2 / maxNorm
	padX, padY := (maxX-minX)*0.1, (maxY-minY)*0.1
	m.extent = [4]float64{minX - padX, maxX + padX, minY - padY, maxY + padY}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd { return tick() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.restart()
		case "]":
			m.advance(m.perFrame)
		case "[":
			m.rewind(m.perFrame)
		case "x":
			m.camera.RotateX(0.1)
		case "X":
			m.camera.RotateX(-0.1)
		case "y":
			m.camera.RotateY(0.1)
		case "Y":
			m.camera.RotateY(-0.1)
		case "z":
			m.camera.RotateZ(0.1)
		case "Z":
			m.camera.RotateZ(-0.1)
		case "+", "=":
			m.camera.ZoomIn()
		case "-", "_":
			m.camera.ZoomOut()
		case "t":
			m.theme = m.theme.Next()
			m.styles = newStyles(m.theme)
			m.bar = newBar(m.theme)
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			m.advance(m.perFrame)
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) advance(k int) {
	for ; k > 0 && m.shown < len(m.order); k-- {
		m.revealed[m.order[m.shown]] = true
		m.shown++
	}
}

func (m *Model) rewind(k int) {
	for ; k > 0 && m.shown > 0; k-- {
		m.shown--
		m.revealed[m.order[m.shown]] = false
	}
}

func (m *Model) restart() {
	m.rewind(m.shown)
	m.running = true
}

// Shown is the number of slots revealed so far.
func (m Model) Shown() int { return m.shown }

// Done reports whether every defined slot is on screen.
func (m Model) Done() bool { return m.shown == len(m.order) }

func (m *Model) draw() {
	m.canvas.Clear()
	if m.is3D {
		m.draw3D()
		return
	}
	to := m.canvas.Mapper(m.extent[0], m.extent[1], m.extent[2], m.extent[3])
	for i, p := range m.res.Points {
		if !m.revealed[i] {
			continue
		}
		y := 0.0
		if len(p) >= 2 {
			y = p[1]
		}
		x1, y1 := to(p[0], y)
		if i > 0 && m.revealed[i-1] {
			q := m.res.Points[i-1]
			qy := 0.0
			if len(q) >= 2 {
				qy = q[1]
			}
			x0, y0 := to(q[0], qy)
			m.canvas.DrawLine(x0, y0, x1, y1)
		} else {
			m.canvas.Set(x1, y1)
		}
	}
}

func (m *Model) draw3D() {
	RenderAxes(m.canvas, m.camera, 0.5)
	var line []Vec3
	flush := func() {
		Render3DPolyline(m.canvas, line, m.camera)
		line = line[:0]
	}
	for i, p := range m.res.Points {
		if !m.revealed[i] {
			if len(line) > 0 {
				flush()
			}
			continue
		}
		line = append(line, ToVec3(p).Scale(m.scale))
	}
	if len(line) > 0 {
		flush()
	}
}

func (m Model) radii() []float64 {
	var out []float64
	for i, p := range m.res.Points {
		if m.revealed[i] {
			out = append(out, p.Norm())
		}
	}
	return out
}

func (m Model) View() string {
	m.draw()
	st := m.styles

	status := st.running.Render("TRACING")
	switch {
	case m.Done():
		status = st.running.Render("DONE")
	case !m.running:
		status = st.paused.Render("PAUSED")
	}

	var s strings.Builder
	s.WriteString(st.header.Render(strings.ToUpper(m.title)) + "\n")
	s.WriteString(status + "\n\n")

	if r := m.radii(); len(r) > 1 {
		chart := asciigraph.Plot(r, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("|x| by slot"))
		s.WriteString(st.graph.Render(chart) + "\n\n")
	}

	row := func(label, value string) {
		s.WriteString(st.label.Render(label) + st.value.Render(value) + "\n")
	}
	fraction := 0.0
	if len(m.order) > 0 {
		fraction = float64(m.shown) / float64(len(m.order))
	}
	row("Method", m.res.Method)
	row("Direction", m.res.Direction.String())
	row("Slots", fmt.Sprintf("%d/%d", m.shown, len(m.order)))
	row("Progress", m.bar.ViewAs(fraction))
	row("Forward", fmt.Sprintf("%d (%s)", m.res.Forward.Steps, m.res.Forward.Stop))
	row("Backward", fmt.Sprintf("%d (%s)", m.res.Backward.Steps, m.res.Backward.Stop))
	row("Theme", m.theme.Name)

	s.WriteString(st.help.Render("SP:Pause R:Restart Q:Quit\n[ ]:Step T:Theme ?:Help"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, st.canvas.Render(m.canvas.String()), st.stats.Render(s.String()))
	if m.showHelp {
		return helpText + "\n\n" + mainView
	}
	return mainView
}

const helpText = `
╔══════════════════════════════════════╗
║           KEYBOARD SHORTCUTS         ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume             ║
║  R        - Restart from the seed    ║
║  Q        - Quit                     ║
║  [ ]      - Step back/forward        ║
║  x/y/z    - Rotate camera (3D)       ║
║  + -      - Zoom (3D)                ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝`
