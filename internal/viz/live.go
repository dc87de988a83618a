package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"go.uber.org/zap"

	"github.com/san-kum/schotter/internal/control"
	"github.com/san-kum/schotter/internal/metrics"
	"github.com/san-kum/schotter/internal/render"
)

const (
	canvasHeight    = 40
	maxCanvasWidth  = 100
	panelWidth      = 50
	historyCapacity = 300
	// slider ceilings for the parameter bars
	scaleMax = 5.0
)

type TickMsg time.Time

type Options struct {
	FPS   int
	Theme string
	Log   *zap.Logger
}

// Model is the live view of one session.
type Model struct {
	session  *control.Session
	log      *zap.Logger
	canvas   *Canvas
	fps      int
	frame    uint64
	running  bool
	showHelp bool
	activity []float64
	message  string
	err      error
}

func NewModel(session *control.Session, opts Options) Model {
	if opts.FPS <= 0 {
		opts.FPS = 60
	}
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	if opts.Theme != "" {
		SetTheme(opts.Theme)
	}
	g := session.Grid
	w, h := fitCanvas(g.Cols(), g.Rows(), maxCanvasWidth, canvasHeight)
	return Model{
		session:  session,
		log:      opts.Log.Named("viz"),
		canvas:   NewCanvas(w, h),
		fps:      opts.FPS,
		running:  true,
		activity: make([]float64, 0, historyCapacity),
	}
}

// Err is the fatal error that ended the program, if any.
func (m Model) Err() error { return m.err }

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

var keyCommands = map[string]control.Command{
	"up":    control.DisplacementUp,
	"k":     control.DisplacementUp,
	"down":  control.DisplacementDown,
	"j":     control.DisplacementDown,
	"right": control.RotationUp,
	"l":     control.RotationUp,
	"left":  control.RotationDown,
	"h":     control.RotationDown,
	"+":     control.MotionUp,
	"=":     control.MotionUp,
	"-":     control.MotionDown,
	"_":     control.MotionDown,
	"n":     control.Reseed,
	"c":     control.Reset,
	"r":     control.ToggleRecording,
	"s":     control.Snapshot,
}

// Update handles input events and advances the grid.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch key := msg.String(); key {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "?":
			m.showHelp = !m.showHelp
		case "t":
			NextTheme()
		default:
			if cmd, ok := keyCommands[key]; ok {
				if err := m.apply(cmd); err != nil {
					return m, tea.Quit
				}
			}
		}
	case tea.WindowSizeMsg:
		g := m.session.Grid
		w, h := fitCanvas(g.Cols(), g.Rows(), msg.Width-panelWidth-4, msg.Height-2)
		m.canvas = NewCanvas(w, h)
	case TickMsg:
		if err := m.step(); err != nil {
			return m, tea.Quit
		}
		return m, m.tick()
	}
	return m, nil
}

// apply runs a command; a recorder failure is fatal and returned.
func (m *Model) apply(cmd control.Command) error {
	err := m.session.Apply(cmd, 0)
	switch {
	case err == nil:
		m.message = cmd.Describe()
		if cmd == control.Snapshot {
			m.message = "saved " + m.session.SnapshotPath
		}
	case cmd == control.ToggleRecording:
		m.err = err
		m.log.Error("cannot start recording", zap.Error(err))
		return err
	default:
		m.message = err.Error()
		m.log.Warn("command failed", zap.String("command", string(cmd)), zap.Error(err))
	}
	return nil
}

// step advances the grid when running and hands the rendered frame to the
// recorder. Frames are counted even while paused.
func (m *Model) step() error {
	g := m.session.Grid
	if m.running {
		g.Tick()
		m.activity = append(m.activity, metrics.Fraction(g.Cells()))
		if len(m.activity) > historyCapacity {
			m.activity = m.activity[1:]
		}
	}

	elapsed := m.frame
	m.frame++
	if m.session.Recorder == nil {
		return nil
	}
	if err := m.session.Recorder.OnFrame(elapsed); err != nil {
		m.err = err
		return err
	}
	return nil
}

// fitCanvas sizes a character canvas for a cols x rows grid plus margins
// within maxW x maxH characters.
func fitCanvas(cols, rows, maxW, maxH int) (w, h int) {
	if maxW < 10 {
		maxW = 10
	}
	if maxH < 5 {
		maxH = 5
	}
	margin := 2 * float64(render.DefaultMargin) / float64(render.DefaultCellSize)
	uw, uh := float64(cols)+margin, float64(rows)+margin
	scale := math.Min(float64(maxW*2)/uw, float64(maxH*4)/uh)
	w, h = int(uw*scale/2), int(uh*scale/4)
	return atLeast(w, 1), atLeast(h, 1)
}

func atLeast(v, lo int) int {
	if v < lo {
		return lo
	}
	return v
}

// draw rasterises every square onto the braille canvas.
func (m *Model) draw() {
	m.canvas.Clear()
	g := m.session.Grid
	w, h := m.canvas.Dots()
	margin := float64(render.DefaultMargin) / float64(render.DefaultCellSize)
	uw, uh := float64(g.Cols())+2*margin, float64(g.Rows())+2*margin
	scale := math.Min(float64(w)/uw, float64(h)/uh)
	offX := (float64(w) - uw*scale) / 2

	for _, c := range g.Cells() {
		cx := offX + (margin+float64(c.Col)+0.5+c.Offset.X)*scale
		cy := (margin + float64(c.Row) + 0.5 + c.Offset.Y) * scale
		m.canvas.DrawSquare(cx, cy, scale, c.Rotation)
	}
}

// View renders the TUI interface.
func (m Model) View() string {
	m.draw()
	canvasView := canvasStyle.Render(inkStyle().Render(m.canvas.String()))

	g := m.session.Grid
	cfg := g.Config()
	rec := m.session.Recording()

	var s strings.Builder
	s.WriteString(headerStyle().Render("SCHOTTER") + "\n")

	status := statusStyle(CurrentTheme.Success).Render(AnimatedSpinner(m.frame) + " RUNNING")
	if !m.running {
		status = statusStyle(CurrentTheme.Warning).Render("PAUSED")
	}
	if rec.Active {
		limit := 0
		if m.session.Recorder != nil {
			limit = m.session.Recorder.MaxFrame()
		}
		status += "  " + statusStyle(CurrentTheme.Error).Render(fmt.Sprintf("● REC %04d/%d", rec.Frame, limit))
	}
	s.WriteString(status + "\n")

	if len(m.activity) > 1 {
		chart := asciigraph.Plot(m.activity,
			asciigraph.Height(4), asciigraph.Width(30),
			asciigraph.LowerBound(0), asciigraph.UpperBound(1),
			asciigraph.Precision(2), asciigraph.Caption("moving cells"))
		s.WriteString(graphStyle().Render(chart) + "\n")
	}

	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("Tick", fmt.Sprintf("%d", g.Ticks()))
	row("Seed", fmt.Sprintf("%d", g.Seed()))
	row("Moving", fmt.Sprintf("%d / %d", g.MovingCount(), len(g.Cells())))
	s.WriteString("\n")
	row("Displacement", fmt.Sprintf("%s %.2f", ProgressBar(cfg.Displacement, scaleMax, 10), cfg.Displacement))
	row("Rotation", fmt.Sprintf("%s %.2f", ProgressBar(cfg.Rotation, scaleMax, 10), cfg.Rotation))
	row("Motion", fmt.Sprintf("%s %.2f", ProgressBar(cfg.Motion, 1, 10), cfg.Motion))
	if rec.Dir != "" {
		row("Frames", rec.Dir)
	}

	if m.message != "" {
		s.WriteString("\n" + valueStyle.Render(m.message) + "\n")
	}
	if m.err != nil {
		s.WriteString("\n" + errorStyle.Render(m.err.Error()) + "\n")
	}
	s.WriteString(helpStyle.Render(Separator(30) + "\n↑↓:Disp ←→:Rot +-:Motion\nN:Reseed R:Record S:Snap\nSP:Pause T:Theme ?:Help Q:Quit"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
	if m.showHelp {
		return helpText + "\n\n" + mainView
	}
	return mainView
}

const helpText = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Up/K     - Displacement +0.1        ║
║  Down/J   - Displacement -0.1        ║
║  Right/L  - Rotation +0.1            ║
║  Left/H   - Rotation -0.1            ║
║  + / -    - Motion ±0.05             ║
║  N        - New random seed          ║
║  C        - Return squares home      ║
║  R        - Toggle frame recording   ║
║  S        - Save snapshot            ║
║  Space    - Pause/Resume             ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝`

// Run shows the live view until the user quits. A recorder failure ends the
// program and is returned.
func Run(m Model) error {
	final, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(Model); ok && fm.err != nil {
		return fm.err
	}
	return nil
}
