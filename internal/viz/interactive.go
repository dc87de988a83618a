package viz

import (
	"fmt"
	"strings"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/san-kum/schotter/internal/config"
	"github.com/san-kum/schotter/internal/control"
	"github.com/san-kum/schotter/internal/grid"
)

var (
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ffff")).Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true)
	valueHiStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff88ff")).Bold(true)
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#555566"))
	keyStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#00aaaa")).Bold(true)
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00cccc")).Bold(true)
	subStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))
)

const (
	stateSetup = iota
	stateLive
)

var setupFields = []string{"preset", "displacement", "rotation", "motion", "seed"}

// App is a setup screen that hands over to the live view.
type App struct {
	state     int
	cfg       *config.Config
	presets   []string
	presetIdx int
	cursor    int
	editing   bool
	editBuf   string
	log       *zap.Logger
	live      Model
	err       error
}

func NewApp(cfg *config.Config, log *zap.Logger) *App {
	if log == nil {
		log = zap.NewNop()
	}
	a := &App{state: stateSetup, cfg: cfg, presets: config.ListPresets(), log: log}
	a.matchPreset()
	return a
}

// matchPreset points the preset row at the preset whose scales equal the
// current ones, or at none (-1) when they were set by hand.
func (a *App) matchPreset() {
	a.presetIdx = -1
	anim := a.cfg.Animation
	for i, name := range a.presets {
		p := config.Presets[name].Animation
		if p.Displacement == anim.Displacement && p.Rotation == anim.Rotation && p.Motion == anim.Motion {
			a.presetIdx = i
			return
		}
	}
}

func (a *App) Init() tea.Cmd { return nil }

// Err is the error that ended the app, if any.
func (a *App) Err() error {
	if a.err != nil {
		return a.err
	}
	return a.live.Err()
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if a.state == stateLive {
		next, cmd := a.live.Update(msg)
		a.live = next.(Model)
		return a, cmd
	}
	if key, ok := msg.(tea.KeyMsg); ok {
		return a, a.setupKey(key)
	}
	return a, nil
}

func (a *App) setupKey(msg tea.KeyMsg) tea.Cmd {
	field := setupFields[a.cursor]
	if a.editing {
		switch msg.Type {
		case tea.KeyEnter:
			a.commit(field, a.editBuf)
			a.editing, a.editBuf = false, ""
		case tea.KeyEsc:
			a.editing, a.editBuf = false, ""
		case tea.KeyBackspace:
			_, size := utf8.DecodeLastRuneInString(a.editBuf)
			a.editBuf = a.editBuf[:len(a.editBuf)-size]
		case tea.KeyRunes:
			a.editBuf += string(msg.Runes)
		}
		return nil
	}

	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return tea.Quit
	case "up", "k":
		if a.cursor > 0 {
			a.cursor--
		}
	case "down", "j":
		if a.cursor < len(setupFields)-1 {
			a.cursor++
		}
	case "enter":
		if field == "preset" {
			a.cyclePreset(1)
		} else {
			a.editing, a.editBuf = true, a.value(field)
		}
	case "left", "h":
		a.nudge(field, -1)
	case "right", "l":
		a.nudge(field, 1)
	case "s":
		return a.start()
	}
	return nil
}

// commit stores a typed value. Text that does not parse counts as 0.
func (a *App) commit(field, text string) {
	anim := &a.cfg.Animation
	switch field {
	case "displacement":
		anim.Displacement = grid.ParseValue(text)
	case "rotation":
		anim.Rotation = grid.ParseValue(text)
	case "motion":
		anim.Motion = grid.ParseValue(text)
	case "seed":
		a.cfg.Seed = grid.ParseSeed(text)
		if a.cfg.Seed < 0 {
			a.cfg.Seed = 0
		}
	}
	anim.Clamp()
	a.matchPreset()
}

func (a *App) nudge(field string, dir float64) {
	anim := &a.cfg.Animation
	switch field {
	case "preset":
		a.cyclePreset(int(dir))
		return
	case "displacement":
		anim.AdjustDisplacement(dir * control.DisplacementStep)
	case "rotation":
		anim.AdjustRotation(dir * control.RotationStep)
	case "motion":
		anim.AdjustMotion(dir * control.MotionStep)
	case "seed":
		if a.cfg.Seed+int64(dir) >= 0 {
			a.cfg.Seed += int64(dir)
		}
	}
	a.matchPreset()
}

func (a *App) cyclePreset(dir int) {
	n := len(a.presets)
	if n == 0 {
		return
	}
	switch {
	case a.presetIdx >= 0:
		a.presetIdx = ((a.presetIdx+dir)%n + n) % n
	case dir < 0:
		a.presetIdx = n - 1
	default:
		a.presetIdx = 0
	}
	if p, ok := config.Presets[a.presets[a.presetIdx]]; ok {
		a.cfg.Animation = p.Animation
	}
}

func (a *App) value(field string) string {
	anim := a.cfg.Animation
	switch field {
	case "preset":
		if a.presetIdx < 0 {
			return "custom"
		}
		return a.presets[a.presetIdx]
	case "displacement":
		return fmt.Sprintf("%.2f", anim.Displacement)
	case "rotation":
		return fmt.Sprintf("%.2f", anim.Rotation)
	case "motion":
		return fmt.Sprintf("%.2f", anim.Motion)
	case "seed":
		if a.cfg.Seed == 0 {
			return "random"
		}
		return fmt.Sprintf("%d", a.cfg.Seed)
	}
	return ""
}

func (a *App) start() tea.Cmd {
	session, err := control.Build(a.cfg, a.log)
	if err != nil {
		a.err = err
		return tea.Quit
	}
	a.live = NewModel(session, Options{FPS: a.cfg.FPS, Theme: a.cfg.Theme, Log: a.log})
	a.state = stateLive
	return a.live.Init()
}

func (a *App) View() string {
	if a.state == stateLive {
		return a.live.View()
	}

	var b strings.Builder
	b.WriteString("\n\n    " + titleStyle.Render("SCHOTTER") + "\n    " + subStyle.Render("after Georg Nees, 1968") + "\n    " + subStyle.Render("─────────────────────────") + "\n\n")
	for i, name := range setupFields {
		val := fmt.Sprintf("%10s", a.value(name))
		if a.editing && i == a.cursor {
			val = fmt.Sprintf("%10s", a.editBuf+"_")
		}
		if i == a.cursor {
			b.WriteString(fmt.Sprintf("    %s %s %s\n", cursorStyle.Render("▸"), selectedStyle.Render(fmt.Sprintf("%-13s", name)), valueHiStyle.Render(val)))
		} else {
			b.WriteString(fmt.Sprintf("    %s %s\n", dimStyle.Render(fmt.Sprintf("  %-13s", name)), dimStyle.Render(val)))
		}
	}
	if a.cursor == 0 && a.presetIdx >= 0 {
		b.WriteString("\n    " + subStyle.Render(config.Presets[a.presets[a.presetIdx]].Description) + "\n")
	}
	hint := func(k, label string) string { return keyStyle.Render(k) + dimStyle.Render(" "+label+"  ") }
	b.WriteString("\n    " + hint("j/k", "select") + hint("h/l", "adjust") + hint("enter", "edit") + hint("s", "start") + hint("q", "quit") + "\n")
	return b.String()
}

// RunInteractive shows the setup screen, then the live view.
func RunInteractive(cfg *config.Config, log *zap.Logger) error {
	app := NewApp(cfg, log)
	if _, err := tea.NewProgram(app, tea.WithAltScreen()).Run(); err != nil {
		return err
	}
	return app.Err()
}
