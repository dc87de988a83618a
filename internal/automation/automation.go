package automation

import (
	"context"
	"fmt"
	"os"
	"sort"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/schotter/internal/control"
	"github.com/san-kum/schotter/internal/grid"
	"github.com/san-kum/schotter/internal/metrics"
	"github.com/san-kum/schotter/internal/sim"
)

// Scenario defines a scripted headless run
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Preset      string `yaml:"preset"`
	Seed        int64  `yaml:"seed"`
	Ticks       int    `yaml:"ticks"`
	Steps       []Step `yaml:"steps"`
}

// Step applies one command before tick At
type Step struct {
	At      int     `yaml:"at"`
	Command string  `yaml:"command"`
	Value   float64 `yaml:"value"`
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	sc, err := ParseScenario(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sc, nil
}

func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if err := scenario.Validate(); err != nil {
		return nil, err
	}
	return &scenario, nil
}

// Validate checks commands and step timing and orders steps by tick.
func (s *Scenario) Validate() error {
	if s.Ticks <= 0 {
		return fmt.Errorf("scenario %q: ticks must be positive", s.Name)
	}
	for i, step := range s.Steps {
		if _, err := control.ParseCommand(step.Command); err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
		if step.At < 0 || step.At >= s.Ticks {
			return fmt.Errorf("step %d: tick %d outside 0..%d", i+1, step.At, s.Ticks-1)
		}
	}
	sort.SliceStable(s.Steps, func(i, j int) bool { return s.Steps[i].At < s.Steps[j].At })
	return nil
}

// Hook returns a tick hook that applies the scenario's steps to session.
func (s *Scenario) Hook(session *control.Session, log *zap.Logger) sim.Hook {
	if log == nil {
		log = zap.NewNop()
	}
	next := 0
	return func(tick int, _ *grid.Grid) error {
		for next < len(s.Steps) && s.Steps[next].At <= tick {
			step := s.Steps[next]
			next++
			log.Debug("scenario step",
				zap.Int("tick", tick), zap.String("command", step.Command), zap.Float64("value", step.Value))
			if err := session.Apply(control.Command(step.Command), step.Value); err != nil {
				return fmt.Errorf("step at tick %d (%s): %w", step.At, step.Command, err)
			}
		}
		return nil
	}
}

// RunScenario drives simulator through the scenario's ticks.
func RunScenario(ctx context.Context, scenario *Scenario, simulator *sim.Simulator, session *control.Session, log *zap.Logger) (*sim.Result, error) {
	simulator.BeforeTick(scenario.Hook(session, log))
	return simulator.Run(ctx, sim.Config{Ticks: scenario.Ticks})
}

// ParameterSweep runs fresh grids across a range of one animation setting
type ParameterSweep struct {
	Param      string
	ParamMin   float64
	ParamMax   float64
	NumSteps   int
	Ticks      int
	Cols, Rows int
	Base       grid.Config
	Seed       int64
}

// SweepResult holds the outcome for one setting
type SweepResult struct {
	ParamValue       float64
	Activity         float64
	MeanDisplacement float64
	DeepestRow       float64
}

// RunSweep executes a parameter sweep. Every run starts from the same seed
// so only the swept setting differs.
func RunSweep(ctx context.Context, sweep *ParameterSweep, log *zap.Logger) ([]SweepResult, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if sweep.NumSteps < 1 {
		return nil, fmt.Errorf("sweep needs at least one step")
	}
	set, err := setter(sweep.Param)
	if err != nil {
		return nil, err
	}

	paramStep := 0.0
	if sweep.NumSteps > 1 {
		paramStep = (sweep.ParamMax - sweep.ParamMin) / float64(sweep.NumSteps-1)
	}

	results := make([]SweepResult, 0, sweep.NumSteps)
	for i := 0; i < sweep.NumSteps; i++ {
		paramVal := sweep.ParamMin + float64(i)*paramStep

		cfg := sweep.Base
		set(&cfg, paramVal)
		g, err := grid.New(sweep.Cols, sweep.Rows, cfg, sweep.Seed)
		if err != nil {
			return nil, err
		}

		s := sim.New(g)
		for _, m := range metrics.Standard(sweep.Rows) {
			s.AddMetric(m)
		}
		result, err := s.Run(ctx, sim.Config{Ticks: sweep.Ticks})
		if err != nil {
			return results, err
		}

		results = append(results, SweepResult{
			ParamValue:       paramVal,
			Activity:         result.Metrics["active_cells"],
			MeanDisplacement: result.Metrics["mean_displacement"],
			DeepestRow:       result.Metrics["row_profile"],
		})

		log.Info("sweep step",
			zap.Int("step", i+1), zap.Int("of", sweep.NumSteps),
			zap.String("param", sweep.Param), zap.Float64("value", paramVal))
	}

	return results, nil
}

func setter(param string) (func(*grid.Config, float64), error) {
	switch param {
	case "displacement":
		return func(c *grid.Config, v float64) { c.Displacement = v; c.Clamp() }, nil
	case "rotation":
		return func(c *grid.Config, v float64) { c.Rotation = v; c.Clamp() }, nil
	case "motion":
		return func(c *grid.Config, v float64) { c.SetMotion(v) }, nil
	default:
		return nil, fmt.Errorf("cannot sweep %q: want displacement, rotation or motion", param)
	}
}
