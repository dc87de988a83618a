package automation

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/schotter/internal/control"
	"github.com/san-kum/schotter/internal/grid"
	"github.com/san-kum/schotter/internal/sim"
)

const scenarioYAML = `
name: settle
ticks: 100
steps:
  - at: 50
    command: set_displacement
    value: 0
  - at: 10
    command: set_motion
    value: 1
  - at: 50
    command: reseed
    value: 9
`

func TestParseScenario(t *testing.T) {
	sc, err := ParseScenario([]byte(scenarioYAML))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if sc.Name != "settle" || sc.Ticks != 100 {
		t.Errorf("unexpected header %+v", sc)
	}
	if sc.Steps[0].At != 10 || sc.Steps[1].Command != "set_displacement" || sc.Steps[2].Command != "reseed" {
		t.Errorf("steps not ordered stably by tick: %+v", sc.Steps)
	}
}

func TestParseScenarioErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"no ticks", "name: x\n", "ticks must be positive"},
		{"unknown command", "ticks: 5\nsteps:\n  - at: 1\n    command: explode\n", "unknown command"},
		{"late step", "ticks: 5\nsteps:\n  - at: 5\n    command: reseed\n", "outside"},
		{"bad yaml", "ticks: [", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.data))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected %q in %v", tt.want, err)
			}
		})
	}
}

func TestLoadScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.yaml")
	if err := os.WriteFile(path, []byte(scenarioYAML), 0644); err != nil {
		t.Fatal(err)
	}
	sc, err := LoadScenario(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(sc.Steps) != 3 {
		t.Errorf("expected 3 steps, got %d", len(sc.Steps))
	}
}

func TestRunScenario(t *testing.T) {
	sc, err := ParseScenario([]byte(scenarioYAML))
	if err != nil {
		t.Fatal(err)
	}
	g, err := grid.New(4, 6, grid.DefaultConfig(), 1)
	if err != nil {
		t.Fatal(err)
	}
	session := control.NewSession(g, nil, nil, "", nil)

	result, err := RunScenario(context.Background(), sc, sim.New(g), session, nil)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if result.Ticks != 100 {
		t.Errorf("expected 100 ticks, got %d", result.Ticks)
	}
	cfg := g.Config()
	if cfg.Displacement != 0 || cfg.Motion != 1 {
		t.Errorf("steps not applied: %+v", *cfg)
	}
	if g.Seed() != 9 {
		t.Errorf("expected reseed to 9, got %d", g.Seed())
	}
}

func TestRunSweep(t *testing.T) {
	sweep := &ParameterSweep{
		Param:    "displacement",
		ParamMin: 0,
		ParamMax: 2,
		NumSteps: 3,
		Ticks:    400,
		Cols:     6,
		Rows:     8,
		Base:     grid.DefaultConfig(),
		Seed:     3,
	}

	results, err := RunSweep(context.Background(), sweep, nil)
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if math.Abs(results[1].ParamValue-1) > 1e-12 {
		t.Errorf("expected middle value 1, got %f", results[1].ParamValue)
	}
	if results[0].MeanDisplacement != 0 {
		t.Errorf("zero displacement should not drift, got %f", results[0].MeanDisplacement)
	}
	if results[2].MeanDisplacement <= results[1].MeanDisplacement {
		t.Errorf("expected drift to grow with displacement: %+v", results)
	}
}

func TestRunSweepErrors(t *testing.T) {
	base := ParameterSweep{Param: "gravity", NumSteps: 2, Ticks: 10, Cols: 2, Rows: 2, Base: grid.DefaultConfig()}
	if _, err := RunSweep(context.Background(), &base, nil); err == nil {
		t.Error("expected error for unknown parameter")
	}

	base.Param = "motion"
	base.NumSteps = 0
	if _, err := RunSweep(context.Background(), &base, nil); err == nil {
		t.Error("expected error for zero steps")
	}
}

func TestBundledScenarios(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("..", "..", "scenarios", "*.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) == 0 {
		t.Skip("no bundled scenarios")
	}
	for _, p := range paths {
		t.Run(filepath.Base(p), func(t *testing.T) {
			sc, err := LoadScenario(p)
			if err != nil {
				t.Fatalf("load failed: %v", err)
			}
			if sc.Preset == "" || sc.Seed == 0 {
				t.Errorf("expected preset and seed in %s, got %+v", p, sc)
			}
		})
	}
}
