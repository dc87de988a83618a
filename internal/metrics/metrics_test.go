package metrics

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/san-kum/schotter/internal/grid"
)

func TestActiveCells(t *testing.T) {
	m := NewActiveCells()

	moving := grid.Cell{Velocity: grid.Vec{X: 0.1}, Remaining: 3}
	resting := grid.Cell{Remaining: 3}

	m.Observe([]grid.Cell{moving, resting, resting, resting})
	if m.Last() != 0.25 {
		t.Errorf("expected 0.25, got %f", m.Last())
	}
	m.Observe([]grid.Cell{moving, moving, resting, resting})
	if m.Value() != 0.375 {
		t.Errorf("expected mean 0.375, got %f", m.Value())
	}

	m.Reset()
	if m.Value() != 0 || m.Last() != 0 {
		t.Error("expected zero after reset")
	}
}

func TestFractionEmpty(t *testing.T) {
	if Fraction(nil) != 0 {
		t.Error("expected 0 for no cells")
	}
}

func TestMeanDisplacement(t *testing.T) {
	m := NewMeanDisplacement()

	m.Observe([]grid.Cell{{Offset: grid.Vec{X: 3, Y: 4}}, {}})
	if math.Abs(m.Value()-2.5) > 1e-12 {
		t.Errorf("expected 2.5, got %f", m.Value())
	}

	m.Observe(nil)
	if math.Abs(m.Value()-2.5) > 1e-12 {
		t.Errorf("empty observation should not count, got %f", m.Value())
	}
}

func TestRowProfile(t *testing.T) {
	p := NewRowProfile(2)
	p.Observe([]grid.Cell{
		{Row: 0},
		{Row: 1, Offset: grid.Vec{X: 0.2}, Rotation: -0.4},
		{Row: 1, Offset: grid.Vec{Y: 0.4}, Rotation: 0.2},
		{Row: 5},
	})

	want := []RowStat{
		{Row: 0},
		{Row: 1, Displacement: 0.3, Rotation: 0.3},
	}
	approx := cmp.Comparer(func(a, b float64) bool { return math.Abs(a-b) < 1e-12 })
	if diff := cmp.Diff(want, p.Rows(), approx); diff != "" {
		t.Errorf("profile (-want +got):\n%s", diff)
	}
	if math.Abs(p.Value()-0.3) > 1e-12 {
		t.Errorf("expected deepest row 0.3, got %f", p.Value())
	}
}

func TestRowProfileSeverityOrdering(t *testing.T) {
	g, err := grid.New(12, 22, grid.DefaultConfig(), 4)
	if err != nil {
		t.Fatal(err)
	}
	p := NewRowProfile(g.Rows())
	for i := 0; i < 2000; i++ {
		g.Tick()
		p.Observe(g.Cells())
	}

	rows := p.Rows()
	if rows[0].Displacement != 0 || rows[0].Rotation != 0 {
		t.Errorf("top row should never move: %+v", rows[0])
	}
	top, bottom := rows[1].Displacement, rows[21].Displacement
	if bottom <= top {
		t.Errorf("expected deeper rows to drift further: row1=%f row21=%f", top, bottom)
	}
}

func TestMergeProfiles(t *testing.T) {
	a := []RowStat{{Row: 0, Displacement: 1}, {Row: 1, Rotation: 2}}
	b := []RowStat{{Row: 0, Displacement: 3}, {Row: 1, Rotation: 4}}

	got := MergeProfiles(a, b)
	want := []RowStat{{Row: 0, Displacement: 2}, {Row: 1, Rotation: 3}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("merge (-want +got):\n%s", diff)
	}
	if MergeProfiles() != nil {
		t.Error("expected nil for nothing to merge")
	}
}

func TestStandard(t *testing.T) {
	names := []string{}
	for _, m := range Standard(3) {
		names = append(names, m.Name())
	}
	want := []string{"active_cells", "mean_displacement", "row_profile"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("names (-want +got):\n%s", diff)
	}
}
