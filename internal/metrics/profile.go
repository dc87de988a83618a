package metrics

import (
	"math"

	"github.com/san-kum/schotter/internal/grid"
)

// RowStat is the time-averaged disorder of one row.
type RowStat struct {
	Row          int     `json:"row"`
	Displacement float64 `json:"displacement"`
	Rotation     float64 `json:"rotation"`
}

// RowProfile accumulates mean |offset| and |rotation| per row. Its Value is
// the mean displacement of the deepest row.
type RowProfile struct {
	name    string
	disp    []float64
	rot     []float64
	counts  []int
	samples int
}

func NewRowProfile(rows int) *RowProfile {
	if rows < 0 {
		rows = 0
	}
	return &RowProfile{
		name:   "row_profile",
		disp:   make([]float64, rows),
		rot:    make([]float64, rows),
		counts: make([]int, rows),
	}
}

func (p *RowProfile) Name() string {
	return p.name
}

func (p *RowProfile) Observe(cells []grid.Cell) {
	for _, c := range cells {
		if c.Row < 0 || c.Row >= len(p.disp) {
			continue
		}
		p.disp[c.Row] += c.Offset.Norm()
		p.rot[c.Row] += math.Abs(c.Rotation)
		p.counts[c.Row]++
	}
	p.samples++
}

// Rows returns the per-row means.
func (p *RowProfile) Rows() []RowStat {
	out := make([]RowStat, len(p.disp))
	for i := range out {
		out[i].Row = i
		if p.counts[i] == 0 {
			continue
		}
		n := float64(p.counts[i])
		out[i].Displacement = p.disp[i] / n
		out[i].Rotation = p.rot[i] / n
	}
	return out
}

func (p *RowProfile) Value() float64 {
	if len(p.disp) == 0 || p.counts[len(p.disp)-1] == 0 {
		return 0
	}
	last := len(p.disp) - 1
	return p.disp[last] / float64(p.counts[last])
}

func (p *RowProfile) Reset() {
	for i := range p.disp {
		p.disp[i] = 0
		p.rot[i] = 0
		p.counts[i] = 0
	}
	p.samples = 0
}

// MergeProfiles averages profiles of equal length row by row.
func MergeProfiles(profiles ...[]RowStat) []RowStat {
	if len(profiles) == 0 {
		return nil
	}
	out := make([]RowStat, len(profiles[0]))
	for i := range out {
		out[i].Row = i
		for _, p := range profiles {
			if i < len(p) {
				out[i].Displacement += p[i].Displacement
				out[i].Rotation += p[i].Rotation
			}
		}
		out[i].Displacement /= float64(len(profiles))
		out[i].Rotation /= float64(len(profiles))
	}
	return out
}
