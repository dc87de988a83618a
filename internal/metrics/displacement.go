package metrics

import "github.com/san-kum/schotter/internal/grid"

// MeanDisplacement is the mean distance of cells from home, in cell units,
// averaged over ticks.
type MeanDisplacement struct {
	name    string
	sum     float64
	samples int
}

func NewMeanDisplacement() *MeanDisplacement {
	return &MeanDisplacement{
		name: "mean_displacement",
	}
}

func (m *MeanDisplacement) Name() string {
	return m.name
}

func (m *MeanDisplacement) Observe(cells []grid.Cell) {
	if len(cells) == 0 {
		return
	}
	total := 0.0
	for _, c := range cells {
		total += c.Offset.Norm()
	}
	m.sum += total / float64(len(cells))
	m.samples++
}

func (m *MeanDisplacement) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *MeanDisplacement) Reset() {
	m.sum = 0
	m.samples = 0
}
