package metrics

import "github.com/san-kum/schotter/internal/grid"

// ActiveCells is the fraction of cells interpolating, averaged over ticks.
type ActiveCells struct {
	name    string
	sum     float64
	last    float64
	samples int
}

func NewActiveCells() *ActiveCells {
	return &ActiveCells{
		name: "active_cells",
	}
}

func (a *ActiveCells) Name() string {
	return a.name
}

func (a *ActiveCells) Observe(cells []grid.Cell) {
	a.last = Fraction(cells)
	a.sum += a.last
	a.samples++
}

func (a *ActiveCells) Value() float64 {
	if a.samples == 0 {
		return 0
	}
	return a.sum / float64(a.samples)
}

// Last is the fraction seen on the most recent tick.
func (a *ActiveCells) Last() float64 {
	return a.last
}

func (a *ActiveCells) Reset() {
	a.sum = 0
	a.last = 0
	a.samples = 0
}

// Fraction returns the share of cells currently moving.
func Fraction(cells []grid.Cell) float64 {
	if len(cells) == 0 {
		return 0
	}
	n := 0
	for _, c := range cells {
		if c.Moving() {
			n++
		}
	}
	return float64(n) / float64(len(cells))
}
