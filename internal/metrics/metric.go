// Package metrics observes a grid tick by tick and reduces it to numbers
// for the live panel, saved runs and plots.
package metrics

import "github.com/san-kum/schotter/internal/grid"

type Metric interface {
	Name() string
	Observe(cells []grid.Cell)
	Value() float64
	Reset()
}

// Standard returns the metrics recorded for every run.
func Standard(rows int) []Metric {
	return []Metric{NewActiveCells(), NewMeanDisplacement(), NewRowProfile(rows)}
}
