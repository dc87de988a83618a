package sim

import (
	"time"

	"github.com/san-kum/schotter/internal/grid"
	"github.com/san-kum/schotter/internal/metrics"
)

// Hook runs before tick number tick is applied.
type Hook func(tick int, g *grid.Grid) error

// Observer sees the grid after each tick.
type Observer interface {
	OnTick(tick int, g *grid.Grid) error
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(tick int, g *grid.Grid) error

func (f ObserverFunc) OnTick(tick int, g *grid.Grid) error { return f(tick, g) }

type Config struct {
	Ticks int
}

type Result struct {
	Seed     int64
	Ticks    int
	Activity []float64
	Profile  []metrics.RowStat
	Metrics  map[string]float64
	Elapsed  time.Duration
}
