package sim

import (
	"context"
	"fmt"
	"time"

	"github.com/san-kum/schotter/internal/grid"
	"github.com/san-kum/schotter/internal/metrics"
)

type Simulator struct {
	grid      *grid.Grid
	metrics   []metrics.Metric
	observers []Observer
	hooks     []Hook
}

func New(g *grid.Grid) *Simulator {
	return &Simulator{
		grid:      g,
		metrics:   make([]metrics.Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Simulator) Grid() *grid.Grid { return s.grid }

func (s *Simulator) AddMetric(m metrics.Metric) { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer)     { s.observers = append(s.observers, o) }
func (s *Simulator) BeforeTick(h Hook)          { s.hooks = append(s.hooks, h) }

// Run advances the grid cfg.Ticks times. It stops early on cancellation or
// when a hook or observer fails, returning what was collected so far.
func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if cfg.Ticks <= 0 {
		return nil, fmt.Errorf("ticks must be positive, got %d", cfg.Ticks)
	}

	start := time.Now()
	result := &Result{
		Seed:     s.grid.Seed(),
		Activity: make([]float64, 0, cfg.Ticks),
		Metrics:  make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}
	defer func() {
		for _, m := range s.metrics {
			result.Metrics[m.Name()] = m.Value()
			if p, ok := m.(*metrics.RowProfile); ok {
				result.Profile = p.Rows()
			}
		}
		result.Elapsed = time.Since(start)
	}()

	for i := 0; i < cfg.Ticks; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		for _, h := range s.hooks {
			if err := h(i, s.grid); err != nil {
				return result, fmt.Errorf("tick %d: %w", i, err)
			}
		}

		s.grid.Tick()
		cells := s.grid.Cells()
		result.Ticks++
		result.Activity = append(result.Activity, metrics.Fraction(cells))

		for _, m := range s.metrics {
			m.Observe(cells)
		}
		for _, obs := range s.observers {
			if err := obs.OnTick(i, s.grid); err != nil {
				return result, fmt.Errorf("tick %d: %w", i, err)
			}
		}
	}

	return result, nil
}
