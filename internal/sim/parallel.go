package sim

import (
	"context"
	"sync"

	"github.com/san-kum/schotter/internal/grid"
	"github.com/san-kum/schotter/internal/metrics"
)

// Ensemble runs independent grids on consecutive seeds. Each run owns its
// grid and metrics, so nothing is shared between goroutines.
type Ensemble struct {
	cols, rows int
	cfg        grid.Config
	numRuns    int
	seedStart  int64
}

func NewEnsemble(cols, rows int, cfg grid.Config, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{cols: cols, rows: rows, cfg: cfg, numRuns: numRuns, seedStart: seedStart}
}

func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			g, err := grid.New(e.cols, e.rows, e.cfg, e.seedStart+int64(idx))
			if err != nil {
				errs[idx] = err
				return
			}
			s := New(g)
			for _, m := range metrics.Standard(e.rows) {
				s.AddMetric(m)
			}
			results[idx], errs[idx] = s.Run(ctx, cfg)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}

// MeanProfile averages the row profiles of several runs.
func MeanProfile(results []*Result) []metrics.RowStat {
	profiles := make([][]metrics.RowStat, 0, len(results))
	for _, r := range results {
		if r != nil && r.Profile != nil {
			profiles = append(profiles, r.Profile)
		}
	}
	return metrics.MergeProfiles(profiles...)
}
