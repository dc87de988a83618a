package analysis

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/schotter/internal/metrics"
)

type Summary struct {
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
}

func Summarize(series []float64) Summary {
	if len(series) == 0 {
		return Summary{}
	}
	mean, std := stat.MeanStdDev(series, nil)
	if len(series) == 1 {
		std = 0
	}
	return Summary{
		Mean:   mean,
		StdDev: std,
		Min:    floats.Min(series),
		Max:    floats.Max(series),
	}
}

// SeverityCorrelation is the Pearson correlation between row index and mean
// displacement. It is 0 when there are fewer than two rows or no variation.
func SeverityCorrelation(profile []metrics.RowStat) float64 {
	if len(profile) < 2 {
		return 0
	}
	rows := make([]float64, len(profile))
	disp := make([]float64, len(profile))
	for i, p := range profile {
		rows[i] = float64(p.Row)
		disp[i] = p.Displacement
	}
	r := stat.Correlation(rows, disp, nil)
	if math.IsNaN(r) {
		return 0
	}
	return r
}
