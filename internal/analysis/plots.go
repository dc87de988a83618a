package analysis

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/san-kum/schotter/internal/metrics"
)

var (
	displacementColor = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	rotationColor     = color.RGBA{R: 214, G: 39, B: 40, A: 255}
)

// SaveProfilePlot draws mean |offset| and |rotation| against row.
func SaveProfilePlot(path string, profile []metrics.RowStat, title string) error {
	if len(profile) == 0 {
		return fmt.Errorf("analysis: empty profile")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Row"
	p.Y.Label.Text = "Mean magnitude"

	dispPts := make(plotter.XYs, 0, len(profile))
	rotPts := make(plotter.XYs, 0, len(profile))
	for _, r := range profile {
		dispPts = append(dispPts, plotter.XY{X: float64(r.Row), Y: r.Displacement})
		rotPts = append(rotPts, plotter.XY{X: float64(r.Row), Y: r.Rotation})
	}

	dispLine, err := plotter.NewLine(dispPts)
	if err != nil {
		return err
	}
	dispLine.Color = displacementColor
	dispLine.Width = vg.Points(1.5)

	rotLine, err := plotter.NewLine(rotPts)
	if err != nil {
		return err
	}
	rotLine.Color = rotationColor
	rotLine.Width = vg.Points(1.5)

	p.Add(dispLine, rotLine, plotter.NewGrid())
	p.Legend.Add("displacement (cells)", dispLine)
	p.Legend.Add("rotation (rad)", rotLine)
	p.Legend.Top = true
	p.Legend.Left = true
	p.Legend.XOffs = 10
	p.Legend.YOffs = -10

	return p.Save(8*vg.Inch, 5*vg.Inch, path)
}

// SaveActivityPlot draws the fraction of moving cells per tick.
func SaveActivityPlot(path string, activity []float64, title string) error {
	if len(activity) == 0 {
		return fmt.Errorf("analysis: empty activity series")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Tick"
	p.Y.Label.Text = "Moving cells"
	p.Y.Min = 0
	p.Y.Max = 1

	pts := make(plotter.XYs, len(activity))
	for i, a := range activity {
		pts[i] = plotter.XY{X: float64(i), Y: a}
	}

	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	line.Color = displacementColor
	line.Width = vg.Points(1)

	p.Add(line, plotter.NewGrid())

	return p.Save(14*vg.Inch, 6*vg.Inch, path)
}
