package analysis

import (
	"fmt"
	"io"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/san-kum/schotter/internal/metrics"
)

// WriteReport renders an interactive HTML page with the activity series and,
// when given, the row profile.
func WriteReport(w io.Writer, title string, activity []float64, profile []metrics.RowStat) error {
	if len(activity) == 0 {
		return fmt.Errorf("analysis: empty activity series")
	}

	ticks := make([]int, len(activity))
	moving := make([]opts.LineData, len(activity))
	for i, v := range activity {
		ticks[i] = i
		moving[i] = opts.LineData{Value: v}
	}

	sum := Summarize(activity)
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "900px", Height: "400px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Moving cells",
			Subtitle: fmt.Sprintf("mean %.3f  sd %.3f  min %.3f  max %.3f", sum.Mean, sum.StdDev, sum.Min, sum.Max),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Tick", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Fraction", Min: 0, Max: 1}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider"}),
	)
	line.SetXAxis(ticks).AddSeries("moving", moving)

	page := components.NewPage()
	page.PageTitle = title
	page.AddCharts(line)

	if len(profile) > 0 {
		rows := make([]int, len(profile))
		disp := make([]opts.BarData, len(profile))
		rot := make([]opts.BarData, len(profile))
		for i, r := range profile {
			rows[i] = r.Row
			disp[i] = opts.BarData{Value: r.Displacement}
			rot[i] = opts.BarData{Value: r.Rotation}
		}

		bar := charts.NewBar()
		bar.SetGlobalOptions(
			charts.WithInitializationOpts(opts.Initialization{Width: "900px", Height: "400px"}),
			charts.WithTitleOpts(opts.Title{
				Title:    "Disorder by row",
				Subtitle: fmt.Sprintf("severity correlation %.3f", SeverityCorrelation(profile)),
			}),
			charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
			charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
			charts.WithXAxisOpts(opts.XAxis{Name: "Row", NameLocation: "middle", NameGap: 25}),
		)
		bar.SetXAxis(rows).
			AddSeries("displacement", disp).
			AddSeries("rotation", rot)
		page.AddCharts(bar)
	}

	return page.Render(w)
}

// SaveReport writes WriteReport's page to path.
func SaveReport(path, title string, activity []float64, profile []metrics.RowStat) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteReport(f, title, activity, profile); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
