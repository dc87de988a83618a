// Package analysis summarises and plots recorded runs.
//
//   - [Summarize]: mean, spread and range of a per-tick series
//   - [SeverityCorrelation]: how strongly disorder tracks row depth
//   - [SaveProfilePlot]: mean displacement and rotation per row
//   - [SaveActivityPlot]: fraction of moving cells over time
//   - [WriteReport]: interactive HTML page with both series
//
// Plots are written with gonum/plot; the output format follows the file
// extension (.png, .svg, .pdf).
//
// # Checking the gradient
//
// Disorder should grow down the grid:
//
//	r := analysis.SeverityCorrelation(result.Profile)
//	if r < 0.9 {
//	    // rows are not ordered by severity
//	}
package analysis
