// Package render draws a Schotter grid to raster and vector images.
//
// Coordinates follow the screen: row 0 is at the top, positive offsets point
// right and down, and positive rotations turn clockwise.
package render

import (
	"image/color"

	"github.com/san-kum/schotter/internal/grid"
)

const (
	DefaultCellSize  = 30
	DefaultMargin    = 35
	DefaultLineWidth = 0.06
)

var (
	Snow  = color.RGBA{R: 255, G: 250, B: 250, A: 255}
	Black = color.RGBA{A: 255}
)

// Layout sizes the drawing. LineWidth is a fraction of CellSize.
type Layout struct {
	Cols      int     `yaml:"-"`
	Rows      int     `yaml:"-"`
	CellSize  int     `yaml:"cell_size"`
	Margin    int     `yaml:"margin"`
	LineWidth float64 `yaml:"line_width"`
}

func DefaultLayout(cols, rows int) Layout {
	return Layout{
		Cols:      cols,
		Rows:      rows,
		CellSize:  DefaultCellSize,
		Margin:    DefaultMargin,
		LineWidth: DefaultLineWidth,
	}
}

// Size returns the image size in pixels.
func (l Layout) Size() (w, h int) {
	return l.Cols*l.CellSize + 2*l.Margin, l.Rows*l.CellSize + 2*l.Margin
}

// Center returns the pixel position of a square's centre.
func (l Layout) Center(p grid.Pose) (x, y float64) {
	s := float64(l.CellSize)
	x = float64(l.Margin) + (float64(p.Col)+0.5+p.X)*s
	y = float64(l.Margin) + (float64(p.Row)+0.5+p.Y)*s
	return x, y
}

// Stroke returns the outline width in pixels.
func (l Layout) Stroke() float64 {
	return l.LineWidth * float64(l.CellSize)
}
