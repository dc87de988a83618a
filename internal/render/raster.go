package render

import (
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/san-kum/schotter/internal/grid"
)

// Raster draws frames into an RGBA image at one pixel per point.
type Raster struct {
	layout Layout
	canvas *vgimg.Canvas
	w, h   vg.Length
}

func NewRaster(l Layout) *Raster {
	w, h := l.Size()
	c := vgimg.NewWith(
		vgimg.UseWH(vg.Length(w), vg.Length(h)),
		vgimg.UseDPI(72),
		vgimg.UseBackgroundColor(Snow),
	)
	return &Raster{layout: l, canvas: c, w: vg.Length(w), h: vg.Length(h)}
}

func (r *Raster) Layout() Layout { return r.layout }

// Image returns the most recently drawn frame.
func (r *Raster) Image() image.Image { return r.canvas.Image() }

// Draw paints the background and one outlined square per pose.
func (r *Raster) Draw(poses []grid.Pose) {
	c := r.canvas

	var bg vg.Path
	bg.Move(vg.Point{})
	bg.Line(vg.Point{X: r.w})
	bg.Line(vg.Point{X: r.w, Y: r.h})
	bg.Line(vg.Point{Y: r.h})
	bg.Close()
	c.SetColor(Snow)
	c.Fill(bg)

	half := vg.Length(r.layout.CellSize) / 2
	var square vg.Path
	square.Move(vg.Point{X: -half, Y: -half})
	square.Line(vg.Point{X: half, Y: -half})
	square.Line(vg.Point{X: half, Y: half})
	square.Line(vg.Point{X: -half, Y: half})
	square.Close()

	c.SetColor(Black)
	c.SetLineWidth(vg.Length(r.layout.Stroke()))
	for _, p := range poses {
		x, y := r.layout.Center(p)
		c.Push()
		// vg has y pointing up; flip so rows run downward and turns are clockwise.
		c.Translate(vg.Point{X: vg.Length(x), Y: r.h - vg.Length(y)})
		c.Rotate(-p.Rotation)
		c.Stroke(square)
		c.Pop()
	}
}

// Encode writes the current frame as PNG, or JPEG when format is "jpg"/"jpeg".
func (r *Raster) Encode(w io.Writer, format string) error {
	var wt io.WriterTo
	switch strings.ToLower(strings.TrimPrefix(format, ".")) {
	case "png", "":
		wt = vgimg.PngCanvas{Canvas: r.canvas}
	case "jpg", "jpeg":
		wt = vgimg.JpegCanvas{Canvas: r.canvas}
	default:
		return fmt.Errorf("render: unsupported image format %q", format)
	}
	_, err := wt.WriteTo(w)
	return err
}

// SupportedFormat reports whether GridCapturer can write files with the
// given extension (with or without the leading dot).
func SupportedFormat(ext string) bool {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "png", "jpg", "jpeg", "svg":
		return true
	}
	return false
}

// Capture writes the current frame to path, picking the format from the
// file extension.
func (r *Raster) Capture(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := r.Encode(f, filepath.Ext(path)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// GridCapturer renders a grid's current poses at capture time. Paths ending
// in .svg are written as vector images.
type GridCapturer struct {
	Raster *Raster
	Grid   *grid.Grid
	poses  []grid.Pose
}

func NewGridCapturer(l Layout, g *grid.Grid) *GridCapturer {
	return &GridCapturer{Raster: NewRaster(l), Grid: g}
}

func (g *GridCapturer) Capture(path string) error {
	g.poses = grid.AppendPoses(g.poses[:0], g.Grid.Cells())
	if strings.EqualFold(filepath.Ext(path), ".svg") {
		return SaveSVG(path, g.Raster.Layout(), g.poses)
	}
	g.Raster.Draw(g.poses)
	return g.Raster.Capture(path)
}
