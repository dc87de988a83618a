package render

import (
	"fmt"
	"io"
	"math"
	"os"

	svg "github.com/ajstarks/svgo"

	"github.com/san-kum/schotter/internal/grid"
)

// WriteSVG writes one frame as an SVG document.
func WriteSVG(w io.Writer, l Layout, poses []grid.Pose) {
	width, height := l.Size()
	size := l.CellSize

	canvas := svg.New(w)
	canvas.Start(width, height)
	canvas.Rect(0, 0, width, height, "fill:#fffafa")
	canvas.Gstyle(fmt.Sprintf("fill:none;stroke:#000000;stroke-width:%.2f", l.Stroke()))
	for _, p := range poses {
		x, y := l.Center(p)
		deg := p.Rotation * 180 / math.Pi
		canvas.Gtransform(fmt.Sprintf("translate(%.3f,%.3f) rotate(%.3f) translate(%.1f,%.1f)",
			x, y, deg, -float64(size)/2, -float64(size)/2))
		canvas.Rect(0, 0, size, size)
		canvas.Gend()
	}
	canvas.Gend()
	canvas.End()
}

// SaveSVG writes one frame to path.
func SaveSVG(path string, l Layout, poses []grid.Pose) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	WriteSVG(f, l, poses)
	return f.Close()
}
