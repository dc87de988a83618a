package control

import (
	"go.uber.org/zap"

	"github.com/san-kum/schotter/internal/config"
	"github.com/san-kum/schotter/internal/grid"
	"github.com/san-kum/schotter/internal/recorder"
	"github.com/san-kum/schotter/internal/render"
)

// Build creates a grid from cfg and wires a recorder and snapshotter that
// both render it through a raster of cfg's layout.
func Build(cfg *config.Config, log *zap.Logger) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	g, err := grid.New(cfg.Cols, cfg.Rows, cfg.Animation, cfg.ResolveSeed())
	if err != nil {
		return nil, err
	}
	capturer := render.NewGridCapturer(cfg.Layout(), g)
	rec := recorder.New(cfg.RecorderOptions(), capturer, log)
	return NewSession(g, rec, capturer, cfg.SnapshotPath(), log), nil
}
