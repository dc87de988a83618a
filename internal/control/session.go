package control

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/san-kum/schotter/internal/config"
	"github.com/san-kum/schotter/internal/grid"
	"github.com/san-kum/schotter/internal/recorder"
)

// Session ties together what commands act on. Recorder and Snapshotter may
// be nil, in which case the matching commands are no-ops.
type Session struct {
	Grid         *grid.Grid
	Recorder     *recorder.Recorder
	Snapshotter  recorder.Capturer
	SnapshotPath string
	// NewSeed picks a seed for a reseed without an explicit value.
	NewSeed func() int64

	log *zap.Logger
}

func NewSession(g *grid.Grid, rec *recorder.Recorder, snap recorder.Capturer, snapshotPath string, log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	return &Session{
		Grid:         g,
		Recorder:     rec,
		Snapshotter:  snap,
		SnapshotPath: snapshotPath,
		NewSeed:      config.RandomSeed,
		log:          log.Named("control"),
	}
}

// Apply runs one command. value is only read by the set commands and Reseed.
func (s *Session) Apply(cmd Command, value float64) error {
	cfg := s.Grid.Config()
	switch cmd {
	case DisplacementUp:
		cfg.AdjustDisplacement(DisplacementStep)
	case DisplacementDown:
		cfg.AdjustDisplacement(-DisplacementStep)
	case RotationUp:
		cfg.AdjustRotation(RotationStep)
	case RotationDown:
		cfg.AdjustRotation(-RotationStep)
	case MotionUp:
		cfg.AdjustMotion(MotionStep)
	case MotionDown:
		cfg.AdjustMotion(-MotionStep)
	case SetDisplacement:
		cfg.Displacement = value
		cfg.Clamp()
	case SetRotation:
		cfg.Rotation = value
		cfg.Clamp()
	case SetMotion:
		cfg.SetMotion(value)
	case Reseed:
		seed := int64(value)
		if seed == 0 {
			seed = s.NewSeed()
		}
		s.Grid.Reseed(seed)
		s.log.Info("reseeded", zap.Int64("seed", seed))
	case Reset:
		s.Grid.Reset()
	case ToggleRecording:
		if s.Recorder == nil {
			return nil
		}
		return s.Recorder.Toggle()
	case Snapshot:
		return s.snapshot()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCommand, string(cmd))
	}
	return nil
}

func (s *Session) snapshot() error {
	if s.Snapshotter == nil {
		return nil
	}
	if err := s.Snapshotter.Capture(s.SnapshotPath); err != nil {
		return fmt.Errorf("snapshot %s: %w", s.SnapshotPath, err)
	}
	s.log.Info("snapshot saved", zap.String("path", s.SnapshotPath))
	return nil
}

// Recording reports the recorder state, or the zero state without one.
func (s *Session) Recording() recorder.State {
	if s.Recorder == nil {
		return recorder.State{}
	}
	return s.Recorder.State()
}
