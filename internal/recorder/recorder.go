// Package recorder captures a throttled, numbered sequence of rendered frames
// for later assembly into video.
package recorder

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

const (
	DefaultPrefix     = "schotter"
	DefaultExt        = "png"
	DefaultDecimation = 2
	DefaultDigits     = 4
	// MaxDigits keeps 10^Digits within int on every platform.
	MaxDigits = 9
)

// Capturer writes the current rendered frame to path.
type Capturer interface {
	Capture(path string) error
}

// CaptureFunc adapts a function to Capturer.
type CaptureFunc func(path string) error

func (f CaptureFunc) Capture(path string) error { return f(path) }

type Options struct {
	Dir    string `yaml:"dir"`
	Prefix string `yaml:"prefix"`
	Ext    string `yaml:"ext"`
	// Decimation keeps one of every N elapsed frames.
	Decimation int `yaml:"decimation"`
	// Digits is the zero-padded width of the frame number; it also caps the
	// sequence length at 10^Digits - 1.
	Digits int `yaml:"digits"`
}

func DefaultOptions(dir string) Options {
	return Options{
		Dir:        dir,
		Prefix:     DefaultPrefix,
		Ext:        DefaultExt,
		Decimation: DefaultDecimation,
		Digits:     DefaultDigits,
	}
}

// State is the recording state visible to controls.
type State struct {
	Active bool
	Frame  int
	Dir    string
}

type Recorder struct {
	opts     Options
	maxFrame int
	capturer Capturer
	log      *zap.Logger
	state    State
}

func New(opts Options, capturer Capturer, log *zap.Logger) *Recorder {
	if opts.Prefix == "" {
		opts.Prefix = DefaultPrefix
	}
	opts.Ext = strings.TrimPrefix(opts.Ext, ".")
	if opts.Ext == "" {
		opts.Ext = DefaultExt
	}
	if opts.Decimation < 1 {
		opts.Decimation = 1
	}
	if opts.Digits < 1 {
		opts.Digits = DefaultDigits
	}
	if opts.Digits > MaxDigits {
		opts.Digits = MaxDigits
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Recorder{
		opts:     opts,
		maxFrame: int(math.Pow10(opts.Digits)) - 1,
		capturer: capturer,
		log:      log.Named("recorder"),
		state:    State{Dir: opts.Dir},
	}
}

func (r *Recorder) State() State     { return r.state }
func (r *Recorder) Active() bool     { return r.state.Active }
func (r *Recorder) MaxFrame() int    { return r.maxFrame }
func (r *Recorder) Options() Options { return r.opts }

// Start creates the output directory if needed and begins numbering at 1.
// An existing directory is reused; any other failure is returned.
func (r *Recorder) Start() error {
	if err := os.MkdirAll(r.opts.Dir, 0755); err != nil {
		r.state.Active = false
		return &Error{Op: "create directory", Path: r.opts.Dir, Err: err}
	}
	r.state = State{Active: true, Frame: 0, Dir: r.opts.Dir}
	r.log.Info("recording started", zap.String("dir", r.opts.Dir), zap.Int("decimation", r.opts.Decimation))
	return nil
}

// Stop ends recording. Frames already written stay on disk.
func (r *Recorder) Stop() {
	if !r.state.Active {
		return
	}
	r.state.Active = false
	r.log.Info("recording stopped", zap.Int("frames", r.state.Frame))
}

// Toggle starts an inactive recorder or stops an active one.
func (r *Recorder) Toggle() error {
	if r.state.Active {
		r.Stop()
		return nil
	}
	return r.Start()
}

// OnFrame is called once per rendered frame with the running frame count.
// It captures every Decimation-th frame, stops silently once the numbering
// width is exhausted, and stops with an error if a capture fails.
func (r *Recorder) OnFrame(elapsed uint64) error {
	if !r.state.Active || elapsed%uint64(r.opts.Decimation) != 0 {
		return nil
	}

	if r.state.Frame >= r.maxFrame {
		r.state.Active = false
		r.log.Info("recording reached frame limit", zap.Int("limit", r.maxFrame))
		return nil
	}
	r.state.Frame++

	path := r.FramePath(r.state.Frame)
	if err := r.capturer.Capture(path); err != nil {
		r.state.Active = false
		r.log.Error("frame capture failed", zap.String("path", path), zap.Error(err))
		return &Error{Op: "capture frame", Path: path, Err: err}
	}
	return nil
}

// FramePath returns the file name for frame n, e.g. dir/schotter0042.png.
func (r *Recorder) FramePath(n int) string {
	name := fmt.Sprintf("%s%0*d.%s", r.opts.Prefix, r.opts.Digits, n, r.opts.Ext)
	return filepath.Join(r.opts.Dir, name)
}
