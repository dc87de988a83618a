package config

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/schotter/internal/grid"
	"github.com/san-kum/schotter/internal/recorder"
	"github.com/san-kum/schotter/internal/render"
)

const (
	DefaultFPS      = 60
	DefaultTicks    = 600
	DefaultTheme    = "paper"
	DefaultLogLevel = "info"
	// MaxSeed bounds seeds picked at random, matching the range users type in.
	MaxSeed = 1000000
)

type Config struct {
	Cols      int              `yaml:"cols"`
	Rows      int              `yaml:"rows"`
	Seed      int64            `yaml:"seed"`
	FPS       int              `yaml:"fps"`
	Ticks     int              `yaml:"ticks"`
	Theme     string           `yaml:"theme"`
	Snapshot  string           `yaml:"snapshot"`
	LogLevel  string           `yaml:"log_level"`
	Animation grid.Config      `yaml:"animation"`
	Render    render.Layout    `yaml:"render"`
	Recorder  recorder.Options `yaml:"recorder"`
}

func DefaultConfig() *Config {
	return &Config{
		Cols:      grid.DefaultCols,
		Rows:      grid.DefaultRows,
		FPS:       DefaultFPS,
		Ticks:     DefaultTicks,
		Theme:     DefaultTheme,
		LogLevel:  DefaultLogLevel,
		Animation: grid.DefaultConfig(),
		Render:    render.DefaultLayout(grid.DefaultCols, grid.DefaultRows),
		Recorder:  recorder.DefaultOptions(""),
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the values that cannot be clamped into range.
func (c *Config) Validate() error {
	if c.Cols <= 0 || c.Rows <= 0 {
		return fmt.Errorf("config: grid must be at least 1x1, got %dx%d", c.Cols, c.Rows)
	}
	if c.FPS <= 0 {
		return fmt.Errorf("config: fps must be positive, got %d", c.FPS)
	}
	if c.Render.CellSize <= 0 {
		return fmt.Errorf("config: cell size must be positive, got %d", c.Render.CellSize)
	}
	if ext := c.Recorder.Ext; ext != "" && !render.SupportedFormat(ext) {
		return fmt.Errorf("config: unsupported frame format %q (want png, jpg or svg)", ext)
	}
	if d := c.Recorder.Digits; d < 0 || d > recorder.MaxDigits {
		return fmt.Errorf("config: frame digits must be within 0..%d (0 picks the default), got %d", recorder.MaxDigits, d)
	}
	return c.Animation.Validate()
}

// Layout returns the render layout sized to the grid.
func (c *Config) Layout() render.Layout {
	l := c.Render
	l.Cols, l.Rows = c.Cols, c.Rows
	return l
}

// RecorderOptions fills in the frames directory when none is configured.
func (c *Config) RecorderOptions() recorder.Options {
	opts := c.Recorder
	if opts.Dir == "" {
		opts.Dir = DefaultFramesDir()
	}
	return opts
}

// SnapshotPath is where a single-frame snapshot is written, by default
// "<executable>.png" in the working directory.
func (c *Config) SnapshotPath() string {
	if c.Snapshot != "" {
		return c.Snapshot
	}
	return exeName() + ".png"
}

// ResolveSeed replaces a zero seed with a random one so every session
// starts from a different drawing unless a seed is pinned.
func (c *Config) ResolveSeed() int64 {
	if c.Seed == 0 {
		c.Seed = RandomSeed()
	}
	return c.Seed
}

func RandomSeed() int64 {
	return rand.Int63n(MaxSeed)
}

// DefaultFramesDir is "<executable>_frames" next to the running binary.
func DefaultFramesDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "schotter_frames"
	}
	return filepath.Join(filepath.Dir(exe), exeName()+"_frames")
}

func exeName() string {
	exe, err := os.Executable()
	if err != nil {
		return "schotter"
	}
	return strings.TrimSuffix(filepath.Base(exe), filepath.Ext(exe))
}
