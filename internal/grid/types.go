package grid

import "math"

const (
	DefaultCols         = 12
	DefaultRows         = 22
	DefaultDisplacement = 1.0
	DefaultRotation     = 1.0
	DefaultMotion       = 0.5
	DefaultMinCycles    = 50
	DefaultMaxCycles    = 300
)

// Vec is a 2D displacement in grid units.
type Vec struct {
	X, Y float64
}

func (v Vec) Add(o Vec) Vec { return Vec{v.X + o.X, v.Y + o.Y} }

func (v Vec) Sub(o Vec) Vec { return Vec{v.X - o.X, v.Y - o.Y} }

func (v Vec) Scale(f float64) Vec { return Vec{v.X * f, v.Y * f} }

func (v Vec) Norm() float64 { return math.Hypot(v.X, v.Y) }

func (v Vec) IsZero() bool { return v.X == 0 && v.Y == 0 }

// Cell is one grid square. Col and Row are fixed at creation.
type Cell struct {
	Col, Row int

	Offset   Vec
	Rotation float64

	// Per-tick deltas applied while Remaining > 0.
	Velocity Vec
	Spin     float64

	// Remaining counts ticks until the next target is drawn. Zero means the
	// cell draws a new target (or a dormant pause) on its next tick.
	Remaining int
}

// Moving reports whether the cell is interpolating toward a target.
func (c Cell) Moving() bool {
	return c.Remaining > 0 && (!c.Velocity.IsZero() || c.Spin != 0)
}

// Target returns the pose the cell reaches when Remaining hits zero.
func (c Cell) Target() (Vec, float64) {
	n := float64(c.Remaining)
	return c.Offset.Add(c.Velocity.Scale(n)), c.Rotation + c.Spin*n
}

// Config holds the settings read on every tick. Fields are mutated by
// controls between ticks, never during one.
type Config struct {
	Displacement float64 `yaml:"displacement"`
	Rotation     float64 `yaml:"rotation"`
	// Motion is the probability a cell starts moving when its countdown expires.
	Motion float64 `yaml:"motion"`
	// Rows normalises a cell's row into a severity factor.
	Rows int `yaml:"-"`
	// Durations are drawn from [MinCycles, MaxCycles).
	MinCycles int `yaml:"min_cycles"`
	MaxCycles int `yaml:"max_cycles"`
}

func DefaultConfig() Config {
	return Config{
		Displacement: DefaultDisplacement,
		Rotation:     DefaultRotation,
		Motion:       DefaultMotion,
		Rows:         DefaultRows,
		MinCycles:    DefaultMinCycles,
		MaxCycles:    DefaultMaxCycles,
	}
}

// Validate checks the cycle range. Scales and motion are clamped rather
// than rejected.
func (c Config) Validate() error {
	if c.MinCycles < 1 || c.MaxCycles <= c.MinCycles {
		return ErrCycleRange
	}
	return nil
}

// Pose is the render-facing view of a cell.
type Pose struct {
	Col, Row int
	X, Y     float64
	Rotation float64
	Moving   bool
}

// Source is the random stream consumed by Tick. *rand.Rand satisfies it.
type Source interface {
	Float64() float64
	Intn(n int) int
}
