package grid

import "math/rand"

// Grid owns a fixed set of cells and the random stream that drives them.
type Grid struct {
	cols, rows int
	cfg        Config
	cells      []Cell
	rng        *rand.Rand
	seed       int64
	ticks      int
}

// New creates a cols x rows grid with every cell at rest on its home square
// and due for a target on the first tick. cfg.Rows is set to rows.
func New(cols, rows int, cfg Config, seed int64) (*Grid, error) {
	if cols <= 0 || rows <= 0 {
		return nil, ErrEmptyGrid
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.Rows = rows
	cfg.Clamp()

	cells := make([]Cell, 0, cols*rows)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			cells = append(cells, Cell{Col: x, Row: y})
		}
	}

	return &Grid{
		cols:  cols,
		rows:  rows,
		cfg:   cfg,
		cells: cells,
		rng:   rand.New(rand.NewSource(seed)),
		seed:  seed,
	}, nil
}

func (g *Grid) Cols() int   { return g.cols }
func (g *Grid) Rows() int   { return g.rows }
func (g *Grid) Seed() int64 { return g.seed }
func (g *Grid) Ticks() int  { return g.ticks }

// Config returns the live settings. Mutate them between ticks only.
func (g *Grid) Config() *Config { return &g.cfg }

// Cells exposes the cell slice for read-only consumers.
func (g *Grid) Cells() []Cell { return g.cells }

// Tick advances the grid one step on its own stream.
func (g *Grid) Tick() {
	Tick(g.cells, g.cfg, g.rng)
	g.ticks++
}

// Reseed restarts the random stream. Cell poses are kept, so the grid moves
// on continuously from where it is.
func (g *Grid) Reseed(seed int64) {
	g.seed = seed
	g.rng = rand.New(rand.NewSource(seed))
}

// Reset puts every cell back on its home square, due for a new target.
func (g *Grid) Reset() {
	for i := range g.cells {
		c := &g.cells[i]
		*c = Cell{Col: c.Col, Row: c.Row}
	}
	g.ticks = 0
}

// Poses snapshots the render-facing state of every cell.
func (g *Grid) Poses() []Pose {
	return AppendPoses(make([]Pose, 0, len(g.cells)), g.cells)
}

// AppendPoses appends the pose of each cell to dst.
func AppendPoses(dst []Pose, cells []Cell) []Pose {
	for _, c := range cells {
		dst = append(dst, Pose{
			Col:      c.Col,
			Row:      c.Row,
			X:        c.Offset.X,
			Y:        c.Offset.Y,
			Rotation: c.Rotation,
			Moving:   c.Moving(),
		})
	}
	return dst
}

// MovingCount returns how many cells are interpolating.
func (g *Grid) MovingCount() int {
	n := 0
	for _, c := range g.cells {
		if c.Moving() {
			n++
		}
	}
	return n
}
