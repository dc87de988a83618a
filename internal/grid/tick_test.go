package grid_test

import (
	"math"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/schotter/internal/grid"
)

// scripted replays fixed draws so targets can be computed by hand.
type scripted struct {
	floats []float64
	ints   []int
	fi, ii int
}

func (s *scripted) Float64() float64 {
	v := s.floats[s.fi%len(s.floats)]
	s.fi++
	return v
}

func (s *scripted) Intn(n int) int {
	v := s.ints[s.ii%len(s.ints)]
	s.ii++
	return v % n
}

// targets runs ticks and returns the target drawn at every expired countdown.
// Callers set Motion to 1 so every event is a move.
func targets(cells []grid.Cell, cfg grid.Config, ticks int, source func() grid.Source) []grid.Vec {
	var out []grid.Vec
	for i := 0; i < ticks; i++ {
		due := cells[0].Remaining == 0
		grid.Tick(cells, cfg, source())
		if due {
			t, _ := cells[0].Target()
			out = append(out, t)
		}
	}
	return out
}

var _ = Describe("Tick", func() {
	var cfg grid.Config

	BeforeEach(func() {
		cfg = grid.DefaultConfig()
		cfg.Rows = 4
	})

	Context("when a cell draws a new target", func() {
		It("lands exactly on the target after the drawn duration", func() {
			cfg.Displacement = 2
			rng := &scripted{floats: []float64{0.1, 0.9, 0.2, 0.75}, ints: []int{70}}
			cells := []grid.Cell{{Col: 0, Row: 3}}

			grid.Tick(cells, cfg, rng)
			Expect(cells[0].Remaining).To(Equal(120))
			Expect(cells[0].Offset).To(Equal(grid.Vec{}))

			for i := 0; i < 120; i++ {
				grid.Tick(cells, cfg, rng)
			}

			sev := 0.75
			Expect(cells[0].Remaining).To(Equal(0))
			Expect(cells[0].Offset.X).To(BeNumerically("~", sev*2*0.4, 1e-9))
			Expect(cells[0].Offset.Y).To(BeNumerically("~", sev*2*-0.3, 1e-9))
			Expect(cells[0].Rotation).To(BeNumerically("~", sev*math.Pi/8, 1e-9))
		})

		It("converges for every cell under a real stream", func() {
			g, err := grid.New(6, 8, grid.DefaultConfig(), 11)
			Expect(err).NotTo(HaveOccurred())
			g.Config().Motion = 1

			g.Tick()
			want := make([]grid.Vec, len(g.Cells()))
			left := make([]int, len(g.Cells()))
			for i, c := range g.Cells() {
				want[i], _ = c.Target()
				left[i] = c.Remaining
			}

			for step := 1; step <= grid.DefaultMaxCycles; step++ {
				g.Tick()
				for i, c := range g.Cells() {
					if left[i] == step {
						Expect(c.Offset.X).To(BeNumerically("~", want[i].X, 1e-9))
						Expect(c.Offset.Y).To(BeNumerically("~", want[i].Y, 1e-9))
					}
				}
			}
		})
	})

	Context("when a cell goes dormant", func() {
		It("holds its pose for the whole pause", func() {
			cfg.Motion = 0
			rng := &scripted{floats: []float64{0.5}, ints: []int{10}}
			cells := []grid.Cell{{Col: 1, Row: 2, Offset: grid.Vec{X: 0.2, Y: -0.1}, Rotation: 0.3}}

			grid.Tick(cells, cfg, rng)
			Expect(cells[0].Remaining).To(Equal(60))
			Expect(cells[0].Moving()).To(BeFalse())

			for i := 0; i < 60; i++ {
				grid.Tick(cells, cfg, rng)
			}
			Expect(cells[0].Offset).To(Equal(grid.Vec{X: 0.2, Y: -0.1}))
			Expect(cells[0].Rotation).To(Equal(0.3))
		})

		It("wakes with a long-run frequency equal to the motion probability", func() {
			cfg.Rows = 2
			cfg.Motion = 0.3
			cells := make([]grid.Cell, 20000)
			for i := range cells {
				cells[i] = grid.Cell{Col: i, Row: 1}
			}

			grid.Tick(cells, cfg, rand.New(rand.NewSource(3)))

			moving := 0
			for _, c := range cells {
				if c.Moving() {
					moving++
				}
			}
			Expect(float64(moving) / float64(len(cells))).To(BeNumerically("~", 0.3, 0.02))
		})
	})

	It("only ever moves a cell by its previous velocity", func() {
		g, err := grid.New(12, 22, grid.DefaultConfig(), 5)
		Expect(err).NotTo(HaveOccurred())

		prev := append([]grid.Cell(nil), g.Cells()...)
		for i := 0; i < 1000; i++ {
			g.Tick()
			for j, c := range g.Cells() {
				p := prev[j]
				want := p.Offset
				if p.Remaining > 0 {
					want = p.Offset.Add(p.Velocity)
				}
				Expect(c.Offset).To(Equal(want))
			}
			copy(prev, g.Cells())
		}
	})

	It("scales disruption with row depth", func() {
		cfg.Rows = 20
		cfg.Motion = 1
		mean := func(row int) float64 {
			rng := rand.New(rand.NewSource(9))
			cells := make([]grid.Cell, 5000)
			for i := range cells {
				cells[i] = grid.Cell{Row: row}
			}
			grid.Tick(cells, cfg, rng)
			sum := 0.0
			for _, c := range cells {
				t, r := c.Target()
				sum += t.Norm() + math.Abs(r)
			}
			return sum / float64(len(cells))
		}

		Expect(mean(0)).To(BeZero())
		Expect(mean(10)).To(BeNumerically(">", mean(2)))
		Expect(mean(19)).To(BeNumerically(">", mean(10)))
	})

	Describe("random stream handling", func() {
		var cells []grid.Cell

		BeforeEach(func() {
			cfg.Rows = 2
			cfg.Motion = 1
			cfg.MinCycles = 5
			cfg.MaxCycles = 20
			cells = []grid.Cell{{Row: 1}}
		})

		It("draws a fresh target at every event from a long-lived stream", func() {
			rng := rand.New(rand.NewSource(42))
			got := targets(cells, cfg, 400, func() grid.Source { return rng })

			Expect(len(got)).To(BeNumerically(">", 10))
			for i := 1; i < len(got); i++ {
				Expect(got[i].Sub(got[i-1]).Norm()).To(BeNumerically(">", 1e-9))
			}
		})

		It("degenerates when the stream is reseeded every tick", func() {
			got := targets(cells, cfg, 400, func() grid.Source {
				return rand.New(rand.NewSource(42))
			})

			Expect(len(got)).To(BeNumerically(">", 10))
			for _, t := range got[1:] {
				Expect(t.Sub(got[0]).Norm()).To(BeNumerically("<", 1e-9))
			}
			// after the first leg every later leg has nowhere to go
			Expect(cells[0].Velocity.Norm()).To(BeNumerically("<", 1e-12))
		})
	})
})
