package sim

import (
	"sync"

	"github.com/san-kum/schotter/internal/grid"
)

// PosePool recycles pose buffers sized for one grid.
type PosePool struct {
	pool sync.Pool
	size int
}

func NewPosePool(size int) *PosePool {
	return &PosePool{
		size: size,
		pool: sync.Pool{
			New: func() interface{} {
				s := make([]grid.Pose, 0, size)
				return &s
			},
		},
	}
}

func (p *PosePool) Get() *[]grid.Pose {
	return p.pool.Get().(*[]grid.Pose)
}

func (p *PosePool) Put(s *[]grid.Pose) {
	if cap(*s) >= p.size {
		*s = (*s)[:0]
		p.pool.Put(s)
	}
}

// Snapshot fills a pooled buffer with the grid's current poses.
func (p *PosePool) Snapshot(g *grid.Grid) *[]grid.Pose {
	s := p.Get()
	*s = grid.AppendPoses((*s)[:0], g.Cells())
	return s
}
