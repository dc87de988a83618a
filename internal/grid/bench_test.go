package grid

import "testing"

func benchGrid(b *testing.B, cols, rows int) *Grid {
	cfg := DefaultConfig()
	cfg.Motion = 1
	g, err := New(cols, rows, cfg, 1)
	if err != nil {
		b.Fatal(err)
	}
	return g
}

func BenchmarkTick(b *testing.B) {
	g := benchGrid(b, DefaultCols, DefaultRows)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		g.Tick()
	}
}

func BenchmarkTickLarge(b *testing.B) {
	g := benchGrid(b, 120, 220)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		g.Tick()
	}
}

func BenchmarkAppendPoses(b *testing.B) {
	g := benchGrid(b, DefaultCols, DefaultRows)
	poses := make([]Pose, 0, len(g.Cells()))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		poses = AppendPoses(poses[:0], g.Cells())
	}
}
