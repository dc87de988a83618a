// Package grid animates a Schotter grid: rows of unit squares that drift and
// turn away from their home cells, more strongly toward the bottom rows.
//
// The package defines the cell state machine and the shared random stream:
//
//   - [Cell]: one square with a fixed home and a mutable pose
//   - [Config]: displacement, rotation and motion settings
//   - [Tick]: advances a slice of cells one step
//   - [Grid]: owns the cells, the config and a long-lived random stream
//
// # Example
//
//	g, _ := grid.New(12, 22, grid.DefaultConfig(), 42)
//	for range 600 {
//		g.Tick()
//	}
//	poses := g.Poses()
//
// # Randomness
//
// Every draw comes from one stream advanced in a fixed per-cell order. The
// stream is reseeded only through [Grid.Reseed]; reseeding it every tick
// makes cells replay identical draws and the grid settles into a repeating
// pattern.
//
// # Thread Safety
//
// Grid instances are NOT thread-safe. Drive each grid from one goroutine.
package grid
