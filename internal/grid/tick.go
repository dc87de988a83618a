package grid

import "math"

// Tick advances every cell one step.
//
// A cell whose countdown has expired draws, in order: a motion roll, then
// either a dormant duration, or a target offset (x, y), target rotation and
// duration. Velocities are set so the cell lands exactly on the target after
// that many ticks. Any other cell just applies its velocities.
func Tick(cells []Cell, cfg Config, rng Source) {
	for i := range cells {
		c := &cells[i]
		if c.Remaining > 0 {
			c.Offset = c.Offset.Add(c.Velocity)
			c.Rotation += c.Spin
			c.Remaining--
			continue
		}

		if rng.Float64() > cfg.Motion {
			c.Velocity = Vec{}
			c.Spin = 0
			c.Remaining = cycles(cfg, rng)
			continue
		}

		sev := Severity(c.Row, cfg.Rows)
		disp := sev * cfg.Displacement
		rot := sev * cfg.Rotation
		target := Vec{
			X: disp * uniform(rng, -0.5, 0.5),
			Y: disp * uniform(rng, -0.5, 0.5),
		}
		turn := rot * uniform(rng, -math.Pi/4, math.Pi/4)
		d := cycles(cfg, rng)

		n := float64(d)
		c.Velocity = target.Sub(c.Offset).Scale(1 / n)
		c.Spin = (turn - c.Rotation) / n
		c.Remaining = d
	}
}

// Severity maps a row to [0, 1): zero on the top row, growing linearly
// toward the bottom. A grid with no rows has zero severity everywhere.
func Severity(row, rows int) float64 {
	if rows <= 0 || row <= 0 {
		return 0
	}
	return float64(row) / float64(rows)
}

func uniform(rng Source, lo, hi float64) float64 {
	return lo + (hi-lo)*rng.Float64()
}

// cycles draws a duration from [MinCycles, MaxCycles). The result is never
// below one tick.
func cycles(cfg Config, rng Source) int {
	lo, hi := cfg.MinCycles, cfg.MaxCycles
	if lo < 1 {
		lo = 1
	}
	if hi <= lo {
		return lo
	}
	return lo + rng.Intn(hi-lo)
}
