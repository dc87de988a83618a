package grid

import "errors"

var (
	// ErrEmptyGrid indicates a grid with no columns or no rows.
	ErrEmptyGrid = errors.New("grid: columns and rows must be positive")

	// ErrCycleRange indicates an interpolation duration range with no valid values.
	ErrCycleRange = errors.New("grid: cycle range must satisfy 1 <= min < max")
)
