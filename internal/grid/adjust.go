package grid

import (
	"math"
	"strconv"
	"strings"
)

// AdjustDisplacement adds delta to the displacement scale, flooring at zero.
func (c *Config) AdjustDisplacement(delta float64) {
	c.Displacement = floor(c.Displacement + delta)
}

// AdjustRotation adds delta to the rotation scale, flooring at zero.
func (c *Config) AdjustRotation(delta float64) {
	c.Rotation = floor(c.Rotation + delta)
}

// AdjustMotion adds delta to the motion probability, clamped to [0, 1].
func (c *Config) AdjustMotion(delta float64) {
	c.SetMotion(c.Motion + delta)
}

func (c *Config) SetMotion(p float64) {
	c.Motion = math.Min(1, floor(p))
}

// Clamp pulls every setting back into its valid range.
func (c *Config) Clamp() {
	c.Displacement = floor(c.Displacement)
	c.Rotation = floor(c.Rotation)
	c.SetMotion(c.Motion)
}

// ParseValue reads a numeric text entry. Malformed input yields 0.
func ParseValue(text string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// ParseSeed reads a seed text entry. Malformed input yields 0.
func ParseSeed(text string) int64 {
	v, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// floor clamps at zero and squashes tiny negatives left by repeated 0.1 steps.
func floor(v float64) float64 {
	if v < 1e-9 || math.IsNaN(v) {
		return 0
	}
	return v
}
