package config

import (
	"sort"

	"github.com/san-kum/schotter/internal/grid"
)

type Preset struct {
	Description string
	Animation   grid.Config
}

func animation(disp, rot, motion float64) grid.Config {
	cfg := grid.DefaultConfig()
	cfg.Displacement = disp
	cfg.Rotation = rot
	cfg.Motion = motion
	return cfg
}

var Presets = map[string]Preset{
	"classic": {
		Description: "Nees' proportions, half the squares in motion",
		Animation:   animation(1.0, 1.0, 0.5),
	},
	"calm": {
		Description: "small drift, long pauses",
		Animation:   animation(0.5, 0.5, 0.2),
	},
	"restless": {
		Description: "stronger disorder, nearly always moving",
		Animation:   animation(1.5, 1.5, 0.9),
	},
	"frozen": {
		Description: "the grid holds still",
		Animation:   animation(1.0, 1.0, 0.0),
	},
	"wild": {
		Description: "squares tumble far from home",
		Animation:   animation(3.0, 3.0, 1.0),
	},
}

// GetPreset returns the default config with the named preset's animation,
// or nil if there is no such preset.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Animation = p.Animation
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
