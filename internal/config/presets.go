package config

import "sort"

var Presets = map[string]*Config{
	"default": DefaultConfig(),
	"lossless": {
		LosslessRing: true,
	},
	"highloss": {
		Resistance: 1.0,
	},
	"twin": {
		// Two excited cells on opposite sides of the ring.
		InitialCells: []int{0, 8},
	},
	"tight": {
		// Small Cc couples neighbours strongly, spreading energy fast.
		Coupling: 1e-7,
	},
	"slowswap": {
		// Large Cc couples weakly, keeping energy near the excited cell.
		Coupling: 1e-5,
		Duration: 0.2,
	},
}

func GetPreset(name string) *Config {
	return Presets[name]
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
