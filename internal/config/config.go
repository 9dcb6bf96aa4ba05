// Package config loads and saves simulation configurations as YAML and
// provides named presets.
package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mohamedorhan/eemring/internal/ring"
)

// Config is the file representation of a simulation setup. Zero values
// mean "use the default"; Ring() resolves them.
type Config struct {
	Cells          int     `yaml:"cells"`
	Inductance     float64 `yaml:"inductance"`
	Capacitance    float64 `yaml:"capacitance"`
	Coupling       float64 `yaml:"coupling"`
	Resistance     float64 `yaml:"resistance"`
	LosslessRing   bool    `yaml:"lossless"`
	Duration       float64 `yaml:"duration"`
	Samples        int     `yaml:"samples"`
	RTol           float64 `yaml:"rtol"`
	ATol           float64 `yaml:"atol"`
	InitialCells   []int   `yaml:"initial_cells"`
	InitialCharge  float64 `yaml:"initial_charge"`
	InitialCurrent float64 `yaml:"initial_current"`
	SmoothSigma    float64 `yaml:"smooth_sigma"`
}

const DefaultSmoothSigma = 1.0

func DefaultConfig() *Config {
	return &Config{
		Cells:         ring.DefaultN,
		Inductance:    ring.DefaultL,
		Capacitance:   ring.DefaultC,
		Coupling:      ring.DefaultCc,
		Resistance:    ring.DefaultR,
		Duration:      ring.DefaultTFinal,
		Samples:       ring.DefaultSamples,
		RTol:          ring.DefaultRTol,
		ATol:          ring.DefaultATol,
		InitialCells:  []int{0},
		InitialCharge: ring.DefaultInitialCharge,
		SmoothSigma:   DefaultSmoothSigma,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Ring converts the file configuration into the physical ring.Config,
// filling unset numeric fields with defaults. Validation is left to
// ring.Config.Validate so that bad values in a file surface as the same
// configuration errors as bad flags.
func (c *Config) Ring() ring.Config {
	r := ring.DefaultConfig()

	if c.Cells != 0 {
		r.N = c.Cells
	}
	if c.Inductance != 0 {
		r.L = c.Inductance
	}
	if c.Capacitance != 0 {
		r.C = c.Capacitance
	}
	if c.Coupling != 0 {
		r.Cc = c.Coupling
	}
	if c.Resistance != 0 {
		r.R = c.Resistance
	}
	if c.LosslessRing {
		r.R = 0
	}
	if c.Duration != 0 {
		r.TFinal = c.Duration
	}
	if c.Samples != 0 {
		r.Samples = c.Samples
	}
	if c.RTol != 0 {
		r.RTol = c.RTol
	}
	if c.ATol != 0 {
		r.ATol = c.ATol
	}
	if len(c.InitialCells) != 0 {
		r.InitialCells = append([]int(nil), c.InitialCells...)
	}
	if c.InitialCharge != 0 {
		r.InitialCharge = c.InitialCharge
	}
	r.InitialCurrent = c.InitialCurrent

	return r
}

// Sigma returns the Gaussian smoothing width for memory detection.
func (c *Config) Sigma() float64 {
	if c.SmoothSigma <= 0 {
		return DefaultSmoothSigma
	}
	return c.SmoothSigma
}
