package ring

import (
	"errors"
	"testing"

	"github.com/mohamedorhan/eemring/internal/ode"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config should validate, got %v", err)
	}
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"single cell", func(c *Config) { c.N = 1 }},
		{"zero cells", func(c *Config) { c.N = 0 }},
		{"zero inductance", func(c *Config) { c.L = 0 }},
		{"negative inductance", func(c *Config) { c.L = -1e-3 }},
		{"zero capacitance", func(c *Config) { c.C = 0 }},
		{"zero coupling", func(c *Config) { c.Cc = 0 }},
		{"negative coupling", func(c *Config) { c.Cc = -1e-6 }},
		{"negative resistance", func(c *Config) { c.R = -0.5 }},
		{"zero duration", func(c *Config) { c.TFinal = 0 }},
		{"single sample", func(c *Config) { c.Samples = 1 }},
		{"zero rtol", func(c *Config) { c.RTol = 0 }},
		{"zero atol", func(c *Config) { c.ATol = 0 }},
		{"no initial cells", func(c *Config) { c.InitialCells = nil }},
		{"negative initial cell", func(c *Config) { c.InitialCells = []int{-1} }},
		{"initial cell out of range", func(c *Config) { c.InitialCells = []int{16} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !errors.Is(err, ode.ErrInvalidConfig) {
				t.Errorf("error should wrap ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestValidate_ZeroResistanceAllowed(t *testing.T) {
	cfg := DefaultConfig()
	cfg.R = 0
	if err := cfg.Validate(); err != nil {
		t.Errorf("R=0 (lossless) should be valid, got %v", err)
	}
}

func TestValidate_TwoCellRing(t *testing.T) {
	cfg := DefaultConfig()
	cfg.N = 2
	cfg.InitialCells = []int{1}
	if err := cfg.Validate(); err != nil {
		t.Errorf("N=2 should be valid, got %v", err)
	}
}
