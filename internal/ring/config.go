package ring

import (
	"fmt"

	"github.com/mohamedorhan/eemring/internal/ode"
)

// Default component values, SI units. They reproduce the reference
// 16-cell ring with a single excited cell.
const (
	DefaultN             = 16
	DefaultL             = 1e-3
	DefaultC             = 1e-6
	DefaultCc            = 1e-6
	DefaultR             = 1e-3
	DefaultTFinal        = 5e-2
	DefaultSamples       = 6000
	DefaultInitialCharge = 4e-6
	DefaultRTol          = 1e-9
	DefaultATol          = 1e-12
)

// Config holds the physical and numerical parameters of one ring
// simulation. It is immutable after construction: Validate checks
// invariants, nothing mutates fields afterwards.
type Config struct {
	N  int     // number of RLC cells in the ring
	L  float64 // inductance per cell [H]
	C  float64 // self-capacitance per cell [F]
	Cc float64 // coupling capacitance between neighbours [F]
	R  float64 // series resistance per cell [Ohm], 0 = lossless

	TFinal  float64 // simulation end time [s]
	Samples int     // number of output time points, endpoints included
	RTol    float64 // relative solver tolerance
	ATol    float64 // absolute solver tolerance

	InitialCells   []int   // cells that receive the initial charge
	InitialCharge  float64 // charge deposited on each listed cell [C]
	InitialCurrent float64 // initial current in every cell [A]
}

func DefaultConfig() Config {
	return Config{
		N:             DefaultN,
		L:             DefaultL,
		C:             DefaultC,
		Cc:            DefaultCc,
		R:             DefaultR,
		TFinal:        DefaultTFinal,
		Samples:       DefaultSamples,
		RTol:          DefaultRTol,
		ATol:          DefaultATol,
		InitialCells:  []int{0},
		InitialCharge: DefaultInitialCharge,
	}
}

// Validate rejects any configuration that violates the model invariants.
// All failures wrap ode.ErrInvalidConfig so callers can distinguish them
// from integration failures.
func (c Config) Validate() error {
	if c.N < 2 {
		return fmt.Errorf("%w: N must be >= 2 for a ring, got %d", ode.ErrInvalidConfig, c.N)
	}
	if c.L <= 0 {
		return fmt.Errorf("%w: inductance L must be positive, got %g", ode.ErrInvalidConfig, c.L)
	}
	if c.C <= 0 {
		return fmt.Errorf("%w: capacitance C must be positive, got %g", ode.ErrInvalidConfig, c.C)
	}
	if c.Cc <= 0 {
		return fmt.Errorf("%w: coupling capacitance Cc must be positive, got %g", ode.ErrInvalidConfig, c.Cc)
	}
	if c.R < 0 {
		return fmt.Errorf("%w: resistance R must be non-negative, got %g", ode.ErrInvalidConfig, c.R)
	}
	if c.TFinal <= 0 {
		return fmt.Errorf("%w: t_final must be positive, got %g", ode.ErrInvalidConfig, c.TFinal)
	}
	if c.Samples < 2 {
		return fmt.Errorf("%w: samples must be >= 2, got %d", ode.ErrInvalidConfig, c.Samples)
	}
	if c.RTol <= 0 || c.ATol <= 0 {
		return fmt.Errorf("%w: solver tolerances must be positive (rtol=%g, atol=%g)", ode.ErrInvalidConfig, c.RTol, c.ATol)
	}
	if len(c.InitialCells) == 0 {
		return fmt.Errorf("%w: at least one initial cell is required", ode.ErrInvalidConfig)
	}
	for _, k := range c.InitialCells {
		if k < 0 || k >= c.N {
			return fmt.Errorf("%w: initial cell index %d outside [0,%d)", ode.ErrInvalidConfig, k, c.N)
		}
	}
	return nil
}
