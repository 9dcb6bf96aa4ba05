package sim

import (
	"context"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/mohamedorhan/eemring/internal/ode"
	"github.com/mohamedorhan/eemring/internal/ring"
)

// Trajectory is the immutable result of one solve: sample times T and the
// charge/current matrices Q[t][k], I[t][k], row t = sample, column k = cell.
type Trajectory struct {
	T []float64
	Q [][]float64
	I [][]float64

	// Steps is the number of solver advances: grid-clamped adaptive
	// steps, or fixed substeps. An adaptive advance may hide further
	// internal retries, so this is a lower bound on the integrator's
	// derivative evaluations, not an exact count.
	Steps int
	// EnergyDrift is |E(t_final)-E(0)|/|E(0)|. For a lossless ring this
	// is pure integration error; with R>0 it includes the resistive loss.
	EnergyDrift float64
}

// Solver integrates a ring configuration over its sample grid.
type Solver struct {
	integ    ode.Integrator
	substeps int
}

// New returns a Solver using the given stepper. When the stepper
// implements ode.AdaptiveIntegrator the solve is tolerance-controlled;
// otherwise each sample interval is subdivided into fixed substeps.
func New(integ ode.Integrator) *Solver {
	return &Solver{integ: integ, substeps: 8}
}

// Run validates the configuration, integrates from t=0 to t=TFinal and
// samples the state at Samples equally spaced points, both endpoints
// included. On any failure no trajectory is returned.
func (s *Solver) Run(ctx context.Context, cfg ring.Config) (*Trajectory, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	r := ring.New(cfg)
	x := r.InitialState()

	grid := make([]float64, cfg.Samples)
	floats.Span(grid, 0, cfg.TFinal)

	traj := &Trajectory{
		T: grid,
		Q: make([][]float64, cfg.Samples),
		I: make([][]float64, cfg.Samples),
	}
	traj.record(0, x, cfg.N)

	initialEnergy := r.Energy(x)

	adaptive, isAdaptive := s.integ.(ode.AdaptiveIntegrator)

	t := 0.0
	dt := grid[1] - grid[0]

	for j := 1; j < cfg.Samples; j++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		target := grid[j]

		if isAdaptive {
			// Clamp each step to land exactly on the sample boundary;
			// the epsilon guard avoids a vanishing final sliver step.
			for target-t > 1e-12*cfg.TFinal {
				step := math.Min(dt, target-t)
				newX, dtNext, err := adaptive.StepAdaptive(r, x, t, step, cfg.RTol, cfg.ATol)
				if err != nil {
					return nil, &ode.SolveError{Step: traj.Steps, Time: t, Wrapped: err}
				}
				x = newX
				t += step
				dt = dtNext
				traj.Steps++
			}
			t = target
		} else {
			sub := (target - t) / float64(s.substeps)
			for i := 0; i < s.substeps; i++ {
				x = s.integ.Step(r, x, t, sub)
				t += sub
				traj.Steps++
			}
			t = target
		}

		if !x.IsValid() {
			return nil, &ode.SolveError{Step: traj.Steps, Time: t, Wrapped: ode.ErrInvalidState}
		}

		traj.record(j, x, cfg.N)
	}

	if initialEnergy != 0 {
		traj.EnergyDrift = math.Abs(r.Energy(x)-initialEnergy) / math.Abs(initialEnergy)
	}

	return traj, nil
}

func (tr *Trajectory) record(row int, x ode.State, n int) {
	q := make([]float64, n)
	i := make([]float64, n)
	copy(q, x[:n])
	copy(i, x[n:])
	tr.Q[row] = q
	tr.I[row] = i
}
