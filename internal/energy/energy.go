// Package energy converts charge/current trajectories into per-cell and
// total electromagnetic energy series.
package energy

import (
	"fmt"

	"github.com/mohamedorhan/eemring/internal/ring"
	"github.com/mohamedorhan/eemring/internal/sim"
)

// Series holds the derived energy data of one run: PerCell[t][k] is the
// energy stored in cell k at sample t, Total[t] the sum over all cells.
type Series struct {
	PerCell [][]float64
	Total   []float64
}

// Compute derives the energy series from a trajectory:
//
//	E[t][k] = Q[t][k]^2/(2C) + L*I[t][k]^2/2
//
// A shape mismatch between Q and I indicates a bug in the pipeline, not
// bad input, and panics.
func Compute(traj *sim.Trajectory, cfg ring.Config) *Series {
	if len(traj.Q) != len(traj.I) || len(traj.Q) != len(traj.T) {
		panic(fmt.Sprintf("energy: trajectory shape mismatch: %d times, %d charge rows, %d current rows",
			len(traj.T), len(traj.Q), len(traj.I)))
	}

	s := &Series{
		PerCell: make([][]float64, len(traj.T)),
		Total:   make([]float64, len(traj.T)),
	}

	for t := range traj.T {
		q, i := traj.Q[t], traj.I[t]
		if len(q) != cfg.N || len(i) != cfg.N {
			panic(fmt.Sprintf("energy: row %d has %d charges and %d currents for N=%d",
				t, len(q), len(i), cfg.N))
		}

		row := make([]float64, cfg.N)
		total := 0.0
		for k := 0; k < cfg.N; k++ {
			e := q[k]*q[k]/(2*cfg.C) + 0.5*cfg.L*i[k]*i[k]
			row[k] = e
			total += e
		}
		s.PerCell[t] = row
		s.Total[t] = total
	}

	return s
}
