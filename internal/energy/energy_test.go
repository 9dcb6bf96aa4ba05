package energy

import (
	"math"
	"testing"

	"github.com/mohamedorhan/eemring/internal/ring"
	"github.com/mohamedorhan/eemring/internal/sim"
)

func testConfig(n int) ring.Config {
	cfg := ring.DefaultConfig()
	cfg.N = n
	cfg.InitialCells = []int{0}
	return cfg
}

func TestCompute_Values(t *testing.T) {
	cfg := testConfig(2)
	traj := &sim.Trajectory{
		T: []float64{0, 1},
		Q: [][]float64{{4e-6, 0}, {0, 2e-6}},
		I: [][]float64{{0, 0}, {1e-3, 0}},
	}

	s := Compute(traj, cfg)

	// t=0: all energy capacitive on cell 0.
	want00 := 4e-6 * 4e-6 / (2 * cfg.C)
	if math.Abs(s.PerCell[0][0]-want00) > want00*1e-12 {
		t.Errorf("E[0][0]: got %g, want %g", s.PerCell[0][0], want00)
	}
	if s.PerCell[0][1] != 0 {
		t.Errorf("E[0][1]: got %g, want 0", s.PerCell[0][1])
	}
	if math.Abs(s.Total[0]-want00) > want00*1e-12 {
		t.Errorf("Total[0]: got %g, want %g", s.Total[0], want00)
	}

	// t=1: inductive energy on cell 0, capacitive on cell 1.
	want10 := 0.5 * cfg.L * 1e-3 * 1e-3
	want11 := 2e-6 * 2e-6 / (2 * cfg.C)
	if math.Abs(s.PerCell[1][0]-want10) > want10*1e-12 {
		t.Errorf("E[1][0]: got %g, want %g", s.PerCell[1][0], want10)
	}
	if math.Abs(s.Total[1]-(want10+want11)) > (want10+want11)*1e-12 {
		t.Errorf("Total[1]: got %g, want %g", s.Total[1], want10+want11)
	}
}

func TestCompute_PanicsOnRowCountMismatch(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on Q/I row count mismatch")
		}
	}()

	traj := &sim.Trajectory{
		T: []float64{0, 1},
		Q: [][]float64{{0, 0}, {0, 0}},
		I: [][]float64{{0, 0}},
	}
	Compute(traj, testConfig(2))
}

func TestCompute_PanicsOnCellCountMismatch(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on wrong row width")
		}
	}()

	traj := &sim.Trajectory{
		T: []float64{0},
		Q: [][]float64{{0, 0, 0}},
		I: [][]float64{{0, 0, 0}},
	}
	Compute(traj, testConfig(2))
}
