package ring

import "github.com/mohamedorhan/eemring/internal/ode"

// Ring is the coupled RLC oscillator network.
// State layout: [q_0 .. q_{N-1}, i_0 .. i_{N-1}] where q_k is the charge
// on cell k's capacitor and i_k the current through its inductor.
// Neighbour indices wrap around the ring.
type Ring struct {
	cfg Config
}

func New(cfg Config) *Ring {
	return &Ring{cfg: cfg}
}

func (r *Ring) StateDim() int { return r.cfg.N * 2 }

// Derive evaluates the right-hand side of the ring equations:
//
//	dq_k/dt = i_k
//	L di_k/dt = -R i_k - q_k/C - (2 q_k - q_{k-1} - q_{k+1})/Cc
//
// It is pure: valid for any real-valued state, including the intermediate
// stages an adaptive stepper probes between samples.
func (r *Ring) Derive(x ode.State, _ float64) ode.State {
	n := r.cfg.N
	q := x[:n]
	i := x[n:]

	deriv := make(ode.State, 2*n)

	for k := 0; k < n; k++ {
		left := q[(k-1+n)%n]
		right := q[(k+1)%n]

		coupling := (2*q[k] - left - right) / r.cfg.Cc

		deriv[k] = i[k]
		deriv[n+k] = (-r.cfg.R*i[k] - q[k]/r.cfg.C - coupling) / r.cfg.L
	}

	return deriv
}

// Energy returns the total electromagnetic energy of a state:
// capacitive q^2/2C plus inductive L i^2/2, summed over all cells.
func (r *Ring) Energy(x ode.State) float64 {
	n := r.cfg.N
	total := 0.0
	for k := 0; k < n; k++ {
		total += x[k]*x[k]/(2*r.cfg.C) + 0.5*r.cfg.L*x[n+k]*x[n+k]
	}
	return total
}

// InitialState builds the state vector at t=0: InitialCharge on each
// listed cell, zero charge elsewhere, InitialCurrent in every inductor.
func (r *Ring) InitialState() ode.State {
	n := r.cfg.N
	x := make(ode.State, 2*n)
	for _, k := range r.cfg.InitialCells {
		x[k] = r.cfg.InitialCharge
	}
	for k := 0; k < n; k++ {
		x[n+k] = r.cfg.InitialCurrent
	}
	return x
}

func (r *Ring) Config() Config { return r.cfg }
