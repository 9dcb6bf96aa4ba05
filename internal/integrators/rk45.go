package integrators

import (
	"math"

	"github.com/mohamedorhan/eemring/internal/ode"
)

// Dormand-Prince coefficients (RK45)
var (
	a2 = 1.0 / 5.0
	a3 = 3.0 / 10.0
	a4 = 4.0 / 5.0
	a5 = 8.0 / 9.0

	b21 = 1.0 / 5.0
	b31 = 3.0 / 40.0
	b32 = 9.0 / 40.0
	b41 = 44.0 / 45.0
	b42 = -56.0 / 15.0
	b43 = 32.0 / 9.0
	b51 = 19372.0 / 6561.0
	b52 = -25360.0 / 2187.0
	b53 = 64448.0 / 6561.0
	b54 = -212.0 / 729.0
	b61 = 9017.0 / 3168.0
	b62 = -355.0 / 33.0
	b63 = 46732.0 / 5247.0
	b64 = 49.0 / 176.0
	b65 = -5103.0 / 18656.0

	c1 = 35.0 / 384.0
	c3 = 500.0 / 1113.0
	c4 = 125.0 / 192.0
	c5 = -2187.0 / 6784.0
	c6 = 11.0 / 84.0

	dc1 = c1 - 5179.0/57600.0
	dc3 = c3 - 7571.0/16695.0
	dc4 = c4 - 393.0/640.0
	dc5 = c5 - -92097.0/339200.0
	dc6 = c6 - 187.0/2100.0
	dc7 = -1.0 / 40.0
)

type RK45 struct {
	safety   float64
	minScale float64
	maxScale float64
	minStep  float64
}

func NewRK45() *RK45 {
	return &RK45{
		safety:   0.9,
		minScale: 0.2,
		maxScale: 10.0,
		minStep:  1e-14,
	}
}

func (r *RK45) Step(dyn ode.System, x ode.State, t, dt float64) ode.State {
	newX, _, _ := r.StepAdaptive(dyn, x, t, dt, 1e-9, 1e-12)
	return newX
}

// StepAdaptive advances the state by exactly dt, splitting it into as
// many tolerance-controlled trial steps as needed. It returns the
// advanced state and a suggested size for the next step. If a trial step
// underflows the minimum without meeting the tolerances, it fails with
// ErrStepTooSmall.
func (r *RK45) StepAdaptive(dyn ode.System, x ode.State, t, dt, rtol, atol float64) (ode.State, float64, error) {
	remaining := dt
	h := dt

	for remaining > 0 {
		if h > remaining {
			h = remaining
		}

		xNew, errRatio := r.attempt(dyn, x, t, h, rtol, atol)

		if errRatio <= 1 {
			x = xNew
			t += h
			remaining -= h
			if errRatio > 0 {
				h *= math.Min(r.maxScale, r.safety*math.Pow(errRatio, -0.2))
			} else {
				h *= r.maxScale
			}
			continue
		}

		// A NaN estimate (state blew up to Inf during the trial) would
		// poison the scale factor and never trip the minStep check.
		if math.IsNaN(errRatio) {
			h *= r.minScale
		} else {
			h *= math.Max(r.minScale, r.safety*math.Pow(errRatio, -0.25))
		}
		if h < r.minStep {
			return nil, 0, ode.ErrStepTooSmall
		}
	}

	return x, h, nil
}

// attempt performs a single Dormand-Prince trial step of size dt and
// returns the candidate state with the error estimate normalized so that
// values <= 1 are within tolerance. The scale mixes absolute and relative
// magnitudes so near-zero components do not dominate.
func (r *RK45) attempt(dyn ode.System, x ode.State, t, dt, rtol, atol float64) (ode.State, float64) {
	n := len(x)

	k1 := dyn.Derive(x, t)

	x2 := make(ode.State, n)
	for i := 0; i < n; i++ {
		x2[i] = x[i] + dt*b21*k1[i]
	}
	k2 := dyn.Derive(x2, t+a2*dt)

	x3 := make(ode.State, n)
	for i := 0; i < n; i++ {
		x3[i] = x[i] + dt*(b31*k1[i]+b32*k2[i])
	}
	k3 := dyn.Derive(x3, t+a3*dt)

	x4 := make(ode.State, n)
	for i := 0; i < n; i++ {
		x4[i] = x[i] + dt*(b41*k1[i]+b42*k2[i]+b43*k3[i])
	}
	k4 := dyn.Derive(x4, t+a4*dt)

	x5 := make(ode.State, n)
	for i := 0; i < n; i++ {
		x5[i] = x[i] + dt*(b51*k1[i]+b52*k2[i]+b53*k3[i]+b54*k4[i])
	}
	k5 := dyn.Derive(x5, t+a5*dt)

	x6 := make(ode.State, n)
	for i := 0; i < n; i++ {
		x6[i] = x[i] + dt*(b61*k1[i]+b62*k2[i]+b63*k3[i]+b64*k4[i]+b65*k5[i])
	}
	k6 := dyn.Derive(x6, t+dt)

	xNew := make(ode.State, n)
	for i := 0; i < n; i++ {
		xNew[i] = x[i] + dt*(c1*k1[i]+c3*k3[i]+c4*k4[i]+c5*k5[i]+c6*k6[i])
	}

	k7 := dyn.Derive(xNew, t+dt)

	errMax := 0.0
	for i := 0; i < n; i++ {
		errEst := dt * (dc1*k1[i] + dc3*k3[i] + dc4*k4[i] + dc5*k5[i] + dc6*k6[i] + dc7*k7[i])
		scale := atol + rtol*(math.Abs(x[i])+math.Abs(dt*k1[i]))
		errMax = math.Max(errMax, math.Abs(errEst)/scale)
	}

	return xNew, errMax
}
