package integrators

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/mohamedorhan/eemring/internal/ode"
)

type harmonicOscillator struct{}

func (h *harmonicOscillator) StateDim() int { return 2 }

func (h *harmonicOscillator) Derive(x ode.State, t float64) ode.State {
	return ode.State{x[1], -x[0]}
}

func (h *harmonicOscillator) Energy(x ode.State) float64 {
	return 0.5 * (x[0]*x[0] + x[1]*x[1])
}

func TestRK45_Step(t *testing.T) {
	integrator := NewRK45()
	dyn := &harmonicOscillator{}
	x := ode.State{1.0, 0.0}

	dt := 0.01
	for i := 0; i < 1000; i++ {
		x = integrator.Step(dyn, x, float64(i)*dt, dt)
	}

	if !x.IsValid() {
		t.Error("RK45 produced invalid state")
	}
}

func TestRK45_EnergyConservation(t *testing.T) {
	integrator := NewRK45()
	dyn := &harmonicOscillator{}
	x0 := ode.State{1.0, 0.0}

	initialEnergy := dyn.Energy(x0)
	x := x0.Clone()
	dt := 0.01

	for i := 0; i < 10000; i++ {
		x = integrator.Step(dyn, x, float64(i)*dt, dt)
	}

	finalEnergy := dyn.Energy(x)
	drift := math.Abs(finalEnergy-initialEnergy) / initialEnergy

	if drift > 1e-6 {
		t.Errorf("RK45 energy drift too high: %e", drift)
	}
}

func TestRK45_StepAdaptive(t *testing.T) {
	integrator := NewRK45()
	dyn := &harmonicOscillator{}
	x0 := ode.State{1.0, 0.0}

	x, newDt, err := integrator.StepAdaptive(dyn, x0, 0, 0.1, 1e-9, 1e-12)

	if err != nil {
		t.Fatalf("StepAdaptive returned error: %v", err)
	}
	if !x.IsValid() {
		t.Error("StepAdaptive produced invalid state")
	}
	if newDt <= 0 {
		t.Errorf("StepAdaptive returned invalid dt: %f", newDt)
	}

	// The advanced state covers exactly dt=0.1, whatever internal
	// retries happened: compare against the analytic solution.
	if math.Abs(x[0]-math.Cos(0.1)) > 1e-8 {
		t.Errorf("position after adaptive step: got %.10f, want %.10f", x[0], math.Cos(0.1))
	}
	if math.Abs(x[1]+math.Sin(0.1)) > 1e-8 {
		t.Errorf("velocity after adaptive step: got %.10f, want %.10f", x[1], -math.Sin(0.1))
	}
}

func TestRK45_StepTooSmall(t *testing.T) {
	integrator := NewRK45()
	integrator.minStep = 1e-3 // force underflow quickly
	dyn := &harmonicOscillator{}

	// An absurd tolerance no step of this size can satisfy.
	_, _, err := integrator.StepAdaptive(dyn, ode.State{1, 0}, 0, 1.0, 1e-300, 1e-300)
	if !errors.Is(err, ode.ErrStepTooSmall) {
		t.Fatalf("expected ErrStepTooSmall, got %v", err)
	}
}

type explosiveSystem struct{}

func (explosiveSystem) StateDim() int { return 1 }

func (explosiveSystem) Derive(x ode.State, t float64) ode.State {
	return ode.State{x[0] * 1e308}
}

func TestRK45_OverflowingSystemFails(t *testing.T) {
	integrator := NewRK45()

	// The RHS overflows to Inf on the first stage, making the embedded
	// error estimate NaN for every trial size. The stepper must keep
	// shrinking and fail, not retry forever.
	done := make(chan error, 1)
	go func() {
		_, _, err := integrator.StepAdaptive(explosiveSystem{}, ode.State{1e10}, 0, 1.0, 1e-9, 1e-12)
		done <- err
	}()

	select {
	case err := <-done:
		if !errors.Is(err, ode.ErrStepTooSmall) {
			t.Fatalf("expected ErrStepTooSmall, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("StepAdaptive did not return for an overflowing system")
	}
}

func TestRK45_VsRK4_Accuracy(t *testing.T) {
	rk4 := NewRK4()
	rk45 := NewRK45()
	dyn := &harmonicOscillator{}
	x0 := ode.State{1.0, 0.0}

	x4 := x0.Clone()
	x45 := x0.Clone()
	dt := 0.1

	for i := 0; i < 100; i++ {
		x4 = rk4.Step(dyn, x4, float64(i)*dt, dt)
		x45 = rk45.Step(dyn, x45, float64(i)*dt, dt)
	}

	e4 := dyn.Energy(x4)
	e45 := dyn.Energy(x45)

	if math.Abs(e45-0.5) > math.Abs(e4-0.5) {
		t.Errorf("adaptive RK45 should beat fixed RK4 at this step size: |Δe45|=%e |Δe4|=%e",
			math.Abs(e45-0.5), math.Abs(e4-0.5))
	}
}
