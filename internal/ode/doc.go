// Package ode provides the core primitives for numerical integration of
// ordinary differential equations:
//
//   - [State]: vector representing system state
//   - [System]: interface for ODE systems (dX/dt = f(X, t))
//   - [Integrator] / [AdaptiveIntegrator]: stepper interfaces
//
// Concrete steppers live in internal/integrators; the sampling driver that
// produces trajectories lives in internal/sim.
package ode
