// Package fields provides named analytic vector fields for tracing.
//
// Each field implements [field.Field] and exposes its parameters through
// [Configurable]:
//
//   - [Rotation]: rigid rotation about the origin
//   - [Radial]: source or sink at the origin, any dimension
//   - [Uniform]: constant planar flow
//   - [Dipole]: magnetic dipole in three dimensions
//   - [Dipole2D]: line dipole in the plane
//   - [Saddle]: hyperbolic fixed point
//   - [VanDerPol]: relaxation oscillator phase portrait
//   - [Duffing]: unforced double-well oscillator
//   - [Lorenz]: butterfly attractor
//
// # Example
//
//	f, _ := fields.NewRegistry().Get("dipole")
//	res, _ := trace.RK4(ctx, f.DefaultSeed(), 0.01, f, 2000, bounds.Range(0.1, 10), trace.Both)
package fields
