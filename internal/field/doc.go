// Package field provides the core primitives for streamline tracing.
//
// The package defines the types every tracer builds on:
//
//   - [Position]: a point in m-dimensional space
//   - [Field]: a vector field evaluated at a position
//   - [UnitFunc]: a field normalized to unit length by [Unit]
//
// # Undefined positions
//
// Trace buffers use a sentinel for slots a walk never reached: a Position
// whose every coordinate is NaN. Use [Undefined] to build one and
// [Position.IsUndefined] to test for it.
//
// # Degenerate fields
//
// [Unit] returns the undefined sentinel wherever the field vanishes or is
// non-finite, so a step taken from such a point is rejected by any bounds
// predicate.
package field
