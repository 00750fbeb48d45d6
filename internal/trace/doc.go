// Package trace grows streamlines through a vector field.
//
// An [Engine] pairs a stepper from the integrators package with the trace
// loop: it validates the request, builds the bounds predicate once, wraps the
// field so every step has unit length, and walks outward from the seed until
// each branch either fills its slots or leaves the traceable region.
//
// # Example
//
//	eng := trace.New(integrators.NewRK4())
//	res, err := eng.Trace(ctx, field.Position{1, 0}, 0.1, rot, 100, bounds.Range(0, 10), trace.Both)
//	line := res.Defined()
//
// # Buffer layout
//
// A [Result] always holds exactly n slots. Forward and backward traces seed
// slot 0; a [Both] trace seeds slot n/2 and grows toward both ends. Slots a
// branch never reached hold [field.Undefined]. Defined slots never have gaps
// between them and the anchor.
//
// # Concurrency
//
// An Engine holds no per-trace state and may be shared. With
// [WithConcurrentBranches] the two halves of a [Both] trace run in separate
// goroutines, so an [Observer] must then be safe for concurrent use.
package trace
