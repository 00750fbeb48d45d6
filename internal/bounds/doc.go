// Package bounds builds the predicates that decide whether a trace may
// continue from a position.
//
// A [Spec] is one of four variants, selected once when [Build] is called:
//
//   - none: every finite position is inside
//   - callable: a caller-supplied [Predicate]
//   - box: per-axis limits, lo[i] <= x[i] <= hi[i]
//   - range: radial limits on the Euclidean norm, lo <= |x| <= hi
//
// [FromPair] defers the choice between box and range until the dimension is
// known, matching on the arity of the two limits.
//
// Every built predicate rejects positions with a NaN or infinite coordinate
// before consulting its variant.
package bounds
