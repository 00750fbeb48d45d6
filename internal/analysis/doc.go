// Package analysis provides accuracy and shape analysis for traced lines.
//
//   - [Convergence] and [Order]: end-point error against an exact line over
//     a sequence of step sizes, and the observed order of accuracy
//   - [Separation]: growth rate of the gap between two nearby lines
//   - [PowerSpectrum] and [DominantPeriod]: periodicity of a coordinate
//     along a line
//   - [NewProjection]: 2D projection of a result for terminal plots
//
// # Accuracy
//
// Against the unit rotation field, whose lines are circles, Euler shows
// first-order and RK4 fourth-order convergence:
//
//	exact := func(s float64) field.Position { return field.Position{math.Cos(s), math.Sin(s)} }
//	errs, _ := analysis.Convergence(ctx, integrators.NewRK4(), rotation, field.Position{1, 0}, exact, 1, dts)
//	p := analysis.Order(errs, dts) // about 4
package analysis
