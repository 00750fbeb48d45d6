package analysis

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/fieldtrace/internal/bounds"
	"github.com/san-kum/fieldtrace/internal/field"
	"github.com/san-kum/fieldtrace/internal/integrators"
	"github.com/san-kum/fieldtrace/internal/trace"
)

var ErrIncomplete = errors.New("analysis: line ended before the requested arc length")

// Exact returns the true position at arc length s from the seed.
type Exact func(s float64) field.Position

// Convergence traces f forward from x0 for about length units of arc with
// each step size and returns the end-point distance from exact. The arc
// length actually walked is a whole number of steps, and exact is
// evaluated there.
func Convergence(ctx context.Context, stepper integrators.Stepper, f field.Field, x0 field.Position, exact Exact, length float64, dts []float64) ([]float64, error) {
	eng := trace.New(stepper)
	errs := make([]float64, len(dts))
	for i, dt := range dts {
		steps := int(math.Round(length / dt))
		res, err := eng.Trace(ctx, x0, dt, f, steps+1, bounds.None(), trace.Forward)
		if err != nil {
			return nil, fmt.Errorf("dt=%g: %w", dt, err)
		}
		if !res.IsComplete() {
			return nil, fmt.Errorf("dt=%g: %w (%s)", dt, ErrIncomplete, res.Forward.Stop)
		}
		end := res.Points[steps]
		errs[i] = end.Distance(exact(float64(steps) * dt))
	}
	return errs, nil
}

// Order is the least-squares slope of log(err) against log(dt). Pairs
// with a non-positive error are skipped; NaN is returned when fewer than
// two remain.
func Order(errs, dts []float64) float64 {
	var xs, ys []float64
	for i := range errs {
		if i >= len(dts) || !(errs[i] > 0) || !(dts[i] > 0) {
			continue
		}
		xs = append(xs, math.Log(dts[i]))
		ys = append(ys, math.Log(errs[i]))
	}
	if len(xs) < 2 {
		return math.NaN()
	}

	n := float64(len(xs))
	var sx, sy, sxx, sxy float64
	for i := range xs {
		sx += xs[i]
		sy += ys[i]
		sxx += xs[i] * xs[i]
		sxy += xs[i] * ys[i]
	}
	den := n*sxx - sx*sx
	if den == 0 {
		return math.NaN()
	}
	return (n*sxy - sx*sy) / den
}
