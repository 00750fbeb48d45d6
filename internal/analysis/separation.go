package analysis

import (
	"math"

	"github.com/san-kum/fieldtrace/internal/field"
	"github.com/san-kum/fieldtrace/internal/integrators"
)

// Separation estimates how fast two lines whose seeds lie perturbation apart
// diverge, per unit arc length. A positive value means nearby lines
// spread apart exponentially.
//
// Algorithm:
// 1. Step both seeds along the unit field
// 2. Accumulate ln(|δ|/δ0) after each step
// 3. Pull the perturbed line back to distance δ0 along the gap
func Separation(stepper integrators.Stepper, f field.Field, x0 field.Position, dt float64, steps int, perturbation float64) float64 {
	if len(x0) == 0 || perturbation <= 0 {
		return 0
	}

	fv := field.Unit(f)
	x := x0.Clone()
	xp := x0.Clone()
	xp[0] += perturbation
	d0 := perturbation

	sumLog := 0.0
	count := 0

	for i := 0; i < steps; i++ {
		x = stepper.Step(fv, x, dt, 1)
		xp = stepper.Step(fv, xp, dt, 1)
		if !x.IsValid() || !xp.IsValid() {
			break
		}

		sep := xp.Distance(x)
		if sep == 0 {
			break
		}
		sumLog += math.Log(sep / d0)
		count++

		xp = x.AddScaled(d0/sep, xp.Sub(x))
	}

	if count == 0 {
		return 0
	}
	return sumLog / (float64(count) * dt)
}
