package integrators

import "github.com/san-kum/fieldtrace/internal/field"

// Euler is the explicit first-order step. It only follows curved fields
// well when dt is small relative to their radius of curvature.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Name() string { return "euler" }

func (e *Euler) Step(fv field.UnitFunc, x field.Position, dt, direction float64) field.Position {
	v := fv(x)
	result := make(field.Position, len(x))
	for i := range x {
		result[i] = x[i] + dt*direction*v[i]
	}
	return result
}
