package integrators

import (
	"fmt"
	"sort"

	"github.com/san-kum/fieldtrace/internal/field"
)

// Stepper advances a position by one step of size dt along the unit field
// fv, signed by direction (+1 along the field, -1 against it). Steppers are
// pure and never check bounds.
type Stepper interface {
	Name() string
	Step(fv field.UnitFunc, x field.Position, dt, direction float64) field.Position
}

type Registry struct {
	steppers map[string]func() Stepper
}

func NewRegistry() *Registry {
	r := &Registry{steppers: make(map[string]func() Stepper)}
	r.steppers["euler"] = func() Stepper { return NewEuler() }
	r.steppers["rk4"] = func() Stepper { return NewRK4() }
	r.steppers["rk4classic"] = func() Stepper { return NewRK4Classic() }
	return r
}

func (r *Registry) Get(name string) (Stepper, error) {
	fn, ok := r.steppers[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return fn(), nil
}

func (r *Registry) List() []string {
	names := make([]string, 0, len(r.steppers))
	for name := range r.steppers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
