package integrators

import "github.com/san-kum/fieldtrace/internal/field"

// RK4 is a four-stage Runge-Kutta step. The default form evaluates the last
// stage at x0 + dt*v1; the classic form uses x0 + dt*v2. Neither keeps
// scratch state, so a single instance can serve concurrent branches.
type RK4 struct {
	classic bool
}

func NewRK4() *RK4 {
	return &RK4{}
}

// NewRK4Classic returns the textbook fourth-order Runge-Kutta step.
func NewRK4Classic() *RK4 {
	return &RK4{classic: true}
}

func (r *RK4) Name() string {
	if r.classic {
		return "rk4classic"
	}
	return "rk4"
}

func (r *RK4) Step(fv field.UnitFunc, x field.Position, dt, direction float64) field.Position {
	n := len(x)
	half := 0.5 * dt

	v0 := fv(x).Scale(direction)
	v1 := fv(x.AddScaled(half, v0)).Scale(direction)
	v2 := fv(x.AddScaled(half, v1)).Scale(direction)
	last := v1
	if r.classic {
		last = v2
	}
	v3 := fv(x.AddScaled(dt, last)).Scale(direction)

	result := make(field.Position, n)
	dt6 := dt / 6.0
	for i := 0; i < n; i++ {
		result[i] = x[i] + dt6*(v0[i]+2*v1[i]+2*v2[i]+v3[i])
	}

	return result
}
