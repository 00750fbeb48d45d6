package integrators

import (
	"math"
	"testing"

	"github.com/san-kum/fieldtrace/internal/field"
)

func BenchmarkEuler(b *testing.B) {
	integrator := NewEuler()
	fv := field.Unit(field.Func(rotation))
	x := field.Position{1.0, 0.0}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x = integrator.Step(fv, x, 0.01, 1)
	}
}

func BenchmarkRK4(b *testing.B) {
	integrator := NewRK4()
	fv := field.Unit(field.Func(rotation))
	x := field.Position{1.0, 0.0}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x = integrator.Step(fv, x, 0.01, 1)
	}
}

func dipole(p field.Position) field.Position {
	x, y, z := p[0], p[1], p[2]
	r2 := x*x + y*y + z*z
	r5 := r2 * r2 * math.Sqrt(r2)
	return field.Position{3 * x * z / r5, 3 * y * z / r5, (3*z*z - r2) / r5}
}

func BenchmarkRK4_Dipole(b *testing.B) {
	integrator := NewRK4()
	fv := field.Unit(field.Func(dipole))
	x := field.Position{3.0, 0.0, 0.5}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x = integrator.Step(fv, x, 0.001, 1)
	}
}

func BenchmarkRK4Classic(b *testing.B) {
	integrator := NewRK4Classic()
	fv := field.Unit(field.Func(rotation))
	x := field.Position{1.0, 0.0}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x = integrator.Step(fv, x, 0.01, 1)
	}
}
