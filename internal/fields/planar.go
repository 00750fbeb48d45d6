package fields

import (
	"math"

	"github.com/san-kum/fieldtrace/internal/field"
)

// Rotation is the rigid rotation (-omega*y, omega*x). Its streamlines are
// circles about the origin.
type Rotation struct{ omega float64 }

func NewRotation() *Rotation { return &Rotation{1.0} }

func (r *Rotation) Name() string                { return "rotation" }
func (r *Rotation) Dim() int                    { return 2 }
func (r *Rotation) DefaultSeed() field.Position { return field.Position{1, 0} }

func (r *Rotation) At(p field.Position) field.Position {
	return field.Position{-r.omega * p[1], r.omega * p[0]}
}

func (r *Rotation) GetParams() map[string]float64 {
	return map[string]float64{"omega": r.omega}
}

func (r *Rotation) SetParam(name string, value float64) {
	if name == "omega" {
		r.omega = value
	}
}

// Radial points away from the origin when strength is positive and toward
// it when negative. It accepts any dimension.
type Radial struct{ strength float64 }

func NewRadial() *Radial { return &Radial{1.0} }

func (r *Radial) Name() string                { return "radial" }
func (r *Radial) Dim() int                    { return 0 }
func (r *Radial) DefaultSeed() field.Position { return field.Position{0.5, 0.5} }

func (r *Radial) At(p field.Position) field.Position { return p.Scale(r.strength) }

func (r *Radial) GetParams() map[string]float64 {
	return map[string]float64{"strength": r.strength}
}

func (r *Radial) SetParam(name string, value float64) {
	if name == "strength" {
		r.strength = value
	}
}

// Uniform is a constant flow at angle radians from the x axis.
type Uniform struct{ angle float64 }

func NewUniform() *Uniform { return &Uniform{0} }

func (u *Uniform) Name() string                { return "uniform" }
func (u *Uniform) Dim() int                    { return 2 }
func (u *Uniform) DefaultSeed() field.Position { return field.Position{0, 0} }

func (u *Uniform) At(field.Position) field.Position {
	return field.Position{math.Cos(u.angle), math.Sin(u.angle)}
}

func (u *Uniform) GetParams() map[string]float64 {
	return map[string]float64{"angle": u.angle}
}

func (u *Uniform) SetParam(name string, value float64) {
	if name == "angle" {
		u.angle = value
	}
}

// Saddle is (k*x, -k*y).
type Saddle struct{ k float64 }

func NewSaddle() *Saddle { return &Saddle{1.0} }

func (s *Saddle) Name() string                { return "saddle" }
func (s *Saddle) Dim() int                    { return 2 }
func (s *Saddle) DefaultSeed() field.Position { return field.Position{0.1, 1} }

func (s *Saddle) At(p field.Position) field.Position {
	return field.Position{s.k * p[0], -s.k * p[1]}
}

func (s *Saddle) GetParams() map[string]float64 { return map[string]float64{"k": s.k} }

func (s *Saddle) SetParam(name string, value float64) {
	if name == "k" {
		s.k = value
	}
}
