package fields

import (
	"math"

	"github.com/san-kum/fieldtrace/internal/field"
)

// Dipole is the field of a point magnetic dipole at the origin with its
// moment along +z:
//
//	B = moment * (3 (m̂·r̂) r̂ - m̂) / |r|³
//
// Field lines leave the northern hemisphere and close through the
// southern one. The field is zero at the origin.
type Dipole struct{ moment float64 }

func NewDipole() *Dipole { return &Dipole{1.0} }

func (d *Dipole) Name() string                { return "dipole" }
func (d *Dipole) Dim() int                    { return 3 }
func (d *Dipole) DefaultSeed() field.Position { return field.Position{1, 0, 0} }

func (d *Dipole) At(p field.Position) field.Position {
	r := p.Norm()
	if r == 0 {
		return field.Position{0, 0, 0}
	}
	x, y, z := p[0]/r, p[1]/r, p[2]/r
	k := d.moment / (r * r * r)
	return field.Position{
		k * 3 * z * x,
		k * 3 * z * y,
		k * (3*z*z - 1),
	}
}

func (d *Dipole) GetParams() map[string]float64 {
	return map[string]float64{"moment": d.moment}
}

func (d *Dipole) SetParam(name string, value float64) {
	if name == "moment" {
		d.moment = value
	}
}

// Dipole2D is the planar line dipole with its moment along +y:
//
//	B = moment * (2 (m̂·r̂) r̂ - m̂) / |r|²
type Dipole2D struct{ moment float64 }

func NewDipole2D() *Dipole2D { return &Dipole2D{1.0} }

func (d *Dipole2D) Name() string                { return "dipole2d" }
func (d *Dipole2D) Dim() int                    { return 2 }
func (d *Dipole2D) DefaultSeed() field.Position { return field.Position{1, 0} }

func (d *Dipole2D) At(p field.Position) field.Position {
	r := math.Hypot(p[0], p[1])
	if r == 0 {
		return field.Position{0, 0}
	}
	x, y := p[0]/r, p[1]/r
	k := d.moment / (r * r)
	return field.Position{k * 2 * y * x, k * (2*y*y - 1)}
}

func (d *Dipole2D) GetParams() map[string]float64 {
	return map[string]float64{"moment": d.moment}
}

func (d *Dipole2D) SetParam(name string, value float64) {
	if name == "moment" {
		d.moment = value
	}
}
