package fields

import "github.com/san-kum/fieldtrace/internal/field"

// VanDerPol is the phase-space field of the Van der Pol oscillator:
//
//	dx/dt = y
//	dy/dt = μ(1 - x²)y - x
type VanDerPol struct {
	mu float64 // Nonlinearity parameter
}

func NewVanDerPol() *VanDerPol {
	return &VanDerPol{
		mu: 1.0, // Classic value for limit cycle
	}
}

func (v *VanDerPol) Name() string                { return "vanderpol" }
func (v *VanDerPol) Dim() int                    { return 2 }
func (v *VanDerPol) DefaultSeed() field.Position { return field.Position{2.0, 0.0} }

func (v *VanDerPol) At(p field.Position) field.Position {
	x, y := p[0], p[1]
	return field.Position{y, v.mu*(1-x*x)*y - x}
}

func (v *VanDerPol) GetParams() map[string]float64 {
	return map[string]float64{
		"mu": v.mu,
	}
}

func (v *VanDerPol) SetParam(name string, value float64) {
	if name == "mu" {
		v.mu = value
	}
}

// Duffing is the unforced, damped double-well oscillator in the (x, v)
// plane.
type Duffing struct {
	Alpha, Beta, Delta float64
}

func NewDuffing() *Duffing { return &Duffing{-1.0, 1.0, 0.3} }

func (d *Duffing) Name() string                { return "duffing" }
func (d *Duffing) Dim() int                    { return 2 }
func (d *Duffing) DefaultSeed() field.Position { return field.Position{1.0, 0.5} }

func (d *Duffing) At(p field.Position) field.Position {
	x, v := p[0], p[1]
	return field.Position{v, -d.Delta*v - d.Alpha*x - d.Beta*x*x*x}
}

func (d *Duffing) GetParams() map[string]float64 {
	return map[string]float64{"alpha": d.Alpha, "beta": d.Beta, "delta": d.Delta}
}

func (d *Duffing) SetParam(n string, v float64) {
	switch n {
	case "alpha":
		d.Alpha = v
	case "beta":
		d.Beta = v
	case "delta":
		d.Delta = v
	}
}

type Lorenz struct{ sigma, rho, beta float64 }

func NewLorenz() *Lorenz { return &Lorenz{10.0, 28.0, 8.0 / 3.0} }

func (l *Lorenz) Name() string                { return "lorenz" }
func (l *Lorenz) Dim() int                    { return 3 }
func (l *Lorenz) DefaultSeed() field.Position { return field.Position{1.0, 1.0, 1.0} }

// At returns the Lorenz flow direction.
func (l *Lorenz) At(s field.Position) field.Position {
	return field.Position{l.sigma * (s[1] - s[0]), s[0]*(l.rho-s[2]) - s[1], s[0]*s[1] - l.beta*s[2]}
}

func (l *Lorenz) GetParams() map[string]float64 {
	return map[string]float64{"sigma": l.sigma, "rho": l.rho, "beta": l.beta}
}
func (l *Lorenz) SetParam(n string, v float64) {
	switch n {
	case "sigma":
		l.sigma = v
	case "rho":
		l.rho = v
	case "beta":
		l.beta = v
	}
}
