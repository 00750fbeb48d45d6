package fields

import (
	"fmt"
	"sort"

	"github.com/san-kum/fieldtrace/internal/field"
)

// Named is a field from the library.
type Named interface {
	field.Field
	Name() string
	DefaultSeed() field.Position
}

// Configurable fields expose runtime parameters.
type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64)
}

type Registry struct {
	fields map[string]func() Named
}

func NewRegistry() *Registry {
	r := &Registry{fields: make(map[string]func() Named)}
	r.fields["rotation"] = func() Named { return NewRotation() }
	r.fields["radial"] = func() Named { return NewRadial() }
	r.fields["uniform"] = func() Named { return NewUniform() }
	r.fields["dipole"] = func() Named { return NewDipole() }
	r.fields["dipole2d"] = func() Named { return NewDipole2D() }
	r.fields["saddle"] = func() Named { return NewSaddle() }
	r.fields["vanderpol"] = func() Named { return NewVanDerPol() }
	r.fields["duffing"] = func() Named { return NewDuffing() }
	r.fields["lorenz"] = func() Named { return NewLorenz() }
	return r
}

func (r *Registry) Get(name string) (Named, error) {
	fn, ok := r.fields[name]
	if !ok {
		return nil, fmt.Errorf("unknown field: %s", name)
	}
	return fn(), nil
}

// GetWithParams returns a fresh field with params applied. Unknown
// parameter names are rejected.
func (r *Registry) GetWithParams(name string, params map[string]float64) (Named, error) {
	f, err := r.Get(name)
	if err != nil {
		return nil, err
	}
	if len(params) == 0 {
		return f, nil
	}
	c, ok := f.(Configurable)
	if !ok {
		return nil, fmt.Errorf("field %s has no parameters", name)
	}
	known := c.GetParams()
	for k, v := range params {
		if _, ok := known[k]; !ok {
			return nil, fmt.Errorf("field %s: unknown parameter %q", name, k)
		}
		c.SetParam(k, v)
	}
	return f, nil
}

func (r *Registry) List() []string {
	names := make([]string, 0, len(r.fields))
	for name := range r.fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
