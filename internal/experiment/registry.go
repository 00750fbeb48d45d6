package experiment

import (
	"fmt"

	"github.com/san-kum/fieldtrace/internal/exprfield"
	"github.com/san-kum/fieldtrace/internal/field"
	"github.com/san-kum/fieldtrace/internal/fields"
	"github.com/san-kum/fieldtrace/internal/integrators"
)

const exprCacheSize = 64

// Registry resolves field and integrator names used by jobs.
type Registry struct {
	fields      *fields.Registry
	integrators *integrators.Registry
	exprs       *exprfield.Cache
}

func NewRegistry() *Registry {
	return &Registry{
		fields:      fields.NewRegistry(),
		integrators: integrators.NewRegistry(),
		exprs:       exprfield.NewCache(exprCacheSize),
	}
}

// GetField returns a library field with params applied, or compiles expr
// when name is empty.
func (r *Registry) GetField(name string, expr []string, params map[string]float64) (field.Field, error) {
	if len(expr) > 0 {
		if len(params) > 0 {
			return nil, fmt.Errorf("expression fields take no parameters")
		}
		f, err := r.exprs.Compile(expr)
		if err != nil {
			return nil, err
		}
		return f, nil
	}
	f, err := r.fields.GetWithParams(name, params)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (r *Registry) GetIntegrator(name string) (integrators.Stepper, error) {
	return r.integrators.Get(name)
}

func (r *Registry) ListFields() []string { return r.fields.List() }

func (r *Registry) ListIntegrators() []string { return r.integrators.List() }
