package main

import (
	"fmt"
	"math"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/fieldtrace/internal/analysis"
	"github.com/san-kum/fieldtrace/internal/field"
	"github.com/san-kum/fieldtrace/internal/fields"
	"github.com/san-kum/fieldtrace/internal/integrators"
)

var (
	arcLength  float64
	compareDts = []float64{0.1, 0.05, 0.025, 0.0125, 0.00625}
)

// exactLine returns the closed-form field line through x0 for the library
// fields that have one.
func exactLine(f fields.Named, x0 field.Position) (analysis.Exact, error) {
	switch f := f.(type) {
	case *fields.Rotation:
		if len(x0) != 2 || x0.Norm() == 0 {
			return nil, fmt.Errorf("rotation needs a non-zero 2D seed")
		}
		r := x0.Norm()
		theta0 := math.Atan2(x0[1], x0[0])
		sign := math.Copysign(1, f.GetParams()["omega"])
		return func(s float64) field.Position {
			a := theta0 + sign*s/r
			return field.Position{r * math.Cos(a), r * math.Sin(a)}
		}, nil
	case *fields.Uniform:
		a := f.GetParams()["angle"]
		return func(s float64) field.Position {
			return x0.Add(field.Position{s * math.Cos(a), s * math.Sin(a)})
		}, nil
	case *fields.Radial:
		if x0.Norm() == 0 {
			return nil, fmt.Errorf("radial needs a seed away from the origin")
		}
		dir := x0.Scale(math.Copysign(1, f.GetParams()["strength"]) / x0.Norm())
		return func(s float64) field.Position {
			return x0.AddScaled(s, dir)
		}, nil
	default:
		return nil, fmt.Errorf("no closed-form field line for %s (try rotation, uniform or radial)", f.Name())
	}
}

func compareMethods(cmd *cobra.Command, args []string) error {
	name := "rotation"
	if len(args) > 0 {
		name = args[0]
	}

	f, err := fields.NewRegistry().Get(name)
	if err != nil {
		return err
	}
	x0 := f.DefaultSeed()
	if len(seed) > 0 {
		x0 = field.Position(seed)
	}
	exact, err := exactLine(f, x0)
	if err != nil {
		return err
	}

	steppers := integrators.NewRegistry()
	methods := steppers.List()
	errs := make(map[string][]float64, len(methods))
	for _, m := range methods {
		stepper, err := steppers.Get(m)
		if err != nil {
			return err
		}
		errs[m], err = analysis.Convergence(cmd.Context(), stepper, f, x0, exact, arcLength, compareDts)
		if err != nil {
			return fmt.Errorf("%s: %w", m, err)
		}
	}

	fmt.Printf("field: %s, seed: %v, arc length: %g\n\n", name, x0, arcLength)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprint(w, "DT")
	for _, m := range methods {
		fmt.Fprintf(w, "\t%s", m)
	}
	fmt.Fprintln(w)

	for i, dt := range compareDts {
		fmt.Fprintf(w, "%g", dt)
		for _, m := range methods {
			fmt.Fprintf(w, "\t%.3e", errs[m][i])
		}
		fmt.Fprintln(w)
	}

	fmt.Fprint(w, "order")
	for _, m := range methods {
		if order := analysis.Order(errs[m], compareDts); math.IsNaN(order) {
			fmt.Fprint(w, "\texact")
		} else {
			fmt.Fprintf(w, "\t%.2f", order)
		}
	}
	fmt.Fprintln(w)
	return w.Flush()
}

func listFields(cmd *cobra.Command, args []string) error {
	registry := fields.NewRegistry()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FIELD\tDIM\tSEED\tPARAMS")
	for _, name := range registry.List() {
		f, err := registry.Get(name)
		if err != nil {
			return err
		}
		dim := "any"
		if f.Dim() > 0 {
			dim = fmt.Sprint(f.Dim())
		}
		var params map[string]float64
		if c, ok := f.(fields.Configurable); ok {
			params = c.GetParams()
		}
		fmt.Fprintf(w, "%s\t%s\t%v\t%v\n", name, dim, f.DefaultSeed(), params)
	}
	return w.Flush()
}
