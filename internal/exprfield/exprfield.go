// Package exprfield builds vector fields from per-axis expressions.
//
// Each component is an expr-lang expression over the coordinates. The
// variables x0..x{m-1} are always bound; x, y and z alias the first three
// axes when the dimension allows. The helpers sqrt, sin, cos, tan, exp,
// log, pow, atan2 and hypot are available alongside the expr builtins.
package exprfield

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/san-kum/fieldtrace/internal/field"
)

var (
	ErrNoComponents = errors.New("exprfield: at least one component is required")
	ErrEmptySource  = errors.New("exprfield: empty component expression")
	ErrNotNumeric   = errors.New("exprfield: component did not evaluate to a number")
)

var helpers = map[string]any{
	"sqrt":  math.Sqrt,
	"sin":   math.Sin,
	"cos":   math.Cos,
	"tan":   math.Tan,
	"exp":   math.Exp,
	"log":   math.Log,
	"pow":   math.Pow,
	"atan2": math.Atan2,
	"hypot": math.Hypot,
	"pi":    math.Pi,
}

var aliases = []string{"x", "y", "z"}

// Field is a compiled expression field. It is safe for concurrent use.
type Field struct {
	sources  []string
	programs []*vm.Program
}

// Compile compiles one expression per axis. The field dimension is the
// number of components.
func Compile(components []string) (*Field, error) {
	if len(components) == 0 {
		return nil, ErrNoComponents
	}

	m := len(components)
	env := environment(make(field.Position, m))

	f := &Field{
		sources:  make([]string, m),
		programs: make([]*vm.Program, m),
	}
	for i, src := range components {
		src = strings.TrimSpace(src)
		if src == "" {
			return nil, fmt.Errorf("component %d: %w", i, ErrEmptySource)
		}
		prog, err := expr.Compile(src, expr.Env(env), expr.AsFloat64())
		if err != nil {
			return nil, fmt.Errorf("component %d (%q): %w", i, src, err)
		}
		f.sources[i] = src
		f.programs[i] = prog
	}
	return f, nil
}

func environment(p field.Position) map[string]any {
	env := make(map[string]any, len(helpers)+2*len(p))
	for k, v := range helpers {
		env[k] = v
	}
	for i, v := range p {
		env[fmt.Sprintf("x%d", i)] = v
		if i < len(aliases) {
			env[aliases[i]] = v
		}
	}
	return env
}

func (f *Field) Dim() int { return len(f.programs) }

func (f *Field) Name() string { return "expr" }

// Sources returns the trimmed component expressions.
func (f *Field) Sources() []string {
	out := make([]string, len(f.sources))
	copy(out, f.sources)
	return out
}

// At evaluates every component at p. Result types are checked at compile
// time where expr can infer them. A component that still fails at run time,
// or yields something other than a number, makes the whole vector
// Undefined: the trace branch stops as degenerate and the failure is
// logged at Debug level on slog.Default().
func (f *Field) At(p field.Position) field.Position {
	env := environment(p)
	out := make(field.Position, len(f.programs))
	for i, prog := range f.programs {
		v, err := expr.Run(prog, env)
		if err != nil {
			f.logFailure(i, p, err)
			return field.Undefined(len(f.programs))
		}
		x, ok := v.(float64)
		if !ok {
			f.logFailure(i, p, fmt.Errorf("%w: got %T", ErrNotNumeric, v))
			return field.Undefined(len(f.programs))
		}
		out[i] = x
	}
	return out
}

func (f *Field) logFailure(component int, p field.Position, err error) {
	slog.Debug("exprfield: component failed",
		slog.Int("component", component),
		slog.String("source", f.sources[component]),
		slog.Any("position", []float64(p)),
		slog.Any("err", err),
	)
}

func (f *Field) String() string {
	return "(" + strings.Join(f.sources, ", ") + ")"
}
