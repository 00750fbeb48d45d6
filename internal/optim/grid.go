// Package optim searches field parameter grids for the value that
// minimizes a trace metric.
package optim

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var ErrNoFeasible = errors.New("optim: no grid point could be evaluated")

// Axis is one searched parameter and the values it takes.
type Axis struct {
	Name   string
	Values []float64
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n < 1 {
		return nil
	}
	if n == 1 {
		return []float64{lo}
	}
	vals := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range vals {
		vals[i] = lo + float64(i)*step
	}
	vals[n-1] = hi
	return vals
}

// ParseAxis reads "name=lo:hi:n" or "name=v1,v2,...".
func ParseAxis(s string) (Axis, error) {
	name, spec, ok := strings.Cut(s, "=")
	if !ok || name == "" || spec == "" {
		return Axis{}, fmt.Errorf("invalid axis %q, want name=lo:hi:n or name=v1,v2", s)
	}

	if parts := strings.Split(spec, ":"); len(parts) == 3 {
		lo, err1 := strconv.ParseFloat(parts[0], 64)
		hi, err2 := strconv.ParseFloat(parts[1], 64)
		n, err3 := strconv.Atoi(parts[2])
		if err := errors.Join(err1, err2, err3); err != nil {
			return Axis{}, fmt.Errorf("invalid axis %q: %w", s, err)
		}
		if n < 1 {
			return Axis{}, fmt.Errorf("invalid axis %q: count must be at least 1", s)
		}
		return Axis{Name: name, Values: Linspace(lo, hi, n)}, nil
	}

	var vals []float64
	for _, raw := range strings.Split(spec, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return Axis{}, fmt.Errorf("invalid axis %q: %w", s, err)
		}
		vals = append(vals, v)
	}
	return Axis{Name: name, Values: vals}, nil
}

// Evaluator scores one parameter set. Lower is better.
type Evaluator func(ctx context.Context, params map[string]float64) (float64, error)

type SearchResult struct {
	Params    map[string]float64
	Value     float64
	Evaluated int
	Failed    int
}

type GridSearch struct {
	axes []Axis
}

func NewGridSearch(axes ...Axis) *GridSearch {
	return &GridSearch{axes: axes}
}

// Size is the number of grid points.
func (g *GridSearch) Size() int {
	if len(g.axes) == 0 {
		return 0
	}
	n := 1
	for _, a := range g.axes {
		n *= len(a.Values)
	}
	return n
}

// Search evaluates every grid point and keeps the lowest finite score.
// Points whose evaluation fails are counted and skipped; a canceled
// context stops the search.
func (g *GridSearch) Search(ctx context.Context, eval Evaluator) (*SearchResult, error) {
	res := &SearchResult{Value: math.Inf(1)}
	if g.Size() == 0 {
		return nil, ErrNoFeasible
	}

	if err := g.searchRecursive(ctx, 0, make(map[string]float64, len(g.axes)), eval, res); err != nil {
		return nil, err
	}
	if res.Params == nil {
		return res, ErrNoFeasible
	}
	return res, nil
}

func (g *GridSearch) searchRecursive(ctx context.Context, depth int, current map[string]float64, eval Evaluator, res *SearchResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.axes) {
		val, err := eval(ctx, current)
		if err != nil || math.IsNaN(val) {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			res.Failed++
			return nil
		}
		res.Evaluated++
		if val < res.Value {
			res.Value = val
			res.Params = make(map[string]float64, len(current))
			for k, v := range current {
				res.Params[k] = v
			}
		}
		return nil
	}

	axis := g.axes[depth]
	for _, val := range axis.Values {
		next := make(map[string]float64, len(current)+1)
		for k, v := range current {
			next[k] = v
		}
		next[axis.Name] = val

		if err := g.searchRecursive(ctx, depth+1, next, eval, res); err != nil {
			return err
		}
	}
	return nil
}
