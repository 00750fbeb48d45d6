package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/san-kum/fieldtrace/internal/config"
	"github.com/san-kum/fieldtrace/internal/trace"
)

var ErrSweepRange = errors.New("batch: sweep needs a count of at least 1")

// Sweep traces Job once per value of Param spread evenly over [Min, Max].
type Sweep struct {
	Job   *config.Config
	Param string
	Min   float64
	Max   float64
	Count int
}

// SweepPoint summarizes the trace for one parameter value.
type SweepPoint struct {
	Value    float64
	Forward  trace.Branch
	Backward trace.Branch
	Metrics  map[string]float64
}

// Values returns the parameter values visited by the sweep. A count of one
// visits Min only.
func (s *Sweep) Values() []float64 {
	if s.Count < 1 {
		return nil
	}
	if s.Count == 1 {
		return []float64{s.Min}
	}
	step := (s.Max - s.Min) / float64(s.Count-1)
	vals := make([]float64, s.Count)
	for i := range vals {
		vals[i] = s.Min + float64(i)*step
	}
	vals[s.Count-1] = s.Max
	return vals
}

func (r *Runner) RunSweep(ctx context.Context, sweep *Sweep) ([]SweepPoint, error) {
	if sweep.Count < 1 {
		return nil, ErrSweepRange
	}
	if len(sweep.Job.Expr) > 0 {
		return nil, fmt.Errorf("%w: expression fields have no parameters to sweep", config.ErrInvalid)
	}

	vals := sweep.Values()
	points := make([]SweepPoint, 0, len(vals))
	for i, v := range vals {
		job := sweep.Job.Clone()
		if job.Params == nil {
			job.Params = make(map[string]float64, 1)
		}
		job.Params[sweep.Param] = v

		out, err := r.run(ctx, job)
		if err != nil {
			return points, fmt.Errorf("%s=%g: %w", sweep.Param, v, err)
		}
		points = append(points, SweepPoint{
			Value:    v,
			Forward:  out.Result.Forward,
			Backward: out.Result.Backward,
			Metrics:  out.Metrics,
		})

		r.Logger.Debug("sweep point",
			slog.Int("point", i+1),
			slog.Int("of", len(vals)),
			slog.String("param", sweep.Param),
			slog.Float64("value", v),
		)
	}
	return points, nil
}
