package batch

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/san-kum/fieldtrace/internal/config"
	"github.com/san-kum/fieldtrace/internal/optim"
)

// Search traces Job at every point of the parameter grid and returns the
// parameters that minimize Metric.
type Search struct {
	Job    *config.Config
	Axes   []optim.Axis
	Metric string
}

func (r *Runner) RunSearch(ctx context.Context, s *Search) (*optim.SearchResult, error) {
	if len(s.Job.Expr) > 0 {
		return nil, fmt.Errorf("%w: expression fields have no parameters to search", config.ErrInvalid)
	}

	withParams := func(params map[string]float64) *config.Config {
		job := s.Job.Clone()
		if job.Params == nil {
			job.Params = make(map[string]float64, len(params))
		}
		for k, v := range params {
			job.Params[k] = v
		}
		return job
	}

	// Parameter names and the metric are checked once up front, so a typo
	// is reported instead of failing every grid point.
	first := make(map[string]float64, len(s.Axes))
	for _, a := range s.Axes {
		if len(a.Values) == 0 {
			return nil, fmt.Errorf("axis %s has no values", a.Name)
		}
		first[a.Name] = a.Values[0]
	}
	if _, err := r.setup(withParams(first)); err != nil {
		return nil, err
	}

	grid := optim.NewGridSearch(s.Axes...)
	r.Logger.Info("searching",
		slog.Int("points", grid.Size()),
		slog.String("metric", s.Metric),
	)

	return grid.Search(ctx, func(ctx context.Context, params map[string]float64) (float64, error) {
		out, err := r.run(ctx, withParams(params))
		if err != nil {
			r.Logger.Debug("grid point failed", slog.Any("params", params), slog.Any("err", err))
			return 0, err
		}
		val, ok := out.Metrics[s.Metric]
		if !ok {
			return 0, fmt.Errorf("unknown metric: %s", s.Metric)
		}
		return val, nil
	})
}
