package trace

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/fieldtrace/internal/bounds"
	"github.com/san-kum/fieldtrace/internal/field"
	"github.com/san-kum/fieldtrace/internal/integrators"
	"github.com/san-kum/fieldtrace/internal/telemetry"
)

type Engine struct {
	stepper    integrators.Stepper
	logger     *slog.Logger
	observer   Observer
	concurrent bool
	telemetry  *telemetry.Collector
}

type Option func(*Engine)

// WithLogger sets the logger for branch diagnostics. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

func WithObserver(o Observer) Option {
	return func(e *Engine) { e.observer = o }
}

// WithConcurrentBranches runs the two branches of a Both trace in parallel.
func WithConcurrentBranches(on bool) Option {
	return func(e *Engine) { e.concurrent = on }
}

func WithTelemetry(c *telemetry.Collector) Option {
	return func(e *Engine) { e.telemetry = c }
}

func New(stepper integrators.Stepper, opts ...Option) *Engine {
	e := &Engine{
		stepper: stepper,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Method() string { return e.stepper.Name() }

// run carries the read-only inputs shared by the branches of one trace.
type run struct {
	seed   field.Position
	dt     float64
	fv     field.UnitFunc
	pred   bounds.Predicate
	points []field.Position
}

// Trace walks the field from x0 for up to n slots. Configuration errors are
// returned before any step is taken. If ctx ends mid-trace the partial
// result is returned together with an error wrapping ErrCanceled.
func (e *Engine) Trace(ctx context.Context, x0 field.Position, dt float64, f field.Field, n int, spec bounds.Spec, dir Direction) (*Result, error) {
	r, err := e.prepare(x0, dt, f, n, spec, dir)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	res := &Result{
		Points:    r.points,
		Direction: dir,
		Method:    e.stepper.Name(),
		Dt:        dt,
	}

	if dir == Both {
		mid := n / 2
		res.Anchor = mid
		r.points[mid] = r.seed.Clone()
		err = e.walkBoth(ctx, r, res, mid, n)
	} else {
		r.points[0] = r.seed.Clone()
		var b Branch
		b, err = e.walk(ctx, r, dir, 1, n, 1)
		if dir == Backward {
			res.Backward = b
		} else {
			res.Forward = b
		}
	}

	e.record(res, time.Since(start))

	if err != nil {
		return res, fmt.Errorf("%w: %w", ErrCanceled, err)
	}
	return res, nil
}

func (e *Engine) prepare(x0 field.Position, dt float64, f field.Field, n int, spec bounds.Spec, dir Direction) (*run, error) {
	if n < 1 {
		return nil, configErr("n", n, ErrStepCount)
	}
	if !(dt > 0) || math.IsInf(dt, 0) {
		return nil, configErr("dt", dt, ErrStepSize)
	}
	if dir != Forward && dir != Backward && dir != Both {
		return nil, configErr("direction", int(dir), ErrDirection)
	}
	if len(x0) == 0 || !x0.IsValid() {
		return nil, configErr("x0", x0, ErrSeed)
	}
	if f == nil {
		return nil, configErr("field", nil, ErrNilField)
	}
	if err := field.CheckDim(f, x0); err != nil {
		return nil, configErr("x0", x0, err)
	}

	m := len(x0)
	pred, err := bounds.Build(spec, m)
	if err != nil {
		return nil, configErr("bounds", spec, err)
	}

	points := make([]field.Position, n)
	for i := range points {
		points[i] = field.Undefined(m)
	}

	return &run{
		seed:   x0.Clone(),
		dt:     dt,
		fv:     field.Unit(f),
		pred:   pred,
		points: points,
	}, nil
}

func (e *Engine) walkBoth(ctx context.Context, r *run, res *Result, mid, n int) error {
	if !e.concurrent {
		var err error
		res.Forward, err = e.walk(ctx, r, Forward, mid+1, n, 1)
		if err != nil {
			return err
		}
		res.Backward, err = e.walk(ctx, r, Backward, mid-1, -1, -1)
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		res.Forward, err = e.walk(gctx, r, Forward, mid+1, n, 1)
		return err
	})
	g.Go(func() error {
		var err error
		res.Backward, err = e.walk(gctx, r, Backward, mid-1, -1, -1)
		return err
	})
	return g.Wait()
}

// walk fills slots from, from+inc, ... up to but excluding to, stepping
// from the seed with the sign of dir. The position that fails the predicate
// is kept in its slot and ends the branch.
func (e *Engine) walk(ctx context.Context, r *run, dir Direction, from, to, inc int) (Branch, error) {
	b := Branch{Stop: StopExhausted}
	sign := dir.Sign()
	x := r.seed

	for i := from; i != to; i += inc {
		if err := ctx.Err(); err != nil {
			b.Stop = StopCanceled
			e.logBranch(dir, b)
			return b, err
		}

		x = e.stepper.Step(r.fv, x, r.dt, sign)
		r.points[i] = x
		b.Steps++

		if e.observer != nil {
			e.observer.OnStep(dir, i, x)
		}

		if !r.pred(x) {
			if x.IsValid() {
				b.Stop = StopBounds
			} else {
				b.Stop = StopDegenerate
			}
			break
		}
	}

	e.logBranch(dir, b)
	return b, nil
}

func (e *Engine) logBranch(dir Direction, b Branch) {
	e.logger.Debug("trace: branch stopped",
		slog.String("method", e.stepper.Name()),
		slog.String("branch", dir.String()),
		slog.Int("steps", b.Steps),
		slog.String("stop", b.Stop.String()),
	)
}

func (e *Engine) record(res *Result, elapsed time.Duration) {
	if e.telemetry == nil {
		return
	}
	e.telemetry.ObserveTrace(res.Method, res.Direction.String(), elapsed)
	e.telemetry.AddSteps(res.Method, res.Steps())
	for _, b := range []Branch{res.Forward, res.Backward} {
		if b.Stop != StopNone {
			e.telemetry.ObserveStop(b.Stop.String())
		}
	}
}

// TraceMany traces one line per seed with the same parameters, in parallel.
// Results are in seed order. The first error cancels the remaining traces.
func (e *Engine) TraceMany(ctx context.Context, seeds []field.Position, dt float64, f field.Field, n int, spec bounds.Spec, dir Direction) ([]*Result, error) {
	results := make([]*Result, len(seeds))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i, seed := range seeds {
		g.Go(func() error {
			res, err := e.Trace(gctx, seed, dt, f, n, spec, dir)
			if err != nil {
				return fmt.Errorf("seed %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Euler traces with the explicit Euler step.
func Euler(ctx context.Context, x0 field.Position, dt float64, f field.Field, n int, spec bounds.Spec, dir Direction) (*Result, error) {
	return New(integrators.NewEuler()).Trace(ctx, x0, dt, f, n, spec, dir)
}

// RK4 traces with the fourth-order Runge-Kutta step.
func RK4(ctx context.Context, x0 field.Position, dt float64, f field.Field, n int, spec bounds.Spec, dir Direction) (*Result, error) {
	return New(integrators.NewRK4()).Trace(ctx, x0, dt, f, n, spec, dir)
}
