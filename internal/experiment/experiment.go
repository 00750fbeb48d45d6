package experiment

import (
	"context"
	"errors"
	"fmt"

	"github.com/san-kum/fieldtrace/internal/bounds"
	"github.com/san-kum/fieldtrace/internal/config"
	"github.com/san-kum/fieldtrace/internal/field"
	"github.com/san-kum/fieldtrace/internal/fields"
	"github.com/san-kum/fieldtrace/internal/metrics"
	"github.com/san-kum/fieldtrace/internal/storage"
	"github.com/san-kum/fieldtrace/internal/trace"
)

var ErrNotSetup = errors.New("experiment: not set up")

// Experiment is one configured trace job.
type Experiment struct {
	cfg      *config.Config
	registry *Registry
	opts     []trace.Option

	engine *trace.Engine
	field  field.Field
	seed   field.Position
	spec   bounds.Spec
	dir    trace.Direction
}

// Outcome is a finished job with its summary metrics.
type Outcome struct {
	Config  *config.Config
	Seed    field.Position
	Bounds  bounds.Spec
	Result  *trace.Result
	Metrics map[string]float64
}

func New(cfg *config.Config, registry *Registry, opts ...trace.Option) *Experiment {
	if registry == nil {
		registry = NewRegistry()
	}
	return &Experiment{cfg: cfg, registry: registry, opts: opts}
}

// Setup validates the job and resolves its field, integrator, seed and
// bounds. A job without a seed uses the library field's default seed.
func (e *Experiment) Setup() error {
	cfg := e.cfg
	if err := cfg.Validate(); err != nil {
		return err
	}

	f, err := e.registry.GetField(cfg.Field, cfg.Expr, cfg.Params)
	if err != nil {
		return err
	}
	stepper, err := e.registry.GetIntegrator(cfg.Method)
	if err != nil {
		return err
	}

	seed := cfg.SeedPosition()
	if seed == nil {
		named, ok := f.(fields.Named)
		if !ok {
			return fmt.Errorf("%w: expression jobs need a seed", config.ErrInvalid)
		}
		seed = named.DefaultSeed()
	}

	spec, err := cfg.BoundsSpec()
	if err != nil {
		return err
	}
	dir, err := cfg.TraceDirection()
	if err != nil {
		return err
	}

	e.engine = trace.New(stepper, e.opts...)
	e.field = f
	e.seed = seed
	e.spec = spec
	e.dir = dir
	return nil
}

func (e *Experiment) Field() field.Field { return e.field }

func (e *Experiment) Seed() field.Position { return e.seed.Clone() }

// Run traces the job from its seed.
func (e *Experiment) Run(ctx context.Context) (*Outcome, error) {
	if e.engine == nil {
		return nil, ErrNotSetup
	}
	res, err := e.engine.Trace(ctx, e.seed, e.cfg.Dt, e.field, e.cfg.Steps, e.spec, e.dir)
	if err != nil && res == nil {
		return nil, err
	}
	return &Outcome{
		Config:  e.cfg,
		Seed:    e.seed.Clone(),
		Bounds:  e.spec,
		Result:  res,
		Metrics: metrics.Summarize(res),
	}, err
}

// RunSeeds traces the job from each seed in parallel, keeping seed order.
func (e *Experiment) RunSeeds(ctx context.Context, seeds []field.Position) ([]*trace.Result, error) {
	if e.engine == nil {
		return nil, ErrNotSetup
	}
	return e.engine.TraceMany(ctx, seeds, e.cfg.Dt, e.field, e.cfg.Steps, e.spec, e.dir)
}

// Record converts the outcome into a storable run.
func (o *Outcome) Record() storage.Run {
	return storage.Run{
		Field:   o.Config.Field,
		Expr:    o.Config.Expr,
		Params:  o.Config.Params,
		Seed:    o.Seed,
		Bounds:  o.Bounds.String(),
		Result:  o.Result,
		Metrics: o.Metrics,
	}
}
