package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/fieldtrace/internal/config"
	"github.com/san-kum/fieldtrace/internal/experiment"
	"github.com/san-kum/fieldtrace/internal/storage"
	"github.com/san-kum/fieldtrace/internal/trace"
)

var ErrEmptyScenario = errors.New("batch: scenario has no jobs")

// Scenario is a scripted list of trace jobs. Each job is decoded over the
// default job, like a standalone job file.
type Scenario struct {
	Name        string
	Description string
	Save        bool
	Jobs        []*config.Config
}

type scenarioFile struct {
	Name        string      `yaml:"name"`
	Description string      `yaml:"description"`
	Save        bool        `yaml:"save"`
	Jobs        []yaml.Node `yaml:"jobs"`
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var raw scenarioFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if len(raw.Jobs) == 0 {
		return nil, ErrEmptyScenario
	}

	sc := &Scenario{Name: raw.Name, Description: raw.Description, Save: raw.Save}
	for i := range raw.Jobs {
		cfg, err := config.ParseNode(&raw.Jobs[i])
		if err != nil {
			return nil, fmt.Errorf("job %d: %w", i+1, err)
		}
		if cfg.Name == "" {
			cfg.Name = fmt.Sprintf("job-%d", i+1)
		}
		sc.Jobs = append(sc.Jobs, cfg)
	}
	return sc, nil
}

// Runner executes batches. Store may be nil when nothing is saved.
type Runner struct {
	Registry *experiment.Registry
	Store    *storage.Store
	Logger   *slog.Logger
	Options  []trace.Option
}

func NewRunner(store *storage.Store, logger *slog.Logger, opts ...trace.Option) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		Registry: experiment.NewRegistry(),
		Store:    store,
		Logger:   logger,
		Options:  opts,
	}
}

// JobResult is one finished scenario job. RunID is empty when the job was
// not saved.
type JobResult struct {
	Name    string
	Outcome *experiment.Outcome
	RunID   string
}

// RunScenario runs the jobs in order and stops at the first failure,
// returning the jobs finished so far.
func (r *Runner) RunScenario(ctx context.Context, sc *Scenario) ([]JobResult, error) {
	if len(sc.Jobs) == 0 {
		return nil, ErrEmptyScenario
	}
	if sc.Save && r.Store == nil {
		return nil, errors.New("batch: scenario saves runs but no store is configured")
	}

	results := make([]JobResult, 0, len(sc.Jobs))
	for i, job := range sc.Jobs {
		r.Logger.Info("running job",
			slog.Int("job", i+1),
			slog.Int("of", len(sc.Jobs)),
			slog.String("name", job.Name),
		)

		out, err := r.run(ctx, job)
		if err != nil {
			return results, fmt.Errorf("job %d (%s): %w", i+1, job.Name, err)
		}

		jr := JobResult{Name: job.Name, Outcome: out}
		if sc.Save {
			id, err := r.Store.Save(out.Record())
			if err != nil {
				return results, fmt.Errorf("job %d (%s) save: %w", i+1, job.Name, err)
			}
			jr.RunID = id
		}
		results = append(results, jr)
	}
	return results, nil
}

func (r *Runner) setup(job *config.Config) (*experiment.Experiment, error) {
	exp := experiment.New(job, r.Registry, r.Options...)
	if err := exp.Setup(); err != nil {
		return nil, fmt.Errorf("setup: %w", err)
	}
	return exp, nil
}

func (r *Runner) run(ctx context.Context, job *config.Config) (*experiment.Outcome, error) {
	exp, err := r.setup(job)
	if err != nil {
		return nil, err
	}
	return exp.Run(ctx)
}
