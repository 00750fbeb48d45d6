package main

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/san-kum/fieldtrace/internal/config"
	"github.com/san-kum/fieldtrace/internal/trace"
)

var (
	configFile string
	preset     string
	exprs      []string
	params     []string
	method     string
	direction  string
	dt         float64
	steps      int
	seed       []float64
	lo         []float64
	hi         []float64
	minRadius  float64
	maxRadius  float64
	concurrent bool
	progress   int64
	noSave     bool
	perFrame   int
)

func addJobFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "job file path (yaml)")
	f.StringVar(&preset, "preset", "", "use a preset job for the field")
	f.StringArrayVar(&exprs, "expr", nil, "field component expression, once per axis")
	f.StringArrayVar(&params, "param", nil, "field parameter as name=value")
	f.StringVar(&method, "method", config.DefaultMethod, "integration method (euler, rk4, rk4classic)")
	f.StringVar(&direction, "direction", config.DefaultDirection, "forward, backward or both")
	f.Float64Var(&dt, "dt", config.DefaultDt, "step size")
	f.IntVar(&steps, "steps", config.DefaultSteps, "number of slots")
	f.Float64SliceVar(&seed, "seed", nil, "seed position, comma separated")
	f.Float64SliceVar(&lo, "lo", nil, "lower box corner, or lower radius")
	f.Float64SliceVar(&hi, "hi", nil, "upper box corner, or upper radius")
	f.Float64Var(&minRadius, "min", 0, "minimum distance from the origin")
	f.Float64Var(&maxRadius, "max", math.Inf(1), "maximum distance from the origin")
	f.BoolVar(&concurrent, "concurrent", false, "walk the two branches in parallel")
	f.Int64Var(&progress, "progress", 0, "log progress every n steps (0 disables)")
}

// buildJob resolves the job for cmd: the preset first, then the job file,
// then any flag the user set explicitly.
func buildJob(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		if len(args) == 0 {
			return nil, fmt.Errorf("--preset needs a field argument")
		}
		cfg = config.GetPreset(args[0], preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(args[0]))
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if len(args) > 0 {
		cfg.Field = args[0]
		cfg.Expr = nil
	}
	if flags.Changed("expr") {
		cfg.Expr = exprs
		if len(args) == 0 {
			cfg.Field = ""
		}
	}
	if flags.Changed("param") {
		if cfg.Params == nil {
			cfg.Params = make(map[string]float64, len(params))
		}
		for _, kv := range params {
			name, val, err := parseParam(kv)
			if err != nil {
				return nil, err
			}
			cfg.Params[name] = val
		}
	}
	if flags.Changed("method") {
		cfg.Method = method
	}
	if flags.Changed("direction") {
		cfg.Direction = direction
	}
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("steps") {
		cfg.Steps = steps
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	pair := flags.Changed("lo") || flags.Changed("hi")
	radial := flags.Changed("min") || flags.Changed("max")
	switch {
	case pair && radial:
		return nil, fmt.Errorf("--lo/--hi and --min/--max are mutually exclusive")
	case pair:
		cfg.Bounds = &config.BoundsConfig{Lo: lo, Hi: hi}
	case radial:
		b := &config.BoundsConfig{}
		if flags.Changed("min") {
			b.Min = &minRadius
		}
		if flags.Changed("max") {
			b.Max = &maxRadius
		}
		cfg.Bounds = b
	}

	return cfg, cfg.Validate()
}

func parseParam(kv string) (string, float64, error) {
	name, raw, ok := strings.Cut(kv, "=")
	if !ok || name == "" {
		return "", 0, fmt.Errorf("invalid --param %q, want name=value", kv)
	}
	val, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return "", 0, fmt.Errorf("invalid --param %q: %w", kv, err)
	}
	return name, val, nil
}

// engineOptions wires logging, telemetry and progress into the engine.
func engineOptions(total int) []trace.Option {
	opts := []trace.Option{
		trace.WithLogger(logger),
		trace.WithConcurrentBranches(concurrent),
	}
	if collector != nil {
		opts = append(opts, trace.WithTelemetry(collector))
	}
	if progress > 0 {
		opts = append(opts, trace.WithObserver(trace.NewProgress(logger, progress, total)))
	}
	return opts
}
