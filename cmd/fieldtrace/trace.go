package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/san-kum/fieldtrace/internal/experiment"
	"github.com/san-kum/fieldtrace/internal/storage"
	"github.com/san-kum/fieldtrace/internal/trace"
	"github.com/san-kum/fieldtrace/internal/viz"
)

// traceJob builds and runs the job described by cmd's flags. A canceled
// trace still returns its partial outcome alongside the error.
func traceJob(cmd *cobra.Command, args []string) (*experiment.Outcome, error) {
	cfg, err := buildJob(cmd, args)
	if err != nil {
		return nil, err
	}

	exp := experiment.New(cfg, experiment.NewRegistry(), engineOptions(cfg.Steps)...)
	if err := exp.Setup(); err != nil {
		return nil, err
	}

	logger.Debug("tracing",
		slog.String("field", jobName(cfg.Field, cfg.Expr)),
		slog.String("method", cfg.Method),
		slog.String("direction", cfg.Direction),
		slog.Int("steps", cfg.Steps),
	)
	return exp.Run(cmd.Context())
}

func runTrace(cmd *cobra.Command, args []string) error {
	start := time.Now()
	out, err := traceJob(cmd, args)
	if out == nil {
		return err
	}
	if err != nil && !errors.Is(err, trace.ErrCanceled) {
		return err
	}
	elapsed := time.Since(start)

	if errors.Is(err, trace.ErrCanceled) {
		logger.Warn("trace canceled, keeping partial result", slog.Int("steps", out.Result.Steps()))
	}

	runID := ""
	if !noSave {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err = st.Save(out.Record())
		if err != nil {
			return err
		}
	}

	fmt.Printf("completed in %v\n", elapsed)
	if runID != "" {
		fmt.Printf("run id: %s\n", runID)
	}
	printSummary(out)
	return nil
}

func printSummary(out *experiment.Outcome) {
	res := out.Result
	first, last := res.Span()
	fmt.Printf("field: %s\n", jobName(out.Config.Field, out.Config.Expr))
	fmt.Printf("method: %s, direction: %s, bounds: %s\n", res.Method, res.Direction, out.Bounds)
	fmt.Printf("slots: %d, anchor: %d, defined: %d..%d\n", res.Len(), res.Anchor, first, last)
	if res.Direction != trace.Backward {
		fmt.Printf("forward: %d steps, %s\n", res.Forward.Steps, res.Forward.Stop)
	}
	if res.Direction != trace.Forward {
		fmt.Printf("backward: %d steps, %s\n", res.Backward.Steps, res.Backward.Stop)
	}
	printMetrics(out.Metrics)
}

func printMetrics(m map[string]float64) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("\nmetrics:")
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, m[name])
	}
}

func jobName(field string, expr []string) string {
	if field != "" {
		return field
	}
	return "expr(" + strings.Join(expr, ", ") + ")"
}

func runLive(cmd *cobra.Command, args []string) error {
	out, err := traceJob(cmd, args)
	if out == nil {
		return err
	}

	if !isTerminal(os.Stdout) {
		logger.Warn("stdout is not a terminal, printing a summary instead of the live view")
		printSummary(out)
		return nil
	}

	title := fmt.Sprintf("%s · %s", jobName(out.Config.Field, out.Config.Expr), out.Result.Method)
	p := tea.NewProgram(viz.NewModel(out.Result, title, perFrame))
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
