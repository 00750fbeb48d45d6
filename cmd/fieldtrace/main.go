package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/san-kum/fieldtrace/internal/config"
	"github.com/san-kum/fieldtrace/internal/telemetry"
	"github.com/san-kum/fieldtrace/internal/watch"
)

var (
	dataDir    string
	verbose    bool
	metricsOut string

	collector *telemetry.Collector
	logger    *slog.Logger
)

// main registers the fieldtrace commands and exits with status 1 when a
// command fails.
func main() {
	rootCmd := &cobra.Command{
		Use:           "fieldtrace",
		Short:         "streamline and field line tracer",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			logger = newLogger(os.Stderr, level)
			slog.SetDefault(logger)
			if metricsOut != "" {
				collector = telemetry.New()
			}
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if collector == nil {
				return nil
			}
			if err := collector.WriteFile(metricsOut); err != nil {
				return fmt.Errorf("write metrics: %w", err)
			}
			logger.Debug("metrics written", slog.String("path", metricsOut))
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".fieldtrace", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().StringVar(&metricsOut, "metrics-out", "", "write prometheus metrics to this file")

	traceCmd := &cobra.Command{
		Use:   "trace [field]",
		Short: "trace a field line and save it",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runTrace,
	}
	addJobFlags(traceCmd)
	traceCmd.Flags().BoolVar(&noSave, "no-save", false, "print the summary without saving the run")

	liveCmd := &cobra.Command{
		Use:   "live [field]",
		Short: "trace a field line and replay it in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addJobFlags(liveCmd)
	liveCmd.Flags().IntVar(&perFrame, "speed", 4, "slots revealed per frame")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "print run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot each coordinate against slot",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	phaseCmd := &cobra.Command{
		Use:   "phase [run_id]",
		Short: "plot a run projected onto two axes",
		Args:  cobra.ExactArgs(1),
		RunE:  phasePlot,
	}
	phaseCmd.Flags().IntVar(&xAxis, "x-axis", 0, "coordinate index for the x axis")
	phaseCmd.Flags().IntVar(&yAxis, "y-axis", 1, "coordinate index for the y axis")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "spectrum of one coordinate along the line",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().IntVar(&xAxis, "axis", 0, "coordinate index")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export a run projection as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().IntVar(&xAxis, "x-axis", 0, "coordinate index for the x axis")
	exportSVGCmd.Flags().IntVar(&yAxis, "y-axis", 1, "coordinate index for the y axis")
	exportSVGCmd.Flags().IntVar(&svgWidth, "width", 800, "image width")
	exportSVGCmd.Flags().IntVar(&svgHeight, "height", 600, "image height")
	exportSVGCmd.Flags().StringVar(&svgStroke, "stroke", "#1f77b4", "line color")
	exportSVGCmd.Flags().StringVarP(&outFile, "output", "o", "", "output file (default stdout)")

	compareCmd := &cobra.Command{
		Use:   "compare [field]",
		Short: "compare euler and rk4 accuracy on a field with a known solution",
		Args:  cobra.MaximumNArgs(1),
		RunE:  compareMethods,
	}
	compareCmd.Flags().Float64Var(&arcLength, "length", 1.0, "arc length at which the error is measured")
	compareCmd.Flags().Float64SliceVar(&seed, "seed", nil, "seed position")

	fieldsCmd := &cobra.Command{
		Use:   "fields",
		Short: "list library fields and their parameters",
		RunE:  listFields,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [field]",
		Short: "list available presets for a field",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for field: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	batchCmd := &cobra.Command{
		Use:   "batch [scenario]",
		Short: "run every job of a scenario file",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [field]",
		Short: "trace once per value of a field parameter",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	addJobFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "sweep", "", "parameter to sweep")
	sweepCmd.Flags().Float64Var(&sweepFrom, "from", 0, "first parameter value")
	sweepCmd.Flags().Float64Var(&sweepTo, "to", 1, "last parameter value")
	sweepCmd.Flags().IntVar(&sweepCount, "count", 5, "number of values")
	_ = sweepCmd.MarkFlagRequired("sweep")

	cloudCmd := &cobra.Command{
		Use:   "cloud [field]",
		Short: "trace a cloud of seeds around one seed",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runCloud,
	}
	addJobFlags(cloudCmd)
	cloudCmd.Flags().IntVar(&cloudCount, "count", 50, "number of seeds")
	cloudCmd.Flags().Float64Var(&spread, "spread", 0.1, "half-width of the seed cube")
	cloudCmd.Flags().Int64Var(&randSeed, "rand-seed", 0, "random seed (0 uses the clock)")

	searchCmd := &cobra.Command{
		Use:   "search [field]",
		Short: "find the field parameters that minimize a line metric",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSearch,
	}
	addJobFlags(searchCmd)
	searchCmd.Flags().StringArrayVar(&gridAxes, "grid", nil, "searched parameter as name=lo:hi:n or name=v1,v2")
	searchCmd.Flags().StringVar(&objective, "metric", "closure", "metric to minimize")
	_ = searchCmd.MarkFlagRequired("grid")

	watchCmd := &cobra.Command{
		Use:   "watch [job.yaml]",
		Short: "re-trace a job file every time it changes",
		Args:  cobra.ExactArgs(1),
		RunE:  runWatch,
	}
	watchCmd.Flags().BoolVar(&watchSave, "save", false, "save every trace")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watch.DefaultDebounce, "quiet period before re-tracing")
	watchCmd.Flags().BoolVar(&concurrent, "concurrent", false, "walk the two branches in parallel")

	rootCmd.AddCommand(traceCmd, liveCmd, listCmd, showCmd, plotCmd, phaseCmd, analyzeCmd,
		exportJSONCmd, exportSVGCmd, compareCmd, fieldsCmd, presetsCmd, batchCmd, sweepCmd, cloudCmd, searchCmd, watchCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}
