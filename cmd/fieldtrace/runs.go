package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/fieldtrace/internal/analysis"
	"github.com/san-kum/fieldtrace/internal/experiment"
	"github.com/san-kum/fieldtrace/internal/export"
	"github.com/san-kum/fieldtrace/internal/field"
	"github.com/san-kum/fieldtrace/internal/storage"
	"github.com/san-kum/fieldtrace/internal/trace"
)

var (
	xAxis     int
	yAxis     int
	svgWidth  int
	svgHeight int
	svgStroke string
	outFile   string
)

const (
	maxPlots      = 6
	separationGap = 1e-6
)

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tFIELD\tTIME\tMETHOD\tDIR\tSTEPS\tDT\tFWD\tBWD")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\t%.4g\t%s\t%s\n",
			run.ID,
			jobName(run.Field, run.Expr),
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Method,
			run.Direction,
			run.Steps,
			run.Dt,
			run.Forward.Stop,
			run.Backward.Stop,
		)
	}

	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func loadRun(runID string) (*storage.RunMetadata, *trace.Result, error) {
	meta, res, err := storage.New(dataDir).LoadResult(runID)
	if err != nil {
		return nil, nil, err
	}
	if len(res.Defined()) == 0 {
		return nil, nil, fmt.Errorf("run %s has no defined positions", runID)
	}
	return meta, res, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, res, err := loadRun(args[0])
	if err != nil {
		return err
	}

	defined := res.Defined()
	first, _ := res.Span()
	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("field: %s\n", jobName(meta.Field, meta.Expr))
	fmt.Printf("defined slots: %d (from slot %d)\n\n", len(defined), first)

	numVars := min(len(defined[0]), maxPlots)
	for axis := 0; axis < numVars; axis++ {
		data := make([]float64, len(defined))
		for i, p := range defined {
			data[i] = p[axis]
		}

		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("x%d vs slot", axis)),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func phasePlot(cmd *cobra.Command, args []string) error {
	meta, res, err := loadRun(args[0])
	if err != nil {
		return err
	}

	proj := analysis.NewProjection(res, xAxis, yAxis)
	if proj == nil {
		return fmt.Errorf("position dimension too small for selected axes")
	}

	fmt.Printf("projection: %s\n", meta.ID)
	fmt.Printf("field: %s\n", jobName(meta.Field, meta.Expr))
	fmt.Printf("x-axis: x%d, y-axis: x%d\n\n", xAxis, yAxis)
	fmt.Print(analysis.ProjectionToASCII(proj, 70, 20))
	fmt.Printf("\nLegend: · = line, • = segment end\n")
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, res, err := loadRun(args[0])
	if err != nil {
		return err
	}

	defined := res.Defined()
	if xAxis < 0 || xAxis >= len(defined[0]) {
		return fmt.Errorf("axis %d out of range", xAxis)
	}
	data := make([]float64, len(defined))
	for i, p := range defined {
		data[i] = p[xAxis]
	}

	fmt.Printf("spectrum: %s\n", meta.ID)
	fmt.Printf("field: %s\n\n", jobName(meta.Field, meta.Expr))

	ps := analysis.PowerSpectrum(data)
	if len(ps) >= 4 {
		graph := asciigraph.Plot(ps[:len(ps)/2],
			asciigraph.Height(15),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("power spectrum (x%d)", xAxis)),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	if period := analysis.DominantPeriod(data, meta.Dt); period > 0 {
		fmt.Printf("dominant period: %.4f (arc length)\n", period)
	} else {
		fmt.Println("no dominant period")
	}

	rate, err := separationRate(meta, defined[0], len(defined))
	if err != nil {
		logger.Debug("separation skipped", slog.String("run", meta.ID), slog.Any("err", err))
		return nil
	}
	fmt.Printf("separation rate: %.4f per unit arc length\n", rate)
	return nil
}

// separationRate rebuilds the run's field and stepper and measures how fast
// a neighbouring line drifts away from the stored one.
func separationRate(meta *storage.RunMetadata, start field.Position, steps int) (float64, error) {
	reg := experiment.NewRegistry()
	f, err := reg.GetField(meta.Field, meta.Expr, meta.Params)
	if err != nil {
		return 0, err
	}
	stepper, err := reg.GetIntegrator(meta.Method)
	if err != nil {
		return 0, err
	}
	return analysis.Separation(stepper, f, start, meta.Dt, steps, separationGap), nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	points, err := st.LoadPositions(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, meta, points)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	_, res, err := loadRun(args[0])
	if err != nil {
		return err
	}

	proj := analysis.NewProjection(res, xAxis, yAxis)
	if proj == nil {
		return fmt.Errorf("position dimension too small for selected axes")
	}
	svg := export.TraceToSVG(proj, svgWidth, svgHeight, svgStroke)
	if svg == "" {
		return fmt.Errorf("run %s has too few positions to draw", args[0])
	}

	if outFile == "" {
		_, err = fmt.Print(svg)
		return err
	}
	if err := os.WriteFile(outFile, []byte(svg), 0644); err != nil {
		return err
	}
	logger.Info("svg written", "path", outFile)
	return nil
}
