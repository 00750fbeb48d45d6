package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/fieldtrace/internal/batch"
	"github.com/san-kum/fieldtrace/internal/optim"
	"github.com/san-kum/fieldtrace/internal/storage"
	"github.com/san-kum/fieldtrace/internal/trace"
)

var (
	sweepParam string
	sweepFrom  float64
	sweepTo    float64
	sweepCount int
	cloudCount int
	spread     float64
	randSeed   int64
	gridAxes   []string
	objective  string
)

func newRunner(total int, store *storage.Store) *batch.Runner {
	return batch.NewRunner(store, logger, engineOptions(total)...)
}

func runBatch(cmd *cobra.Command, args []string) error {
	sc, err := batch.LoadScenario(args[0])
	if err != nil {
		return err
	}

	var st *storage.Store
	if sc.Save {
		st = storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
	}

	if sc.Name != "" {
		fmt.Printf("scenario: %s\n", sc.Name)
	}
	if sc.Description != "" {
		fmt.Printf("%s\n", sc.Description)
	}
	fmt.Println()

	results, err := newRunner(0, st).RunScenario(cmd.Context(), sc)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "JOB\tFIELD\tMETHOD\tFWD\tBWD\tARC\tRUN")
	for _, jr := range results {
		res := jr.Outcome.Result
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%.4f\t%s\n",
			jr.Name,
			jobName(jr.Outcome.Config.Field, jr.Outcome.Config.Expr),
			res.Method,
			branchLabel(res.Forward),
			branchLabel(res.Backward),
			jr.Outcome.Metrics["arc_length"],
			jr.RunID,
		)
	}
	if ferr := w.Flush(); ferr != nil && err == nil {
		err = ferr
	}
	return err
}

func branchLabel(b trace.Branch) string {
	if b.Stop == trace.StopNone {
		return "-"
	}
	return fmt.Sprintf("%d/%s", b.Steps, b.Stop)
}

func runSweep(cmd *cobra.Command, args []string) error {
	job, err := buildJob(cmd, args)
	if err != nil {
		return err
	}

	points, err := newRunner(job.Steps, nil).RunSweep(cmd.Context(), &batch.Sweep{
		Job:   job,
		Param: sweepParam,
		Min:   sweepFrom,
		Max:   sweepTo,
		Count: sweepCount,
	})
	if err != nil {
		return err
	}

	fmt.Printf("field: %s, sweeping %s\n\n", jobName(job.Field, job.Expr), sweepParam)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tFWD\tBWD\tARC\tMAX_R\tCLOSURE\n", sweepParam)
	for _, p := range points {
		fmt.Fprintf(w, "%.4g\t%s\t%s\t%.4f\t%.4f\t%.4f\n",
			p.Value,
			branchLabel(p.Forward),
			branchLabel(p.Backward),
			p.Metrics["arc_length"],
			p.Metrics["max_radius"],
			p.Metrics["closure"],
		)
	}
	return w.Flush()
}

func runCloud(cmd *cobra.Command, args []string) error {
	job, err := buildJob(cmd, args)
	if err != nil {
		return err
	}

	members, err := newRunner(job.Steps, nil).RunCloud(cmd.Context(), &batch.Cloud{
		Job:      job,
		Count:    cloudCount,
		Spread:   spread,
		RandSeed: randSeed,
	})
	if err != nil {
		return err
	}

	counts := batch.StopCounts(members)
	fmt.Printf("field: %s, %d seeds, spread %g\n\n", jobName(job.Field, job.Expr), len(members), spread)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STOP\tBRANCHES")
	for r := trace.StopExhausted; r <= trace.StopCanceled; r++ {
		if counts[r] > 0 {
			fmt.Fprintf(w, "%s\t%d\n", r, counts[r])
		}
	}
	return w.Flush()
}

func runSearch(cmd *cobra.Command, args []string) error {
	job, err := buildJob(cmd, args)
	if err != nil {
		return err
	}

	axes := make([]optim.Axis, 0, len(gridAxes))
	for _, raw := range gridAxes {
		axis, err := optim.ParseAxis(raw)
		if err != nil {
			return err
		}
		axes = append(axes, axis)
	}

	res, err := newRunner(job.Steps, nil).RunSearch(cmd.Context(), &batch.Search{
		Job:    job,
		Axes:   axes,
		Metric: objective,
	})
	if err != nil {
		return err
	}

	fmt.Printf("field: %s\n", jobName(job.Field, job.Expr))
	fmt.Printf("evaluated: %d, failed: %d\n", res.Evaluated, res.Failed)
	fmt.Printf("best %s: %.6g\n", objective, res.Value)
	for _, a := range axes {
		fmt.Printf("  %s = %.6g\n", a.Name, res.Params[a.Name])
	}
	return nil
}
