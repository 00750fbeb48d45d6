package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/san-kum/fieldtrace/internal/config"
	"github.com/san-kum/fieldtrace/internal/experiment"
	"github.com/san-kum/fieldtrace/internal/storage"
	"github.com/san-kum/fieldtrace/internal/watch"
)

var (
	watchSave     bool
	watchDebounce time.Duration
)

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// runWatch re-traces a job file every time it is saved.
func runWatch(cmd *cobra.Command, args []string) error {
	path := args[0]
	registry := experiment.NewRegistry()

	var st *storage.Store
	if watchSave {
		st = storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
	}
	clearScreen := isTerminal(os.Stdout)

	logger.Info("watching job file", slog.String("path", path))
	return watch.File(cmd.Context(), path, watch.Options{Debounce: watchDebounce, Logger: logger}, func(ctx context.Context) error {
		cfg, err := config.Load(path)
		if err != nil {
			return err
		}

		exp := experiment.New(cfg, registry, engineOptions(cfg.Steps)...)
		if err := exp.Setup(); err != nil {
			return err
		}
		out, err := exp.Run(ctx)
		if err != nil {
			return err
		}

		if clearScreen {
			fmt.Print("\033[H\033[2J")
		}
		fmt.Printf("%s  %s\n", time.Now().Format("15:04:05"), path)
		if st != nil {
			id, err := st.Save(out.Record())
			if err != nil {
				return err
			}
			fmt.Printf("run id: %s\n", id)
		}
		printSummary(out)
		return nil
	})
}
