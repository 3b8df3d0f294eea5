package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/RamXX/redsheet/internal/source"
	"github.com/RamXX/redsheet/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-print the rows whenever the source file changes",
	RunE: func(cmd *cobra.Command, args []string) error {
		outFormat, _ := cmd.Flags().GetString("format")
		debounce, _ := cmd.Flags().GetDuration("debounce")
		if !cmd.Flags().Changed("format") {
			outFormat = cfg.Format
		}
		if jsonOut {
			outFormat = "json"
		}

		src, err := openSource(cfg)
		if err != nil {
			return err
		}
		path := source.LocalPath(src)
		if path == "" {
			return fmt.Errorf("cannot watch %s: only file sources can be watched", src.Name())
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		render := func(ctx context.Context) error {
			p, err := project(ctx, cfg)
			if err != nil {
				return err
			}
			if err := writeRows(cmd, p, outFormat); err != nil {
				return err
			}
			if !quiet {
				fmt.Fprintf(cmd.ErrOrStderr(), "\nWatching %s for changes... (Press Ctrl+C to exit)\n", path)
			}
			return nil
		}

		// Initial display
		if err := render(ctx); err != nil {
			return err
		}

		w := &watch.Watcher{Path: path, Debounce: debounce}
		if err := w.Run(ctx, render); err != nil {
			return err
		}
		if !quiet {
			fmt.Fprintln(cmd.ErrOrStderr(), "\nStopped watching.")
		}
		return nil
	},
}

func init() {
	watchCmd.Flags().StringP("format", "f", "table", "output format: table, csv, json, yaml")
	watchCmd.Flags().Duration("debounce", 250*time.Millisecond, "quiet period before re-reading the source")
	rootCmd.AddCommand(watchCmd)
}
