package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/joshharrison/pertgraph/internal/ctxlog"
	"github.com/joshharrison/pertgraph/internal/ingest"
	"github.com/joshharrison/pertgraph/internal/ui"
)

// options holds the global flags shared by every command.
type options struct {
	format    string
	logLevel  string
	logFormat string
	noColor   bool
	jobs      int
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		printError(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "pertgraph",
		Short: "PERT schedule analysis for task tables",
		Long: `pertgraph reads tasks with three-point duration estimates and their
dependencies, computes expected times, early/late schedules, slack, the
critical path and near-critical bottlenecks, and renders the result for the
terminal, draw.io or Graphviz.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.noColor {
				color.NoColor = true
			}
			if opts.jobs < 1 {
				return fmt.Errorf("--jobs must be at least 1, got %d", opts.jobs)
			}
			if _, err := ingest.ParseFormat(opts.format); err != nil {
				return err
			}
			logger := ctxlog.New(opts.logLevel, opts.logFormat, cmd.ErrOrStderr())
			cmd.SetContext(ctxlog.WithLogger(cmd.Context(), logger))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ui.PrintLogo(cmd.OutOrStdout())
			return cmd.Help()
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&opts.format, "format", "", "Input format (csv, json, yaml); detected from the extension when empty")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&opts.logFormat, "log-format", "text", "Log format (text, json)")
	rootCmd.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().IntVar(&opts.jobs, "jobs", runtime.NumCPU(), "Max files analysed concurrently")

	rootCmd.AddCommand(analyzeCmd(opts))
	rootCmd.AddCommand(renderCmd(opts))
	rootCmd.AddCommand(validateCmd(opts))

	return rootCmd
}

// printError writes err to w. Validation problems are listed one per line.
func printError(w io.Writer, err error) {
	var verr *ingest.ValidationError
	if errors.As(err, &verr) {
		header := "Input validation failed:"
		if verr.Source != "" {
			header = fmt.Sprintf("Input validation failed for %s:", verr.Source)
		}
		fmt.Fprintf(w, "%s %s\n", ui.BoldRed("✗"), ui.Bold(header))
		for _, p := range verr.Problems {
			fmt.Fprintf(w, "  - %s\n", p)
		}
		return
	}
	fmt.Fprintf(w, "%s %v\n", ui.BoldRed("Error:"), err)
}
