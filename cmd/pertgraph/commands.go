package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/joshharrison/pertgraph/internal/ctxlog"
	"github.com/joshharrison/pertgraph/internal/graph"
	"github.com/joshharrison/pertgraph/internal/ingest"
	"github.com/joshharrison/pertgraph/internal/pert"
	"github.com/joshharrison/pertgraph/internal/reporter"
	"github.com/joshharrison/pertgraph/internal/render"
	"github.com/joshharrison/pertgraph/internal/ui"
)

// analyzeFile is the shared load and compute step of analyze and render.
func analyzeFile(ctx context.Context, path, format string) (*pert.Result, error) {
	f, err := ingest.ParseFormat(format)
	if err != nil {
		return nil, err
	}
	records, err := ingest.Load(ctx, path, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	res, err := pert.Compute(records)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	ctxlog.FromContext(ctx).Info("analysed task file",
		"path", path,
		"tasks", len(res.Tasks),
		"finish", res.ProjectFinishTime,
		"critical", len(res.CriticalPath))
	return res, nil
}

func analyzeCmd(opts *options) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "analyze FILE...",
		Short: "Compute the PERT schedule and critical path for one or more task files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results := make([]*pert.Result, len(args))

			g, ctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(opts.jobs)
			for i, path := range args {
				i, path := i, path
				g.Go(func() error {
					if err := ctx.Err(); err != nil {
						return err
					}
					res, err := analyzeFile(ctx, path, opts.format)
					if err != nil {
						return err
					}
					results[i] = res
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			reports := make([]*reporter.Reporter, len(args))
			for i, path := range args {
				reports[i] = reporter.New(path, results[i])
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, reports)
			}

			for _, rpt := range reports {
				rpt.PrintSummary(out)
			}
			if len(reports) > 1 {
				fmt.Fprintln(out)
				for _, rpt := range reports {
					fmt.Fprintln(out, rpt.Summary())
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Machine-readable JSON output")
	return cmd
}

// writeJSON prints a single analysis as an object and several as an array.
func writeJSON(w io.Writer, reports []*reporter.Reporter) error {
	var v any
	if len(reports) == 1 {
		v = reports[0].Output()
	} else {
		outputs := make([]reporter.Output, len(reports))
		for i, rpt := range reports {
			outputs[i] = rpt.Output()
		}
		v = outputs
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal analysis: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func renderCmd(opts *options) *cobra.Command {
	var (
		to     string
		output string
		wrap   bool
		name   string
	)

	cmd := &cobra.Command{
		Use:   "render FILE",
		Short: "Render the analysed task graph as draw.io XML, Graphviz DOT or JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := render.ParseFormat(to)
			if err != nil {
				return err
			}

			res, err := analyzeFile(cmd.Context(), args[0], opts.format)
			if err != nil {
				return err
			}

			drawOpts := render.DrawIOOptions{Wrap: wrap, Name: name}
			if output == "" || output == "-" {
				return render.Write(cmd.OutOrStdout(), res, format, drawOpts)
			}

			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("create output: %w", err)
			}
			if err := render.Write(f, res, format, drawOpts); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("close output: %w", err)
			}

			ctxlog.FromContext(cmd.Context()).Info("wrote diagram", "path", output, "format", string(format))
			fmt.Fprintf(cmd.OutOrStdout(), "%s Wrote %s\n", ui.Green("✓"), output)
			return nil
		},
	}

	cmd.Flags().StringVar(&to, "to", string(render.FormatDrawIO), "Output format (drawio, dot, json)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	cmd.Flags().BoolVar(&wrap, "wrap", false, "Wrap draw.io output in a complete <mxfile> document")
	cmd.Flags().StringVar(&name, "name", "", "draw.io diagram page name")
	return cmd
}

func validateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE",
		Short: "Check a task file for input problems and dependency cycles",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			f, err := ingest.ParseFormat(opts.format)
			if err != nil {
				return err
			}
			records, err := ingest.Load(cmd.Context(), path, f)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}

			g, err := graph.Build(records)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			if cycle := g.DetectCycle(); cycle != nil {
				return fmt.Errorf("%s: %w", path, &pert.CyclicDependencyError{Cycle: cycle})
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %d tasks, %d dependencies, no problems found\n",
				ui.Green("✓"), path, g.TaskCount(), len(g.Edges()))
			return nil
		},
	}
}
