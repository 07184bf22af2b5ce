package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/erdlayout/pkg/graph"
	"github.com/matzehuels/erdlayout/pkg/pipeline"
)

// layoutFlags are the flags shared by every command that computes a layout.
type layoutFlags struct {
	hgap       float64
	vgap       float64
	iterations int
	noCache    bool
	refresh    bool
}

func (f *layoutFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&f.hgap, "hgap", 0, "horizontal gap between tables (default 100)")
	cmd.Flags().Float64Var(&f.vgap, "vgap", 0, "vertical gap between levels (default 100)")
	cmd.Flags().IntVar(&f.iterations, "iterations", 0, "crossing reduction sweeps (default 24)")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "recompute cached results")
}

// options builds pipeline options for input from the flags and the
// configuration file.
func (f *layoutFlags) options(c *CLI, input string) pipeline.Options {
	opts := pipeline.Options{
		InputFormat:        graph.FormatFromPath(input),
		Source:             input,
		HorizontalGap:      f.hgap,
		VerticalGap:        f.vgap,
		OrderingIterations: f.iterations,
		Refresh:            f.refresh,
		Logger:             c.Logger,
	}
	c.config.apply(&opts)
	return opts
}

// layoutCommand creates the layout command.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output string
		flags  layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "layout [diagram.json|diagram.toml]",
		Short: "Compute a layout from a diagram",
		Long: `Compute a layout from a diagram.

The diagram lists tables, optional groups and the relationships between them,
in JSON or TOML (chosen by file extension). The output is a layout JSON file
with the box of every table and group, the level and order of each table and
the route of every relationship. It can be rendered later with 'render'.

Results are cached for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], flags.options(c, args[0]), output, flags.noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	flags.register(cmd)

	return cmd
}

// runLayout loads the diagram, computes the layout and writes it.
func (c *CLI) runLayout(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	l, cacheHit, err := c.computeLayout(ctx, input, opts, noCache)
	if err != nil {
		return err
	}

	outputPath := output
	if outputPath == "" {
		outputPath = basePath("", input) + ".layout.json"
	}
	if err := graph.WriteLayoutFile(l, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(l.Stats, cacheHit)
	printNewline()
	printNextStep("Render", appName+" render "+outputPath)

	return nil
}

// computeLayout reads a diagram file and lays it out through the runner.
func (c *CLI) computeLayout(ctx context.Context, input string, opts pipeline.Options, noCache bool) (graph.Layout, bool, error) {
	source, err := os.ReadFile(input)
	if err != nil {
		return graph.Layout{}, false, fmt.Errorf("read diagram %s: %w", input, err)
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return graph.Layout{}, false, fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	d, err := runner.Parse(ctx, source, opts)
	if err != nil {
		return graph.Layout{}, false, fmt.Errorf("load diagram %s: %w", input, err)
	}

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Laying out %d tables...", len(d.Nodes)))
	spinner.Start()

	l, cacheHit, err := runner.ComputeLayoutWithCacheInfo(ctx, d, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return graph.Layout{}, false, fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return graph.Layout{}, false, ctx.Err()
	}
	if l.Stats.Dropped > 0 {
		printWarning("%d relationship(s) reference unknown tables and were dropped", l.Stats.Dropped)
	}
	return l, cacheHit, nil
}
