package cli

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/erdlayout/pkg/graph"
	"github.com/matzehuels/erdlayout/pkg/pipeline"
	"github.com/matzehuels/erdlayout/pkg/render"
	"github.com/matzehuels/erdlayout/pkg/render/styles"
)

// layoutSuffix marks files written by the layout command.
const layoutSuffix = ".layout.json"

// renderOpts holds the render-specific flags.
type renderOpts struct {
	output      string
	formats     []string
	fromLayout  bool
	style       string
	scale       float64
	detailed    bool
	edgeLabels  bool
	interactive bool
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		formatsStr string
		flags      layoutFlags
	)
	opts := renderOpts{style: pipeline.DefaultStyle, scale: pipeline.DefaultScale}

	cmd := &cobra.Command{
		Use:   "render [diagram.json|diagram.toml|diagram.layout.json]",
		Short: "Render a diagram or a saved layout",
		Long: `Render a diagram or a saved layout.

A diagram is laid out first; a file ending in .layout.json (or any file with
--layout) is taken as a layout written by the 'layout' command and rendered
as is. Several formats can be requested at once; each is written next to the
output base path with its own extension.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			if err := pipeline.ValidateStyle(opts.style); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], &opts, &flags)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output base path (default: input without extension)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): "+strings.Join(render.Formats, ", ")+" (comma-separated, default svg)")
	cmd.Flags().BoolVar(&opts.fromLayout, "layout", false, "treat the input as a saved layout")
	cmd.Flags().StringVar(&opts.style, "style", opts.style, "visual style: "+strings.Join(styles.Names(), ", "))
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG scale factor")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "list columns in DOT and PNG labels")
	cmd.Flags().BoolVar(&opts.edgeLabels, "edge-labels", false, "draw relationship labels (SVG)")
	cmd.Flags().BoolVar(&opts.interactive, "interactive", false, "highlight relationships on hover (SVG)")
	flags.register(cmd)

	return cmd
}

// runRender loads or computes a layout and writes every requested format.
func (c *CLI) runRender(ctx context.Context, input string, opts *renderOpts, flags *layoutFlags) error {
	logger := loggerFromContext(ctx)

	popts := flags.options(c, input)
	popts.Formats = opts.formats
	popts.Style = opts.style
	popts.Scale = opts.scale
	popts.Detailed = opts.detailed
	popts.EdgeLabels = opts.edgeLabels
	popts.Interactive = opts.interactive

	var (
		l   graph.Layout
		err error
	)
	if opts.fromLayout || strings.HasSuffix(input, layoutSuffix) {
		l, err = graph.ReadLayoutFile(input)
		if err != nil {
			return fmt.Errorf("load layout %s: %w", input, err)
		}
		logger.Debugf("Loaded layout: %d nodes, %d edges", len(l.Nodes), len(l.Edges))
	} else {
		l, _, err = c.computeLayout(ctx, input, popts, flags.noCache)
		if err != nil {
			return err
		}
	}

	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(logger)
	artifacts, cacheHit, err := runner.RenderWithCacheInfo(ctx, l, popts)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	prog.done(fmt.Sprintf("Rendered %d format(s)", len(artifacts)))

	base := basePath(opts.output, input)
	paths := make([]string, 0, len(opts.formats))
	for _, format := range opts.formats {
		path := outputPath(base, format)
		if err := os.WriteFile(path, artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}

	printSuccess("Rendered %s", strings.Join(opts.formats, ", "))
	for _, p := range paths {
		printFile(p)
	}
	printStats(l.Stats, cacheHit)
	if !slices.Contains(opts.formats, render.FormatSVG) {
		return nil
	}
	printNewline()
	printNextStep("Browse levels", appName+" inspect "+input)
	return nil
}

// outputPath returns the file written for format. JSON output keeps the
// layout suffix so that it never replaces a JSON diagram.
func outputPath(base, format string) string {
	if format == render.FormatJSON {
		return base + layoutSuffix
	}
	return base + render.Extension(format)
}
