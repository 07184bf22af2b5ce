package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/erdlayout/pkg/graph"
)

// inspectCommand creates the inspect command, an interactive browser over
// the levels of a layout.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		plain      bool
		fromLayout bool
		flags      layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "inspect [diagram.json|diagram.toml|diagram.layout.json]",
		Short: "Browse the levels of a layout",
		Long: `Browse the levels of a layout.

Shows every level from the top of the drawing down, with the order of its
tables, and the position and size of each table on the selected level.
With --plain the levels are printed once instead of browsed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := c.loadLayout(cmd.Context(), args[0], fromLayout, &flags)
			if err != nil {
				return err
			}
			if plain {
				fmt.Println(plainLevels(l))
				return nil
			}
			_, err = tea.NewProgram(NewLevelBrowserModel(l), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "print the levels without the interactive browser")
	cmd.Flags().BoolVar(&fromLayout, "layout", false, "treat the input as a saved layout")
	flags.register(cmd)

	return cmd
}

// loadLayout reads a saved layout or lays out a diagram file.
func (c *CLI) loadLayout(ctx context.Context, input string, fromLayout bool, flags *layoutFlags) (graph.Layout, error) {
	if fromLayout || strings.HasSuffix(input, layoutSuffix) {
		l, err := graph.ReadLayoutFile(input)
		if err != nil {
			return graph.Layout{}, fmt.Errorf("load layout %s: %w", input, err)
		}
		return l, nil
	}
	l, _, err := c.computeLayout(ctx, input, flags.options(c, input), flags.noCache)
	return l, err
}

// plainLevels renders every level with its node table.
func plainLevels(l graph.Layout) string {
	var b strings.Builder
	for _, row := range levelRows(l) {
		b.WriteString(StyleTitle.Render(fmt.Sprintf("Level %d", row.Level)))
		b.WriteString("\n")
		b.WriteString(nodeTable(l, row.IDs))
		b.WriteString("\n")
	}
	b.WriteString(statsLine(l.Stats, false))
	return b.String()
}
