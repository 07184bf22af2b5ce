package sink

import (
	"bytes"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/matzehuels/erdlayout/pkg/graph"
)

const pointsPerInch = 72.0

// DOTOptions configures [ToDOT].
type DOTOptions struct {
	// Detailed adds column rows and metadata to table labels.
	// When false, only the label is shown.
	Detailed bool
	// DPI sets the output resolution used by raster renderers. Zero keeps
	// the Graphviz default.
	DPI float64
}

// ToDOT converts a computed layout to Graphviz DOT with every position
// pinned, so that neato reproduces the layout instead of computing its own.
//
// Graphviz uses a y axis that points up; positions are flipped against the
// layout height. Bends become invisible point nodes chained by plain
// segments, with the arrowhead on the last one.
func ToDOT(l graph.Layout, opts DOTOptions) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  inputscale=72;\n")
	buf.WriteString("  notranslate=true;\n")
	buf.WriteString("  overlap=true;\n")
	buf.WriteString("  splines=false;\n")
	buf.WriteString("  outputorder=nodesfirst;\n")
	buf.WriteString("  bgcolor=\"white\";\n")
	if opts.DPI > 0 {
		fmt.Fprintf(&buf, "  dpi=%.0f;\n", opts.DPI)
	}
	buf.WriteString("  node [shape=box, fixedsize=true, style=filled, fillcolor=white, fontname=\"Helvetica\", fontsize=10];\n")
	buf.WriteString("  edge [arrowsize=0.6];\n")
	buf.WriteString("\n")

	tables := buildTables(l, 0)
	for _, t := range tables {
		attrs := []string{
			fmt.Sprintf("pos=%q", pos(t.X+t.W/2, t.Y+t.H/2, l.Height)),
			fmt.Sprintf("width=%.4f", t.W/pointsPerInch),
			fmt.Sprintf("height=%.4f", t.H/pointsPerInch),
		}
		if t.Group {
			attrs = append(attrs, fmt.Sprintf("label=%q", t.Label), "labelloc=t", "style=\"rounded,dashed\"", "color=grey40")
		} else {
			n, _ := l.Node(t.ID)
			attrs = append(attrs, fmt.Sprintf("label=%q", fmtLabel(n, opts.Detailed)))
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", nodeName(t.ID), strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for i, e := range l.Edges {
		if e.Dropped || len(e.Points) < 2 {
			continue
		}
		chain := []string{nodeName(e.From)}
		for j, p := range e.Points[1 : len(e.Points)-1] {
			id := fmt.Sprintf("bend:%d:%d", i, j)
			fmt.Fprintf(&buf, "  %q [shape=point, width=0.01, height=0.01, label=\"\", pos=%q];\n", id, pos(p.X, p.Y, l.Height))
			chain = append(chain, id)
		}
		chain = append(chain, nodeName(e.To))

		for j := 0; j < len(chain)-1; j++ {
			var attrs []string
			if j < len(chain)-2 {
				attrs = append(attrs, "arrowhead=none")
			}
			if j == 0 && e.Label != "" {
				attrs = append(attrs, fmt.Sprintf("taillabel=%q", e.Label))
			}
			suffix := ""
			if len(attrs) > 0 {
				suffix = " [" + strings.Join(attrs, ", ") + "]"
			}
			fmt.Fprintf(&buf, "  %q -> %q%s;\n", chain[j], chain[j+1], suffix)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeName(id string) string { return "node:" + id }

func pos(x, y, height float64) string {
	return fmt.Sprintf("%.2f,%.2f!", x, height-y)
}

func fmtLabel(n graph.PlacedNode, detailed bool) string {
	if !detailed {
		return n.Label
	}

	parts := []string{n.Label}
	for _, c := range n.Columns {
		line := c.Name
		if c.Type != "" {
			line += " : " + c.Type
		}
		if c.Key != "" {
			line = strings.ToUpper(c.Key) + " " + line
		}
		parts = append(parts, line)
	}
	for _, k := range slices.Sorted(maps.Keys(n.Meta)) {
		parts = append(parts, fmt.Sprintf("%s: %v", k, n.Meta[k]))
	}
	return strings.Join(parts, "\n")
}
