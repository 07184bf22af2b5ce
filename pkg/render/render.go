package render

import (
	"context"
	"strings"

	"github.com/matzehuels/erdlayout/pkg/errors"
	"github.com/matzehuels/erdlayout/pkg/graph"
	"github.com/matzehuels/erdlayout/pkg/render/sink"
	"github.com/matzehuels/erdlayout/pkg/render/styles"
)

// Output formats.
const (
	FormatSVG     = "svg"
	FormatPNG     = "png"
	FormatDOT     = "dot"
	FormatDrawio  = "drawio"
	FormatGraphML = "graphml"
	FormatJSON    = "json"
)

// Formats lists every supported output format.
var Formats = []string{FormatSVG, FormatPNG, FormatDOT, FormatDrawio, FormatGraphML, FormatJSON}

var contentTypes = map[string]string{
	FormatSVG:     "image/svg+xml",
	FormatPNG:     "image/png",
	FormatDOT:     "text/vnd.graphviz",
	FormatDrawio:  "application/vnd.jgraph.mxfile",
	FormatGraphML: "application/graphml+xml",
	FormatJSON:    "application/json",
}

var extensions = map[string]string{
	FormatSVG:     ".svg",
	FormatPNG:     ".png",
	FormatDOT:     ".dot",
	FormatDrawio:  ".drawio",
	FormatGraphML: ".graphml",
	FormatJSON:    ".json",
}

// Options configures [Render]. The zero value renders with the default
// style at 2x scale.
type Options struct {
	Style       string  // Style name, see [styles.Names]
	Scale       float64 // PNG scale factor
	Detailed    bool    // List columns in DOT and PNG labels
	EdgeLabels  bool    // Draw relationship labels in SVG
	Interactive bool    // Add hover highlighting to SVG
}

// ValidateFormat reports whether format is one of [Formats].
func ValidateFormat(format string) error {
	return errors.ValidateFormat(format, Formats)
}

// ContentType returns the MIME type of a format.
func ContentType(format string) string {
	if ct, ok := contentTypes[format]; ok {
		return ct
	}
	return "application/octet-stream"
}

// Extension returns the file extension of a format, including the dot.
func Extension(format string) string {
	return extensions[format]
}

// Render writes l in the given format. Format names are case-insensitive.
func Render(ctx context.Context, l graph.Layout, format string, opts Options) ([]byte, error) {
	format = strings.ToLower(format)
	if err := ValidateFormat(format); err != nil {
		return nil, err
	}
	style, ok := styles.ByName(opts.Style)
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown style %q", opts.Style)
	}

	switch format {
	case FormatSVG:
		svgOpts := []sink.SVGOption{sink.WithStyle(style)}
		if opts.EdgeLabels {
			svgOpts = append(svgOpts, sink.WithEdgeLabels())
		}
		if opts.Interactive {
			svgOpts = append(svgOpts, sink.WithInteraction())
		}
		return sink.RenderSVG(l, svgOpts...), nil
	case FormatPNG:
		pngOpts := []sink.PNGOption{}
		if opts.Scale > 0 {
			pngOpts = append(pngOpts, sink.WithScale(opts.Scale))
		}
		if opts.Detailed {
			pngOpts = append(pngOpts, sink.WithDetailedLabels())
		}
		data, err := sink.RenderPNG(ctx, l, pngOpts...)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "render png")
		}
		return data, nil
	case FormatDOT:
		return []byte(sink.ToDOT(l, sink.DOTOptions{Detailed: opts.Detailed})), nil
	case FormatDrawio:
		theme, _ := style.(styles.Theme)
		return sink.RenderDrawio(l, theme)
	case FormatGraphML:
		theme, _ := style.(styles.Theme)
		return sink.RenderGraphML(l, theme)
	default:
		return sink.RenderJSON(l)
	}
}
