// Package render turns computed layouts into files.
//
// # Overview
//
// [Render] is the single entry point used by the CLI, the pipeline and the
// HTTP service. It validates the format, resolves the style and dispatches
// to a sink:
//
//	data, err := render.Render(ctx, layout, render.FormatSVG, render.Options{Style: "dark"})
//
// The sinks live in [sink]; the drawing styles in [styles].
//
// # Formats
//
//   - svg: standalone SVG, drawn directly from the layout geometry
//   - png: raster image via Graphviz (neato with every position pinned)
//   - dot: the pinned Graphviz source
//   - drawio: editable draw.io document
//   - graphml: yEd GraphML with node geometry and edge bends
//   - json: the layout itself
//
// [sink]: github.com/matzehuels/erdlayout/pkg/render/sink
// [styles]: github.com/matzehuels/erdlayout/pkg/render/styles
package render
