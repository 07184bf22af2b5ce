// Package sink writes a computed [graph.Layout] to output formats.
//
// # Formats
//
//   - [RenderSVG]: hand-drawn SVG using a [styles.Style]
//   - [ToDOT]: Graphviz DOT with pinned positions
//   - [RenderPNG]: raster image, rendered by Graphviz from [ToDOT]
//   - [RenderDrawio]: draw.io document with editable tables and edges
//   - [RenderJSON]: the layout interchange format
//
// Every sink consumes the same absolute coordinates; none of them moves a
// node. SVG and draw.io add [DefaultPadding] around the drawing.
//
// [graph.Layout]: github.com/matzehuels/erdlayout/pkg/graph.Layout
// [styles.Style]: github.com/matzehuels/erdlayout/pkg/render/styles.Style
package sink
