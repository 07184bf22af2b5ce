// Package graph provides the serialization formats and the conversion
// between diagram files and the layout engine.
//
// # Architecture
//
// The package sits at the boundary between files or HTTP bodies and the
// engine:
//
//   - [Diagram]: input (tables, grouping, relationships)
//   - [Layout]: output (boxes, levels, orders, routes, statistics)
//   - [Model]: a Diagram converted into pkg/diagram entities and
//     pkg/layout objects
//
// # Diagram Serialization
//
// Diagrams are read from JSON or TOML:
//
//	d, err := graph.ReadDiagramFile("schema.toml")
//	d, err := graph.UnmarshalDiagram(body, graph.FormatJSON)
//
// The TOML form mirrors the JSON one:
//
//	[[nodes]]
//	id = "orders"
//	columns = [{ name = "id", key = "pk" }, { name = "user_id", key = "fk" }]
//
//	[[nodes]]
//	id = "users"
//
//	[[edges]]
//	from = "orders"
//	to = "users"
//
// Reading validates the diagram; see [Validate].
//
// # Computing a Layout
//
//	out, err := graph.Compute(ctx, d, graph.BuildOptions{
//	    Layout: layout.DefaultConfig(),
//	    Insets: graph.DefaultInsets,
//	})
//
// Nodes named as a parent by other nodes become groups drawn around their
// children. Edges between nodes of different groups take part in the
// placement of the groups and are drawn as straight lines.
//
// # Node Sizes
//
// Width and height may be omitted. The width then follows the longest of
// the label and the column lines, the height the number of columns; see
// [Node.Size].
package graph
