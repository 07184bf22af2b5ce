// Package pkg provides the libraries behind erdlayout, a hierarchical
// layout engine for entity-relationship diagrams.
//
// # Overview
//
// erdlayout places tables on levels so that relationships point from upper
// levels to lower ones, orders each level to keep crossings low, assigns
// coordinates and routes every relationship through bend points where it
// skips levels. Groups of tables are laid out recursively and treated as a
// single box by their parent.
//
// # Architecture
//
// The typical data flow:
//
//	Diagram (JSON/TOML)
//	         ↓
//	    [graph] package (validate, build tables, relations and groups)
//	         ↓
//	    [layout] package (levels, ordering, coordinates, routes)
//	         ↓
//	    [render] package (SVG, PNG, DOT, draw.io, GraphML, JSON)
//
// # Quick Start
//
// Lay out tables directly:
//
//	orders := diagram.NewTable("orders", "Orders", 160, 68)
//	users := diagram.NewTable("users", "Users", 160, 48)
//
//	l := layout.New(layout.DefaultConfig())
//	l.Add(layout.Node(orders))
//	l.Add(layout.Node(users))
//	l.Add(layout.Edge(diagram.NewRelation(orders, users, diagram.BoxRouter{})))
//	stats := l.Run()
//
// Or lay out and render a serialized diagram:
//
//	d, _ := graph.ReadDiagramFile("shop.toml")
//	res, _ := graph.Compute(ctx, d, graph.BuildOptions{Insets: graph.DefaultInsets})
//	svg, _ := render.Render(ctx, res, render.FormatSVG, render.Options{})
//
// # Main Packages
//
// ## Layout Engine
//
// [diagram] - The entities (tables) and relationships a layout arranges, and
// the routers that turn bend points into polylines.
//
// [dag] - The layered working graph: real and dummy nodes, levels, orders
// and crossing counts.
//
// [dag/transform] - The layout phases: cycle removal, level assignment,
// subdivision of long edges, crossing reduction and coordinate assignment.
//
// [layout] - The engine. Registers nodes, containers and edges, runs the
// phases and writes positions and routes back to the registered objects.
//
// ## Serialization and Output
//
// [graph] - Diagram input and layout output types, conversion of a diagram
// into layout objects, and JSON/TOML I/O.
//
// [render] - Output formats: SVG with light and dark themes, PNG and DOT
// through Graphviz, draw.io XML, yEd GraphML and JSON.
//
// ## Infrastructure
//
// [pipeline] - Parse → layout → render with caching, used by the CLI and
// the HTTP service alike.
//
// [cache] - Cache interface with file, Redis, MongoDB and null backends.
//
// [server] - HTTP layout service.
//
// [observability] - Hooks for layout phases, pipeline stages, cache access
// and HTTP requests.
//
// [errors] - Coded errors and input validation.
//
// # Testing
//
//	go test ./pkg/...          # All tests
//	go test -short ./pkg/...   # Skip Graphviz rendering
//	go test -run Example       # Examples only
//
// Redis and MongoDB backend tests run when ERDLAYOUT_TEST_REDIS_ADDR or
// ERDLAYOUT_TEST_MONGO_URI is set.
//
// [diagram]: https://pkg.go.dev/github.com/matzehuels/erdlayout/pkg/diagram
// [dag]: https://pkg.go.dev/github.com/matzehuels/erdlayout/pkg/dag
// [dag/transform]: https://pkg.go.dev/github.com/matzehuels/erdlayout/pkg/dag/transform
// [layout]: https://pkg.go.dev/github.com/matzehuels/erdlayout/pkg/layout
// [graph]: https://pkg.go.dev/github.com/matzehuels/erdlayout/pkg/graph
// [render]: https://pkg.go.dev/github.com/matzehuels/erdlayout/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/erdlayout/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/erdlayout/pkg/cache
// [server]: https://pkg.go.dev/github.com/matzehuels/erdlayout/pkg/server
// [observability]: https://pkg.go.dev/github.com/matzehuels/erdlayout/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/erdlayout/pkg/errors
package pkg
