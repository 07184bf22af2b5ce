package styles

import "bytes"

// Style defines the visual appearance of a rendered diagram.
// Implementations control how groups, tables, edges and text are drawn.
type Style interface {
	// Name identifies the style in options and cache keys.
	Name() string
	// RenderDefs writes SVG <defs> content (markers, gradients).
	RenderDefs(buf *bytes.Buffer)
	// RenderBackground fills the canvas.
	RenderBackground(buf *bytes.Buffer, width, height float64)
	// RenderGroup writes the frame of a group node.
	RenderGroup(buf *bytes.Buffer, t Table)
	// RenderTable writes the body of a table, including its column rows.
	RenderTable(buf *bytes.Buffer, t Table)
	// RenderEdge writes a relationship polyline.
	RenderEdge(buf *bytes.Buffer, e Edge)
	// RenderText writes the title and column text of a table or group.
	RenderText(buf *bytes.Buffer, t Table)
}

// Table contains all data needed to draw a table or group.
type Table struct {
	ID, Label  string
	X, Y, W, H float64
	Header     float64 // Height of the title band
	Row        float64 // Height of one column row
	Columns    []Column
	Group      bool
	Depth      int // Nesting depth, 0 for top-level nodes
}

// Column is one attribute row.
type Column struct {
	Name, Type, Key string
}

// Edge contains the polyline of a relationship.
type Edge struct {
	FromID, ToID string
	Label        string
	Points       []Point
}

// Point is an SVG coordinate.
type Point struct{ X, Y float64 }

// Midpoint returns the point halfway along the polyline, measured by
// segment count.
func (e Edge) Midpoint() Point {
	switch n := len(e.Points); {
	case n == 0:
		return Point{}
	case n%2 == 1:
		return e.Points[n/2]
	default:
		a, b := e.Points[n/2-1], e.Points[n/2]
		return Point{(a.X + b.X) / 2, (a.Y + b.Y) / 2}
	}
}
