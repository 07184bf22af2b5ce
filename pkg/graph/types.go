package graph

import (
	"cmp"
	"slices"
	"unicode/utf8"

	"github.com/samber/lo"
)

// Input formats.
const (
	FormatJSON = "json"
	FormatTOML = "toml"
)

// Node sizing used when a node has no explicit width or height.
const (
	DefaultNodeWidth = 160.0
	MinNodeHeight    = 40.0
	HeaderHeight     = 28.0
	ColumnHeight     = 20.0
	CharWidth        = 7.0
	NodePadding      = 24.0
)

// Column keys.
const (
	KeyPrimary = "pk"
	KeyForeign = "fk"
)

// =============================================================================
// Diagram - Layout Input
// =============================================================================

// Diagram is the input format: tables, optional grouping and the
// relationships between tables.
//
//	{
//	  "nodes": [
//	    {"id": "sales", "label": "Sales"},
//	    {"id": "orders", "parent": "sales", "columns": [{"name": "id", "key": "pk"}]},
//	    {"id": "users"}
//	  ],
//	  "edges": [{"from": "orders", "to": "users", "label": "placed by"}]
//	}
//
// A node referenced as a parent becomes a container holding its children.
type Diagram struct {
	Nodes []Node `json:"nodes" toml:"nodes"`
	Edges []Edge `json:"edges" toml:"edges"`
}

// Node is a table or, when other nodes name it as parent, a group.
type Node struct {
	ID      string            `json:"id" toml:"id"`
	Label   string            `json:"label,omitempty" toml:"label,omitempty"`
	Parent  string            `json:"parent,omitempty" toml:"parent,omitempty"`
	Width   float64           `json:"width,omitempty" toml:"width,omitempty"`
	Height  float64           `json:"height,omitempty" toml:"height,omitempty"`
	Columns []Column          `json:"columns,omitempty" toml:"columns,omitempty"`
	Meta    map[string]string `json:"meta,omitempty" toml:"meta,omitempty"`
}

// Column is one attribute row of a table.
type Column struct {
	Name string `json:"name" toml:"name"`
	Type string `json:"type,omitempty" toml:"type,omitempty"`
	Key  string `json:"key,omitempty" toml:"key,omitempty"`
}

// Edge is a directed relationship, usually from the referencing table to
// the referenced one.
type Edge struct {
	From  string `json:"from" toml:"from"`
	To    string `json:"to" toml:"to"`
	Label string `json:"label,omitempty" toml:"label,omitempty"`
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// Size returns the explicit size, or one derived from the label and the
// columns for dimensions left at zero.
func (n *Node) Size() (width, height float64) {
	width, height = n.Width, n.Height
	if width <= 0 {
		chars := utf8.RuneCountInString(n.DisplayLabel())
		for _, c := range n.Columns {
			chars = max(chars, utf8.RuneCountInString(c.Name)+utf8.RuneCountInString(c.Type)+4)
		}
		width = max(DefaultNodeWidth, float64(chars)*CharWidth+NodePadding)
	}
	if height <= 0 {
		height = max(MinNodeHeight, HeaderHeight+float64(len(n.Columns))*ColumnHeight)
	}
	return width, height
}

// =============================================================================
// Layout - Layout Output
// =============================================================================

// Layout is the computed placement of a [Diagram]. Coordinates are absolute
// with the top-left corner of the drawing at (0, 0).
type Layout struct {
	ID     string       `json:"id,omitempty"`
	Width  float64      `json:"width"`
	Height float64      `json:"height"`
	Nodes  []PlacedNode `json:"nodes"`
	Edges  []Route      `json:"edges"`
	Stats  Stats        `json:"stats"`
}

// PlacedNode is a node with its final box.
type PlacedNode struct {
	ID        string            `json:"id"`
	Label     string            `json:"label"`
	Parent    string            `json:"parent,omitempty"`
	Container bool              `json:"container,omitempty"`
	X         float64           `json:"x"`
	Y         float64           `json:"y"`
	Width     float64           `json:"width"`
	Height    float64           `json:"height"`
	Level     int               `json:"level"`
	Order     int               `json:"order"`
	Columns   []Column          `json:"columns,omitempty"`
	Meta      map[string]string `json:"meta,omitempty"`
}

// Route is the polyline of an edge. Dropped edges have no points.
type Route struct {
	From    string  `json:"from"`
	To      string  `json:"to"`
	Label   string  `json:"label,omitempty"`
	Points  []Point `json:"points,omitempty"`
	Dropped bool    `json:"dropped,omitempty"`
}

// Point is a position in layout coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Stats summarizes a layout run over the top level and every container.
type Stats struct {
	Nodes      int     `json:"nodes"`
	Edges      int     `json:"edges"`
	Dropped    int     `json:"dropped"`
	Reversed   int     `json:"reversed"`
	Dummies    int     `json:"dummies"`
	Depth      int     `json:"depth"`
	Crossings  int     `json:"crossings"`
	DurationMS float64 `json:"duration_ms"`
}

// Node returns the placed node with the given ID.
func (l *Layout) Node(id string) (PlacedNode, bool) {
	for _, n := range l.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return PlacedNode{}, false
}

// Levels groups the IDs of top-level nodes by level, sorted by order.
func (l *Layout) Levels() map[int][]string {
	top := lo.Filter(l.Nodes, func(n PlacedNode, _ int) bool { return n.Parent == "" })
	byLevel := lo.GroupBy(top, func(n PlacedNode) int { return n.Level })
	return lo.MapValues(byLevel, func(nodes []PlacedNode, _ int) []string {
		slices.SortStableFunc(nodes, func(a, b PlacedNode) int { return cmp.Compare(a.Order, b.Order) })
		return lo.Map(nodes, func(n PlacedNode, _ int) string { return n.ID })
	})
}
