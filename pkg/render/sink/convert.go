package sink

import (
	"cmp"
	"slices"

	"github.com/samber/lo"

	"github.com/matzehuels/erdlayout/pkg/graph"
	"github.com/matzehuels/erdlayout/pkg/render/styles"
)

// buildTables converts the placed nodes, outermost groups first so that
// nested frames and tables are drawn on top of their parents.
func buildTables(l graph.Layout, offset float64) []styles.Table {
	parents := lo.SliceToMap(l.Nodes, func(n graph.PlacedNode) (string, string) { return n.ID, n.Parent })
	tables := lo.Map(l.Nodes, func(n graph.PlacedNode, _ int) styles.Table {
		return styles.Table{
			ID:     n.ID,
			Label:  n.Label,
			X:      n.X + offset,
			Y:      n.Y + offset,
			W:      n.Width,
			H:      n.Height,
			Header: graph.HeaderHeight,
			Row:    graph.ColumnHeight,
			Columns: lo.Map(n.Columns, func(c graph.Column, _ int) styles.Column {
				return styles.Column{Name: c.Name, Type: c.Type, Key: c.Key}
			}),
			Group: n.Container,
			Depth: depth(parents, n.ID),
		}
	})
	slices.SortStableFunc(tables, func(a, b styles.Table) int { return cmp.Compare(a.Depth, b.Depth) })
	return tables
}

func depth(parents map[string]string, id string) int {
	d := 0
	for p := parents[id]; p != "" && d <= len(parents); p = parents[p] {
		d++
	}
	return d
}

func buildEdges(l graph.Layout, offset float64) []styles.Edge {
	routed := lo.Filter(l.Edges, func(r graph.Route, _ int) bool { return !r.Dropped && len(r.Points) >= 2 })
	return lo.Map(routed, func(r graph.Route, _ int) styles.Edge {
		return styles.Edge{
			FromID: r.From,
			ToID:   r.To,
			Label:  r.Label,
			Points: lo.Map(r.Points, func(p graph.Point, _ int) styles.Point {
				return styles.Point{X: p.X + offset, Y: p.Y + offset}
			}),
		}
	})
}
