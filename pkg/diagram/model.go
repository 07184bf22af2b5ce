package diagram

import (
	"oss.terrastruct.com/d2/lib/geo"
)

// Table is an in-memory [Entity]. The zero value is not usable; create
// tables with [NewTable].
type Table struct {
	id    string
	label string
	box   *geo.Box

	// Meta carries arbitrary attributes (schema, column count, colour)
	// through serialization and rendering.
	Meta map[string]any
}

// NewTable creates a table of the given size located at the origin. An
// empty label defaults to the ID.
func NewTable(id, label string, width, height float64) *Table {
	if label == "" {
		label = id
	}
	return &Table{
		id:    id,
		label: label,
		box:   geo.NewBox(geo.NewPoint(0, 0), width, height),
		Meta:  map[string]any{},
	}
}

func (t *Table) ID() string    { return t.id }
func (t *Table) Label() string { return t.label }

// Bounds returns a copy of the table's box.
func (t *Table) Bounds() *geo.Box { return t.box.Copy() }

// Location returns a copy of the top-left corner.
func (t *Table) Location() *geo.Point { return t.box.TopLeft.Copy() }

func (t *Table) SetLocation(p *geo.Point) { t.box.TopLeft = p.Copy() }

func (t *Table) SetSize(width, height float64) {
	t.box.Width = width
	t.box.Height = height
}

// Relation is an in-memory [Relationship] that delegates routing to a
// [Router].
type Relation struct {
	source Entity
	target Entity
	router Router
	route  geo.Route

	Label string
}

// NewRelation creates a relation from source to target. A nil router
// selects [BoxRouter].
func NewRelation(source, target Entity, router Router) *Relation {
	if router == nil {
		router = BoxRouter{}
	}
	return &Relation{source: source, target: target, router: router}
}

func (r *Relation) Source() Entity { return r.source }
func (r *Relation) Target() Entity { return r.target }

// Points returns a copy of the current route.
func (r *Relation) Points() geo.Route { return copyRoute(r.route) }

func (r *Relation) SetPoints(route geo.Route) { r.route = copyRoute(route) }

func (r *Relation) ComputeRoute(start, end *geo.Point, bends []*geo.Point) geo.Route {
	return r.router.Route(r.source.Bounds(), r.target.Bounds(), start, end, bends)
}

func copyRoute(route geo.Route) geo.Route {
	if route == nil {
		return nil
	}
	out := make(geo.Route, len(route))
	for i, p := range route {
		out[i] = p.Copy()
	}
	return out
}

var (
	_ Entity       = (*Table)(nil)
	_ Resizer      = (*Table)(nil)
	_ Relationship = (*Relation)(nil)
)
