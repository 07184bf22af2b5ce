package diagram

import (
	"oss.terrastruct.com/d2/lib/geo"
)

// Entity is a positioned, sized box in a diagram (a table, a view, a nested
// group). The layout engine reads its bounds and writes its location back.
type Entity interface {
	// ID returns an identifier that is stable for the lifetime of the entity.
	ID() string
	// Label is used for diagnostics and rendering only.
	Label() string
	// Bounds returns the current box. Width and Height are treated as fixed
	// by the engine; only the top-left corner is moved.
	Bounds() *geo.Box
	// SetLocation moves the entity so that its top-left corner is p.
	SetLocation(p *geo.Point)
}

// Resizer is implemented by entities whose size can be assigned by the
// engine. Containers push their computed box onto wrapped entities that
// implement it.
type Resizer interface {
	SetSize(width, height float64)
}

// Relationship is a directed connection between two entities. Routing is
// delegated to the relationship itself so callers can plug in any router.
type Relationship interface {
	Source() Entity
	Target() Entity

	// Points returns the current polyline, source first.
	Points() geo.Route
	SetPoints(route geo.Route)

	// ComputeRoute turns the centre of both endpoints plus the suggested
	// bend points into a polyline.
	ComputeRoute(start, end *geo.Point, bends []*geo.Point) geo.Route
}

// Router computes the polyline of a relationship.
type Router interface {
	Route(source, target *geo.Box, start, end *geo.Point, bends []*geo.Point) geo.Route
}
