package diagram

import (
	"oss.terrastruct.com/d2/lib/geo"
)

// StraightRouter returns [start, bends..., end] unchanged.
type StraightRouter struct{}

func (StraightRouter) Route(_, _ *geo.Box, start, end *geo.Point, bends []*geo.Point) geo.Route {
	return polyline(start, end, bends)
}

// BoxRouter builds the same polyline as [StraightRouter] and then clips the
// first and last segments at the outline of the source and target boxes.
// Endpoints whose segment never leaves the box (overlapping boxes, a bend
// inside the box) keep the centre point.
type BoxRouter struct{}

func (BoxRouter) Route(source, target *geo.Box, start, end *geo.Point, bends []*geo.Point) geo.Route {
	route := polyline(start, end, bends)
	if len(route) < 2 {
		return route
	}
	if source != nil {
		if p := clip(source, route[0], route[1]); p != nil {
			route[0] = p
		}
	}
	if target != nil {
		last := len(route) - 1
		if p := clip(target, route[last], route[last-1]); p != nil {
			route[last] = p
		}
	}
	return route
}

// clip returns where the segment from inside (a point in box) to outside
// crosses the box outline, or nil when it does not.
func clip(box *geo.Box, inside, outside *geo.Point) *geo.Point {
	pts := box.Intersections(geo.Segment{Start: inside, End: outside})
	if len(pts) == 0 {
		return nil
	}
	best := pts[0]
	for _, p := range pts[1:] {
		if dist2(p, outside) < dist2(best, outside) {
			best = p
		}
	}
	return best
}

func dist2(a, b *geo.Point) float64 {
	dx, dy := a.X-b.X, a.Y-b.Y
	return dx*dx + dy*dy
}

func polyline(start, end *geo.Point, bends []*geo.Point) geo.Route {
	route := make(geo.Route, 0, len(bends)+2)
	route = append(route, start.Copy())
	for _, b := range bends {
		route = append(route, b.Copy())
	}
	return append(route, end.Copy())
}

var (
	_ Router = StraightRouter{}
	_ Router = BoxRouter{}
)
