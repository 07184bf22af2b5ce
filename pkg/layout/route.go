package layout

import (
	"github.com/samber/lo"
	"oss.terrastruct.com/d2/lib/geo"

	"github.com/matzehuels/erdlayout/pkg/dag"
)

// maxLoopOffset caps how far a self-loop bulges out of its node.
const maxLoopOffset = 20.0

// route computes the polyline of every connected relationship from the
// final node boxes.
func (l *Layout) route(g *dag.Graph, centers map[*dag.Node]*geo.Point) {
	for _, e := range g.Edges() {
		rel, ok := e.Relationship()
		if !ok {
			continue
		}
		src, dst := e.Source().Bounds(), e.Target().Bounds()

		var bends []*geo.Point
		if e.IsSelfLoop() {
			bends = loopBends(src, min(l.cfg.HorizontalGap/2, maxLoopOffset))
		} else {
			bends = lo.Map(e.Bends(), func(n *dag.Node, _ int) *geo.Point {
				return centers[n].Copy()
			})
		}

		pts := rel.ComputeRoute(src.Center(), dst.Center(), bends)
		if !e.IsSelfLoop() {
			recenter(pts, src, dst)
		}
		for _, p := range pts {
			p.X, p.Y = snap(p.X), snap(p.Y)
		}
		rel.SetPoints(pts)
	}
}

// loopBends returns two points right of box, at one and three quarters of
// its height.
func loopBends(box *geo.Box, offset float64) []*geo.Point {
	x := box.TopLeft.X + box.Width + offset
	return []*geo.Point{
		geo.NewPoint(x, box.TopLeft.Y+box.Height/4),
		geo.NewPoint(x, box.TopLeft.Y+3*box.Height/4),
	}
}

// recenter moves a straight vertical or horizontal route to the middle of
// the span where the two boxes overlap, so that the edge does not end on a
// corner. Routes that are not axis aligned are left alone.
func recenter(pts geo.Route, src, dst *geo.Box) {
	if len(pts) < 2 {
		return
	}
	first, last := pts[0], pts[len(pts)-1]
	switch {
	case first.X == last.X:
		lo, hi := overlap(src.TopLeft.X, src.Width, dst.TopLeft.X, dst.Width)
		if lo >= hi {
			return
		}
		x := first.X
		for _, p := range pts {
			if p.X == x {
				p.X = (lo + hi) / 2
			}
		}
	case first.Y == last.Y:
		lo, hi := overlap(src.TopLeft.Y, src.Height, dst.TopLeft.Y, dst.Height)
		if lo >= hi {
			return
		}
		y := first.Y
		for _, p := range pts {
			if p.Y == y {
				p.Y = (lo + hi) / 2
			}
		}
	}
}

func overlap(a, aLen, b, bLen float64) (float64, float64) {
	return max(a, b), min(a+aLen, b+bLen)
}
