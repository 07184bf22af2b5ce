package transform

import "github.com/matzehuels/erdlayout/pkg/dag"

// Result summarises what [Normalize] changed.
type Result struct {
	Reversed int // edges reversed to break cycles
	Depth    int // highest level
	Dummies  int // dummy nodes inserted by MakeProper
}

// Normalize runs the structural phases in order: cycle removal, level
// assignment and subdivision of long edges. Afterwards the graph is acyclic
// and proper, ready for ordering and coordinate assignment.
//
// It is a convenience for using this package on a standalone graph. The
// layout engine calls the three phases one by one so that each is timed
// and reported to the observability hooks, and relies on this order.
func Normalize(g *dag.Graph) Result {
	var r Result
	r.Reversed = RemoveCycles(g)
	r.Depth = AssignLevels(g)
	r.Dummies = MakeProper(g)
	return r
}
