package transform

import "github.com/matzehuels/erdlayout/pkg/dag"

// MakeProper subdivides every edge that spans more than one level and
// returns the number of dummy nodes inserted.
//
// An edge from level t to level h (t-h = k > 1) is replaced by a chain of
// k-1 dummy nodes on levels t-1 ... h+1, so every adjacency entry afterwards
// connects consecutive levels:
//
//	Before: orders (level 3) -> users (level 0)
//	After:  orders -> d(2) -> d(1) -> users
//
// The chain is recorded on the edge (see [dag.Edge.Dummies]) and later
// becomes the edge's bend points. Levels must already be assigned.
func MakeProper(g *dag.Graph) int {
	added := 0
	for _, e := range g.Edges() {
		if e.IsSelfLoop() {
			continue
		}
		if span := e.Tail().Level - e.Head().Level; span > 1 {
			added += len(g.SubdivideEdge(e, span))
		}
	}
	return added
}
