package transform

import (
	"slices"

	"github.com/matzehuels/erdlayout/pkg/dag"
)

// RemoveCycles makes the graph acyclic by reversing a small set of edges and
// returns how many were reversed. Reversed edges get their Marked flag set
// so routing can restore the original direction.
//
// # Algorithm
//
// RemoveCycles computes a vertex sequence with the greedy heuristic of Eades,
// Lin and Smyth and reverses every edge that points backwards in it:
//  1. Repeatedly move sinks to the front of the right-hand sequence
//  2. Repeatedly move sources to the end of the left-hand sequence
//  3. If nodes remain, move the one with the largest out-degree minus
//     in-degree to the left-hand sequence and start over
//
// Ties are broken by insertion order, so the result is deterministic.
// Self-loops are ignored; they never enter the adjacency lists.
//
// The node Marked flags are used as "already sequenced" markers and are
// cleared again before returning.
//
// # Performance
//
// Time complexity is O(V² + E) in the worst case; each sweep over the
// remaining nodes removes at least one of them.
func RemoveCycles(g *dag.Graph) int {
	nodes := g.Nodes()
	if len(nodes) == 0 {
		return 0
	}

	in := g.IncomingIndex()
	inDeg := make(map[*dag.Node]int, len(nodes))
	outDeg := make(map[*dag.Node]int, len(nodes))
	for _, n := range nodes {
		inDeg[n] = len(in[n])
		outDeg[n] = g.OutDegree(n)
	}

	g.SetMarked(false)
	var left, right []*dag.Node
	remaining := len(nodes)
	take := func(n *dag.Node) {
		n.Marked = true
		remaining--
		for _, head := range g.OutgoingNeighbours(n) {
			inDeg[head]--
		}
		for _, tail := range in[n] {
			outDeg[tail]--
		}
	}

	for remaining > 0 {
		for progress := true; progress; {
			progress = false
			for _, n := range nodes {
				if !n.Marked && outDeg[n] == 0 {
					right = append(right, n)
					take(n)
					progress = true
				}
			}
		}
		for progress := true; progress; {
			progress = false
			for _, n := range nodes {
				if !n.Marked && inDeg[n] == 0 {
					left = append(left, n)
					take(n)
					progress = true
				}
			}
		}
		if remaining == 0 {
			break
		}
		var best *dag.Node
		for _, n := range nodes {
			if n.Marked {
				continue
			}
			if best == nil || outDeg[n]-inDeg[n] > outDeg[best]-inDeg[best] {
				best = n
			}
		}
		left = append(left, best)
		take(best)
	}
	g.SetMarked(false)

	// Sinks taken first belong at the very end.
	slices.Reverse(right)
	rank := make(map[*dag.Node]int, len(nodes))
	for i, n := range append(left, right...) {
		rank[n] = i
	}

	reversed := 0
	for _, e := range g.Edges() {
		if e.IsSelfLoop() {
			continue
		}
		if rank[e.Tail()] > rank[e.Head()] {
			g.Reverse(e)
			reversed++
		}
	}
	return reversed
}
