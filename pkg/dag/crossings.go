package dag

import (
	"slices"
)

// CountCrossings returns the total number of edge crossings for the current
// orders. It sums the crossings between each pair of consecutive levels,
// from the deepest level down to level 0.
//
// It runs in O(L × E log V) time where L is the number of levels, E is edges
// per layer, and V is nodes per layer.
func CountCrossings(g *Graph) int {
	levels := g.Levels()
	crossings := 0
	for i := 0; i+1 < len(levels); i++ {
		crossings += CountLayerCrossings(g, levels[i], levels[i+1])
	}
	return crossings
}

// CountLayerCrossings counts edge crossings between an upper level and the
// level directly below it using a Fenwick tree (binary indexed tree) for
// O(E log V) performance where E is the number of edges between the levels
// and V is the number of nodes in the lower level.
//
// Two edges (u1,v1) and (u2,v2) cross if and only if:
//
//	pos(u1) < pos(u2) AND pos(v1) > pos(v2)
//
// This is equivalent to counting inversions in the sequence of target positions
// when edges are sorted by source position. The slices give the left-to-right
// order of each level; edges to nodes outside lower are ignored.
//
// Returns 0 if either level is empty or nil, as no crossings can exist without edges.
func CountLayerCrossings(g *Graph, upper, lower []*Node) int {
	if len(upper) == 0 || len(lower) == 0 {
		return 0
	}

	lowerPos := PosMap(lower)

	type edge struct{ upper, lower int }
	edges := make([]edge, 0, len(upper)*2)
	for i, n := range upper {
		for _, head := range g.OutgoingNeighbours(n) {
			if pos, ok := lowerPos[head]; ok {
				edges = append(edges, edge{i, pos})
			}
		}
	}
	if len(edges) < 2 {
		return 0
	}

	// Sort edges by source position, then by target position
	slices.SortFunc(edges, func(a, b edge) int {
		if a.upper != b.upper {
			return a.upper - b.upper
		}
		return a.lower - b.lower
	})

	fenwick := make([]int, len(lower)+1)
	crossings, total := 0, 0
	for _, e := range edges {
		// Query: count edges seen so far with target <= e.lower
		lessOrEqual := 0
		for q := e.lower + 1; q > 0; q -= q & (-q) {
			lessOrEqual += fenwick[q]
		}
		crossings += total - lessOrEqual

		total++
		for idx := e.lower + 1; idx < len(fenwick); idx += idx & (-idx) {
			fenwick[idx]++
		}
	}
	return crossings
}

// CountPairCrossings counts the crossings between the edges of two nodes of
// the same level towards one adjacent level, given left stays left of right.
// leftNbrs and rightNbrs are the neighbours of each node in that adjacent
// level and adjPos their positions there; neighbours missing from adjPos are
// ignored.
//
// Local search compares CountPairCrossings(l, r) with CountPairCrossings(r, l)
// to decide whether swapping two adjacent nodes pays off.
func CountPairCrossings(leftNbrs, rightNbrs []*Node, adjPos map[*Node]int) int {
	crossings := 0
	for _, ln := range leftNbrs {
		lp, ok := adjPos[ln]
		if !ok {
			continue
		}
		for _, rn := range rightNbrs {
			// If left's neighbour is to the right of right's neighbour, they cross
			if rp, ok := adjPos[rn]; ok && lp > rp {
				crossings++
			}
		}
	}
	return crossings
}
