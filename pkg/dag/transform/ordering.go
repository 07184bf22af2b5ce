package transform

import (
	"slices"

	"github.com/matzehuels/erdlayout/pkg/dag"
)

// DefaultOrderingIterations is the sweep budget used when a caller passes a
// non-positive iteration count to [ReduceCrossings].
const DefaultOrderingIterations = 24

// maxTransposePasses bounds the adjacent-swap refinement after each sweep.
const maxTransposePasses = 8

// ReduceCrossings reorders the nodes inside each level to reduce edge
// crossings and returns the number of crossings of the final ordering. The
// graph must be proper (see [MakeProper]).
//
// # Algorithm
//
// The initial ordering is the one [dag.Graph.Level] hands out: insertion
// sequence. Each iteration then performs
//  1. a downward sweep that sorts every level by the barycenter of its
//     upper neighbours' positions,
//  2. an upward sweep that does the same with lower neighbours,
//  3. a transposition pass that swaps adjacent nodes while that lowers the
//     crossings towards both adjacent levels.
//
// The best ordering seen is kept. Iteration stops after the budget is spent,
// when an iteration fails to improve on the best ordering, or when no
// crossings remain.
//
// # Tie-Breaking
//
// Sorting is stable: nodes with equal barycenters keep their previous
// relative order. A node without neighbours in the fixed level uses its own
// current position as barycenter, so it stays roughly in place. Transposition
// only swaps on a strict improvement.
func ReduceCrossings(g *dag.Graph, iterations int) int {
	if iterations <= 0 {
		iterations = DefaultOrderingIterations
	}
	levels := g.Levels()
	if len(levels) < 2 {
		writeOrders(levels)
		return 0
	}

	in := g.IncomingIndex()
	upper := func(n *dag.Node) []*dag.Node { return in[n] }
	lower := g.OutgoingNeighbours

	best := cloneLevels(levels)
	bestCrossings := countAll(g, levels)

	for it := 0; it < iterations && bestCrossings > 0; it++ {
		for i := 1; i < len(levels); i++ {
			sortByBarycenter(levels[i], levels[i-1], upper)
		}
		for i := len(levels) - 2; i >= 0; i-- {
			sortByBarycenter(levels[i], levels[i+1], lower)
		}
		transpose(levels, upper, lower)

		c := countAll(g, levels)
		if c >= bestCrossings {
			break
		}
		bestCrossings = c
		best = cloneLevels(levels)
	}

	writeOrders(best)
	return bestCrossings
}

func sortByBarycenter(level, fixed []*dag.Node, nbrs func(*dag.Node) []*dag.Node) {
	pos := dag.PosMap(fixed)
	keys := make(map[*dag.Node]float64, len(level))
	for i, n := range level {
		sum, count := 0, 0
		for _, m := range nbrs(n) {
			if p, ok := pos[m]; ok {
				sum += p
				count++
			}
		}
		if count == 0 {
			keys[n] = float64(i)
			continue
		}
		keys[n] = float64(sum) / float64(count)
	}
	slices.SortStableFunc(level, func(a, b *dag.Node) int {
		switch ka, kb := keys[a], keys[b]; {
		case ka < kb:
			return -1
		case ka > kb:
			return 1
		}
		return 0
	})
}

func transpose(levels [][]*dag.Node, upper, lower func(*dag.Node) []*dag.Node) {
	for pass := 0; pass < maxTransposePasses; pass++ {
		improved := false
		for i, level := range levels {
			var upPos, downPos map[*dag.Node]int
			if i > 0 {
				upPos = dag.PosMap(levels[i-1])
			}
			if i+1 < len(levels) {
				downPos = dag.PosMap(levels[i+1])
			}
			for j := 0; j+1 < len(level); j++ {
				v, w := level[j], level[j+1]
				keep := dag.CountPairCrossings(upper(v), upper(w), upPos) +
					dag.CountPairCrossings(lower(v), lower(w), downPos)
				swap := dag.CountPairCrossings(upper(w), upper(v), upPos) +
					dag.CountPairCrossings(lower(w), lower(v), downPos)
				if swap < keep {
					level[j], level[j+1] = w, v
					improved = true
				}
			}
		}
		if !improved {
			return
		}
	}
}

func countAll(g *dag.Graph, levels [][]*dag.Node) int {
	total := 0
	for i := 0; i+1 < len(levels); i++ {
		total += dag.CountLayerCrossings(g, levels[i], levels[i+1])
	}
	return total
}

func cloneLevels(levels [][]*dag.Node) [][]*dag.Node {
	out := make([][]*dag.Node, len(levels))
	for i, l := range levels {
		out[i] = slices.Clone(l)
	}
	return out
}

func writeOrders(levels [][]*dag.Node) {
	for _, level := range levels {
		for i, n := range level {
			n.Order = i + 1
		}
	}
}
