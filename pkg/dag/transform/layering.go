package transform

import "github.com/matzehuels/erdlayout/pkg/dag"

// AssignLevels assigns every node to a level and returns the depth (the
// highest level).
//
// AssignLevels uses a longest-path algorithm via reverse topological sort
// (Kahn's algorithm run from the sinks). Each node is placed one level above
// the highest of its outgoing neighbours, ensuring that:
//   - Sink nodes (no outgoing edges) are at level 0
//   - Every edge points from a higher level to a strictly lower one
//   - Each node is pushed as high as its longest outgoing path requires
//
// Existing levels and orders are overwritten; orders are reset to 0 so the
// next [dag.Graph.Level] call hands them out again in insertion sequence.
//
// # Cycles
//
// AssignLevels assumes the graph is acyclic. Nodes on a cycle never reach
// zero out-degree and keep level 0. Run [RemoveCycles] first.
//
// # Performance
//
// Time complexity is O(V + E), where V is nodes and E is edges.
func AssignLevels(g *dag.Graph) int {
	nodes := g.Nodes()
	in := g.IncomingIndex()
	outDeg := make(map[*dag.Node]int, len(nodes))
	queue := make([]*dag.Node, 0, len(nodes))

	for _, n := range nodes {
		n.Level, n.Order = 0, 0
		outDeg[n] = g.OutDegree(n)
		if outDeg[n] == 0 {
			queue = append(queue, n)
		}
	}

	depth := 0
	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]
		depth = max(depth, curr.Level)

		for _, tail := range in[curr] {
			if level := curr.Level + 1; level > tail.Level {
				tail.Level = level
			}
			outDeg[tail]--
			if outDeg[tail] == 0 {
				queue = append(queue, tail)
			}
		}
	}
	return depth
}
