// Package transform implements the phases of the hierarchical layout on a
// [dag.Graph].
//
// # Overview
//
// Diagrams arrive as arbitrary directed multigraphs. The phases in this
// package turn one into a proper layered drawing:
//
//  1. [RemoveCycles] reverses a small set of edges so the graph is acyclic
//  2. [AssignLevels] puts every node on a level, sinks on level 0
//  3. [MakeProper] replaces edges spanning several levels by dummy chains
//  4. [ReduceCrossings] orders each level to reduce edge crossings
//  5. [AssignCoordinates] computes the centre of every node
//
// [Normalize] runs the first three, which only change structure.
//
// # Cycle Removal
//
// Entity-relationship diagrams often contain cycles (self-referencing
// foreign keys, mutual references). Edges are reversed, never removed, and
// the reversal is recorded on the edge so the route can still be drawn from
// source to target.
//
// # Crossing Reduction
//
// Level orders are improved with barycenter sweeps and adjacent
// transpositions. Ties keep the previous order, and the first ordering is
// insertion order, so identical input produces identical output.
//
// # Coordinate Assignment
//
// Horizontal positions use the Brandes-Köpf algorithm, which aligns long
// edges vertically and balances four candidate placements. Vertical
// positions follow directly from the levels.
//
// # Usage
//
//	transform.Normalize(g)
//	transform.ReduceCrossings(g, transform.DefaultOrderingIterations)
//	centers := transform.AssignCoordinates(g, transform.CoordinateOptions{
//	    HorizontalGap: 100,
//	    VerticalGap:   100,
//	})
package transform
