// Package dag provides the layered multigraph used by the hierarchical
// layout engine.
//
// # Overview
//
// The layout engine arranges diagram entities into horizontal levels and
// orders them inside each level to keep edge crossings low. This package
// holds the data structure every phase works on: nodes with a level and an
// order, directed adjacency lists, and the bookkeeping needed to subdivide
// edges that span several levels.
//
// # Basic Usage
//
// Wrap entities in nodes with [NewNode], add them with [Graph.AddNode] and
// connect them with [Graph.AddEdge]:
//
//	g := dag.New()
//	users, orders := dag.NewNode(usersTable), dag.NewNode(ordersTable)
//	g.AddNode(users)
//	g.AddNode(orders)
//	g.AddEdge(dag.NewEdge(ordersToUsers))
//
// Real edges find their endpoints through the entity index. An edge whose
// source or target entity was never added is dropped and AddEdge returns
// false; callers decide whether that is worth reporting.
//
// # Node Types
//
//   - [NodeKindReal]: wraps a [diagram.Entity]; location writes reach the entity
//   - [NodeKindDummy]: inserted by [Graph.SubdivideEdge]; owned by its edge
//
// Dummy nodes are full graph members (they are counted and returned by
// [Graph.Level]) but are not reachable through the entity index.
//
// # Levels and Orders
//
// Sinks sit on level 0 and edges point from higher to lower levels, so the
// deepest level is drawn on top. Order 0 means "unassigned"; [Graph.Level]
// hands out the next free order to such nodes in insertion sequence, which
// keeps the initial ordering deterministic.
//
// # Edge Crossings
//
// [CountCrossings] and [CountLayerCrossings] use a Fenwick tree (binary
// indexed tree) to count inversions in O(E log V) time; [CountPairCrossings]
// supports the adjacent-swap local search.
//
// # Concurrency
//
// Graph instances are not safe for concurrent use. The layout engine builds
// a fresh graph for every run, so separate layouts never share one.
//
// # Related Packages
//
// The [transform] subpackage implements the layout phases on top of Graph.
//
// [transform]: github.com/matzehuels/erdlayout/pkg/dag/transform
package dag
