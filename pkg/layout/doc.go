// Package layout arranges entity-relationship diagrams in levels.
//
// # Overview
//
// A [Layout] collects entities, relationships and nested containers, then
// [Layout.Run] places every entity and routes every relationship:
//
//  1. cycle removal reverses a small set of edges so the graph is acyclic
//  2. level assignment puts sinks on level 0 and every other node one level
//     above its highest successor
//  3. edges spanning several levels are split by dummy nodes
//  4. crossing reduction orders the nodes of every level
//  5. coordinate assignment turns levels and orders into positions
//  6. every relationship is routed through the positions of its dummies
//
// The deepest level is drawn at the top. The top row starts at y = 0 and the
// leftmost entity at x = 0; use [Layout.SetLocation] to move the result.
//
// # Usage
//
//	l := layout.New(layout.Config{HorizontalGap: 60})
//	l.Add(layout.Node(users))
//	l.Add(layout.Node(orders))
//	l.Add(layout.Edge(ordersToUsers))
//	stats := l.Run()
//
// Registered objects persist across runs; every run rebuilds the graph, so
// calling Run twice gives the same placement.
//
// # Failure Handling
//
// Layout never fails. Relationships whose endpoints were not registered are
// skipped and counted in [Stats.Dropped]. Nil objects are ignored. Both are
// reported through the logger set with [WithLogger].
//
// # Containers
//
// A [Container] owns a nested Layout of its own and is registered in the
// outer layout like any other node. Its box is the nested bounds grown by
// its [Insets].
package layout
