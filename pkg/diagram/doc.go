// Package diagram defines the entity-relationship model the layout engine
// operates on.
//
// # Overview
//
// The engine never owns diagram data. It consumes two narrow interfaces:
//
//   - [Entity]: a box with an identifier, a label and a writable location
//   - [Relationship]: a directed connection that can compute its own route
//
// Any diagram model (an ERD editor, a schema introspector, a test fixture)
// can be laid out by implementing them.
//
// # Reference Model
//
// [Table] and [Relation] are simple in-memory implementations used by the
// CLI, the HTTP service and the tests. A [Relation] delegates routing to a
// [Router]; [BoxRouter] is the default and clips the polyline at the
// endpoint boxes so edges start and end on the box outline.
//
// Geometry types come from oss.terrastruct.com/d2/lib/geo.
package diagram
