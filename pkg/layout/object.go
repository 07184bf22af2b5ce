package layout

import (
	"github.com/matzehuels/erdlayout/pkg/diagram"
)

// Object is anything that can be registered with a [Layout]: a
// [NodeObject], an [EdgeObject] or a [*Container]. The set is closed.
type Object interface {
	object()
}

// NodeObject registers an entity as a node.
type NodeObject struct {
	Entity diagram.Entity
}

// EdgeObject registers a relationship as an edge.
type EdgeObject struct {
	Relationship diagram.Relationship
}

func (NodeObject) object() {}
func (EdgeObject) object() {}
func (*Container) object() {}

// Node wraps e as an Object.
func Node(e diagram.Entity) Object { return NodeObject{Entity: e} }

// Edge wraps r as an Object.
func Edge(r diagram.Relationship) Object { return EdgeObject{Relationship: r} }

// sameObject compares by the identity of the wrapped entity, relationship
// or container.
func sameObject(a, b Object) bool {
	switch x := a.(type) {
	case NodeObject:
		y, ok := b.(NodeObject)
		return ok && x.Entity == y.Entity
	case EdgeObject:
		y, ok := b.(EdgeObject)
		return ok && x.Relationship == y.Relationship
	case *Container:
		y, ok := b.(*Container)
		return ok && x == y
	}
	return false
}
