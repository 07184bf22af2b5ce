package dag

import (
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/charmbracelet/log"
	"oss.terrastruct.com/d2/lib/geo"

	"github.com/matzehuels/erdlayout/pkg/diagram"
)

var (
	// ErrNotProper is returned by [Graph.Validate] when an adjacency entry
	// does not connect two consecutive levels (tail.Level-1 != head.Level).
	ErrNotProper = errors.New("edges must connect consecutive levels")

	// ErrGraphHasCycle is returned by [Graph.Validate] when a directed cycle
	// is detected. Cycles are detected using depth-first search with
	// white/gray/black coloring.
	ErrGraphHasCycle = errors.New("graph contains a cycle")

	// ErrDuplicateOrder is returned by [Graph.Validate] when two nodes of the
	// same level share a non-zero order.
	ErrDuplicateOrder = errors.New("duplicate order within level")
)

// NodeKind distinguishes nodes that wrap a diagram entity from the dummy
// nodes inserted to subdivide long edges.
type NodeKind int

const (
	// NodeKindReal wraps a [diagram.Entity]. Location writes are forwarded
	// to the entity.
	NodeKindReal NodeKind = iota
	// NodeKindDummy is owned by the [Edge] it subdivides. It has a fixed
	// 1x1 geometry and ignores location writes.
	NodeKindDummy
)

func (k NodeKind) String() string {
	switch k {
	case NodeKindReal:
		return "real"
	case NodeKindDummy:
		return "dummy"
	}
	return fmt.Sprintf("NodeKind(%d)", int(k))
}

// Node is a vertex of the layered graph.
//
// Level and Order are the layout coordinates in graph space: sinks sit on
// level 0 and every edge points from a higher level to a lower one. Order is
// the 1-based position inside a level; 0 means "not yet assigned".
type Node struct {
	Level  int
	Order  int
	Marked bool

	kind   NodeKind
	entity diagram.Entity
	owner  *Edge
	seq    int
	graph  *Graph
}

// NewNode creates a real node wrapping e.
func NewNode(e diagram.Entity) *Node {
	return &Node{kind: NodeKindReal, entity: e, seq: -1}
}

func newDummy(owner *Edge) *Node {
	return &Node{kind: NodeKindDummy, owner: owner, seq: -1}
}

// Kind reports whether the node is real or a dummy.
func (n *Node) Kind() NodeKind { return n.kind }

// IsDummy reports whether the node was inserted by [Graph.SubdivideEdge].
func (n *Node) IsDummy() bool { return n.kind == NodeKindDummy }

// Entity returns the wrapped entity of a real node.
func (n *Node) Entity() (diagram.Entity, bool) {
	if n.kind != NodeKindReal {
		return nil, false
	}
	return n.entity, true
}

// Owner returns the edge a dummy node subdivides.
func (n *Node) Owner() (*Edge, bool) {
	if n.kind != NodeKindDummy {
		return nil, false
	}
	return n.owner, true
}

// Seq is the insertion sequence number assigned by [Graph.AddNode], or -1
// for nodes that were never added.
func (n *Node) Seq() int { return n.seq }

// Bounds returns the entity's box for real nodes and a 1x1 box at the
// origin for dummies.
func (n *Node) Bounds() *geo.Box {
	if n.kind == NodeKindReal {
		return n.entity.Bounds()
	}
	return geo.NewBox(geo.NewPoint(0, 0), 1, 1)
}

// SetLocation moves the wrapped entity. Dummy nodes have no geometry of
// their own; the write is dropped with a warning on the graph's logger.
func (n *Node) SetLocation(p *geo.Point) {
	if n.kind == NodeKindDummy {
		n.logger().Warn("ignoring location change on dummy node", "node", n.String())
		return
	}
	n.entity.SetLocation(p)
}

func (n *Node) String() string {
	if n.kind == NodeKindReal {
		return n.entity.ID()
	}
	if n.owner != nil && n.owner.src != nil && n.owner.dst != nil {
		return fmt.Sprintf("dummy(%s->%s)", n.owner.src, n.owner.dst)
	}
	return "dummy"
}

// Edge is a directed connection in the layered graph. Real edges wrap a
// [diagram.Relationship] and resolve their endpoints through the graph's
// entity index when added; synthetic edges connect two nodes directly.
//
// Marked is set when cycle removal reversed the edge. Tail and Head always
// report the current direction inside the graph; Source and Target report
// the original one.
type Edge struct {
	Marked bool

	rel      diagram.Relationship
	src, dst *Node
	dummies  []*Node
}

// NewEdge creates a real edge for rel. Its endpoints are resolved by
// [Graph.AddEdge].
func NewEdge(rel diagram.Relationship) *Edge {
	return &Edge{rel: rel}
}

// NewSyntheticEdge creates an edge between two nodes without a backing
// relationship.
func NewSyntheticEdge(tail, head *Node) *Edge {
	return &Edge{src: tail, dst: head}
}

// Relationship returns the wrapped relationship of a real edge.
func (e *Edge) Relationship() (diagram.Relationship, bool) {
	return e.rel, e.rel != nil
}

// Source returns the node the edge originally started at.
func (e *Edge) Source() *Node { return e.src }

// Target returns the node the edge originally pointed to.
func (e *Edge) Target() *Node { return e.dst }

// Tail returns the start of the edge in the graph's current orientation.
func (e *Edge) Tail() *Node {
	if e.Marked {
		return e.dst
	}
	return e.src
}

// Head returns the end of the edge in the graph's current orientation.
func (e *Edge) Head() *Node {
	if e.Marked {
		return e.src
	}
	return e.dst
}

// IsSelfLoop reports whether both endpoints are the same node.
func (e *Edge) IsSelfLoop() bool { return e.src != nil && e.src == e.dst }

// Dummies returns the dummy chain created by [Graph.SubdivideEdge], ordered
// from Tail to Head.
func (e *Edge) Dummies() []*Node { return e.dummies }

// Bends returns the dummy chain ordered from Source to Target.
func (e *Edge) Bends() []*Node {
	bends := slices.Clone(e.dummies)
	if e.Marked {
		slices.Reverse(bends)
	}
	return bends
}

// Graph is an adjacency-list multigraph keyed by node identity.
//
// Nodes keep their insertion sequence, which every query that returns
// several nodes preserves; the layout is therefore deterministic for a given
// registration order. Entities used as index keys must be comparable
// (pointer types in practice).
//
// The zero value is not usable - use New to create a valid Graph instance.
// Graph is not safe for concurrent use without external synchronization.
type Graph struct {
	nodes    []*Node
	members  map[*Node]struct{}
	index    map[diagram.Entity]*Node
	outgoing map[*Node][]*Node
	edges    []*Edge
	log      *log.Logger
}

var discard = log.New(io.Discard)

// New creates an empty graph. Its diagnostics are discarded until
// [Graph.SetLogger] is called.
func New() *Graph {
	return &Graph{
		members:  make(map[*Node]struct{}),
		index:    make(map[diagram.Entity]*Node),
		outgoing: make(map[*Node][]*Node),
		log:      discard,
	}
}

// SetLogger sets the logger for the graph and the nodes added to it. A nil
// logger discards.
func (g *Graph) SetLogger(l *log.Logger) {
	if l == nil {
		l = discard
	}
	g.log = l
}

func (n *Node) logger() *log.Logger {
	if n.graph == nil {
		return discard
	}
	return n.graph.log
}

// AddNode registers n. Adding the same node twice is a no-op. Real nodes
// are indexed by their entity, and additionally by the entity returned from
// an Unwrap method when the entity is a wrapper.
func (g *Graph) AddNode(n *Node) {
	if _, ok := g.members[n]; ok {
		return
	}
	n.seq = len(g.nodes)
	n.graph = g
	g.nodes = append(g.nodes, n)
	g.members[n] = struct{}{}
	if n.kind != NodeKindReal {
		return
	}
	g.index[n.entity] = n
	if w, ok := n.entity.(interface{ Unwrap() diagram.Entity }); ok {
		if inner := w.Unwrap(); inner != nil {
			if _, taken := g.index[inner]; !taken {
				g.index[inner] = n
			}
		}
	}
}

// Contains reports whether n has been added.
func (g *Graph) Contains(n *Node) bool {
	_, ok := g.members[n]
	return ok
}

// NodeFor returns the node registered for entity e.
func (g *Graph) NodeFor(e diagram.Entity) (*Node, bool) {
	n, ok := g.index[e]
	return n, ok
}

// AddEdge connects the edge's endpoints. Real edges resolve their endpoints
// through the entity index. When either endpoint is not registered the edge
// is dropped and AddEdge returns false; this is not an error.
//
// Self-loops are recorded as edges but never enter the adjacency lists, so
// they take no part in layering.
func (g *Graph) AddEdge(e *Edge) bool {
	if e.rel != nil {
		src, okS := g.resolve(e.rel.Source())
		dst, okD := g.resolve(e.rel.Target())
		if !okS || !okD {
			return false
		}
		e.src, e.dst = src, dst
	} else if e.src == nil || e.dst == nil || !g.Contains(e.src) || !g.Contains(e.dst) {
		return false
	}
	g.edges = append(g.edges, e)
	if e.IsSelfLoop() {
		return true
	}
	g.outgoing[e.Tail()] = append(g.outgoing[e.Tail()], e.Head())
	return true
}

func (g *Graph) resolve(ent diagram.Entity) (*Node, bool) {
	if ent == nil {
		return nil, false
	}
	return g.NodeFor(ent)
}

// Reverse flips e inside the graph and toggles its Marked flag.
func (g *Graph) Reverse(e *Edge) {
	if e.IsSelfLoop() {
		return
	}
	g.ReverseEdge(e.Tail(), e.Head())
	e.Marked = !e.Marked
}

// ReverseEdge removes one tail->head adjacency entry and adds head->tail.
// Nothing happens when no such entry exists.
func (g *Graph) ReverseEdge(tail, head *Node) {
	if !g.removeAdjacency(tail, head) {
		return
	}
	g.outgoing[head] = append(g.outgoing[head], tail)
}

func (g *Graph) removeAdjacency(tail, head *Node) bool {
	out := g.outgoing[tail]
	i := slices.Index(out, head)
	if i < 0 {
		return false
	}
	g.outgoing[tail] = slices.Delete(out, i, i+1)
	return true
}

// SubdivideEdge replaces the direct tail->head adjacency entry of e with a
// chain of span-1 dummy nodes. The i-th dummy (1-based, from the tail) gets
// level tail.Level-i. The chain is recorded on the edge and returned.
//
// Nothing happens for span <= 1 or when the edge is not connected.
func (g *Graph) SubdivideEdge(e *Edge, span int) []*Node {
	if span <= 1 {
		return nil
	}
	tail, head := e.Tail(), e.Head()
	if !g.removeAdjacency(tail, head) {
		return nil
	}
	chain := make([]*Node, 0, span-1)
	prev := tail
	for i := 1; i < span; i++ {
		d := newDummy(e)
		d.Level = tail.Level - i
		g.AddNode(d)
		g.outgoing[prev] = append(g.outgoing[prev], d)
		chain = append(chain, d)
		prev = d
	}
	g.outgoing[prev] = append(g.outgoing[prev], head)
	e.dummies = chain
	return chain
}

// Nodes returns all nodes in insertion order. The returned slice must not
// be modified.
func (g *Graph) Nodes() []*Node { return g.nodes }

// Edges returns the connected edges in insertion order, self-loops
// included.
func (g *Graph) Edges() []*Edge { return g.edges }

// NodeCount returns the number of nodes, dummies included.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of adjacency entries. Subdividing an edge of
// span k adds k-1 entries; self-loops are not counted.
func (g *Graph) EdgeCount() int {
	count := 0
	for _, out := range g.outgoing {
		count += len(out)
	}
	return count
}

// OutgoingNeighbours returns the heads of n's adjacency entries. The
// returned slice must not be modified.
func (g *Graph) OutgoingNeighbours(n *Node) []*Node { return g.outgoing[n] }

// IncomingNeighbours returns the tails of every entry pointing at n. It
// scans the whole graph; phases that need it repeatedly should use
// [Graph.IncomingIndex].
func (g *Graph) IncomingNeighbours(n *Node) []*Node {
	var in []*Node
	for _, tail := range g.nodes {
		for _, head := range g.outgoing[tail] {
			if head == n {
				in = append(in, tail)
			}
		}
	}
	return in
}

// IncomingIndex builds the reverse adjacency for every node at once.
func (g *Graph) IncomingIndex() map[*Node][]*Node {
	in := make(map[*Node][]*Node, len(g.nodes))
	for _, tail := range g.nodes {
		for _, head := range g.outgoing[tail] {
			in[head] = append(in[head], tail)
		}
	}
	return in
}

// Neighbours returns incoming followed by outgoing neighbours.
func (g *Graph) Neighbours(n *Node) []*Node {
	return append(g.IncomingNeighbours(n), g.outgoing[n]...)
}

func (g *Graph) OutDegree(n *Node) int { return len(g.outgoing[n]) }
func (g *Graph) InDegree(n *Node) int  { return len(g.IncomingNeighbours(n)) }
func (g *Graph) Degree(n *Node) int    { return g.InDegree(n) + g.OutDegree(n) }

// Sources returns the nodes without incoming entries in insertion order.
func (g *Graph) Sources() []*Node {
	in := g.IncomingIndex()
	var sources []*Node
	for _, n := range g.nodes {
		if len(in[n]) == 0 {
			sources = append(sources, n)
		}
	}
	return sources
}

// Sinks returns the nodes without outgoing entries in insertion order.
func (g *Graph) Sinks() []*Node {
	var sinks []*Node
	for _, n := range g.nodes {
		if len(g.outgoing[n]) == 0 {
			sinks = append(sinks, n)
		}
	}
	return sinks
}

// Level returns the nodes on the given level sorted by Order. Nodes whose
// Order is still 0 first receive the next unused order, in insertion
// sequence, so repeated calls are stable.
func (g *Graph) Level(level int) []*Node {
	var nodes []*Node
	next := 0
	for _, n := range g.nodes {
		if n.Level != level {
			continue
		}
		nodes = append(nodes, n)
		next = max(next, n.Order)
	}
	for _, n := range nodes {
		if n.Order == 0 {
			next++
			n.Order = next
		}
	}
	slices.SortStableFunc(nodes, func(a, b *Node) int { return a.Order - b.Order })
	return nodes
}

// Depth returns the highest level of any node, or 0 for an empty graph.
func (g *Graph) Depth() int {
	depth := 0
	for _, n := range g.nodes {
		depth = max(depth, n.Level)
	}
	return depth
}

// Levels returns every level from the deepest (top) to 0 (bottom).
func (g *Graph) Levels() [][]*Node {
	if len(g.nodes) == 0 {
		return nil
	}
	depth := g.Depth()
	levels := make([][]*Node, 0, depth+1)
	for l := depth; l >= 0; l-- {
		levels = append(levels, g.Level(l))
	}
	return levels
}

// SetMarked sets the Marked flag of every node.
func (g *Graph) SetMarked(marked bool) {
	for _, n := range g.nodes {
		n.Marked = marked
	}
}

// Validate checks the layered-graph invariants and returns nil if they
// hold:
//
//  1. every adjacency entry connects consecutive levels
//  2. orders are unique within a level (unassigned orders are ignored)
//  3. the graph is acyclic
//
// Cycle detection runs in O(N+E) time using depth-first search.
func (g *Graph) Validate() error {
	if err := g.validateProper(); err != nil {
		return err
	}
	if err := g.validateOrders(); err != nil {
		return err
	}
	return g.detectCycles()
}

func (g *Graph) validateProper() error {
	for _, tail := range g.nodes {
		for _, head := range g.outgoing[tail] {
			if tail.Level-1 != head.Level {
				return fmt.Errorf("%w: %s (level %d) -> %s (level %d)",
					ErrNotProper, tail, tail.Level, head, head.Level)
			}
		}
	}
	return nil
}

func (g *Graph) validateOrders() error {
	type slot struct{ level, order int }
	seen := make(map[slot]*Node, len(g.nodes))
	for _, n := range g.nodes {
		if n.Order == 0 {
			continue
		}
		s := slot{n.Level, n.Order}
		if other, ok := seen[s]; ok {
			return fmt.Errorf("%w: %s and %s at level %d order %d",
				ErrDuplicateOrder, other, n, n.Level, n.Order)
		}
		seen[s] = n
	}
	return nil
}

func (g *Graph) detectCycles() error {
	const (
		white = iota
		gray
		black
	)

	color := make(map[*Node]int, len(g.nodes))
	var hasCycle bool

	var dfs func(n *Node)
	dfs = func(n *Node) {
		color[n] = gray
		for _, next := range g.outgoing[n] {
			switch color[next] {
			case white:
				dfs(next)
			case gray:
				hasCycle = true
				return
			}
			if hasCycle {
				return
			}
		}
		color[n] = black
	}

	for _, n := range g.nodes {
		if color[n] == white {
			dfs(n)
			if hasCycle {
				return ErrGraphHasCycle
			}
		}
	}
	return nil
}

// PosMap maps each node to its index in nodes.
func PosMap(nodes []*Node) map[*Node]int {
	m := make(map[*Node]int, len(nodes))
	for i, n := range nodes {
		m[n] = i
	}
	return m
}
