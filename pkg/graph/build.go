package graph

import (
	"context"
	"math"
	"time"

	"github.com/charmbracelet/log"
	"github.com/samber/lo"
	"oss.terrastruct.com/d2/lib/geo"

	"github.com/matzehuels/erdlayout/pkg/diagram"
	"github.com/matzehuels/erdlayout/pkg/layout"
)

// =============================================================================
// Diagram → Layout Conversion
// =============================================================================

// BuildOptions configures [NewModel].
type BuildOptions struct {
	Layout layout.Config
	Insets layout.Insets
	Logger *log.Logger
}

// DefaultInsets is the border kept around the children of a group.
var DefaultInsets = layout.Insets{Top: 40, Bottom: 20, Left: 20, Right: 20}

// Model is a diagram converted into layout objects.
//
// Nodes without children become [diagram.Table] entities; nodes with
// children become [layout.Container]s whose nested layout holds the
// children. An edge between siblings is laid out by the layout that holds
// both. Any other edge is laid out as an edge between the ancestors of its
// endpoints that share a parent, so it still shapes the levels, and its
// own route is a straight line computed after everything is placed.
type Model struct {
	diagram  Diagram
	opts     BuildOptions
	index    map[string]int
	children map[string][]string
	tables   map[string]*diagram.Table
	groups   map[string]*layout.Container
	edges    []*diagram.Relation // by input edge; nil when dropped
	direct   map[string][]layout.Object
	late     []int
	unknown  int
	root     *layout.Layout
	stats    Stats
}

// NewModel validates d and builds its layout objects. Containers lay out
// their children immediately.
func NewModel(d Diagram, opts BuildOptions) (*Model, error) {
	if err := Validate(d); err != nil {
		return nil, err
	}
	m := &Model{
		diagram:  d,
		opts:     opts,
		index:    make(map[string]int, len(d.Nodes)),
		children: map[string][]string{},
		tables:   make(map[string]*diagram.Table, len(d.Nodes)),
		groups:   map[string]*layout.Container{},
		edges:    make([]*diagram.Relation, len(d.Edges)),
		direct:   map[string][]layout.Object{},
	}
	for i, n := range d.Nodes {
		m.index[n.ID] = i
		m.children[n.Parent] = append(m.children[n.Parent], n.ID)
	}
	for _, n := range d.Nodes {
		w, h := n.Size()
		if m.isGroup(n.ID) {
			w, h = 0, 0
		}
		t := diagram.NewTable(n.ID, n.DisplayLabel(), w, h)
		for k, v := range n.Meta {
			t.Meta[k] = v
		}
		m.tables[n.ID] = t
	}
	m.classifyEdges()

	m.root = layout.New(opts.Layout, m.layoutOptions()...)
	for _, obj := range m.objects("") {
		m.root.Add(obj)
	}
	return m, nil
}

func (m *Model) layoutOptions() []layout.Option {
	if m.opts.Logger == nil {
		return nil
	}
	return []layout.Option{layout.WithLogger(m.opts.Logger)}
}

func (m *Model) isGroup(id string) bool { return len(m.children[id]) > 0 }

func (m *Model) parent(id string) string { return m.diagram.Nodes[m.index[id]].Parent }

// chain returns id followed by all of its ancestors.
func (m *Model) chain(id string) []string {
	out := []string{id}
	for p := m.parent(id); p != ""; p = m.parent(p) {
		out = append(out, p)
	}
	return out
}

// classifyEdges creates a relation per edge and decides which layout lays
// it out.
func (m *Model) classifyEdges() {
	for i, e := range m.diagram.Edges {
		src, okS := m.tables[e.From]
		dst, okD := m.tables[e.To]
		if !okS || !okD {
			m.unknown++
			continue
		}
		rel := diagram.NewRelation(src, dst, diagram.BoxRouter{})
		rel.Label = e.Label
		m.edges[i] = rel

		from, to := m.parent(e.From), m.parent(e.To)
		if from == to {
			m.direct[from] = append(m.direct[from], layout.Edge(rel))
			continue
		}

		m.late = append(m.late, i)
		ru, rv, group := m.representatives(e.From, e.To)
		if ru == rv {
			continue
		}
		proxy := diagram.NewRelation(m.tables[ru], m.tables[rv], diagram.StraightRouter{})
		m.direct[group] = append(m.direct[group], layout.Edge(proxy))
	}
}

// representatives returns the closest group containing both u and v, and
// the nodes on the paths to u and v that are its direct children.
func (m *Model) representatives(u, v string) (ru, rv, group string) {
	above := lo.SliceToMap(m.chain(v)[1:], func(id string) (string, struct{}) { return id, struct{}{} })
	for _, id := range m.chain(u)[1:] {
		if _, ok := above[id]; ok {
			group = id
			break
		}
	}
	return m.childOf(u, group), m.childOf(v, group), group
}

// childOf returns the node on the path from id upwards whose parent is
// group.
func (m *Model) childOf(id, group string) string {
	for _, c := range m.chain(id) {
		if m.parent(c) == group {
			return c
		}
	}
	return id
}

func (m *Model) objects(parent string) []layout.Object {
	var objs []layout.Object
	for _, id := range m.children[parent] {
		if !m.isGroup(id) {
			objs = append(objs, layout.Node(m.tables[id]))
			continue
		}
		c := layout.NewContainer(m.tables[id], m.opts.Layout, m.opts.Insets, m.objects(id), m.layoutOptions()...)
		m.groups[id] = c
		objs = append(objs, c)
	}
	return append(objs, m.direct[parent]...)
}

// Run lays out the top level, which moves every container into place, and
// then routes the edges that cross group borders.
func (m *Model) Run(ctx context.Context) Stats {
	start := time.Now()
	top := m.root.RunContext(ctx)

	stats := Stats{
		Nodes:     top.Nodes,
		Dropped:   m.unknown + top.Dropped,
		Reversed:  top.Reversed,
		Dummies:   top.Dummies,
		Depth:     top.Depth,
		Crossings: top.Crossings,
	}
	for _, c := range m.groups {
		s := c.Layout().Stats()
		stats.Nodes += s.Nodes
		stats.Dropped += s.Dropped
		stats.Reversed += s.Reversed
		stats.Dummies += s.Dummies
		stats.Crossings += s.Crossings
	}

	for _, i := range m.late {
		rel := m.edges[i]
		src, dst := rel.Source().Bounds(), rel.Target().Bounds()
		pts := rel.ComputeRoute(src.Center(), dst.Center(), nil)
		for _, p := range pts {
			p.X, p.Y = math.Round(p.X), math.Round(p.Y)
		}
		rel.SetPoints(pts)
	}
	stats.Edges = len(lo.Filter(m.edges, func(r *diagram.Relation, _ int) bool { return r != nil }))
	stats.DurationMS = float64(time.Since(start).Microseconds()) / 1000
	m.stats = stats
	return stats
}

// Root returns the top-level layout.
func (m *Model) Root() *layout.Layout { return m.root }

// Table returns the entity created for node id.
func (m *Model) Table(id string) (*diagram.Table, bool) {
	t, ok := m.tables[id]
	return t, ok
}

// Export returns the placement of every node and edge, in input order.
func (m *Model) Export() Layout {
	bounds := m.root.Bounds()
	out := Layout{
		Width:  bounds.Width,
		Height: bounds.Height,
		Nodes:  make([]PlacedNode, 0, len(m.diagram.Nodes)),
		Edges:  make([]Route, 0, len(m.diagram.Edges)),
		Stats:  m.stats,
	}
	origin := bounds.TopLeft

	for _, n := range m.diagram.Nodes {
		b := m.tables[n.ID].Bounds()
		if c, ok := m.groups[n.ID]; ok {
			b = c.Bounds()
		}
		rank, _ := m.owner(n.ID).Rank(m.rankKey(n.ID))
		out.Nodes = append(out.Nodes, PlacedNode{
			ID:        n.ID,
			Label:     n.DisplayLabel(),
			Parent:    n.Parent,
			Container: m.isGroup(n.ID),
			X:         b.TopLeft.X - origin.X,
			Y:         b.TopLeft.Y - origin.Y,
			Width:     b.Width,
			Height:    b.Height,
			Level:     rank.Level,
			Order:     rank.Order,
			Columns:   n.Columns,
			Meta:      n.Meta,
		})
	}

	for i, e := range m.diagram.Edges {
		r := Route{From: e.From, To: e.To, Label: e.Label}
		if rel := m.edges[i]; rel != nil {
			r.Points = lo.Map(rel.Points(), func(p *geo.Point, _ int) Point {
				return Point{X: p.X - origin.X, Y: p.Y - origin.Y}
			})
		}
		r.Dropped = len(r.Points) == 0
		out.Edges = append(out.Edges, r)
	}
	return out
}

func (m *Model) owner(id string) *layout.Layout {
	if p := m.parent(id); p != "" {
		return m.groups[p].Layout()
	}
	return m.root
}

func (m *Model) rankKey(id string) diagram.Entity {
	if c, ok := m.groups[id]; ok {
		return c
	}
	return m.tables[id]
}

// Compute converts d, lays it out and exports the result.
func Compute(ctx context.Context, d Diagram, opts BuildOptions) (Layout, error) {
	m, err := NewModel(d, opts)
	if err != nil {
		return Layout{}, err
	}
	m.Run(ctx)
	return m.Export(), nil
}
