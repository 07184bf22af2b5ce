package layout

import (
	"context"
	"io"
	"math"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"oss.terrastruct.com/d2/lib/geo"

	"github.com/matzehuels/erdlayout/pkg/dag"
	"github.com/matzehuels/erdlayout/pkg/dag/transform"
	"github.com/matzehuels/erdlayout/pkg/diagram"
	"github.com/matzehuels/erdlayout/pkg/observability"
)

// Phase names reported in [Stats] and to the layout hooks.
const (
	PhaseCycles      = "cycles"
	PhaseLevels      = "levels"
	PhaseProper      = "proper"
	PhaseOrdering    = "ordering"
	PhaseCoordinates = "coordinates"
	PhaseRouting     = "routing"
)

// Option configures a [Layout].
type Option func(*Layout)

// WithLogger sets the logger for diagnostics. The default discards output.
func WithLogger(logger *log.Logger) Option {
	return func(l *Layout) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// PhaseTiming is the wall time spent in one phase.
type PhaseTiming struct {
	Phase    string
	Duration time.Duration
}

// Stats describes the last run of a [Layout].
type Stats struct {
	Nodes     int // real nodes and containers
	Edges     int // connected relationships
	Dropped   int // relationships with an unregistered endpoint
	Reversed  int // edges reversed to break cycles
	Dummies   int // dummy nodes inserted for long edges
	Depth     int // highest level
	Crossings int // crossings of the final ordering
	Phases    []PhaseTiming
	Duration  time.Duration
}

// Rank is the level and order a node was given by the last run.
type Rank struct {
	Level int
	Order int
}

// Layout arranges registered entities in levels and routes the registered
// relationships between them.
//
// Objects are kept in registration order. Every [Layout.Run] builds a fresh
// graph from them, so running twice gives the same result and objects added
// between runs are picked up. A Layout is not safe for concurrent use.
type Layout struct {
	cfg     Config
	logger  *log.Logger
	objects []Object
	origin  *geo.Point

	ran   bool
	stats Stats
	ranks map[diagram.Entity]Rank
}

// New creates an empty layout. Zero fields of cfg take their defaults.
func New(cfg Config, opts ...Option) *Layout {
	l := &Layout{
		cfg:    cfg.WithDefaults(),
		logger: log.New(io.Discard),
		origin: geo.NewPoint(0, 0),
		ranks:  map[diagram.Entity]Rank{},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Config returns the effective configuration.
func (l *Layout) Config() Config { return l.cfg }

// Add registers obj. Registering the same entity, relationship or container
// twice has no effect; nil objects are ignored.
func (l *Layout) Add(obj Object) {
	switch o := obj.(type) {
	case NodeObject:
		if o.Entity == nil {
			l.logger.Warn("ignoring node without entity")
			return
		}
	case EdgeObject:
		if o.Relationship == nil {
			l.logger.Warn("ignoring edge without relationship")
			return
		}
	case *Container:
		if o == nil {
			l.logger.Warn("ignoring nil container")
			return
		}
	default:
		l.logger.Warn("ignoring unknown layout object", "object", obj)
		return
	}
	if l.Contains(obj) {
		l.logger.Debug("object already registered", "object", describe(obj))
		return
	}
	l.objects = append(l.objects, obj)
}

// Remove is accepted for interface compatibility and does nothing.
func (l *Layout) Remove(obj Object) {
	l.logger.Debug("remove is not supported; object stays registered", "object", describe(obj))
}

// Contains reports whether obj is registered.
func (l *Layout) Contains(obj Object) bool {
	return slices.ContainsFunc(l.objects, func(o Object) bool { return sameObject(o, obj) })
}

// Objects returns the registered objects in registration order.
func (l *Layout) Objects() []Object { return slices.Clone(l.objects) }

// Object returns the i-th registered object.
func (l *Layout) Object(i int) (Object, bool) {
	if i < 0 || i >= len(l.objects) {
		return nil, false
	}
	return l.objects[i], true
}

// Stats returns the statistics of the last run.
func (l *Layout) Stats() Stats { return l.stats }

// Rank returns the level and order e received in the last run.
func (l *Layout) Rank(e diagram.Entity) (Rank, bool) {
	r, ok := l.ranks[e]
	return r, ok
}

// Run computes the layout. It is equivalent to RunContext with a background
// context.
func (l *Layout) Run() Stats { return l.RunContext(context.Background()) }

// RunContext computes the layout: it builds the graph from the registered
// objects, runs cycle removal, level assignment, subdivision, crossing
// reduction and coordinate assignment, moves every entity to its position
// and routes every relationship. The context only reaches the
// observability hooks; a run cannot be cancelled.
//
// The result starts at the origin: the top row at y = 0 and the leftmost
// node edge at x = 0. Node locations and route points are rounded to whole
// units.
func (l *Layout) RunContext(ctx context.Context) Stats {
	start := time.Now()
	g, stats := l.buildGraph()
	hooks := observability.Layout()
	hooks.OnLayoutStart(ctx, stats.Nodes, stats.Edges)

	phase := func(name string, fn func()) {
		t := time.Now()
		fn()
		d := time.Since(t)
		stats.Phases = append(stats.Phases, PhaseTiming{Phase: name, Duration: d})
		hooks.OnPhaseComplete(ctx, name, d)
		l.logger.Debug("layout phase complete", "phase", name, "duration", d)
	}

	var centers map[*dag.Node]*geo.Point
	phase(PhaseCycles, func() { stats.Reversed = transform.RemoveCycles(g) })
	phase(PhaseLevels, func() { stats.Depth = transform.AssignLevels(g) })
	phase(PhaseProper, func() { stats.Dummies = transform.MakeProper(g) })
	phase(PhaseOrdering, func() { stats.Crossings = transform.ReduceCrossings(g, l.cfg.OrderingIterations) })
	phase(PhaseCoordinates, func() {
		centers = transform.AssignCoordinates(g, transform.CoordinateOptions{
			HorizontalGap: l.cfg.HorizontalGap,
			VerticalGap:   l.cfg.VerticalGap,
		})
		l.place(g, centers)
	})
	phase(PhaseRouting, func() { l.route(g, centers) })

	stats.Duration = time.Since(start)
	l.stats = stats
	l.ran = true
	l.origin = geo.NewPoint(0, 0)
	hooks.OnLayoutComplete(ctx, stats.Nodes, stats.Crossings, stats.Duration)
	l.logger.Debug("layout complete",
		"nodes", stats.Nodes, "edges", stats.Edges, "dummies", stats.Dummies,
		"reversed", stats.Reversed, "crossings", stats.Crossings, "duration", stats.Duration)
	return stats
}

func (l *Layout) buildGraph() (*dag.Graph, Stats) {
	var stats Stats
	g := dag.New()
	g.SetLogger(l.logger)
	for _, obj := range l.objects {
		switch o := obj.(type) {
		case NodeObject:
			g.AddNode(dag.NewNode(o.Entity))
			stats.Nodes++
		case *Container:
			g.AddNode(dag.NewNode(o))
			stats.Nodes++
		}
	}
	for _, obj := range l.objects {
		o, ok := obj.(EdgeObject)
		if !ok {
			continue
		}
		if g.AddEdge(dag.NewEdge(o.Relationship)) {
			stats.Edges++
			continue
		}
		stats.Dropped++
		l.logger.Debug("dropping relationship with unregistered endpoint", "relationship", describe(obj))
	}
	return g, stats
}

// place moves every real node so that its centre is the computed one and
// records ranks.
func (l *Layout) place(g *dag.Graph, centers map[*dag.Node]*geo.Point) {
	l.ranks = make(map[diagram.Entity]Rank, g.NodeCount())
	for _, n := range g.Nodes() {
		ent, ok := n.Entity()
		if !ok {
			continue
		}
		c := centers[n]
		b := n.Bounds()
		n.SetLocation(geo.NewPoint(snap(c.X-b.Width/2), snap(c.Y-b.Height/2)))
		l.ranks[ent] = Rank{Level: n.Level, Order: n.Order}
	}
}

// Bounds returns the union of the boxes of every registered node and
// container. An empty layout reports a zero-size box at its location.
func (l *Layout) Bounds() *geo.Box {
	var tl, br *geo.Point
	for _, obj := range l.objects {
		var b *geo.Box
		switch o := obj.(type) {
		case NodeObject:
			b = o.Entity.Bounds()
		case *Container:
			b = o.Bounds()
		default:
			continue
		}
		if tl == nil {
			tl = b.TopLeft.Copy()
			br = geo.NewPoint(b.TopLeft.X+b.Width, b.TopLeft.Y+b.Height)
			continue
		}
		tl.X, tl.Y = min(tl.X, b.TopLeft.X), min(tl.Y, b.TopLeft.Y)
		br.X, br.Y = max(br.X, b.TopLeft.X+b.Width), max(br.Y, b.TopLeft.Y+b.Height)
	}
	if tl == nil {
		return geo.NewBox(l.origin.Copy(), 0, 0)
	}
	return geo.NewBox(tl, br.X-tl.X, br.Y-tl.Y)
}

// MinimumDiagramSize reports the size of the last computed layout. ok is
// false until the layout has run.
func (l *Layout) MinimumDiagramSize() (width, height float64, ok bool) {
	if !l.ran {
		return 0, 0, false
	}
	b := l.Bounds()
	return b.Width, b.Height, true
}

// Location returns the top-left corner of [Layout.Bounds].
func (l *Layout) Location() *geo.Point { return l.Bounds().TopLeft }

// SetLocation moves the whole layout so that its top-left corner is p,
// rounded to whole units.
func (l *Layout) SetLocation(p *geo.Point) {
	cur := l.Location()
	l.Translate(p.X-cur.X, p.Y-cur.Y)
}

// Translate moves every registered node, container and edge polyline by
// (dx, dy), rounded to whole units. Computed positions lie on the integer
// grid, so Translate(dx, dy) followed by Translate(-dx, -dy) restores them
// exactly.
func (l *Layout) Translate(dx, dy float64) {
	dx, dy = snap(dx), snap(dy)
	l.origin = geo.NewPoint(l.origin.X+dx, l.origin.Y+dy)
	for _, obj := range l.objects {
		switch o := obj.(type) {
		case NodeObject:
			tl := o.Entity.Bounds().TopLeft
			o.Entity.SetLocation(geo.NewPoint(tl.X+dx, tl.Y+dy))
		case EdgeObject:
			pts := o.Relationship.Points()
			if len(pts) == 0 {
				continue
			}
			for _, p := range pts {
				p.X += dx
				p.Y += dy
			}
			o.Relationship.SetPoints(pts)
		case *Container:
			o.Translate(dx, dy)
		}
	}
}

func describe(obj Object) string {
	switch o := obj.(type) {
	case NodeObject:
		if o.Entity != nil {
			return o.Entity.ID()
		}
	case EdgeObject:
		if r := o.Relationship; r != nil {
			return endpointID(r.Source()) + "->" + endpointID(r.Target())
		}
	case *Container:
		if o != nil {
			return o.ID()
		}
	}
	return "<nil>"
}

func endpointID(e diagram.Entity) string {
	if e == nil {
		return "<nil>"
	}
	return e.ID()
}

// snap rounds v to the integer grid. math.Round is symmetric around zero,
// so snap(-v) == -snap(v).
func snap(v float64) float64 { return math.Round(v) }
