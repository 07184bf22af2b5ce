package layout

import (
	"math"
	"testing"

	"oss.terrastruct.com/d2/lib/geo"

	"github.com/matzehuels/erdlayout/pkg/dag"
	"github.com/matzehuels/erdlayout/pkg/dag/transform"
	"github.com/matzehuels/erdlayout/pkg/diagram"
)

type fixture struct {
	tables map[string]*diagram.Table
	rels   []*diagram.Relation
	layout *Layout
}

// newFixture registers 40x20 tables and relations between them. Edges whose
// source or target is not listed in ids use an unregistered table.
func newFixture(t *testing.T, ids []string, edges [][2]string) *fixture {
	t.Helper()
	f := &fixture{tables: map[string]*diagram.Table{}, layout: New(Config{})}
	for _, id := range ids {
		f.tables[id] = diagram.NewTable(id, "", 40, 20)
		f.layout.Add(Node(f.tables[id]))
	}
	for _, e := range edges {
		r := diagram.NewRelation(f.table(e[0]), f.table(e[1]), nil)
		f.rels = append(f.rels, r)
		f.layout.Add(Edge(r))
	}
	return f
}

func (f *fixture) table(id string) *diagram.Table {
	if t, ok := f.tables[id]; ok {
		return t
	}
	return diagram.NewTable(id, "", 40, 20)
}

func (f *fixture) snapshot() map[string][]geo.Point {
	out := map[string][]geo.Point{}
	for id, t := range f.tables {
		out[id] = []geo.Point{*t.Location()}
	}
	for i, r := range f.rels {
		var pts []geo.Point
		for _, p := range r.Points() {
			pts = append(pts, *p)
		}
		out[string(rune('A'+i))] = pts
	}
	return out
}

func TestRun_LinearChain(t *testing.T) {
	f := newFixture(t, []string{"a", "b", "c"}, [][2]string{{"a", "b"}, {"b", "c"}})

	stats := f.layout.Run()

	if stats.Dummies != 0 || stats.Crossings != 0 || stats.Reversed != 0 {
		t.Errorf("stats = %+v, want no dummies, crossings or reversals", stats)
	}
	if stats.Depth != 2 {
		t.Errorf("Depth = %d, want 2", stats.Depth)
	}
	for id, want := range map[string]int{"a": 2, "b": 1, "c": 0} {
		r, ok := f.layout.Rank(f.tables[id])
		if !ok || r.Level != want {
			t.Errorf("level(%s) = %d (ok=%v), want %d", id, r.Level, ok, want)
		}
	}
	for id, want := range map[string]geo.Point{"a": {X: 0, Y: 0}, "b": {X: 0, Y: 120}, "c": {X: 0, Y: 240}} {
		if got := f.tables[id].Location(); got.X != want.X || got.Y != want.Y {
			t.Errorf("%s at %s, want %s", id, got.ToString(), want.ToString())
		}
	}

	pts := f.rels[0].Points()
	if len(pts) != 2 {
		t.Fatalf("a->b route has %d points, want 2", len(pts))
	}
	if pts[0].X != 20 || pts[0].Y != 20 || pts[1].X != 20 || pts[1].Y != 120 {
		t.Errorf("a->b route = %s, want clipped at (20,20) and (20,120)", geo.Points(pts).ToString())
	}
}

func TestRun_SkipEdgeGetsOneBend(t *testing.T) {
	f := newFixture(t, []string{"a", "b", "c"}, [][2]string{{"a", "b"}, {"b", "c"}, {"a", "c"}})

	stats := f.layout.Run()

	if stats.Dummies != 1 {
		t.Errorf("Dummies = %d, want 1", stats.Dummies)
	}
	if got := len(f.rels[2].Points()); got != 3 {
		t.Errorf("a->c route has %d points, want 3", got)
	}
}

func TestRun_DanglingEdgeIsDropped(t *testing.T) {
	f := newFixture(t, []string{"a", "b"}, [][2]string{{"a", "b"}, {"a", "ghost"}})

	stats := f.layout.Run()

	if stats.Edges != 1 || stats.Dropped != 1 {
		t.Errorf("Edges = %d, Dropped = %d, want 1 and 1", stats.Edges, stats.Dropped)
	}
	if pts := f.rels[1].Points(); len(pts) != 0 {
		t.Errorf("dangling relation was routed: %v", pts)
	}
}

func TestRun_CycleIsBroken(t *testing.T) {
	f := newFixture(t, []string{"a", "b", "c"}, [][2]string{{"a", "b"}, {"b", "c"}, {"c", "a"}})

	stats := f.layout.Run()

	if stats.Reversed != 1 {
		t.Errorf("Reversed = %d, want 1", stats.Reversed)
	}
	for i, r := range f.rels {
		if len(r.Points()) < 2 {
			t.Errorf("relation %d not routed", i)
		}
	}
}

func TestRun_SelfLoop(t *testing.T) {
	f := newFixture(t, []string{"a"}, [][2]string{{"a", "a"}})

	f.layout.Run()

	pts := f.rels[0].Points()
	if len(pts) != 4 {
		t.Fatalf("self-loop has %d points, want 4", len(pts))
	}
	if pts[1].X != 60 || pts[2].X != 60 {
		t.Errorf("loop bends at x = %v, %v, want 60", pts[1].X, pts[2].X)
	}
}

func TestRun_IsIdempotent(t *testing.T) {
	f := newFixture(t,
		[]string{"a", "b", "c", "d"},
		[][2]string{{"a", "b"}, {"a", "c"}, {"b", "d"}, {"c", "d"}, {"a", "d"}})

	f.layout.Run()
	first := f.snapshot()
	f.layout.Run()
	second := f.snapshot()

	for k, pts := range first {
		if len(pts) != len(second[k]) {
			t.Fatalf("%s: %d points, then %d", k, len(pts), len(second[k]))
		}
		for i := range pts {
			if pts[i] != second[k][i] {
				t.Errorf("%s[%d] moved from %v to %v", k, i, pts[i], second[k][i])
			}
		}
	}
}

func TestTranslate_RoundTrip(t *testing.T) {
	f := newFixture(t,
		[]string{"a", "b", "c"},
		[][2]string{{"a", "b"}, {"b", "c"}, {"a", "c"}})
	f.layout.Run()
	before := f.snapshot()

	f.layout.Translate(13, -7)
	f.layout.Translate(-13, 7)

	after := f.snapshot()
	for k, pts := range before {
		for i := range pts {
			if pts[i] != after[k][i] {
				t.Errorf("%s[%d] = %v after round trip, want %v", k, i, after[k][i], pts[i])
			}
		}
	}
}

func TestTranslate_FractionalRoundTrip(t *testing.T) {
	f := newFixture(t,
		[]string{"a", "b", "c"},
		[][2]string{{"a", "b"}, {"b", "c"}, {"a", "c"}})
	f.layout.Run()
	f.layout.Translate(0.2, 0.2)
	before := f.snapshot()

	for _, d := range []float64{0.1, 0.7, 2.5, 13.37} {
		f.layout.Translate(d, -d)
		f.layout.Translate(-d, d)

		after := f.snapshot()
		for k, pts := range before {
			for i := range pts {
				if pts[i] != after[k][i] {
					t.Errorf("delta %v: %s[%d] = %v after round trip, want %v", d, k, i, after[k][i], pts[i])
				}
			}
		}
	}
}

func TestRun_IntegerGrid(t *testing.T) {
	f := &fixture{tables: map[string]*diagram.Table{}, layout: New(Config{HorizontalGap: 33.3, VerticalGap: 47.9})}
	for i, id := range []string{"a", "b", "c", "d"} {
		f.tables[id] = diagram.NewTable(id, "", 41.5+float64(i), 19.25)
		f.layout.Add(Node(f.tables[id]))
	}
	for _, e := range [][2]string{{"a", "b"}, {"a", "c"}, {"b", "d"}, {"a", "d"}, {"c", "c"}} {
		r := diagram.NewRelation(f.table(e[0]), f.table(e[1]), diagram.BoxRouter{})
		f.rels = append(f.rels, r)
		f.layout.Add(Edge(r))
	}
	f.layout.Run()

	for k, pts := range f.snapshot() {
		for i, p := range pts {
			if p.X != math.Round(p.X) || p.Y != math.Round(p.Y) {
				t.Errorf("%s[%d] = %v, want whole units", k, i, p)
			}
		}
	}
}

func TestSetLocation(t *testing.T) {
	f := newFixture(t, []string{"a", "b"}, [][2]string{{"a", "b"}})
	f.layout.Run()

	f.layout.SetLocation(geo.NewPoint(50, 60))

	if loc := f.layout.Location(); loc.X != 50 || loc.Y != 60 {
		t.Errorf("Location() = %s, want (50, 60)", loc.ToString())
	}
	if loc := f.tables["b"].Location(); loc.X != 50 || loc.Y != 180 {
		t.Errorf("b at %s, want (50, 180)", loc.ToString())
	}
}

func TestMinimumDiagramSize(t *testing.T) {
	f := newFixture(t, []string{"a", "b"}, [][2]string{{"a", "b"}})

	if _, _, ok := f.layout.MinimumDiagramSize(); ok {
		t.Error("size known before the first run")
	}

	f.layout.Run()

	w, h, ok := f.layout.MinimumDiagramSize()
	if !ok || w != 40 || h != 140 {
		t.Errorf("MinimumDiagramSize() = %v, %v, %v, want 40, 140, true", w, h, ok)
	}
}

func TestBounds_Empty(t *testing.T) {
	l := New(Config{})
	l.Run()

	b := l.Bounds()
	if b.Width != 0 || b.Height != 0 || b.TopLeft.X != 0 || b.TopLeft.Y != 0 {
		t.Errorf("Bounds() = %s, want empty box at origin", b.ToString())
	}
}

func TestAdd_DuplicatesAndNil(t *testing.T) {
	l := New(Config{})
	a := diagram.NewTable("a", "", 10, 10)

	l.Add(Node(a))
	l.Add(Node(a))
	l.Add(Node(nil))
	l.Add(Edge(nil))
	l.Add(nil)

	if got := len(l.Objects()); got != 1 {
		t.Errorf("len(Objects()) = %d, want 1", got)
	}
	if obj, ok := l.Object(0); !ok || obj.(NodeObject).Entity != a {
		t.Errorf("Object(0) = %v, %v", obj, ok)
	}
	if _, ok := l.Object(1); ok {
		t.Error("Object(1) should not exist")
	}
}

func TestRemove_IsNoop(t *testing.T) {
	l := New(Config{})
	a := Node(diagram.NewTable("a", "", 10, 10))
	l.Add(a)

	l.Remove(a)

	if !l.Contains(a) {
		t.Error("Remove dropped the object")
	}
}

func TestRun_StructuralPhasesMatchNormalize(t *testing.T) {
	ids := []string{"orders", "users", "products", "items"}
	edges := [][2]string{{"orders", "users"}, {"orders", "items"}, {"items", "products"}, {"products", "users"}, {"users", "orders"}}
	f := newFixture(t, ids, edges)
	stats := f.layout.Run()

	g := dag.New()
	tables := map[string]*diagram.Table{}
	for _, id := range ids {
		tables[id] = diagram.NewTable(id, "", 40, 20)
		g.AddNode(dag.NewNode(tables[id]))
	}
	for _, e := range edges {
		g.AddEdge(dag.NewEdge(diagram.NewRelation(tables[e[0]], tables[e[1]], nil)))
	}
	res := transform.Normalize(g)

	if stats.Reversed != res.Reversed || stats.Depth != res.Depth || stats.Dummies != res.Dummies {
		t.Errorf("Run() = reversed %d, depth %d, dummies %d; Normalize() = %+v",
			stats.Reversed, stats.Depth, stats.Dummies, res)
	}
}

func TestConfig_WithDefaults(t *testing.T) {
	tests := []struct {
		name string
		in   Config
		want Config
	}{
		{"zero", Config{}, DefaultConfig()},
		{"negative", Config{HorizontalGap: -1, VerticalGap: -5, OrderingIterations: -2}, DefaultConfig()},
		{"zero gap only", Config{HorizontalGap: 0, VerticalGap: 25}, Config{HorizontalGap: DefaultHorizontalGap, VerticalGap: 25, OrderingIterations: DefaultConfig().OrderingIterations}},
		{"kept", Config{HorizontalGap: 30, VerticalGap: 40, OrderingIterations: 3}, Config{HorizontalGap: 30, VerticalGap: 40, OrderingIterations: 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.WithDefaults(); got != tt.want {
				t.Errorf("WithDefaults() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRun_UsesConfiguredGaps(t *testing.T) {
	a, b, c := diagram.NewTable("a", "", 40, 20), diagram.NewTable("b", "", 40, 20), diagram.NewTable("c", "", 40, 20)
	l := New(Config{HorizontalGap: 10, VerticalGap: 30})
	for _, tbl := range []*diagram.Table{a, b, c} {
		l.Add(Node(tbl))
	}
	l.Add(Edge(diagram.NewRelation(a, b, nil)))
	l.Add(Edge(diagram.NewRelation(a, c, nil)))

	l.Run()

	if got := c.Location().X - (b.Location().X + 40); got != 10 {
		t.Errorf("horizontal gap = %v, want 10", got)
	}
	if got := b.Location().Y - (a.Location().Y + 20); got != 30 {
		t.Errorf("vertical gap = %v, want 30", got)
	}
}

func TestRecenter(t *testing.T) {
	src := geo.NewBox(geo.NewPoint(0, 0), 40, 20)
	dst := geo.NewBox(geo.NewPoint(20, 100), 40, 20)
	pts := geo.Route{geo.NewPoint(5, 20), geo.NewPoint(5, 100)}

	recenter(pts, src, dst)

	if pts[0].X != 30 || pts[1].X != 30 {
		t.Errorf("route = %s, want x = 30", geo.Points(pts).ToString())
	}

	far := geo.NewBox(geo.NewPoint(100, 100), 40, 20)
	pts = geo.Route{geo.NewPoint(5, 20), geo.NewPoint(5, 100)}
	recenter(pts, src, far)
	if pts[0].X != 5 {
		t.Errorf("disjoint boxes moved the route to x = %v", pts[0].X)
	}
}
