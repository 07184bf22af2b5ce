package layout

import (
	"context"
	"testing"

	"oss.terrastruct.com/d2/lib/geo"

	"github.com/matzehuels/erdlayout/pkg/diagram"
)

var testInsets = Insets{Top: 20, Bottom: 40, Left: 10, Right: 30}

func newPackage(t *testing.T) (*Container, *diagram.Table, map[string]*diagram.Table) {
	t.Helper()
	x, y := diagram.NewTable("x", "", 40, 20), diagram.NewTable("y", "", 40, 20)
	pkg := diagram.NewTable("pkg", "", 0, 0)
	c := NewContainer(pkg, Config{}, testInsets, []Object{
		Node(x), Node(y), Edge(diagram.NewRelation(x, y, nil)),
	})
	return c, pkg, map[string]*diagram.Table{"x": x, "y": y}
}

func checkInsets(t *testing.T, c *Container) {
	t.Helper()
	inner := c.Layout().Bounds()
	want := geo.NewBox(
		geo.NewPoint(inner.TopLeft.X-testInsets.Left, inner.TopLeft.Y-testInsets.Top),
		inner.Width+testInsets.Left+testInsets.Right,
		inner.Height+testInsets.Top+testInsets.Bottom,
	)
	got := c.Bounds()
	if *got.TopLeft != *want.TopLeft || got.Width != want.Width || got.Height != want.Height {
		t.Errorf("container box = %s, want %s", got.ToString(), want.ToString())
	}
}

func TestNewContainer(t *testing.T) {
	c, pkg, children := newPackage(t)

	checkInsets(t, c)
	if b := c.Bounds(); b.TopLeft.X != 0 || b.TopLeft.Y != 0 || b.Width != 80 || b.Height != 200 {
		t.Errorf("Bounds() = %s, want (0, 0) 80x200", b.ToString())
	}
	if loc := children["x"].Location(); loc.X != 10 || loc.Y != 20 {
		t.Errorf("x at %s, want (10, 20)", loc.ToString())
	}
	if b := pkg.Bounds(); b.Width != 80 || b.Height != 200 {
		t.Errorf("wrapped entity size = %vx%v, want 80x200", b.Width, b.Height)
	}
	if got := len(c.Objects()); got != 3 {
		t.Errorf("len(Objects()) = %d, want 3", got)
	}
}

func TestContainer_Translate(t *testing.T) {
	c, pkg, children := newPackage(t)

	c.Translate(15, 25)

	checkInsets(t, c)
	if loc := children["y"].Location(); loc.X != 25 || loc.Y != 165 {
		t.Errorf("y at %s, want (25, 165)", loc.ToString())
	}
	if loc := pkg.Location(); loc.X != 15 || loc.Y != 25 {
		t.Errorf("wrapped entity at %s, want (15, 25)", loc.ToString())
	}

	c.SetLocation(geo.NewPoint(0, 0))
	if loc := children["x"].Location(); loc.X != 10 || loc.Y != 20 {
		t.Errorf("x at %s after SetLocation, want (10, 20)", loc.ToString())
	}
}

func TestContainer_FractionalTranslate(t *testing.T) {
	c, _, children := newPackage(t)
	box := c.Bounds()
	y := children["y"].Location()

	c.Translate(0.4, 0.4)
	c.Translate(3.6, -2.5)
	c.Translate(-3.6, 2.5)

	if got := c.Bounds(); *got.TopLeft != *box.TopLeft || got.Width != box.Width || got.Height != box.Height {
		t.Errorf("box = %s after round trip, want %s", got.ToString(), box.ToString())
	}
	if got := children["y"].Location(); *got != *y {
		t.Errorf("y at %s after round trip, want %s", got.ToString(), y.ToString())
	}
	checkInsets(t, c)
}

func TestContainer_InsideLayout(t *testing.T) {
	c, pkg, children := newPackage(t)
	z := diagram.NewTable("z", "", 40, 20)
	toPkg := diagram.NewRelation(z, pkg, nil)

	l := New(Config{})
	l.Add(Node(z))
	l.Add(c)
	l.Add(Edge(toPkg))
	stats := l.Run()

	if stats.Edges != 1 {
		t.Fatalf("Edges = %d, want 1 (relation to the wrapped entity)", stats.Edges)
	}
	if r, _ := l.Rank(c); r.Level != 0 {
		t.Errorf("container level = %d, want 0", r.Level)
	}
	checkInsets(t, c)
	if b := c.Bounds(); b.TopLeft.X != 0 || b.TopLeft.Y != 120 {
		t.Errorf("container at %s, want (0, 120)", b.TopLeft.ToString())
	}
	if loc := children["x"].Location(); loc.X != 10 || loc.Y != 140 {
		t.Errorf("x at %s, want (10, 140)", loc.ToString())
	}
	if loc := z.Location(); loc.X != 20 {
		t.Errorf("z at x = %v, want 20 (centred over the container)", loc.X)
	}

	l.Translate(5, 5)
	checkInsets(t, c)
	if pts := toPkg.Points(); len(pts) != 2 || pts[1].Y != 125 {
		t.Errorf("route = %s, want end at y = 125", geo.Points(pts).ToString())
	}
}

func TestContainer_Relayout(t *testing.T) {
	c, _, children := newPackage(t)
	c.SetLocation(geo.NewPoint(100, 100))

	children["y"].SetLocation(geo.NewPoint(500, 500))
	c.Resize()
	checkInsets(t, c)

	c.Relayout(context.Background())

	checkInsets(t, c)
	if b := c.Bounds(); b.TopLeft.X != 100 || b.TopLeft.Y != 100 || b.Height != 200 {
		t.Errorf("Bounds() = %s, want (100, 100) with height 200", b.ToString())
	}
}
