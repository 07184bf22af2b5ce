package diagram

import (
	"testing"

	"oss.terrastruct.com/d2/lib/geo"
)

func TestTableDefaults(t *testing.T) {
	tbl := NewTable("users", "", 120, 80)
	if tbl.Label() != "users" {
		t.Errorf("Label() = %q, want %q", tbl.Label(), "users")
	}
	b := tbl.Bounds()
	if b.TopLeft.X != 0 || b.TopLeft.Y != 0 || b.Width != 120 || b.Height != 80 {
		t.Errorf("Bounds() = %s, want origin 120x80", b.ToString())
	}
}

func TestTableBoundsIsCopy(t *testing.T) {
	tbl := NewTable("users", "", 10, 10)
	b := tbl.Bounds()
	b.TopLeft.X = 99
	if tbl.Location().X != 0 {
		t.Error("mutating Bounds() result changed the table")
	}

	p := geo.NewPoint(5, 7)
	tbl.SetLocation(p)
	p.X = 100
	if got := tbl.Location(); got.X != 5 || got.Y != 7 {
		t.Errorf("Location() = %s, want (5, 7)", got.ToString())
	}
}

func TestStraightRouter(t *testing.T) {
	r := NewRelation(NewTable("a", "", 10, 10), NewTable("b", "", 10, 10), StraightRouter{})
	route := r.ComputeRoute(geo.NewPoint(0, 0), geo.NewPoint(0, 100), []*geo.Point{geo.NewPoint(0, 50)})
	if len(route) != 3 {
		t.Fatalf("len(route) = %d, want 3", len(route))
	}
	if route[1].Y != 50 {
		t.Errorf("bend = %s, want (0, 50)", route[1].ToString())
	}
}

func TestBoxRouterClipsEndpoints(t *testing.T) {
	src := NewTable("a", "", 40, 20)
	dst := NewTable("b", "", 40, 20)
	dst.SetLocation(geo.NewPoint(0, 100))

	r := NewRelation(src, dst, nil)
	route := r.ComputeRoute(src.Bounds().Center(), dst.Bounds().Center(), nil)
	if len(route) != 2 {
		t.Fatalf("len(route) = %d, want 2", len(route))
	}
	if route[0].X != 20 || route[0].Y != 20 {
		t.Errorf("start = %s, want (20, 20)", route[0].ToString())
	}
	if route[1].X != 20 || route[1].Y != 100 {
		t.Errorf("end = %s, want (20, 100)", route[1].ToString())
	}
}

func TestBoxRouterOverlappingBoxes(t *testing.T) {
	src := NewTable("a", "", 100, 100)
	dst := NewTable("b", "", 100, 100)
	dst.SetLocation(geo.NewPoint(10, 10))

	r := NewRelation(src, dst, BoxRouter{})
	start, end := src.Bounds().Center(), dst.Bounds().Center()
	route := r.ComputeRoute(start, end, nil)
	if !route[0].Equals(start) || !route[1].Equals(end) {
		t.Errorf("route = %s, want unclipped centres", geo.Points(route).ToString())
	}
}

func TestRelationPointsAreCopies(t *testing.T) {
	r := NewRelation(NewTable("a", "", 1, 1), NewTable("b", "", 1, 1), nil)
	in := geo.Route{geo.NewPoint(1, 2), geo.NewPoint(3, 4)}
	r.SetPoints(in)
	in[0].X = 42
	if r.Points()[0].X != 1 {
		t.Error("SetPoints kept a reference to the caller's route")
	}
	if r.Source().ID() != "a" || r.Target().ID() != "b" {
		t.Error("Source/Target mismatch")
	}
}
