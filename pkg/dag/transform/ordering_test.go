package transform

import (
	"testing"

	"github.com/matzehuels/erdlayout/pkg/dag"
)

func prepare(t *testing.T, ids []string, edges [][2]string) (*dag.Graph, map[string]*dag.Node) {
	t.Helper()
	g, n := build(t, ids, edges)
	Normalize(g)
	return g, n
}

func TestReduceCrossings_RemovesSimpleCrossing(t *testing.T) {
	g, n := prepare(t, []string{"a", "b", "c", "d"}, [][2]string{{"a", "d"}, {"b", "c"}})
	if got := dag.CountCrossings(g); got != 1 {
		t.Fatalf("initial crossings = %d, want 1", got)
	}

	got := ReduceCrossings(g, 0)

	if got != 0 {
		t.Errorf("ReduceCrossings() = %d, want 0", got)
	}
	if dag.CountCrossings(g) != 0 {
		t.Errorf("CountCrossings() after reduction = %d, want 0", dag.CountCrossings(g))
	}
	if n["d"].Order >= n["c"].Order {
		t.Errorf("orders d=%d c=%d, want d left of c", n["d"].Order, n["c"].Order)
	}
}

func TestReduceCrossings_Chain(t *testing.T) {
	g, n := prepare(t, []string{"a", "b", "c"}, [][2]string{{"a", "b"}, {"b", "c"}})
	if got := ReduceCrossings(g, 4); got != 0 {
		t.Errorf("ReduceCrossings() = %d, want 0", got)
	}
	for id, node := range n {
		if node.Order != 1 {
			t.Errorf("%s.Order = %d, want 1", id, node.Order)
		}
	}
}

func TestReduceCrossings_OrdersUnique(t *testing.T) {
	g, _ := prepare(t,
		[]string{"a", "b", "c", "d", "e", "f", "g"},
		[][2]string{
			{"a", "e"}, {"a", "f"}, {"b", "d"}, {"b", "g"}, {"c", "d"},
			{"c", "e"}, {"d", "g"}, {"e", "g"}, {"a", "g"}, {"f", "b"},
		})
	before := dag.CountCrossings(g)

	after := ReduceCrossings(g, DefaultOrderingIterations)

	if after > before {
		t.Errorf("ReduceCrossings() = %d, worse than initial %d", after, before)
	}
	if err := g.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
	for l := 0; l <= g.Depth(); l++ {
		level := g.Level(l)
		for i, node := range level {
			if node.Order != i+1 {
				t.Errorf("level %d position %d has order %d, want %d", l, i, node.Order, i+1)
			}
		}
	}
}

func TestReduceCrossings_Deterministic(t *testing.T) {
	ids := []string{"a", "b", "c", "d", "e"}
	edges := [][2]string{{"a", "d"}, {"a", "e"}, {"b", "d"}, {"c", "d"}, {"c", "e"}, {"b", "e"}}

	g1, n1 := prepare(t, ids, edges)
	g2, n2 := prepare(t, ids, edges)
	ReduceCrossings(g1, 0)
	ReduceCrossings(g2, 0)
	for _, id := range ids {
		if n1[id].Order != n2[id].Order {
			t.Errorf("%s: order %d vs %d across identical runs", id, n1[id].Order, n2[id].Order)
		}
	}
}

func TestReduceCrossings_SingleLevel(t *testing.T) {
	g, n := prepare(t, []string{"a", "b"}, nil)
	if got := ReduceCrossings(g, 0); got != 0 {
		t.Errorf("ReduceCrossings() = %d, want 0", got)
	}
	if n["a"].Order != 1 || n["b"].Order != 2 {
		t.Errorf("orders = %d/%d, want insertion order 1/2", n["a"].Order, n["b"].Order)
	}
}
