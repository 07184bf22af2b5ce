package dag

import "testing"

func TestCountLayerCrossings(t *testing.T) {
	// a b on top, c d below; a->d and b->c cross once.
	g, n := build(t, []string{"a", "b", "c", "d"}, [][2]string{{"a", "d"}, {"b", "c"}})
	upper := []*Node{n["a"], n["b"]}

	if got := CountLayerCrossings(g, upper, []*Node{n["c"], n["d"]}); got != 1 {
		t.Errorf("CountLayerCrossings() = %d, want 1", got)
	}
	if got := CountLayerCrossings(g, upper, []*Node{n["d"], n["c"]}); got != 0 {
		t.Errorf("CountLayerCrossings() swapped = %d, want 0", got)
	}
	if got := CountLayerCrossings(g, nil, []*Node{n["c"]}); got != 0 {
		t.Errorf("CountLayerCrossings(nil upper) = %d, want 0", got)
	}
}

func TestCountCrossingsUsesOrders(t *testing.T) {
	g, n := build(t, []string{"a", "b", "c", "d"}, [][2]string{{"a", "d"}, {"b", "c"}})
	n["a"].Level, n["b"].Level = 1, 1
	n["a"].Order, n["b"].Order = 1, 2
	n["c"].Order, n["d"].Order = 1, 2

	if got := CountCrossings(g); got != 1 {
		t.Errorf("CountCrossings() = %d, want 1", got)
	}
	n["c"].Order, n["d"].Order = 2, 1
	if got := CountCrossings(g); got != 0 {
		t.Errorf("CountCrossings() after swap = %d, want 0", got)
	}
}

func TestCountPairCrossings(t *testing.T) {
	g, n := build(t, []string{"a", "b", "c", "d"}, [][2]string{{"a", "d"}, {"b", "c"}})
	pos := PosMap([]*Node{n["c"], n["d"]})
	la, lb := g.OutgoingNeighbours(n["a"]), g.OutgoingNeighbours(n["b"])

	if got := CountPairCrossings(la, lb, pos); got != 1 {
		t.Errorf("CountPairCrossings(a, b) = %d, want 1", got)
	}
	if got := CountPairCrossings(lb, la, pos); got != 0 {
		t.Errorf("CountPairCrossings(b, a) = %d, want 0", got)
	}
}
