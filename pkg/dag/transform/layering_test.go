package transform

import (
	"testing"

	"github.com/matzehuels/erdlayout/pkg/dag"
)

func TestAssignLevels_Chain(t *testing.T) {
	g, n := build(t, []string{"a", "b", "c"}, [][2]string{{"a", "b"}, {"b", "c"}})

	depth := AssignLevels(g)

	if depth != 2 {
		t.Errorf("AssignLevels() depth = %d, want 2", depth)
	}
	want := map[string]int{"a": 2, "b": 1, "c": 0}
	for id, level := range want {
		if n[id].Level != level {
			t.Errorf("%s.Level = %d, want %d", id, n[id].Level, level)
		}
	}
}

func TestAssignLevels_LongestPath(t *testing.T) {
	// a reaches d directly and through b -> c; a must sit above c's parent.
	g, n := build(t, []string{"a", "b", "c", "d", "e"}, [][2]string{
		{"a", "b"}, {"b", "c"}, {"c", "d"}, {"a", "d"}, {"e", "d"},
	})
	AssignLevels(g)

	want := map[string]int{"a": 3, "b": 2, "c": 1, "d": 0, "e": 1}
	for id, level := range want {
		if n[id].Level != level {
			t.Errorf("%s.Level = %d, want %d", id, n[id].Level, level)
		}
	}
	checkMonotone(t, g)
}

func TestAssignLevels_ResetsOrders(t *testing.T) {
	g, n := build(t, []string{"a", "b"}, [][2]string{{"a", "b"}})
	n["a"].Order, n["b"].Order = 5, 7
	AssignLevels(g)
	if n["a"].Order != 0 || n["b"].Order != 0 {
		t.Errorf("orders = %d/%d, want 0/0", n["a"].Order, n["b"].Order)
	}
}

func TestAssignLevels_IsolatedNodes(t *testing.T) {
	g, n := build(t, []string{"a", "b"}, nil)
	if depth := AssignLevels(g); depth != 0 {
		t.Errorf("depth = %d, want 0", depth)
	}
	if n["a"].Level != 0 || n["b"].Level != 0 {
		t.Error("isolated nodes must be sinks on level 0")
	}
}

func checkMonotone(t *testing.T, g *dag.Graph) {
	t.Helper()
	for _, s := range g.Sinks() {
		if s.Level != 0 {
			t.Errorf("sink %s on level %d, want 0", s, s.Level)
		}
	}
	for _, tail := range g.Nodes() {
		if tail.Level < 0 {
			t.Errorf("%s.Level = %d, want >= 0", tail, tail.Level)
		}
		for _, head := range g.OutgoingNeighbours(tail) {
			if head.Level >= tail.Level {
				t.Errorf("edge %s(%d) -> %s(%d) does not point down", tail, tail.Level, head, head.Level)
			}
		}
	}
}
