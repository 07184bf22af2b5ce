package styles

import (
	"bytes"
	"strings"
	"testing"
)

func TestByName(t *testing.T) {
	tests := []struct {
		name string
		want string
		ok   bool
	}{
		{"", "light", true},
		{"light", "light", true},
		{"dark", "dark", true},
		{"handdrawn", "", false},
	}
	for _, tt := range tests {
		s, ok := ByName(tt.name)
		if ok != tt.ok {
			t.Errorf("ByName(%q) ok = %v, want %v", tt.name, ok, tt.ok)
			continue
		}
		if ok && s.Name() != tt.want {
			t.Errorf("ByName(%q) = %s, want %s", tt.name, s.Name(), tt.want)
		}
	}
	if got := strings.Join(Names(), ","); got != "dark,light" {
		t.Errorf("Names() = %s", got)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width float64
		want  string
	}{
		{"users", 200, "users"},
		{"customer_addresses", 90, "customer_a.."},
		{"abcdef", 1, "a.."},
	}
	for _, tt := range tests {
		if got := Truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("Truncate(%q, %v) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}

func TestKeyMarker(t *testing.T) {
	for key, want := range map[string]string{"pk": "PK", "FK": "FK", "": "", "idx": ""} {
		if got := KeyMarker(key); got != want {
			t.Errorf("KeyMarker(%q) = %q, want %q", key, got, want)
		}
	}
}

func TestEdgeMidpoint(t *testing.T) {
	tests := []struct {
		pts  []Point
		want Point
	}{
		{nil, Point{}},
		{[]Point{{0, 0}, {10, 20}}, Point{5, 10}},
		{[]Point{{0, 0}, {4, 4}, {8, 0}}, Point{4, 4}},
	}
	for _, tt := range tests {
		if got := (Edge{Points: tt.pts}).Midpoint(); got != tt.want {
			t.Errorf("Midpoint(%v) = %v, want %v", tt.pts, got, tt.want)
		}
	}
}

func TestTheme_RenderText(t *testing.T) {
	var buf bytes.Buffer
	Light.RenderText(&buf, Table{
		ID: "users", Label: "Users & Roles", X: 0, Y: 0, W: 200, H: 68, Header: 28, Row: 20,
		Columns: []Column{{Name: "id", Type: "int", Key: "pk"}, {Name: "email"}, {Name: "hidden"}},
	})
	out := buf.String()

	for _, want := range []string{"Users &amp; Roles", ">PK<", "id : int", ">email<"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "hidden") {
		t.Error("column outside the table box was drawn")
	}
}

func TestTheme_RenderEdge(t *testing.T) {
	var buf bytes.Buffer
	Dark.RenderEdge(&buf, Edge{FromID: "a", ToID: "b", Points: []Point{{0, 0}}})
	if buf.Len() != 0 {
		t.Errorf("single-point edge drawn: %s", buf.String())
	}

	Dark.RenderEdge(&buf, Edge{FromID: "a", ToID: "b", Label: "owns", Points: []Point{{0, 0}, {0, 100}}})
	out := buf.String()
	if !strings.Contains(out, `points="0.0,0.0 0.0,100.0"`) || !strings.Contains(out, ">owns<") {
		t.Errorf("unexpected edge output:\n%s", out)
	}
}
