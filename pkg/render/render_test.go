package render

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/erdlayout/pkg/errors"
	"github.com/matzehuels/erdlayout/pkg/graph"
)

func sampleLayout(t *testing.T) graph.Layout {
	t.Helper()
	d := graph.Diagram{
		Nodes: []graph.Node{{ID: "orders"}, {ID: "users"}},
		Edges: []graph.Edge{{From: "orders", To: "users"}},
	}
	l, err := graph.Compute(context.Background(), d, graph.BuildOptions{Insets: graph.DefaultInsets})
	if err != nil {
		t.Fatalf("Compute() error: %v", err)
	}
	return l
}

func TestRender_TextFormats(t *testing.T) {
	l := sampleLayout(t)
	tests := []struct {
		format string
		prefix string
	}{
		{FormatSVG, "<svg"},
		{FormatDOT, "digraph G {"},
		{FormatDrawio, "<?xml"},
		{FormatGraphML, "<?xml"},
		{FormatJSON, "{"},
		{"SVG", "<svg"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			data, err := Render(context.Background(), l, tt.format, Options{})
			if err != nil {
				t.Fatalf("Render() error: %v", err)
			}
			if !strings.HasPrefix(string(data), tt.prefix) {
				t.Errorf("output starts with %.20q, want %q", data, tt.prefix)
			}
		})
	}
}

func TestRender_Errors(t *testing.T) {
	l := sampleLayout(t)

	_, err := Render(context.Background(), l, "pdf", Options{})
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Render(pdf) error = %v, want INVALID_FORMAT", err)
	}

	_, err = Render(context.Background(), l, FormatSVG, Options{Style: "neon"})
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Render(style=neon) error = %v, want INVALID_INPUT", err)
	}
}

func TestContentTypeAndExtension(t *testing.T) {
	for _, f := range Formats {
		if ContentType(f) == "application/octet-stream" {
			t.Errorf("ContentType(%s) not registered", f)
		}
		if !strings.HasPrefix(Extension(f), ".") {
			t.Errorf("Extension(%s) = %q", f, Extension(f))
		}
	}
	if ContentType("bin") != "application/octet-stream" {
		t.Error("unknown format should fall back to octet-stream")
	}
}
