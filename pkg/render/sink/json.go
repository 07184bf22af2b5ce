package sink

import (
	"github.com/matzehuels/erdlayout/pkg/graph"
)

// RenderJSON returns the layout in its interchange format, the same bytes
// that [graph.WriteLayoutFile] stores.
func RenderJSON(l graph.Layout) ([]byte, error) {
	return graph.MarshalLayout(l)
}
