package pipeline

import (
	"context"

	"github.com/matzehuels/erdlayout/pkg/graph"
)

// =============================================================================
// Layout Generation
// =============================================================================

// GenerateLayout lays out d without caching.
func GenerateLayout(ctx context.Context, d graph.Diagram, opts Options) (graph.Layout, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return graph.Layout{}, err
	}

	l, err := graph.Compute(ctx, d, opts.BuildOptions())
	if err != nil {
		return graph.Layout{}, err
	}
	if err := ctx.Err(); err != nil {
		return graph.Layout{}, err
	}

	if l.Stats.Dropped > 0 {
		opts.Logger.Warn("dropped edges with unknown endpoints", "count", l.Stats.Dropped)
	}
	opts.Logger.Debug("layout complete",
		"nodes", l.Stats.Nodes,
		"edges", l.Stats.Edges,
		"depth", l.Stats.Depth,
		"dummies", l.Stats.Dummies,
		"crossings", l.Stats.Crossings,
		"duration_ms", l.Stats.DurationMS)
	return l, nil
}
