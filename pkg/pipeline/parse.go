package pipeline

import (
	"bytes"
	"context"
	"time"

	"github.com/matzehuels/erdlayout/pkg/cache"
	"github.com/matzehuels/erdlayout/pkg/graph"
	"github.com/matzehuels/erdlayout/pkg/observability"
)

// Parse decodes and validates a diagram.
func Parse(ctx context.Context, source []byte, opts Options) (graph.Diagram, error) {
	if err := opts.ValidateForParse(); err != nil {
		return graph.Diagram{}, err
	}

	hooks := observability.Pipeline()
	hooks.OnParseStart(ctx, opts.InputFormat, opts.Source)
	start := time.Now()

	d, err := graph.ReadDiagram(bytes.NewReader(source), opts.InputFormat)
	hooks.OnParseComplete(ctx, opts.InputFormat, opts.Source, len(d.Nodes), time.Since(start), err)
	if err != nil {
		return graph.Diagram{}, err
	}
	return d, nil
}

// DiagramHash returns the content hash of the canonical JSON encoding of
// d, so that equivalent JSON and TOML inputs share layout cache entries.
func DiagramHash(d graph.Diagram) (string, error) {
	data, err := graph.MarshalDiagram(d, graph.FormatJSON)
	if err != nil {
		return "", err
	}
	return cache.Hash(data), nil
}
