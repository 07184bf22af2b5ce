package graph

import (
	errs "github.com/matzehuels/erdlayout/pkg/errors"
)

// Validate checks node identifiers, sizes and grouping. Edges may name
// unknown nodes; such edges are dropped by the layout and reported as
// dropped rather than rejected.
func Validate(d Diagram) error {
	index := make(map[string]*Node, len(d.Nodes))
	for i := range d.Nodes {
		n := &d.Nodes[i]
		if err := errs.ValidateNodeID(n.ID); err != nil {
			return errs.Wrap(errs.ErrCodeInvalidDiagram, err, "node %d", i)
		}
		if _, dup := index[n.ID]; dup {
			return errs.New(errs.ErrCodeInvalidDiagram, "duplicate node id %q", n.ID)
		}
		if n.Width < 0 || n.Height < 0 {
			return errs.New(errs.ErrCodeInvalidDiagram, "node %q has a negative size", n.ID)
		}
		index[n.ID] = n
	}

	for _, n := range d.Nodes {
		if n.Parent == "" {
			continue
		}
		if _, ok := index[n.Parent]; !ok {
			return errs.New(errs.ErrCodeInvalidDiagram, "node %q: unknown parent %q", n.ID, n.Parent)
		}
		// Walk up at most len(nodes) steps; more means a cycle.
		cur := n.Parent
		for steps := 0; cur != ""; steps++ {
			if cur == n.ID || steps > len(d.Nodes) {
				return errs.New(errs.ErrCodeInvalidDiagram, "node %q is nested inside itself", n.ID)
			}
			cur = index[cur].Parent
		}
	}

	for i, e := range d.Edges {
		if e.From == "" || e.To == "" {
			return errs.New(errs.ErrCodeInvalidDiagram, "edge %d: from and to are required", i)
		}
	}
	return nil
}
