package layout

import (
	"github.com/matzehuels/erdlayout/pkg/dag/transform"
)

const (
	// DefaultHorizontalGap is the default free space between neighbouring
	// nodes of a level.
	DefaultHorizontalGap = 100.0
	// DefaultVerticalGap is the default free space between levels.
	DefaultVerticalGap = 100.0
)

// Config holds the spacing and effort parameters of a [Layout].
//
// A zero or negative field selects its default, so a gap of exactly 0
// cannot be configured. Configuration files and flags leave fields at zero
// to inherit the defaults.
type Config struct {
	// HorizontalGap is the free space between neighbouring boxes of a
	// level. Values <= 0 select DefaultHorizontalGap.
	HorizontalGap float64 `json:"horizontal_gap" toml:"horizontal_gap"`
	// VerticalGap is the free space between two rows. Values <= 0 select
	// DefaultVerticalGap.
	VerticalGap float64 `json:"vertical_gap" toml:"vertical_gap"`
	// OrderingIterations caps the crossing-reduction sweeps. Values <= 0
	// select transform.DefaultOrderingIterations.
	OrderingIterations int `json:"ordering_iterations" toml:"ordering_iterations"`
}

// DefaultConfig returns the configuration used for zero values.
func DefaultConfig() Config {
	return Config{
		HorizontalGap:      DefaultHorizontalGap,
		VerticalGap:        DefaultVerticalGap,
		OrderingIterations: transform.DefaultOrderingIterations,
	}
}

// WithDefaults returns c with every non-positive field replaced by its
// default.
func (c Config) WithDefaults() Config {
	d := DefaultConfig()
	if c.HorizontalGap <= 0 {
		c.HorizontalGap = d.HorizontalGap
	}
	if c.VerticalGap <= 0 {
		c.VerticalGap = d.VerticalGap
	}
	if c.OrderingIterations <= 0 {
		c.OrderingIterations = d.OrderingIterations
	}
	return c
}

// Insets is the free space a [Container] keeps around its nested layout.
type Insets struct {
	Top    float64 `json:"top" toml:"top"`
	Bottom float64 `json:"bottom" toml:"bottom"`
	Left   float64 `json:"left" toml:"left"`
	Right  float64 `json:"right" toml:"right"`
}

// UniformInsets returns insets of v on every side.
func UniformInsets(v float64) Insets {
	return Insets{Top: v, Bottom: v, Left: v, Right: v}
}

func (in Insets) snapped() Insets {
	return Insets{Top: snap(in.Top), Bottom: snap(in.Bottom), Left: snap(in.Left), Right: snap(in.Right)}
}
