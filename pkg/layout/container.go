package layout

import (
	"context"

	"oss.terrastruct.com/d2/lib/geo"

	"github.com/matzehuels/erdlayout/pkg/diagram"
)

// Container is a node that lays out a nested diagram of its own.
//
// Its box is always the bounds of the nested layout grown by the insets.
// Moving the container moves every nested object by the same delta. The
// wrapped entity receives the box location, and its size as well when it
// implements [diagram.Resizer].
//
// A Container implements [diagram.Entity]; relationships may use either the
// container or the wrapped entity as an endpoint.
type Container struct {
	entity diagram.Entity
	insets Insets
	inner  *Layout
	box    *geo.Box
}

// NewContainer lays out children with cfg and wraps the result in a box
// anchored at the current location of entity. Insets are rounded to whole
// units so that the box stays on the integer grid.
func NewContainer(entity diagram.Entity, cfg Config, insets Insets, children []Object, opts ...Option) *Container {
	c := &Container{
		entity: entity,
		insets: insets.snapped(),
		inner:  New(cfg, opts...),
	}
	for _, obj := range children {
		c.inner.Add(obj)
	}
	c.layoutAt(context.Background(), entity.Bounds().TopLeft)
	return c
}

// Layout returns the nested layout.
func (c *Container) Layout() *Layout { return c.inner }

// Objects returns the nested registrations.
func (c *Container) Objects() []Object { return c.inner.Objects() }

// Insets returns the border kept around the nested layout.
func (c *Container) Insets() Insets { return c.insets }

// Unwrap returns the wrapped entity.
func (c *Container) Unwrap() diagram.Entity { return c.entity }

func (c *Container) ID() string    { return c.entity.ID() }
func (c *Container) Label() string { return c.entity.Label() }

// Bounds returns a copy of the container box.
func (c *Container) Bounds() *geo.Box { return c.box.Copy() }

// SetLocation moves the container so that its top-left corner is p.
func (c *Container) SetLocation(p *geo.Point) {
	c.Translate(p.X-c.box.TopLeft.X, p.Y-c.box.TopLeft.Y)
}

// Translate moves the nested layout and the box by (dx, dy), rounded to
// whole units like [Layout.Translate].
func (c *Container) Translate(dx, dy float64) {
	c.inner.Translate(snap(dx), snap(dy))
	c.Resize()
}

// Resize recomputes the box from the nested bounds and pushes it onto the
// wrapped entity. Call it after changing nested objects directly.
func (c *Container) Resize() {
	b := c.inner.Bounds()
	c.box = geo.NewBox(
		geo.NewPoint(b.TopLeft.X-c.insets.Left, b.TopLeft.Y-c.insets.Top),
		b.Width+c.insets.Left+c.insets.Right,
		b.Height+c.insets.Top+c.insets.Bottom,
	)
	c.entity.SetLocation(c.box.TopLeft.Copy())
	if r, ok := c.entity.(diagram.Resizer); ok {
		r.SetSize(c.box.Width, c.box.Height)
	}
}

// Relayout runs the nested layout again, keeping the top-left corner of
// the box where it was.
func (c *Container) Relayout(ctx context.Context) Stats {
	at := c.box.TopLeft.Copy()
	return c.layoutAt(ctx, at)
}

func (c *Container) layoutAt(ctx context.Context, at *geo.Point) Stats {
	stats := c.inner.RunContext(ctx)
	inner := c.inner.Location()
	c.inner.Translate(at.X+c.insets.Left-inner.X, at.Y+c.insets.Top-inner.Y)
	c.Resize()
	return stats
}

var _ diagram.Entity = (*Container)(nil)
