package styles

import (
	"bytes"
	"fmt"
	"slices"
)

// Theme is a palette-driven [Style]: flat boxes, a filled title band and
// straight polylines with an arrowhead at the target.
type Theme struct {
	ID         string
	Background string
	TableFill  string
	HeaderFill string
	HeaderText string
	GroupFill  string
	GroupLine  string
	Stroke     string
	Text       string
	Muted      string
	EdgeColor  string
}

// Built-in themes.
var (
	Light = Theme{
		ID:         "light",
		Background: "#ffffff",
		TableFill:  "#ffffff",
		HeaderFill: "#e8eef7",
		HeaderText: "#1f2933",
		GroupFill:  "#f7f9fc",
		GroupLine:  "#9aa5b1",
		Stroke:     "#52606d",
		Text:       "#1f2933",
		Muted:      "#7b8794",
		EdgeColor:  "#52606d",
	}
	Dark = Theme{
		ID:         "dark",
		Background: "#1e1e1e",
		TableFill:  "#2d2d2d",
		HeaderFill: "#3c4a5c",
		HeaderText: "#f5f7fa",
		GroupFill:  "#252526",
		GroupLine:  "#6b7785",
		Stroke:     "#8a94a0",
		Text:       "#e4e7eb",
		Muted:      "#9aa5b1",
		EdgeColor:  "#a0aab4",
	}
)

var themes = map[string]Theme{Light.ID: Light, Dark.ID: Dark}

// DefaultName is the style used when none is requested.
const DefaultName = "light"

// ByName returns the built-in style with the given name.
func ByName(name string) (Style, bool) {
	if name == "" {
		name = DefaultName
	}
	t, ok := themes[name]
	return t, ok
}

// Names lists the built-in styles, sorted.
func Names() []string {
	names := make([]string, 0, len(themes))
	for n := range themes {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

func (t Theme) Name() string { return t.ID }

func (t Theme) RenderDefs(buf *bytes.Buffer) {
	buf.WriteString("  <defs>\n")
	fmt.Fprintf(buf, `    <marker id="arrow" viewBox="0 0 10 10" refX="10" refY="5" markerWidth="8" markerHeight="8" orient="auto-start-reverse"><path d="M 0 0 L 10 5 L 0 10 z" fill="%s"/></marker>`+"\n", t.EdgeColor)
	buf.WriteString("  </defs>\n")
}

func (t Theme) RenderBackground(buf *bytes.Buffer, width, height float64) {
	fmt.Fprintf(buf, `  <rect x="0" y="0" width="%.1f" height="%.1f" fill="%s"/>`+"\n", width, height, t.Background)
}

func (t Theme) RenderGroup(buf *bytes.Buffer, g Table) {
	fmt.Fprintf(buf, `  <rect id="group-%s" class="group" x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="6" fill="%s" stroke="%s" stroke-dasharray="6 4"/>`+"\n",
		EscapeXML(g.ID), g.X, g.Y, g.W, g.H, t.GroupFill, t.GroupLine)
}

func (t Theme) RenderTable(buf *bytes.Buffer, tb Table) {
	fmt.Fprintf(buf, `  <g id="table-%s" class="table">`+"\n", EscapeXML(tb.ID))
	fmt.Fprintf(buf, `    <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="3" fill="%s" stroke="%s"/>`+"\n",
		tb.X, tb.Y, tb.W, tb.H, t.TableFill, t.Stroke)
	header := min(tb.Header, tb.H)
	fmt.Fprintf(buf, `    <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="3" fill="%s" stroke="%s"/>`+"\n",
		tb.X, tb.Y, tb.W, header, t.HeaderFill, t.Stroke)
	for i := 1; i < len(tb.Columns); i++ {
		y := tb.Y + tb.Header + float64(i)*tb.Row
		if y >= tb.Y+tb.H {
			break
		}
		fmt.Fprintf(buf, `    <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-opacity="0.25"/>`+"\n",
			tb.X, y, tb.X+tb.W, y, t.Stroke)
	}
	buf.WriteString("  </g>\n")
}

func (t Theme) RenderEdge(buf *bytes.Buffer, e Edge) {
	if len(e.Points) < 2 {
		return
	}
	fmt.Fprintf(buf, `  <polyline class="edge" data-from="%s" data-to="%s" points="%s" fill="none" stroke="%s" stroke-width="1.5" marker-end="url(#arrow)"/>`+"\n",
		EscapeXML(e.FromID), EscapeXML(e.ToID), points(e.Points), t.EdgeColor)
	if e.Label == "" {
		return
	}
	m := e.Midpoint()
	fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" font-family="sans-serif" font-size="%.0f" fill="%s" dx="4" dy="-4">%s</text>`+"\n",
		m.X, m.Y, fontSize-2, t.Muted, EscapeXML(e.Label))
}

func (t Theme) RenderText(buf *bytes.Buffer, tb Table) {
	if tb.Group {
		fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" font-family="sans-serif" font-size="%.0f" font-weight="bold" fill="%s">%s</text>`+"\n",
			tb.X+textInset, tb.Y+fontSize+textInset, fontSize, t.Muted, EscapeXML(Truncate(tb.Label, tb.W-2*textInset)))
		return
	}

	header := min(tb.Header, tb.H)
	fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" text-anchor="middle" dominant-baseline="central" font-family="sans-serif" font-size="%.0f" font-weight="bold" fill="%s">%s</text>`+"\n",
		tb.X+tb.W/2, tb.Y+header/2, fontSize, t.HeaderText, EscapeXML(Truncate(tb.Label, tb.W-2*textInset)))

	for i, c := range tb.Columns {
		top := tb.Y + tb.Header + float64(i)*tb.Row
		if top+tb.Row > tb.Y+tb.H {
			break
		}
		cy := top + tb.Row/2
		if k := KeyMarker(c.Key); k != "" {
			fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" dominant-baseline="central" font-family="monospace" font-size="%.0f" font-weight="bold" fill="%s">%s</text>`+"\n",
				tb.X+textInset, cy, fontSize-3, t.Muted, k)
		}
		x := tb.X + textInset + keyColumnW
		fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" dominant-baseline="central" font-family="monospace" font-size="%.0f" fill="%s">%s</text>`+"\n",
			x, cy, fontSize-1, t.Text, EscapeXML(Truncate(ColumnText(c), tb.X+tb.W-x-textInset)))
	}
}

var _ Style = Theme{}
