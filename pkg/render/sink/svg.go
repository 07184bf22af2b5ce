package sink

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/erdlayout/pkg/graph"
	"github.com/matzehuels/erdlayout/pkg/render/styles"
)

const edgeInteractionCSS = `
    .edge { transition: stroke-width 0.2s ease; }
    .edge.highlight { stroke-width: 3; }
    .table rect { transition: stroke-width 0.2s ease; }
    .table.highlight rect { stroke-width: 2.5; }`

const edgeInteractionJS = `
    function highlight(id) {
      document.querySelectorAll('.edge').forEach(e => e.classList.toggle('highlight', e.dataset.from === id || e.dataset.to === id));
      document.querySelectorAll('.table').forEach(t => t.classList.toggle('highlight', t.id === 'table-' + id));
    }
    function clearHighlight() {
      document.querySelectorAll('.edge, .table').forEach(el => el.classList.remove('highlight'));
    }
    document.querySelectorAll('.table').forEach(el => {
      el.addEventListener('mouseenter', () => highlight(el.id.replace('table-', '')));
      el.addEventListener('mouseleave', clearHighlight);
    });`

// DefaultPadding is the margin around the drawing.
const DefaultPadding = 20.0

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	style       styles.Style
	padding     float64
	interactive bool
	edgeLabels  bool
}

func WithStyle(s styles.Style) SVGOption { return func(r *svgRenderer) { r.style = s } }
func WithPadding(p float64) SVGOption    { return func(r *svgRenderer) { r.padding = max(0, p) } }
func WithInteraction() SVGOption         { return func(r *svgRenderer) { r.interactive = true } }
func WithEdgeLabels() SVGOption          { return func(r *svgRenderer) { r.edgeLabels = true } }

// RenderSVG draws l as a standalone SVG document. Groups are drawn first,
// then edges, then tables, so that tables cover the route ends that were
// clipped to their borders.
func RenderSVG(l graph.Layout, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)

	tables := buildTables(l, r.padding)
	edges := buildEdges(l, r.padding)
	if !r.edgeLabels {
		for i := range edges {
			edges[i].Label = ""
		}
	}

	w, h := l.Width+2*r.padding, l.Height+2*r.padding

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		w, h, w, h)

	r.style.RenderDefs(&buf)
	r.style.RenderBackground(&buf, w, h)
	renderContent(&buf, r.style, tables, edges)
	if r.interactive {
		renderInteraction(&buf)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{style: styles.Light, padding: DefaultPadding}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

func renderContent(buf *bytes.Buffer, s styles.Style, tables []styles.Table, edges []styles.Edge) {
	for _, t := range tables {
		if t.Group {
			s.RenderGroup(buf, t)
			s.RenderText(buf, t)
		}
	}
	for _, e := range edges {
		s.RenderEdge(buf, e)
	}
	for _, t := range tables {
		if !t.Group {
			s.RenderTable(buf, t)
			s.RenderText(buf, t)
		}
	}
}

func renderInteraction(buf *bytes.Buffer) {
	fmt.Fprintf(buf, "  <style>%s\n  </style>\n", edgeInteractionCSS)
	fmt.Fprintf(buf, "  <script type=\"text/javascript\"><![CDATA[%s\n  ]]></script>\n", edgeInteractionJS)
}
