package sink

import (
	"encoding/xml"
	"fmt"

	"github.com/samber/lo"

	"github.com/matzehuels/erdlayout/pkg/graph"
	"github.com/matzehuels/erdlayout/pkg/render/styles"
)

// MxFile is the top-level element of a .drawio document.
type MxFile struct {
	XMLName xml.Name  `xml:"mxfile"`
	Host    string    `xml:"host,attr"`
	Diagram MxDiagram `xml:"diagram"`
}

type MxDiagram struct {
	ID    string       `xml:"id,attr"`
	Name  string       `xml:"name,attr"`
	Model MxGraphModel `xml:"mxGraphModel"`
}

type MxGraphModel struct {
	Dx         int     `xml:"dx,attr"`
	Dy         int     `xml:"dy,attr"`
	Grid       int     `xml:"grid,attr"`
	Guides     int     `xml:"guides,attr"`
	Tooltips   int     `xml:"tooltips,attr"`
	Connect    int     `xml:"connect,attr"`
	Arrows     int     `xml:"arrows,attr"`
	Fold       int     `xml:"fold,attr"`
	Page       int     `xml:"page,attr"`
	PageScale  float64 `xml:"pageScale,attr"`
	PageWidth  int     `xml:"pageWidth,attr"`
	PageHeight int     `xml:"pageHeight,attr"`
	Background string  `xml:"background,attr,omitempty"`
	Root       Root    `xml:"root"`
}

type Root struct {
	MxCell []MxCell `xml:"mxCell"`
}

type MxCell struct {
	ID       string    `xml:"id,attr"`
	Parent   string    `xml:"parent,attr,omitempty"`
	Value    string    `xml:"value,attr,omitempty"`
	Style    string    `xml:"style,attr,omitempty"`
	Vertex   string    `xml:"vertex,attr,omitempty"`
	Edge     string    `xml:"edge,attr,omitempty"`
	Source   string    `xml:"source,attr,omitempty"`
	Target   string    `xml:"target,attr,omitempty"`
	Geometry *Geometry `xml:"mxGeometry,omitempty"`
}

type Geometry struct {
	Relative string      `xml:"relative,attr,omitempty"`
	As       string      `xml:"as,attr,omitempty"`
	X        float64     `xml:"x,attr,omitempty"`
	Y        float64     `xml:"y,attr,omitempty"`
	Width    float64     `xml:"width,attr,omitempty"`
	Height   float64     `xml:"height,attr,omitempty"`
	Points   *PointArray `xml:"Array,omitempty"`
}

type PointArray struct {
	As     string    `xml:"as,attr"`
	Points []MxPoint `xml:"mxPoint"`
}

type MxPoint struct {
	X float64 `xml:"x,attr"`
	Y float64 `xml:"y,attr"`
}

const (
	drawioGroupStyle  = "rounded=1;whiteSpace=wrap;html=1;dashed=1;fillColor=%s;strokeColor=%s;verticalAlign=top;align=left;spacingLeft=8;fontStyle=1;container=1;collapsible=0;"
	drawioTableStyle  = "swimlane;fontStyle=1;childLayout=stackLayout;horizontal=1;startSize=%.0f;horizontalStack=0;resizeParent=1;collapsible=0;html=1;fillColor=%s;strokeColor=%s;fontColor=%s;"
	drawioColumnStyle = "text;strokeColor=none;fillColor=none;align=left;verticalAlign=middle;spacingLeft=6;overflow=hidden;html=1;fontColor=%s;"
	drawioEdgeStyle   = "edgeStyle=none;html=1;endArrow=block;endFill=1;rounded=0;strokeColor=%s;"
)

// RenderDrawio exports l as an uncompressed draw.io document. Tables become
// swimlanes with one text cell per column; groups become container cells;
// relationships keep their bend points.
func RenderDrawio(l graph.Layout, theme styles.Theme) ([]byte, error) {
	model := createDrawioModel(l, theme)
	file := MxFile{
		Host:    "erdlayout",
		Diagram: MxDiagram{ID: "erd", Name: "ERD", Model: model},
	}
	out, err := xml.MarshalIndent(file, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling XML: %w", err)
	}
	return []byte(xml.Header + string(out) + "\n"), nil
}

func createDrawioModel(l graph.Layout, theme styles.Theme) MxGraphModel {
	model := MxGraphModel{
		Dx:         int(l.Width),
		Dy:         int(l.Height),
		Grid:       1,
		Guides:     1,
		Tooltips:   1,
		Connect:    1,
		Arrows:     1,
		Fold:       1,
		Page:       1,
		PageScale:  1,
		PageWidth:  int(l.Width + 2*DefaultPadding),
		PageHeight: int(l.Height + 2*DefaultPadding),
		Background: theme.Background,
		Root: Root{
			MxCell: []MxCell{
				{ID: "0"},
				{ID: "1", Parent: "0"},
			},
		},
	}

	for _, t := range buildTables(l, DefaultPadding) {
		model.Root.MxCell = append(model.Root.MxCell, tableCells(t, theme)...)
	}

	for i, e := range buildEdges(l, DefaultPadding) {
		cell := MxCell{
			ID:     fmt.Sprintf("edge-%d", i),
			Parent: "1",
			Value:  e.Label,
			Style:  fmt.Sprintf(drawioEdgeStyle, theme.EdgeColor),
			Edge:   "1",
			Source: cellID(e.FromID),
			Target: cellID(e.ToID),
			Geometry: &Geometry{
				Relative: "1",
				As:       "geometry",
			},
		}
		if bends := e.Points[1 : len(e.Points)-1]; len(bends) > 0 {
			cell.Geometry.Points = &PointArray{
				As: "points",
				Points: lo.Map(bends, func(p styles.Point, _ int) MxPoint {
					return MxPoint{X: p.X, Y: p.Y}
				}),
			}
		}
		model.Root.MxCell = append(model.Root.MxCell, cell)
	}
	return model
}

func cellID(id string) string { return "node-" + id }

// tableCells returns the cell of t followed by its column cells. All
// vertices hang off the default layer with absolute coordinates; column
// cells are relative to their table.
func tableCells(t styles.Table, theme styles.Theme) []MxCell {
	if t.Group {
		return []MxCell{{
			ID:       cellID(t.ID),
			Parent:   "1",
			Value:    t.Label,
			Style:    fmt.Sprintf(drawioGroupStyle, theme.GroupFill, theme.GroupLine),
			Vertex:   "1",
			Geometry: &Geometry{X: t.X, Y: t.Y, Width: t.W, Height: t.H, As: "geometry"},
		}}
	}

	cells := []MxCell{{
		ID:       cellID(t.ID),
		Parent:   "1",
		Value:    t.Label,
		Style:    fmt.Sprintf(drawioTableStyle, min(t.Header, t.H), theme.HeaderFill, theme.Stroke, theme.HeaderText),
		Vertex:   "1",
		Geometry: &Geometry{X: t.X, Y: t.Y, Width: t.W, Height: t.H, As: "geometry"},
	}}
	for i, c := range t.Columns {
		value := styles.ColumnText(c)
		if k := styles.KeyMarker(c.Key); k != "" {
			value = k + " " + value
		}
		cells = append(cells, MxCell{
			ID:     fmt.Sprintf("%s-col-%d", cellID(t.ID), i),
			Parent: cellID(t.ID),
			Value:  value,
			Style:  fmt.Sprintf(drawioColumnStyle, theme.Text),
			Vertex: "1",
			Geometry: &Geometry{
				Y:      t.Header + float64(i)*t.Row,
				Width:  t.W,
				Height: t.Row,
				As:     "geometry",
			},
		})
	}
	return cells
}
