package sink

import (
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/matzehuels/erdlayout/pkg/graph"
	"github.com/matzehuels/erdlayout/pkg/render/styles"
)

// GraphML is the root of a yEd-flavoured GraphML document. Node and edge
// graphics live in the y: namespace, which yEd reads to restore the
// computed geometry instead of laying the graph out again.
type GraphML struct {
	XMLName        xml.Name     `xml:"graphml"`
	Xmlns          string       `xml:"xmlns,attr"`
	XmlnsXSI       string       `xml:"xmlns:xsi,attr"`
	XmlnsY         string       `xml:"xmlns:y,attr"`
	SchemaLocation string       `xml:"xsi:schemaLocation,attr"`
	Keys           []GraphMLKey `xml:"key"`
	Graph          GraphMLGraph `xml:"graph"`
}

type GraphMLKey struct {
	ID         string `xml:"id,attr"`
	For        string `xml:"for,attr"`
	YFilesType string `xml:"yfiles.type,attr"`
}

type GraphMLGraph struct {
	ID          string        `xml:"id,attr"`
	EdgeDefault string        `xml:"edgedefault,attr"`
	Nodes       []GraphMLNode `xml:"node"`
	Edges       []GraphMLEdge `xml:"edge"`
}

type GraphMLNode struct {
	ID   string   `xml:"id,attr"`
	Data NodeData `xml:"data"`
}

type NodeData struct {
	Key     string       `xml:"key,attr"`
	Generic *GenericNode `xml:"y:GenericNode,omitempty"`
	Shape   *ShapeNode   `xml:"y:ShapeNode,omitempty"`
}

// GenericNode is a table drawn with yEd's entity-relationship template.
type GenericNode struct {
	Configuration string      `xml:"configuration,attr"`
	Geometry      YGeometry   `xml:"y:Geometry"`
	Fill          YFill       `xml:"y:Fill"`
	Border        YBorder     `xml:"y:BorderStyle"`
	Labels        []YNodeLabel `xml:"y:NodeLabel"`
}

// ShapeNode is a group frame.
type ShapeNode struct {
	Geometry YGeometry    `xml:"y:Geometry"`
	Fill     YFill        `xml:"y:Fill"`
	Border   YBorder      `xml:"y:BorderStyle"`
	Labels   []YNodeLabel `xml:"y:NodeLabel"`
	Shape    YShape       `xml:"y:Shape"`
}

type YGeometry struct {
	X      float64 `xml:"x,attr"`
	Y      float64 `xml:"y,attr"`
	Width  float64 `xml:"width,attr"`
	Height float64 `xml:"height,attr"`
}

type YFill struct {
	Color       string `xml:"color,attr"`
	Transparent bool   `xml:"transparent,attr"`
}

type YBorder struct {
	Color string  `xml:"color,attr"`
	Type  string  `xml:"type,attr"`
	Width float64 `xml:"width,attr"`
}

type YNodeLabel struct {
	Alignment       string `xml:"alignment,attr"`
	Configuration   string `xml:"configuration,attr,omitempty"`
	FontFamily      string `xml:"fontFamily,attr"`
	FontSize        int    `xml:"fontSize,attr"`
	FontStyle       string `xml:"fontStyle,attr"`
	ModelName       string `xml:"modelName,attr"`
	ModelPosition   string `xml:"modelPosition,attr"`
	BackgroundColor string `xml:"backgroundColor,attr,omitempty"`
	TextColor       string `xml:"textColor,attr"`
	Text            string `xml:",chardata"`
}

type YShape struct {
	Type string `xml:"type,attr"`
}

type GraphMLEdge struct {
	ID     string   `xml:"id,attr"`
	Source string   `xml:"source,attr"`
	Target string   `xml:"target,attr"`
	Data   EdgeData `xml:"data"`
}

type EdgeData struct {
	Key      string       `xml:"key,attr"`
	PolyLine PolyLineEdge `xml:"y:PolyLineEdge"`
}

type PolyLineEdge struct {
	Path      YPath        `xml:"y:Path"`
	LineStyle YBorder      `xml:"y:LineStyle"`
	Arrows    YArrows      `xml:"y:Arrows"`
	Labels    []YEdgeLabel `xml:"y:EdgeLabel,omitempty"`
	BendStyle YBendStyle   `xml:"y:BendStyle"`
}

// YPath holds the bends of an edge. sx/sy and tx/ty are the ports, relative
// to the centres of the source and target nodes.
type YPath struct {
	SX     float64  `xml:"sx,attr"`
	SY     float64  `xml:"sy,attr"`
	TX     float64  `xml:"tx,attr"`
	TY     float64  `xml:"ty,attr"`
	Points []YPoint `xml:"y:Point"`
}

type YPoint struct {
	X float64 `xml:"x,attr"`
	Y float64 `xml:"y,attr"`
}

type YArrows struct {
	Source string `xml:"source,attr"`
	Target string `xml:"target,attr"`
}

type YEdgeLabel struct {
	TextColor string `xml:"textColor,attr"`
	Text      string `xml:",chardata"`
}

type YBendStyle struct {
	Smoothed bool `xml:"smoothed,attr"`
}

const (
	graphmlFont     = "Dialog"
	graphmlFontSize = 12
	graphmlNodeKey  = "d0"
	graphmlEdgeKey  = "d1"
)

// RenderGraphML exports l as GraphML for yEd. Tables become entity nodes
// with a name label and an attribute label, groups become dashed frames
// drawn before their members, and relationships become polylines with
// their bends.
func RenderGraphML(l graph.Layout, theme styles.Theme) ([]byte, error) {
	doc := GraphML{
		Xmlns:          "http://graphml.graphdrawing.org/xmlns",
		XmlnsXSI:       "http://www.w3.org/2001/XMLSchema-instance",
		XmlnsY:         "http://www.yworks.com/xml/graphml",
		SchemaLocation: "http://graphml.graphdrawing.org/xmlns http://www.yworks.com/xml/schema/graphml/1.1/ygraphml.xsd",
		Keys: []GraphMLKey{
			{ID: graphmlNodeKey, For: "node", YFilesType: "nodegraphics"},
			{ID: graphmlEdgeKey, For: "edge", YFilesType: "edgegraphics"},
		},
		Graph: GraphMLGraph{ID: "G", EdgeDefault: "directed"},
	}

	tables := buildTables(l, 0)
	ids := make(map[string]string, len(tables))
	centres := make(map[string]styles.Point, len(tables))
	for i, t := range tables {
		ids[t.ID] = fmt.Sprintf("n%d", i)
		centres[t.ID] = styles.Point{X: t.X + t.W/2, Y: t.Y + t.H/2}
		doc.Graph.Nodes = append(doc.Graph.Nodes, graphmlNode(ids[t.ID], t, theme))
	}

	for i, e := range buildEdges(l, 0) {
		src, ok1 := ids[e.FromID]
		dst, ok2 := ids[e.ToID]
		if !ok1 || !ok2 {
			continue
		}
		first, last := e.Points[0], e.Points[len(e.Points)-1]
		sc, tc := centres[e.FromID], centres[e.ToID]
		edge := GraphMLEdge{
			ID:     fmt.Sprintf("e%d", i),
			Source: src,
			Target: dst,
			Data: EdgeData{
				Key: graphmlEdgeKey,
				PolyLine: PolyLineEdge{
					Path: YPath{
						SX: first.X - sc.X, SY: first.Y - sc.Y,
						TX: last.X - tc.X, TY: last.Y - tc.Y,
						Points: lo.Map(e.Points[1:len(e.Points)-1], func(p styles.Point, _ int) YPoint {
							return YPoint{X: p.X, Y: p.Y}
						}),
					},
					LineStyle: YBorder{Color: theme.EdgeColor, Type: "line", Width: 1},
					Arrows:    YArrows{Source: "none", Target: "standard"},
				},
			},
		}
		if e.Label != "" {
			edge.Data.PolyLine.Labels = []YEdgeLabel{{TextColor: theme.Text, Text: e.Label}}
		}
		doc.Graph.Edges = append(doc.Graph.Edges, edge)
	}

	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling XML: %w", err)
	}
	return []byte(xml.Header + string(out) + "\n"), nil
}

func graphmlNode(id string, t styles.Table, theme styles.Theme) GraphMLNode {
	geom := YGeometry{X: t.X, Y: t.Y, Width: t.W, Height: t.H}
	label := func(text, align, config, bg, fg string) YNodeLabel {
		return YNodeLabel{
			Alignment:       align,
			Configuration:   config,
			FontFamily:      graphmlFont,
			FontSize:        graphmlFontSize,
			FontStyle:       "plain",
			ModelName:       "internal",
			ModelPosition:   "t",
			BackgroundColor: bg,
			TextColor:       fg,
			Text:            text,
		}
	}

	if t.Group {
		return GraphMLNode{ID: id, Data: NodeData{Key: graphmlNodeKey, Shape: &ShapeNode{
			Geometry: geom,
			Fill:     YFill{Color: theme.GroupFill},
			Border:   YBorder{Color: theme.GroupLine, Type: "dashed", Width: 1},
			Labels:   []YNodeLabel{label(t.Label, "left", "", "", theme.Text)},
			Shape:    YShape{Type: "roundrectangle"},
		}}}
	}

	rows := lo.Map(t.Columns, func(c styles.Column, _ int) string {
		if k := styles.KeyMarker(c.Key); k != "" {
			return k + " " + styles.ColumnText(c)
		}
		return styles.ColumnText(c)
	})
	return GraphMLNode{ID: id, Data: NodeData{Key: graphmlNodeKey, Generic: &GenericNode{
		Configuration: "com.yworks.entityRelationship.big_entity",
		Geometry:      geom,
		Fill:          YFill{Color: theme.TableFill},
		Border:        YBorder{Color: theme.Stroke, Type: "line", Width: 1},
		Labels: []YNodeLabel{
			label(t.Label, "center", "com.yworks.entityRelationship.label.name", theme.HeaderFill, theme.HeaderText),
			label(strings.Join(rows, "\n"), "left", "com.yworks.entityRelationship.label.attributes", "", theme.Text),
		},
	}}}
}
