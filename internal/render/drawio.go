package render

import (
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/joshharrison/pertgraph/internal/pert"
)

const (
	vertexStyle = "shape=rectangle;whiteSpace=wrap;html=1;rounded=1;strokeColor=#333333;fontSize=10;fontFamily=Inter;align=left;verticalAlign=top;spacingLeft=4;spacingRight=4;spacingTop=4;spacingBottom=4;"
	edgeStyle   = "edgeStyle=orthogonalEdgeStyle;rounded=0;orthogonalLoop=1;jettySize=auto;html=1;endArrow=classic;strokeWidth=1;strokeColor=#6B7280;"

	FillNormal     = "#EBF8FF"
	FillCritical   = "#FED7D7"
	FillBottleneck = "#FEFCBF"

	perRow     = 5
	colSpacing = 200
	rowSpacing = 150
	margin     = 50
	cellWidth  = 180
	cellHeight = 100
)

// DrawIOOptions controls the draw.io output.
type DrawIOOptions struct {
	// Wrap emits a complete <mxfile> document instead of a bare
	// <mxGraphModel>, which is what the draw.io desktop app saves.
	Wrap      bool
	DiagramID string // random when empty
	Name      string // diagram page name
}

type mxFile struct {
	XMLName xml.Name  `xml:"mxfile"`
	Host    string    `xml:"host,attr"`
	Diagram mxDiagram `xml:"diagram"`
}

type mxDiagram struct {
	ID    string       `xml:"id,attr"`
	Name  string       `xml:"name,attr"`
	Model mxGraphModel `xml:"mxGraphModel"`
}

type mxGraphModel struct {
	XMLName    xml.Name `xml:"mxGraphModel"`
	DX         int      `xml:"dx,attr"`
	DY         int      `xml:"dy,attr"`
	Grid       int      `xml:"grid,attr"`
	GridSize   int      `xml:"gridSize,attr"`
	Guides     int      `xml:"guides,attr"`
	Tooltips   int      `xml:"tooltips,attr"`
	Connect    int      `xml:"connect,attr"`
	Arrows     int      `xml:"arrows,attr"`
	Fold       int      `xml:"fold,attr"`
	Page       int      `xml:"page,attr"`
	PageScale  int      `xml:"pageScale,attr"`
	PageWidth  int      `xml:"pageWidth,attr"`
	PageHeight int      `xml:"pageHeight,attr"`
	Math       int      `xml:"math,attr"`
	Shadow     int      `xml:"shadow,attr"`
	Root       mxRoot   `xml:"root"`
}

type mxRoot struct {
	Cells []mxCell `xml:"mxCell"`
}

type mxCell struct {
	ID       string      `xml:"id,attr"`
	Value    string      `xml:"value,attr,omitempty"`
	Style    string      `xml:"style,attr,omitempty"`
	Vertex   string      `xml:"vertex,attr,omitempty"`
	Edge     string      `xml:"edge,attr,omitempty"`
	Parent   string      `xml:"parent,attr,omitempty"`
	Source   string      `xml:"source,attr,omitempty"`
	Target   string      `xml:"target,attr,omitempty"`
	Geometry *mxGeometry `xml:"mxGeometry"`
}

type mxGeometry struct {
	X        int    `xml:"x,attr,omitempty"`
	Y        int    `xml:"y,attr,omitempty"`
	Width    int    `xml:"width,attr,omitempty"`
	Height   int    `xml:"height,attr,omitempty"`
	Relative string `xml:"relative,attr,omitempty"`
	As       string `xml:"as,attr"`
}

// DrawIO writes res as mxGraph XML that draw.io can import. Tasks are laid
// out left to right, five per row, in input order.
func DrawIO(w io.Writer, res *pert.Result, opts DrawIOOptions) error {
	model := buildModel(res)

	var doc any = model
	if opts.Wrap {
		id := opts.DiagramID
		if id == "" {
			id = uuid.NewString()
		}
		name := opts.Name
		if name == "" {
			name = "PERT Chart"
		}
		doc = mxFile{
			Host:    "pertgraph",
			Diagram: mxDiagram{ID: id, Name: name, Model: model},
		}
	}

	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode drawio: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode drawio: %w", err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}

func buildModel(res *pert.Result) mxGraphModel {
	cells := []mxCell{
		{ID: "0"},
		{ID: "1", Parent: "0"},
	}

	for i, t := range res.Tasks {
		cells = append(cells, mxCell{
			ID:     vertexID(t.ID),
			Value:  taskLabel(t),
			Style:  vertexStyle + "fillColor=" + fillFor(t) + ";",
			Vertex: "1",
			Parent: "1",
			Geometry: &mxGeometry{
				X:      (i%perRow)*colSpacing + margin,
				Y:      (i/perRow)*rowSpacing + margin,
				Width:  cellWidth,
				Height: cellHeight,
				As:     "geometry",
			},
		})
	}

	for n, e := range res.Edges {
		cells = append(cells, mxCell{
			ID:       fmt.Sprintf("edge-%s-%s-%d", e.From, e.To, n+1),
			Style:    edgeStyle,
			Edge:     "1",
			Parent:   "1",
			Source:   vertexID(e.From),
			Target:   vertexID(e.To),
			Geometry: &mxGeometry{Relative: "1", As: "geometry"},
		})
	}

	return mxGraphModel{
		DX: 1426, DY: 797,
		Grid: 1, GridSize: 10,
		Guides: 1, Tooltips: 1, Connect: 1, Arrows: 1, Fold: 1,
		Page: 1, PageScale: 1, PageWidth: 827, PageHeight: 1169,
		Root: mxRoot{Cells: cells},
	}
}

// vertexID keeps task cells apart from the root cells "0" and "1", which
// plans with numeric task IDs would otherwise collide with.
func vertexID(taskID string) string {
	return "task-" + taskID
}

func fillFor(t pert.Task) string {
	switch {
	case t.IsCritical:
		return FillCritical
	case t.IsBottleneck:
		return FillBottleneck
	default:
		return FillNormal
	}
}

// taskLabel is the HTML shown inside a vertex. The encoder escapes it again
// as an attribute value.
func taskLabel(t pert.Task) string {
	desc := t.Description
	if desc == "" {
		desc = "N/A"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "<b>%s: %s</b><br>", html.EscapeString(t.ID), html.EscapeString(desc))
	fmt.Fprintf(&b, "TE: %.2f | Var: %.2f<br>", t.ExpectedTime, t.Variance)
	fmt.Fprintf(&b, "ES: %.2f | EF: %.2f<br>", t.EarlyStart, t.EarlyFinish)
	fmt.Fprintf(&b, "LS: %.2f | LF: %.2f<br>", t.LateStart, t.LateFinish)
	fmt.Fprintf(&b, "Slack: %.2f", t.Slack)
	if t.IsCritical {
		b.WriteString("<br><b>CRITICAL</b>")
	}
	if t.IsBottleneck {
		b.WriteString("<br><i>BOTTLENECK</i>")
	}
	return b.String()
}
