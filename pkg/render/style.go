package render

import "math"

// Classes attached to highlighted elements. A focused node carries both.
const (
	ClassHighlighted = "highlighted"
	ClassFocused     = "focused"
)

// Data ranges of the size and width channels.
const (
	NodeWeightMin, NodeWeightMax = 1, 10
	NodeSizeMin, NodeSizeMax     = 40, 80

	EdgeWeightMin, EdgeWeightMax = 1, 5
	EdgeWidthMin, EdgeWidthMax   = 1, 4
)

// MapData maps v linearly from [dataMin, dataMax] onto [outMin, outMax],
// clamping values outside the data range. A degenerate data range or a NaN
// value yields outMin.
func MapData(v, dataMin, dataMax, outMin, outMax float64) float64 {
	if math.IsNaN(v) || dataMax <= dataMin {
		return outMin
	}
	t := (v - dataMin) / (dataMax - dataMin)
	t = math.Max(0, math.Min(1, t))
	return outMin + t*(outMax-outMin)
}

// NodeSize returns the side length of a node with the given weight.
func NodeSize(weight float64) float64 {
	return MapData(weight, NodeWeightMin, NodeWeightMax, NodeSizeMin, NodeSizeMax)
}

// EdgeWidth returns the stroke width of an edge with the given weight.
func EdgeWidth(weight float64) float64 {
	return MapData(weight, EdgeWeightMin, EdgeWeightMax, EdgeWidthMin, EdgeWidthMax)
}

// Palette holds the colors of each visual state.
type Palette struct {
	Node          string
	NodeBorder    string
	NodeText      string
	Highlight     string
	HighlightEdge string
	Focus         string
	FocusBorder   string
	Edge          string
	EdgeArrow     string
	EdgeText      string
}

// DefaultPalette uses sky for nodes, teal for highlights and orange for the
// focused node.
var DefaultPalette = Palette{
	Node:          "#0ea5e9",
	NodeBorder:    "#bae6fd",
	NodeText:      "#ffffff",
	Highlight:     "#14b8a6",
	HighlightEdge: "#99f6e4",
	Focus:         "#f97316",
	FocusBorder:   "#fed7aa",
	Edge:          "#94a3b8",
	EdgeArrow:     "#64748b",
	EdgeText:      "#334155",
}

// NodeColors returns the fill and border color for a node.
func (p Palette) NodeColors(highlighted, focused bool) (fill, border string) {
	switch {
	case focused:
		return p.Focus, p.FocusBorder
	case highlighted:
		return p.Highlight, p.HighlightEdge
	default:
		return p.Node, p.NodeBorder
	}
}

// EdgeColors returns the line and arrow color for an edge.
func (p Palette) EdgeColors(highlighted bool) (line, arrow string) {
	if highlighted {
		return p.Highlight, p.Highlight
	}
	return p.Edge, p.EdgeArrow
}

// Classes returns the class list of an element, space separated.
func Classes(highlighted, focused bool) string {
	switch {
	case focused:
		return ClassHighlighted + " " + ClassFocused
	case highlighted:
		return ClassHighlighted
	default:
		return ""
	}
}
