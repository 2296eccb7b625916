package render

import (
	"github.com/matzehuels/castgraph/pkg/graph"
	"github.com/matzehuels/castgraph/pkg/interaction"
	"github.com/matzehuels/castgraph/pkg/layout"
)

// Option configures [Export].
type Option func(*exporter)

type exporter struct {
	width, height float64
	sel           interaction.Selection
}

// WithFrame records the frame size in the exported layout. Nodes without a
// position are placed at the frame's center.
func WithFrame(width, height float64) Option {
	return func(e *exporter) { e.width, e.height = width, height }
}

// WithSelection marks the nodes and edges of sel as highlighted.
func WithSelection(sel interaction.Selection) Option {
	return func(e *exporter) { e.sel = sel }
}

// Export builds the drawable layout of snap at the given positions.
//
// Nodes and edges keep snapshot order. Positions are used as-is; fit them to
// the frame first with [layout.Fit].
func Export(snap *graph.Snapshot, pos layout.Positions, opts ...Option) graph.Layout {
	var e exporter
	for _, opt := range opts {
		opt(&e)
	}

	out := graph.Layout{
		Width:  e.width,
		Height: e.height,
		Nodes:  make([]graph.PlacedNode, 0, snap.NodeCount()),
		Edges:  make([]graph.PlacedEdge, 0, snap.EdgeCount()),
	}
	if e.sel.Focused {
		out.Focused = e.sel.Focus
	}

	for _, n := range snap.Nodes() {
		p, ok := pos[n.ID]
		if !ok {
			p = layout.Point{X: e.width / 2, Y: e.height / 2}
		}
		out.Nodes = append(out.Nodes, graph.PlacedNode{
			ID:          n.ID,
			Weight:      n.Weight,
			X:           p.X,
			Y:           p.Y,
			Size:        NodeSize(n.Weight),
			Highlighted: e.sel.HighlightsNode(n.ID),
			Focused:     e.sel.IsFocus(n.ID),
		})
	}
	for _, ed := range snap.Edges() {
		out.Edges = append(out.Edges, graph.PlacedEdge{
			ID:          ed.ID,
			Source:      ed.Source,
			Target:      ed.Target,
			Type:        ed.Type,
			Description: ed.Description,
			Weight:      ed.Weight,
			Width:       EdgeWidth(ed.Weight),
			Highlighted: e.sel.HighlightsEdge(ed.ID),
		})
	}
	return out
}

// Targets returns the hit-test rectangles of a layout's nodes, in drawing
// order.
func Targets(l graph.Layout) []interaction.Target {
	out := make([]interaction.Target, len(l.Nodes))
	for i, n := range l.Nodes {
		out[i] = interaction.Target{ID: n.ID, X: n.X, Y: n.Y, Size: n.Size}
	}
	return out
}
