// Package nodelink renders character graphs as node-link diagrams.
//
// # Overview
//
// Nodes are rounded boxes sized by character weight; edges are arrows whose
// stroke width follows relationship weight and whose label is the
// relationship type. Highlighted elements carry the "highlighted" class (and
// the focused node "focused") in the SVG output and take their colors from
// [render.Palette].
//
// # Usage
//
// Convert a laid-out graph to DOT, then render it:
//
//	dot := nodelink.ToDOT(l, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot)
//
// # Positions
//
// Layout is computed by the layout package, not Graphviz. Every node is
// pinned (pos="x,y!") and the DOT is rendered with the neato engine, which
// honors pinned positions and only routes the edges. Frame coordinates grow
// downward; DOT coordinates grow upward, so y is flipped against the frame
// height.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process rendering.
// No external Graphviz installation is needed.
//
// [render.Palette]: github.com/matzehuels/castgraph/pkg/render.Palette
package nodelink
