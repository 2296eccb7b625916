// Package render maps a laid-out character graph onto visual channels.
//
// # Overview
//
// Three channels carry information; everything else is theming:
//
//   - Node weight becomes node size: [NodeSize] = mapData(weight, 1, 10, 40, 80)
//   - Edge weight becomes stroke width: [EdgeWidth] = mapData(weight, 1, 5, 1, 4)
//   - Selection membership becomes a class ([ClassHighlighted], [ClassFocused])
//     with its own colors in the [Palette]
//
// [Export] combines a snapshot, its positions and the current selection into
// a [graph.Layout], the format every surface draws from:
//
//	pos := layout.Fit(positions, 800, 600, 30)
//	l := render.Export(snap, pos, render.WithFrame(800, 600), render.WithSelection(sel))
//	svg, err := nodelink.RenderSVG(ctx, nodelink.ToDOT(l, nodelink.Options{}))
//
// # Surfaces
//
// The [nodelink] subpackage renders layouts through Graphviz (DOT, SVG, PNG).
// The terminal explorer draws the same layout as character cells.
//
// [nodelink]: github.com/matzehuels/castgraph/pkg/render/nodelink
// [graph.Layout]: github.com/matzehuels/castgraph/pkg/graph.Layout
package render
