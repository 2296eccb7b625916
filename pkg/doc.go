// Package pkg provides the core libraries for castgraph character graphs.
//
// # Overview
//
// Castgraph turns a Project Gutenberg book into a graph of its characters
// and the relationships between them, then draws that graph with a
// force-directed layout. The pkg directory is organized into these areas:
//
//  1. [graph] - Wire types, the normalized snapshot and the drawable layout
//  2. [layout] - Fruchterman-Reingold force-directed placement
//  3. [interaction], [viewport] - Selection state and canvas sizing
//  4. [fetch], [session] - Request tracking and the explorer session
//  5. [analysis], [integrations] - Relationship extraction and remote clients
//  6. [pipeline], [render] - Batch orchestration (load → layout → render)
//  7. [cache], [observability], [errors], [httputil] - Infrastructure
//
// # Architecture
//
// The typical data flow through castgraph:
//
//	Gutenberg book
//	      ↓
//	  [analysis] package (excerpt + relationship extraction)
//	      ↓
//	  [graph] package (snapshot: unique edge ids, synthesized nodes)
//	      ↓
//	  [layout] package (positions)
//	      ↓
//	  [render] package (sizes, highlights, DOT/SVG/PNG/JSON)
//
// # Quick Start
//
// Lay out an analysis result and render it to SVG:
//
//	result, _ := graph.ReadResultFile("1342.graph.json")
//	snap := graph.BuildSnapshot(result.Edges, result.Nodes)
//
//	pos, _, _ := layout.Compute(ctx, snap, layout.DefaultConfig())
//	pos = layout.Fit(pos, 960, 600, 40)
//
//	l := render.Export(snap, pos, render.WithFrame(960, 600))
//	svg, _ := nodelink.Render(ctx, nodelink.ToDOT(l, nodelink.Options{}), "svg")
//
// Most callers use [pipeline.Runner], which adds caching on top of the same
// steps, or [session.Session] for interactive use.
//
// [graph]: github.com/matzehuels/castgraph/pkg/graph
// [layout]: github.com/matzehuels/castgraph/pkg/layout
// [interaction]: github.com/matzehuels/castgraph/pkg/interaction
// [viewport]: github.com/matzehuels/castgraph/pkg/viewport
// [fetch]: github.com/matzehuels/castgraph/pkg/fetch
// [session]: github.com/matzehuels/castgraph/pkg/session
// [session.Session]: github.com/matzehuels/castgraph/pkg/session.Session
// [analysis]: github.com/matzehuels/castgraph/pkg/analysis
// [integrations]: github.com/matzehuels/castgraph/pkg/integrations
// [pipeline]: github.com/matzehuels/castgraph/pkg/pipeline
// [pipeline.Runner]: github.com/matzehuels/castgraph/pkg/pipeline.Runner
// [render]: github.com/matzehuels/castgraph/pkg/render
// [cache]: github.com/matzehuels/castgraph/pkg/cache
// [observability]: github.com/matzehuels/castgraph/pkg/observability
// [errors]: github.com/matzehuels/castgraph/pkg/errors
// [httputil]: github.com/matzehuels/castgraph/pkg/httputil
package pkg
