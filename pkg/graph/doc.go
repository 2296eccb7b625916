// Package graph builds and serializes character-relationship graphs.
//
// This package is the graph model of castgraph: it turns the raw edge and
// node lists returned by the analysis service into a consistent, renderable
// [Snapshot], and defines the JSON formats used for graph files and layouts.
//
// # Snapshots
//
// [BuildSnapshot] is a pure function. It collects every character referenced
// by an edge, resolves each one against the supplied node list, and
// synthesizes a node with [DefaultNodeWeight] for characters the analysis
// left out:
//
//	snap := graph.BuildSnapshot(result.Edges, result.Nodes)
//	for _, n := range snap.Nodes() {
//	    fmt.Println(n.ID, n.Weight)
//	}
//
// Node order is the order of first appearance in the edge list, and edges get
// positional ids (e0, e1, ...), so building twice from the same input yields
// the same ordering and ids.
//
// Snapshots are never mutated. A new fetch result produces a new *Snapshot;
// pointer comparison is enough to detect that the graph did not change.
//
// # Graph Files
//
// Graph files use the analysis wire format:
//
//	{
//	  "nodes": [{"id": "Elizabeth", "weight": 5}],
//	  "edges": [{"source": "Elizabeth", "target": "Darcy", "type": "rival",
//	             "description": "argue at the ball", "weight": 4}]
//	}
//
// Common operations:
//
//	r, _ := graph.ReadResultFile("pride.json")   // File → Result
//	graph.WriteResultFile(r, "copy.json")        // Result → File
//	r, err := graph.DecodeResult(body)           // validates nodes/edges arrays
//
// # Layouts
//
// [Layout] is the positioned form of a snapshot, produced by the render
// package from layout positions and the current selection:
//
//	l, _ := graph.ReadLayoutFile("pride.layout.json")
//	for _, n := range l.Nodes {
//	    fmt.Println(n.ID, n.X, n.Y, n.Highlighted)
//	}
//
// # Concurrency
//
// Snapshots are immutable and safe for concurrent use.
package graph
