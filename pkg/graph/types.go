package graph

import "strconv"

// =============================================================================
// Constants
// =============================================================================

// DefaultNodeWeight is the weight given to characters that appear in edges
// but are missing from the supplied node list.
const DefaultNodeWeight = 1.0

// edgeIDPrefix prefixes positional edge identifiers (e0, e1, ...).
const edgeIDPrefix = "e"

// EdgeID returns the positional identifier of the i-th edge.
func EdgeID(i int) string {
	return edgeIDPrefix + strconv.Itoa(i)
}

// =============================================================================
// Wire Types
// =============================================================================

// Node is a character as delivered by the analysis service.
// Weight reflects the character's importance and drives visual size.
type Node struct {
	ID     string  `json:"id"`
	Weight float64 `json:"weight"`
}

// Edge is a directed, typed, weighted relationship between two characters.
//
// Pairs are not unique: the same two characters may be connected by several
// edges with different types, and each one renders on its own.
type Edge struct {
	Source      string  `json:"source"`
	Target      string  `json:"target"`
	Type        string  `json:"type"`
	Description string  `json:"description"`
	Label       string  `json:"label,omitempty"` // Short summary, optional
	Weight      float64 `json:"weight"`
}

// Result is the raw analysis payload: the "result" object of a successful
// /analyze response, and the on-disk graph file format.
type Result struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// =============================================================================
// Snapshot Types
// =============================================================================

// SnapshotEdge is an edge with its positional rendering handle.
type SnapshotEdge struct {
	ID string `json:"id"`
	Edge
}

// Touches reports whether id is the source or the target of e.
func (e SnapshotEdge) Touches(id string) bool {
	return e.Source == id || e.Target == id
}

// Other returns the endpoint of e opposite to id.
// For self-loops it returns id.
func (e SnapshotEdge) Other(id string) string {
	if e.Source == id {
		return e.Target
	}
	return e.Source
}
