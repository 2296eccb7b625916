package graph

import (
	"encoding/json"
	"slices"
	"strconv"
	"strings"
)

// Snapshot is the renderable graph for one fetch result.
//
// A Snapshot is immutable once built and is replaced wholesale when the
// upstream data changes, so consumers can compare pointers to detect that
// nothing changed. Every id referenced by an edge has exactly one node.
type Snapshot struct {
	nodes    []Node
	edges    []SnapshotEdge
	byID     map[string]int
	incident map[string][]int
}

// BuildSnapshot turns raw analysis data into a Snapshot.
//
// The node set is exactly the set of ids appearing as source or target in
// rawEdges, in order of first appearance (source before target within an
// edge). Each id takes the first matching entry of rawNodes, or a synthesized
// node with [DefaultNodeWeight]. Nodes that no edge references are dropped.
// Edge ids are positional (e0, e1, ...) in input order.
//
// BuildSnapshot does not modify its inputs. Empty rawEdges yield an empty
// snapshot.
func BuildSnapshot(rawEdges []Edge, rawNodes []Node) *Snapshot {
	supplied := make(map[string]Node, len(rawNodes))
	for _, n := range rawNodes {
		if _, dup := supplied[n.ID]; !dup {
			supplied[n.ID] = n
		}
	}

	s := &Snapshot{
		edges:    make([]SnapshotEdge, len(rawEdges)),
		byID:     make(map[string]int),
		incident: make(map[string][]int),
	}

	resolve := func(id string) {
		if _, seen := s.byID[id]; seen {
			return
		}
		n, ok := supplied[id]
		if !ok {
			n = Node{ID: id, Weight: DefaultNodeWeight}
		}
		s.byID[id] = len(s.nodes)
		s.nodes = append(s.nodes, n)
	}

	for i, e := range rawEdges {
		resolve(e.Source)
		resolve(e.Target)
		s.edges[i] = SnapshotEdge{ID: EdgeID(i), Edge: e}
		s.incident[e.Source] = append(s.incident[e.Source], i)
		if e.Target != e.Source {
			s.incident[e.Target] = append(s.incident[e.Target], i)
		}
	}
	return s
}

// Nodes returns a copy of the snapshot's nodes in first-appearance order.
func (s *Snapshot) Nodes() []Node {
	if s == nil {
		return nil
	}
	return slices.Clone(s.nodes)
}

// Edges returns a copy of the snapshot's edges in input order.
func (s *Snapshot) Edges() []SnapshotEdge {
	if s == nil {
		return nil
	}
	return slices.Clone(s.edges)
}

// Node returns the node with the given id.
func (s *Snapshot) Node(id string) (Node, bool) {
	if s == nil {
		return Node{}, false
	}
	i, ok := s.byID[id]
	if !ok {
		return Node{}, false
	}
	return s.nodes[i], true
}

// HasNode reports whether id is a node of the snapshot.
func (s *Snapshot) HasNode(id string) bool {
	_, ok := s.Node(id)
	return ok
}

// Edge returns the edge with the given positional id.
func (s *Snapshot) Edge(id string) (SnapshotEdge, bool) {
	if s == nil {
		return SnapshotEdge{}, false
	}
	if !strings.HasPrefix(id, edgeIDPrefix) {
		return SnapshotEdge{}, false
	}
	i, err := strconv.Atoi(id[len(edgeIDPrefix):])
	if err != nil || i < 0 || i >= len(s.edges) || s.edges[i].ID != id {
		return SnapshotEdge{}, false
	}
	return s.edges[i], true
}

// NodeIndex returns the position of id in Nodes, or -1.
func (s *Snapshot) NodeIndex(id string) int {
	if s == nil {
		return -1
	}
	if i, ok := s.byID[id]; ok {
		return i
	}
	return -1
}

// Incident returns the edges that have id as source or target, in edge-list
// order. A self-loop is returned once.
func (s *Snapshot) Incident(id string) []SnapshotEdge {
	if s == nil {
		return nil
	}
	idx := s.incident[id]
	out := make([]SnapshotEdge, len(idx))
	for i, j := range idx {
		out[i] = s.edges[j]
	}
	return out
}

// NodeCount returns the number of nodes.
func (s *Snapshot) NodeCount() int {
	if s == nil {
		return 0
	}
	return len(s.nodes)
}

// EdgeCount returns the number of edges.
func (s *Snapshot) EdgeCount() int {
	if s == nil {
		return 0
	}
	return len(s.edges)
}

// Empty reports whether the snapshot has no edges (and therefore no nodes).
func (s *Snapshot) Empty() bool {
	return s.EdgeCount() == 0
}

// Result converts the snapshot back to the wire format. The node list is
// complete, so re-building a snapshot from it yields the same graph.
func (s *Snapshot) Result() Result {
	r := Result{Nodes: []Node{}, Edges: []Edge{}}
	if s == nil {
		return r
	}
	r.Nodes = slices.Clone(s.nodes)
	for _, e := range s.edges {
		r.Edges = append(r.Edges, e.Edge)
	}
	return r
}

// MarshalJSON encodes the snapshot with its edge ids.
func (s *Snapshot) MarshalJSON() ([]byte, error) {
	out := struct {
		Nodes []Node         `json:"nodes"`
		Edges []SnapshotEdge `json:"edges"`
	}{Nodes: []Node{}, Edges: []SnapshotEdge{}}
	if s != nil {
		out.Nodes = append(out.Nodes, s.nodes...)
		out.Edges = append(out.Edges, s.edges...)
	}
	return json.Marshal(out)
}
