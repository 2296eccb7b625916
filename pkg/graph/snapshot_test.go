package graph

import (
	"reflect"
	"testing"
)

func ids(nodes []Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.ID
	}
	return out
}

func TestBuildSnapshot(t *testing.T) {
	tests := []struct {
		name      string
		edges     []Edge
		nodes     []Node
		wantNodes []Node
		wantEdges []string
	}{
		{
			name:      "Empty",
			wantNodes: nil,
			wantEdges: nil,
		},
		{
			name: "SynthesizesMissingNodes",
			edges: []Edge{
				{Source: "A", Target: "B", Type: "ally", Description: "fought together", Weight: 3},
				{Source: "B", Target: "C", Type: "rival", Description: "dueled", Weight: 2},
			},
			wantNodes: []Node{{"A", 1}, {"B", 1}, {"C", 1}},
			wantEdges: []string{"e0", "e1"},
		},
		{
			name: "UsesSuppliedWeights",
			edges: []Edge{
				{Source: "Darcy", Target: "Elizabeth", Type: "love"},
			},
			nodes:     []Node{{"Elizabeth", 5}, {"Darcy", 4}},
			wantNodes: []Node{{"Darcy", 4}, {"Elizabeth", 5}},
			wantEdges: []string{"e0"},
		},
		{
			name: "DropsUnreferencedNodes",
			edges: []Edge{
				{Source: "A", Target: "B"},
			},
			nodes:     []Node{{"Z", 9}, {"B", 2}},
			wantNodes: []Node{{"A", 1}, {"B", 2}},
			wantEdges: []string{"e0"},
		},
		{
			name: "FirstSuppliedNodeWins",
			edges: []Edge{
				{Source: "A", Target: "B"},
			},
			nodes:     []Node{{"A", 3}, {"A", 7}},
			wantNodes: []Node{{"A", 3}, {"B", 1}},
			wantEdges: []string{"e0"},
		},
		{
			name: "ParallelEdgesStayDistinct",
			edges: []Edge{
				{Source: "A", Target: "B", Type: "ally"},
				{Source: "A", Target: "B", Type: "rival"},
				{Source: "B", Target: "A", Type: "ally"},
			},
			wantNodes: []Node{{"A", 1}, {"B", 1}},
			wantEdges: []string{"e0", "e1", "e2"},
		},
		{
			name: "SelfLoop",
			edges: []Edge{
				{Source: "Hamlet", Target: "Hamlet", Type: "doubt"},
			},
			wantNodes: []Node{{"Hamlet", 1}},
			wantEdges: []string{"e0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := BuildSnapshot(tt.edges, tt.nodes)

			if got := s.Nodes(); !reflect.DeepEqual(got, tt.wantNodes) && !(len(got) == 0 && len(tt.wantNodes) == 0) {
				t.Errorf("nodes = %v, want %v", got, tt.wantNodes)
			}
			var gotEdges []string
			for _, e := range s.Edges() {
				gotEdges = append(gotEdges, e.ID)
			}
			if !reflect.DeepEqual(gotEdges, tt.wantEdges) {
				t.Errorf("edge ids = %v, want %v", gotEdges, tt.wantEdges)
			}
			if s.EdgeCount() != len(tt.edges) {
				t.Errorf("EdgeCount() = %d, want %d", s.EdgeCount(), len(tt.edges))
			}
		})
	}
}

func TestBuildSnapshotNodeCompleteness(t *testing.T) {
	edges := []Edge{
		{Source: "a", Target: "b"},
		{Source: "c", Target: "a"},
		{Source: "d", Target: "d"},
		{Source: "b", Target: "e"},
	}
	nodes := []Node{{"x", 2}, {"e", 3}}

	s := BuildSnapshot(edges, nodes)

	want := map[string]bool{"a": true, "b": true, "c": true, "d": true, "e": true}
	got := make(map[string]bool)
	for _, n := range s.Nodes() {
		if got[n.ID] {
			t.Errorf("duplicate node %q", n.ID)
		}
		got[n.ID] = true
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("node set = %v, want %v", got, want)
	}
	if n, _ := s.Node("a"); n.Weight != DefaultNodeWeight {
		t.Errorf("synthesized weight = %v, want %v", n.Weight, DefaultNodeWeight)
	}
	if n, _ := s.Node("e"); n.Weight != 3 {
		t.Errorf("supplied weight = %v, want 3", n.Weight)
	}
}

func TestBuildSnapshotDeterministic(t *testing.T) {
	edges := []Edge{
		{Source: "Pip", Target: "Estella", Type: "love"},
		{Source: "Miss Havisham", Target: "Estella", Type: "guardian"},
		{Source: "Pip", Target: "Joe", Type: "family"},
	}
	nodes := []Node{{"Joe", 3}}

	a := BuildSnapshot(edges, nodes)
	b := BuildSnapshot(edges, nodes)

	if a == b {
		t.Fatal("BuildSnapshot should return a new snapshot each call")
	}
	if !reflect.DeepEqual(a.Nodes(), b.Nodes()) {
		t.Errorf("node order differs: %v vs %v", ids(a.Nodes()), ids(b.Nodes()))
	}
	if !reflect.DeepEqual(a.Edges(), b.Edges()) {
		t.Errorf("edges differ: %v vs %v", a.Edges(), b.Edges())
	}
	if got, want := ids(a.Nodes()), []string{"Pip", "Estella", "Miss Havisham", "Joe"}; !reflect.DeepEqual(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
}

func TestBuildSnapshotDoesNotMutateInputs(t *testing.T) {
	edges := []Edge{{Source: "A", Target: "B", Weight: 2}}
	nodes := []Node{{"A", 4}}
	edgesCopy := append([]Edge(nil), edges...)
	nodesCopy := append([]Node(nil), nodes...)

	s := BuildSnapshot(edges, nodes)
	got := s.Nodes()
	got[0].Weight = 100

	if !reflect.DeepEqual(edges, edgesCopy) || !reflect.DeepEqual(nodes, nodesCopy) {
		t.Error("inputs were modified")
	}
	if n, _ := s.Node("A"); n.Weight != 4 {
		t.Errorf("snapshot was modified through Nodes(): weight = %v", n.Weight)
	}
}

func TestSnapshotIncident(t *testing.T) {
	s := BuildSnapshot([]Edge{
		{Source: "A", Target: "B", Type: "ally"},
		{Source: "B", Target: "C", Type: "rival"},
		{Source: "C", Target: "A", Type: "friend"},
		{Source: "B", Target: "B", Type: "self"},
	}, nil)

	var got []string
	for _, e := range s.Incident("B") {
		got = append(got, e.ID)
	}
	if want := []string{"e0", "e1", "e3"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Incident(B) = %v, want %v", got, want)
	}
	if len(s.Incident("nobody")) != 0 {
		t.Error("Incident of unknown id should be empty")
	}
}

func TestSnapshotLookups(t *testing.T) {
	s := BuildSnapshot([]Edge{{Source: "A", Target: "B", Type: "ally"}}, nil)

	if e, ok := s.Edge("e0"); !ok || e.Type != "ally" {
		t.Errorf("Edge(e0) = %v, %v", e, ok)
	}
	for _, id := range []string{"e1", "x0", "e", "e-1"} {
		if _, ok := s.Edge(id); ok {
			t.Errorf("Edge(%q) should not exist", id)
		}
	}
	if s.NodeIndex("B") != 1 || s.NodeIndex("Z") != -1 {
		t.Errorf("NodeIndex mismatch")
	}
	if !s.HasNode("A") || s.HasNode("Z") {
		t.Error("HasNode mismatch")
	}

	var nilSnap *Snapshot
	if nilSnap.NodeCount() != 0 || !nilSnap.Empty() || nilSnap.HasNode("A") {
		t.Error("nil snapshot should behave as empty")
	}
}

func TestSnapshotResultRoundTrip(t *testing.T) {
	edges := []Edge{{Source: "A", Target: "B", Type: "ally", Weight: 3}}
	s := BuildSnapshot(edges, nil)

	r := s.Result()
	again := BuildSnapshot(r.Edges, r.Nodes)

	if !reflect.DeepEqual(s.Nodes(), again.Nodes()) || !reflect.DeepEqual(s.Edges(), again.Edges()) {
		t.Error("rebuilding from Result() should yield the same graph")
	}
}

func TestSnapshotEdgeOther(t *testing.T) {
	e := SnapshotEdge{ID: "e0", Edge: Edge{Source: "A", Target: "B"}}
	if e.Other("A") != "B" || e.Other("B") != "A" {
		t.Error("Other should return the opposite endpoint")
	}
	if !e.Touches("A") || e.Touches("C") {
		t.Error("Touches mismatch")
	}
}
