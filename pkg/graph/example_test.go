package graph_test

import (
	"fmt"

	"github.com/matzehuels/castgraph/pkg/graph"
)

func ExampleBuildSnapshot() {
	edges := []graph.Edge{
		{Source: "A", Target: "B", Type: "ally", Description: "fought together", Weight: 3},
		{Source: "B", Target: "C", Type: "rival", Description: "dueled", Weight: 2},
	}

	// No node list: every character is synthesized with weight 1.
	snap := graph.BuildSnapshot(edges, nil)

	for _, n := range snap.Nodes() {
		fmt.Printf("%s weight=%g\n", n.ID, n.Weight)
	}
	for _, e := range snap.Edges() {
		fmt.Printf("%s %s->%s %s\n", e.ID, e.Source, e.Target, e.Type)
	}
	// Output:
	// A weight=1
	// B weight=1
	// C weight=1
	// e0 A->B ally
	// e1 B->C rival
}

func ExampleSnapshot_Incident() {
	snap := graph.BuildSnapshot([]graph.Edge{
		{Source: "Pip", Target: "Joe", Type: "family"},
		{Source: "Estella", Target: "Miss Havisham", Type: "ward"},
		{Source: "Pip", Target: "Estella", Type: "love"},
	}, nil)

	for _, e := range snap.Incident("Estella") {
		fmt.Println(e.ID, e.Other("Estella"), e.Type)
	}
	// Output:
	// e1 Miss Havisham ward
	// e2 Pip love
}
