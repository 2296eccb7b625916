package interaction_test

import (
	"fmt"

	"github.com/matzehuels/castgraph/pkg/graph"
	"github.com/matzehuels/castgraph/pkg/interaction"
)

func ExampleController() {
	snap := graph.BuildSnapshot([]graph.Edge{
		{Source: "Elizabeth", Target: "Darcy", Type: "romance", Description: "Eventually marries him", Weight: 5},
		{Source: "Jane", Target: "Bingley", Type: "romance", Description: "Engaged by the end", Weight: 4},
		{Source: "Elizabeth", Target: "Jane", Type: "family", Description: "Sisters", Weight: 4},
	}, nil)

	c := interaction.New(func(r interaction.Relationship) {
		fmt.Printf("%s -[%s]-> %s\n", r.Source, r.Type, r.Target)
	})
	c.ReplaceGraph(snap)
	c.Activate("Elizabeth")

	fmt.Println(c.Selection().NodeIDs())
	// Output:
	// Elizabeth -[romance]-> Darcy
	// Elizabeth -[family]-> Jane
	// [Darcy Elizabeth Jane]
}
