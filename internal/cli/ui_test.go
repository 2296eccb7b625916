package cli

import (
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/castgraph/pkg/graph"
	"github.com/matzehuels/castgraph/pkg/interaction"
)

func TestGraphSummary(t *testing.T) {
	tests := []struct {
		chars, rels int
		cached      bool
		want        string
	}{
		{1, 2, true, "1 character · 2 relationships · cached"},
		{12, 1, false, "12 characters · 1 relationship · fresh"},
		{0, 0, false, "0 characters · 0 relationships · fresh"},
	}
	for _, tt := range tests {
		if got := graphSummary(tt.chars, tt.rels, tt.cached); got != tt.want {
			t.Errorf("graphSummary(%d, %d, %v) = %q, want %q", tt.chars, tt.rels, tt.cached, got, tt.want)
		}
	}
}

func TestByImportance(t *testing.T) {
	in := []graph.Node{{ID: "Wickham", Weight: 3}, {ID: "Darcy", Weight: 9}, {ID: "Bingley", Weight: 3}, {ID: "Elizabeth", Weight: 10}}
	var got []string
	for _, n := range byImportance(in) {
		got = append(got, n.ID)
	}
	want := []string{"Elizabeth", "Darcy", "Bingley", "Wickham"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("byImportance = %v, want %v", got, want)
	}
	if in[0].ID != "Wickham" {
		t.Error("byImportance reordered its input")
	}
}

func TestPrintCast(t *testing.T) {
	snap := graph.BuildSnapshot(
		[]graph.Edge{
			{Source: "Elizabeth", Target: "Darcy", Type: "love", Weight: 5},
			{Source: "Elizabeth", Target: "Jane", Type: "sister", Weight: 4},
			{Source: "Jane", Target: "Bingley", Type: "love", Weight: 3},
		},
		[]graph.Node{{ID: "Elizabeth", Weight: 10}, {ID: "Darcy", Weight: 9}, {ID: "Jane", Weight: 6}, {ID: "Bingley", Weight: 2}},
	)

	tests := []struct {
		name  string
		limit int
		want  string
	}{
		{"truncated", 2, "  cast: Elizabeth (10), Darcy (9) +2 more\n"},
		{"all", 10, "  cast: Elizabeth (10), Darcy (9), Jane (6), Bingley (2)\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _ := captureOutput(t)
			printCast(snap, tt.limit)
			if got := out.String(); got != tt.want {
				t.Errorf("printCast(%d) = %q, want %q", tt.limit, got, tt.want)
			}
		})
	}

	t.Run("empty", func(t *testing.T) {
		out, _ := captureOutput(t)
		printCast(graph.BuildSnapshot(nil, nil), 5)
		if out.Len() != 0 {
			t.Errorf("printCast on an empty graph wrote %q", out.String())
		}
	})
}

func TestRelationshipLine(t *testing.T) {
	got := relationshipLine(interaction.Relationship{
		Source: "Elizabeth", Target: "Darcy", Type: "love", Description: "marry in the end",
	})
	for _, part := range []string{"Elizabeth " + iconArrow + " Darcy", "love", "marry in the end"} {
		if !strings.Contains(got, part) {
			t.Errorf("relationshipLine = %q, missing %q", got, part)
		}
	}
}
