package render

import (
	"math"
	"testing"

	"github.com/matzehuels/castgraph/pkg/graph"
	"github.com/matzehuels/castgraph/pkg/interaction"
	"github.com/matzehuels/castgraph/pkg/layout"
)

func TestMapData(t *testing.T) {
	tests := []struct {
		name string
		v    float64
		want float64
	}{
		{"at min", 1, 40},
		{"at max", 10, 80},
		{"midpoint", 5.5, 60},
		{"below range clamps", 0, 40},
		{"above range clamps", 25, 80},
		{"NaN", math.NaN(), 40},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MapData(tt.v, 1, 10, 40, 80); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("MapData(%v) = %v, want %v", tt.v, got, tt.want)
			}
		})
	}

	if got := MapData(3, 2, 2, 7, 9); got != 7 {
		t.Errorf("degenerate range = %v, want 7", got)
	}
}

func TestChannels(t *testing.T) {
	if got := NodeSize(1); got != 40 {
		t.Errorf("NodeSize(1) = %v, want 40", got)
	}
	if got := NodeSize(10); got != 80 {
		t.Errorf("NodeSize(10) = %v, want 80", got)
	}
	if got := EdgeWidth(1); got != 1 {
		t.Errorf("EdgeWidth(1) = %v, want 1", got)
	}
	if got := EdgeWidth(3); got != 2.5 {
		t.Errorf("EdgeWidth(3) = %v, want 2.5", got)
	}
	if got := EdgeWidth(9); got != 4 {
		t.Errorf("EdgeWidth(9) = %v, want 4", got)
	}
	if NodeSize(2) >= NodeSize(8) {
		t.Error("heavier nodes must be larger")
	}
}

func TestPalette(t *testing.T) {
	p := DefaultPalette
	plain, _ := p.NodeColors(false, false)
	hl, _ := p.NodeColors(true, false)
	focus, _ := p.NodeColors(true, true)
	if plain == hl || hl == focus || plain == focus {
		t.Errorf("node states must have distinct fills: %s %s %s", plain, hl, focus)
	}
	if line, _ := p.EdgeColors(true); line != p.Highlight {
		t.Errorf("highlighted edge = %s, want %s", line, p.Highlight)
	}

	if got := Classes(false, false); got != "" {
		t.Errorf("Classes(plain) = %q", got)
	}
	if got := Classes(true, false); got != "highlighted" {
		t.Errorf("Classes(highlighted) = %q", got)
	}
	if got := Classes(true, true); got != "highlighted focused" {
		t.Errorf("Classes(focused) = %q", got)
	}
}

func TestExport(t *testing.T) {
	snap := graph.BuildSnapshot([]graph.Edge{
		{Source: "A", Target: "B", Type: "friend", Weight: 5},
		{Source: "B", Target: "C", Type: "rival", Weight: 1},
	}, []graph.Node{{ID: "A", Weight: 10}})

	ctl := interaction.New()
	ctl.ReplaceGraph(snap)
	ctl.Activate("A")

	pos := layout.Positions{"A": {X: 10, Y: 20}, "B": {X: 30, Y: 40}}
	l := Export(snap, pos, WithFrame(100, 80), WithSelection(ctl.Selection()))

	if l.Width != 100 || l.Height != 80 || l.Focused != "A" {
		t.Errorf("frame = %vx%v focused %q", l.Width, l.Height, l.Focused)
	}
	if len(l.Nodes) != 3 || len(l.Edges) != 2 {
		t.Fatalf("got %d nodes, %d edges", len(l.Nodes), len(l.Edges))
	}

	a, _ := l.Node("A")
	if a.Size != 80 || !a.Focused || !a.Highlighted || a.X != 10 || a.Y != 20 {
		t.Errorf("A = %+v", a)
	}
	b, _ := l.Node("B")
	if b.Size != 40 || b.Focused || !b.Highlighted {
		t.Errorf("B = %+v", b)
	}
	c, _ := l.Node("C")
	if c.Highlighted || c.X != 50 || c.Y != 40 {
		t.Errorf("C without position = %+v, want unhighlighted at frame center", c)
	}

	if e := l.Edges[0]; e.Width != 4 || !e.Highlighted || e.Type != "friend" {
		t.Errorf("e0 = %+v", e)
	}
	if e := l.Edges[1]; e.Width != 1 || e.Highlighted {
		t.Errorf("e1 = %+v", e)
	}

	targets := Targets(l)
	if len(targets) != 3 || targets[0].ID != "A" || targets[0].Size != 80 {
		t.Errorf("Targets = %+v", targets)
	}
}

func TestExportEmpty(t *testing.T) {
	l := Export(nil, nil)
	if len(l.Nodes) != 0 || len(l.Edges) != 0 || l.Focused != "" {
		t.Errorf("Export(nil) = %+v", l)
	}
}
