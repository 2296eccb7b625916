package nodelink

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/castgraph/pkg/graph"
	"github.com/matzehuels/castgraph/pkg/render"
)

// pointsPerInch converts frame units (points) to the inches Graphviz uses
// for node dimensions.
const pointsPerInch = 72.0

// Options configures node-link diagram generation.
type Options struct {
	// HideEdgeLabels omits the relationship type from edges.
	HideEdgeLabels bool

	// Palette overrides [render.DefaultPalette].
	Palette *render.Palette
}

func (o Options) palette() render.Palette {
	if o.Palette != nil {
		return *o.Palette
	}
	return render.DefaultPalette
}

// ToDOT converts a laid-out graph to Graphviz DOT with every node pinned at
// its layout position. The result can be rendered with [RenderSVG] or
// [RenderPNG].
func ToDOT(l graph.Layout, opts Options) string {
	p := opts.palette()

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  inputscale=72;\n")
	buf.WriteString("  overlap=true;\n")
	buf.WriteString("  splines=true;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	fmt.Fprintf(&buf, "  node [shape=box, style=\"rounded,filled\", fixedsize=true, fontsize=14, fontcolor=%q, penwidth=2];\n", p.NodeText)
	fmt.Fprintf(&buf, "  edge [arrowhead=normal, fontsize=11, fontcolor=%q];\n", p.EdgeText)
	buf.WriteString("\n")

	for _, n := range l.Nodes {
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(nodeAttrs(n, l.Height, p), ", "))
	}

	buf.WriteString("\n")
	for _, e := range l.Edges {
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.Source, e.Target, strings.Join(edgeAttrs(e, opts, p), ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(n graph.PlacedNode, height float64, p render.Palette) []string {
	fill, border := p.NodeColors(n.Highlighted, n.Focused)
	side := num(n.Size / pointsPerInch)
	attrs := []string{
		fmt.Sprintf("label=%q", n.ID),
		fmt.Sprintf("pos=\"%s,%s!\"", num(n.X), num(height-n.Y)),
		"width=" + side,
		"height=" + side,
		fmt.Sprintf("fillcolor=%q", fill),
		fmt.Sprintf("color=%q", border),
	}
	if c := render.Classes(n.Highlighted, n.Focused); c != "" {
		attrs = append(attrs, fmt.Sprintf("class=%q", c))
	}
	return attrs
}

func edgeAttrs(e graph.PlacedEdge, opts Options, p render.Palette) []string {
	line, _ := p.EdgeColors(e.Highlighted)
	attrs := []string{
		fmt.Sprintf("id=%q", e.ID),
		fmt.Sprintf("penwidth=%s", num(e.Width)),
		fmt.Sprintf("color=%q", line),
	}
	if !opts.HideEdgeLabels && e.Type != "" {
		attrs = append(attrs, fmt.Sprintf("label=%q", e.Type))
	}
	if e.Description != "" {
		attrs = append(attrs, fmt.Sprintf("tooltip=%q", e.Description))
	}
	if e.Highlighted {
		attrs = append(attrs, fmt.Sprintf("class=%q", render.ClassHighlighted))
	}
	return attrs
}

// num formats a coordinate with at most two decimals.
func num(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
