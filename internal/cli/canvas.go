package cli

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/castgraph/pkg/graph"
	"github.com/matzehuels/castgraph/pkg/render"
)

// cellHeightPx is the pixel height assumed per terminal row when the
// terminal size is handed to the viewport adapter.
const cellHeightPx = 16

// maxLabel bounds node labels on the canvas.
const maxLabel = 14

// ink is the visual class of one canvas cell.
type ink uint8

const (
	inkBlank ink = iota
	inkEdge
	inkEdgeHighlighted
	inkNode
	inkNodeHighlighted
	inkNodeFocused
)

var inkStyles = func() map[ink]lipgloss.Style {
	p := render.DefaultPalette
	return map[ink]lipgloss.Style{
		inkBlank:           lipgloss.NewStyle(),
		inkEdge:            lipgloss.NewStyle().Foreground(lipgloss.Color(p.EdgeArrow)),
		inkEdgeHighlighted: lipgloss.NewStyle().Foreground(lipgloss.Color(p.Highlight)),
		inkNode:            lipgloss.NewStyle().Foreground(lipgloss.Color(p.Node)),
		inkNodeHighlighted: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(p.Highlight)),
		inkNodeFocused:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(p.Focus)),
	}
}()

// canvas is a character grid holding a drawn layout.
type canvas struct {
	cols, rows int
	cellW      float64 // frame units per column
	cellH      float64 // frame units per row
	runes      [][]rune
	inks       [][]ink
}

// drawCanvas rasterizes l onto a cols x rows grid. Edges are drawn first so
// labels stay readable; highlighted elements are drawn after plain ones.
func drawCanvas(l graph.Layout, cols, rows int) *canvas {
	cols, rows = max(cols, 1), max(rows, 1)
	c := &canvas{
		cols:  cols,
		rows:  rows,
		cellW: l.Width / float64(cols),
		cellH: l.Height / float64(rows),
		runes: make([][]rune, rows),
		inks:  make([][]ink, rows),
	}
	for r := range c.runes {
		c.runes[r] = []rune(strings.Repeat(" ", cols))
		c.inks[r] = make([]ink, cols)
	}
	if c.cellW <= 0 || c.cellH <= 0 {
		return c
	}

	for _, pass := range []bool{false, true} {
		for _, e := range l.Edges {
			if e.Highlighted != pass {
				continue
			}
			src, ok1 := l.Node(e.Source)
			dst, ok2 := l.Node(e.Target)
			if !ok1 || !ok2 {
				continue
			}
			k := inkEdge
			if e.Highlighted {
				k = inkEdgeHighlighted
			}
			c.line(src.X, src.Y, dst.X, dst.Y, k)
		}
	}
	for _, pass := range []bool{false, true} {
		for _, n := range l.Nodes {
			if n.Highlighted != pass {
				continue
			}
			k := inkNode
			switch {
			case n.Focused:
				k = inkNodeFocused
			case n.Highlighted:
				k = inkNodeHighlighted
			}
			c.label(n.X, n.Y, n.ID, k)
		}
	}
	return c
}

// cell converts frame coordinates to a grid cell.
func (c *canvas) cell(x, y float64) (col, row int) {
	col = int(math.Floor(x / c.cellW))
	row = int(math.Floor(y / c.cellH))
	return min(max(col, 0), c.cols-1), min(max(row, 0), c.rows-1)
}

// point converts a grid cell to the frame coordinates of its center.
func (c *canvas) point(col, row int) (x, y float64) {
	return (float64(col) + 0.5) * c.cellW, (float64(row) + 0.5) * c.cellH
}

func (c *canvas) set(col, row int, r rune, k ink) {
	if row < 0 || row >= c.rows || col < 0 || col >= c.cols {
		return
	}
	c.runes[row][col] = r
	c.inks[row][col] = k
}

// line draws a dotted segment between two frame points.
func (c *canvas) line(x0, y0, x1, y1 float64, k ink) {
	c0, r0 := c.cell(x0, y0)
	c1, r1 := c.cell(x1, y1)
	steps := max(abs(c1-c0), abs(r1-r0))
	for i := 1; i < steps; i++ {
		t := float64(i) / float64(steps)
		col := c0 + int(math.Round(t*float64(c1-c0)))
		row := r0 + int(math.Round(t*float64(r1-r0)))
		c.set(col, row, '·', k)
	}
}

// label writes a bracketed, centered node label.
func (c *canvas) label(x, y float64, id string, k ink) {
	name := []rune(id)
	if len(name) > maxLabel {
		name = append(name[:maxLabel-1], '…')
	}
	text := append(append([]rune{'['}, name...), ']')
	col, row := c.cell(x, y)
	start := min(max(col-len(text)/2, 0), max(c.cols-len(text), 0))
	for i, r := range text {
		c.set(start+i, row, r, k)
	}
}

// String renders the grid with styles, one run per ink change.
func (c *canvas) String() string {
	var b strings.Builder
	for row := range c.runes {
		if row > 0 {
			b.WriteByte('\n')
		}
		start := 0
		for col := 1; col <= c.cols; col++ {
			if col < c.cols && c.inks[row][col] == c.inks[row][start] {
				continue
			}
			b.WriteString(inkStyles[c.inks[row][start]].Render(string(c.runes[row][start:col])))
			start = col
		}
	}
	return b.String()
}

// plain returns the grid without styles.
func (c *canvas) plain() string {
	lines := make([]string, c.rows)
	for i, r := range c.runes {
		lines[i] = strings.TrimRight(string(r), " ")
	}
	return strings.Join(lines, "\n")
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
