package interaction

import (
	"maps"
	"slices"
)

// Selection is the focus and highlight state.
//
// Values returned by [Controller.Selection] are copies; mutating them does
// not affect the controller.
type Selection struct {
	// Focus is the focused character id; meaningful only when Focused is set.
	Focus   string
	Focused bool

	// Nodes is the focused node and its neighbors.
	Nodes map[string]struct{}

	// Edges holds the ids of the edges incident to the focused node.
	Edges map[string]struct{}
}

// Empty reports whether nothing is focused.
func (s Selection) Empty() bool { return !s.Focused }

// HighlightsNode reports whether id is highlighted.
func (s Selection) HighlightsNode(id string) bool {
	_, ok := s.Nodes[id]
	return ok
}

// HighlightsEdge reports whether the edge with the given id is highlighted.
func (s Selection) HighlightsEdge(id string) bool {
	_, ok := s.Edges[id]
	return ok
}

// IsFocus reports whether id is the focused node.
func (s Selection) IsFocus(id string) bool { return s.Focused && s.Focus == id }

// NodeIDs returns the highlighted node ids in sorted order.
func (s Selection) NodeIDs() []string { return slices.Sorted(maps.Keys(s.Nodes)) }

// EdgeIDs returns the highlighted edge ids in sorted order.
func (s Selection) EdgeIDs() []string { return slices.Sorted(maps.Keys(s.Edges)) }

func (s Selection) clone() Selection {
	return Selection{
		Focus:   s.Focus,
		Focused: s.Focused,
		Nodes:   maps.Clone(s.Nodes),
		Edges:   maps.Clone(s.Edges),
	}
}
