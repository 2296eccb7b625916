package interaction

import "github.com/matzehuels/castgraph/pkg/graph"

// Event is an input to [Controller.Handle].
type Event interface{ event() }

// GraphReplaced announces a new snapshot. A nil snapshot means no graph.
type GraphReplaced struct{ Snapshot *graph.Snapshot }

// NodeActivated focuses a node (click or tap on it).
type NodeActivated struct{ ID string }

// CanvasTapped is a click on empty space.
type CanvasTapped struct{}

// PointerTapped is a click at frame coordinates, resolved by hit-testing.
type PointerTapped struct{ X, Y float64 }

// TargetsMoved replaces the rectangles used to hit-test pointer events.
type TargetsMoved struct{ Targets []Target }

func (GraphReplaced) event() {}
func (NodeActivated) event() {}
func (CanvasTapped) event()  {}
func (PointerTapped) event() {}
func (TargetsMoved) event()  {}

// Relationship is emitted for every highlighted edge on activation.
type Relationship struct {
	EdgeID      string `json:"id"`
	Source      string `json:"source"`
	Target      string `json:"target"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

// Target is a node's on-screen rectangle: a Size x Size square centered on
// (X, Y).
type Target struct {
	ID   string
	X, Y float64
	Size float64
}

// Contains reports whether (x, y) lies inside the rectangle, edges included.
func (t Target) Contains(x, y float64) bool {
	h := t.Size / 2
	return x >= t.X-h && x <= t.X+h && y >= t.Y-h && y <= t.Y+h
}

// HitTest returns the topmost target containing (x, y). Later targets are
// drawn above earlier ones.
func HitTest(targets []Target, x, y float64) (string, bool) {
	for i := len(targets) - 1; i >= 0; i-- {
		if targets[i].Contains(x, y) {
			return targets[i].ID, true
		}
	}
	return "", false
}
