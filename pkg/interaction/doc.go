// Package interaction tracks which character is in focus and which part of
// the graph is highlighted.
//
// The [Controller] is a small state machine over [Selection], driven by
// events passed to [Controller.Handle]:
//
//	GraphReplaced   selection cleared (every new graph starts unselected)
//	NodeActivated   focus moves to the node; highlight becomes its one-hop
//	                neighborhood; one Relationship is emitted per incident edge
//	CanvasTapped    nothing changes
//	PointerTapped   hit-tested against the current Targets, then handled as
//	                NodeActivated or CanvasTapped
//	TargetsMoved    replaces the hit-test rectangles (no selection change)
//
// Highlights never accumulate: activating another node replaces the previous
// neighborhood entirely. Activating the focused node again re-emits its
// relationships.
package interaction
