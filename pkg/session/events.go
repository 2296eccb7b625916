package session

import (
	"github.com/matzehuels/castgraph/pkg/fetch"
	"github.com/matzehuels/castgraph/pkg/interaction"
)

// Event is a notification published by a [Session].
type Event interface {
	sessionEvent()
}

// FetchChanged reports a published fetch transition.
type FetchChanged struct {
	State fetch.State
}

// LayoutProgress reports a new set of positions for the current graph.
// Final is set on the last frame of a completed run.
type LayoutProgress struct {
	Iteration int
	Final     bool
}

// SelectionChanged reports the selection after an activation or tap.
type SelectionChanged struct {
	Selection interaction.Selection
}

// RelationshipSelected carries one relationship of the focused character.
// An activation publishes one per incident edge, in edge-list order.
type RelationshipSelected struct {
	Relationship interaction.Relationship
}

// HeightChanged reports a new canvas height after a resize.
type HeightChanged struct {
	Height string
}

func (FetchChanged) sessionEvent()         {}
func (LayoutProgress) sessionEvent()       {}
func (SelectionChanged) sessionEvent()     {}
func (RelationshipSelected) sessionEvent() {}
func (HeightChanged) sessionEvent()        {}

// Listener receives session events.
type Listener func(Event)
