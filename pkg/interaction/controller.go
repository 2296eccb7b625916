package interaction

import (
	"slices"
	"sync"

	"github.com/matzehuels/castgraph/pkg/graph"
)

// Listener receives relationship notifications.
type Listener func(Relationship)

// Controller owns the [Selection] for the current snapshot.
//
// All methods are safe for concurrent use. Listeners run synchronously on
// the goroutine that called Handle, in edge-list order, and must not call
// Handle themselves.
type Controller struct {
	emitMu sync.Mutex

	mu        sync.Mutex
	snap      *graph.Snapshot
	sel       Selection
	targets   []Target
	listeners []Listener
}

// New creates a controller with no graph. Non-nil listeners are registered.
func New(listeners ...Listener) *Controller {
	c := &Controller{}
	for _, fn := range listeners {
		c.OnRelationship(fn)
	}
	return c
}

// OnRelationship registers a listener for relationship notifications.
func (c *Controller) OnRelationship(fn Listener) {
	if fn == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// Selection returns a copy of the current selection.
func (c *Controller) Selection() Selection {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sel.clone()
}

// Snapshot returns the current graph, or nil.
func (c *Controller) Snapshot() *graph.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snap
}

// Handle applies one event.
func (c *Controller) Handle(ev Event) {
	c.emitMu.Lock()
	defer c.emitMu.Unlock()

	c.mu.Lock()
	var emit []Relationship
	switch e := ev.(type) {
	case GraphReplaced:
		c.snap = e.Snapshot
		c.sel = Selection{}
		c.targets = nil
	case NodeActivated:
		emit = c.activate(e.ID)
	case PointerTapped:
		if id, ok := HitTest(c.targets, e.X, e.Y); ok {
			emit = c.activate(id)
		}
	case TargetsMoved:
		c.targets = slices.Clone(e.Targets)
	case CanvasTapped:
	}
	listeners := slices.Clone(c.listeners)
	c.mu.Unlock()

	for _, r := range emit {
		for _, fn := range listeners {
			fn(r)
		}
	}
}

// ReplaceGraph is shorthand for Handle(GraphReplaced{snap}).
func (c *Controller) ReplaceGraph(snap *graph.Snapshot) { c.Handle(GraphReplaced{Snapshot: snap}) }

// Activate is shorthand for Handle(NodeActivated{id}).
func (c *Controller) Activate(id string) { c.Handle(NodeActivated{ID: id}) }

// Tap is shorthand for Handle(PointerTapped{x, y}).
func (c *Controller) Tap(x, y float64) { c.Handle(PointerTapped{X: x, Y: y}) }

// activate focuses id and returns the relationships to emit. Unknown ids
// leave the selection unchanged. Callers hold c.mu.
func (c *Controller) activate(id string) []Relationship {
	if !c.snap.HasNode(id) {
		return nil
	}
	incident := c.snap.Incident(id)
	sel := Selection{
		Focus:   id,
		Focused: true,
		Nodes:   map[string]struct{}{id: {}},
		Edges:   make(map[string]struct{}, len(incident)),
	}
	out := make([]Relationship, 0, len(incident))
	for _, e := range incident {
		sel.Edges[e.ID] = struct{}{}
		sel.Nodes[e.Other(id)] = struct{}{}
		out = append(out, Relationship{
			EdgeID:      e.ID,
			Source:      e.Source,
			Target:      e.Target,
			Type:        e.Type,
			Description: e.Description,
		})
	}
	c.sel = sel
	return out
}
