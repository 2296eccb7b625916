// Package session runs one interactive exploration of a character graph.
//
// A [Session] wires the fetch controller, the layout driver, the interaction
// controller and the viewport adapter together for a single viewer:
//
//	Load(book) ─▶ fetch.Controller ─Success─▶ interaction.ReplaceGraph
//	                                       └▶ layout.Animate ─frames─▶ positions
//	Tap(x, y) / Activate(id) ─▶ interaction.Controller ─▶ relationships
//	Resize(h) ─▶ viewport.Adapter ─▶ frame height
//
// A new snapshot cancels the running layout; frames of a cancelled run are
// dropped. Positions are stored unfitted and fitted to the current frame on
// every [Session.View], so a resize never reruns the simulation.
//
// Hosts observe the session through [Event] values delivered to listeners
// registered with [Session.OnEvent]. Events are dispatched in publish order
// on a goroutine owned by the session, never under a component lock, so a
// listener may call back into the session (for example to start a new
// request from a key press).
package session
