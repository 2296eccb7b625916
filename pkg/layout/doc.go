// Package layout computes force-directed positions for relationship graphs.
//
// # Algorithm
//
// The simulation is a compound spring embedder with simulated annealing.
// Each iteration sums three forces per node:
//
//	repulsion   NodeRepulsion / d²                  between every node pair
//	attraction  (d - IdealEdgeLength)² / EdgeElasticity along every edge,
//	            pulling endpoints toward the ideal length
//	gravity     Gravity · d / (d + IdealEdgeLength) toward the centroid
//
// The displacement of every node is capped by the temperature
//
//	T(k) = max(MinTemp, InitialTemp · CoolingFactor^k)
//
// which decreases monotonically. The run stops after NumIter iterations or
// as soon as no node moved more than ConvergenceThreshold in an iteration.
//
// Gravity keeps disconnected components from drifting apart indefinitely
// but does not keep them from overlapping.
//
// # Driving the simulation
//
// [System.Step] is a pure function from one [State] to the next. [Compute]
// and [Animate] drive it in batches of Config.Refresh iterations, yielding
// the processor between batches and honouring context cancellation, so a
// caller on an interactive goroutine stays responsive:
//
//	pos, stats, err := layout.Animate(ctx, snap, layout.DefaultConfig(), func(f layout.Frame) {
//	    redraw(layout.Fit(f.Positions, w, h, cfg.Padding))
//	})
//
// Initial placement is deterministic (a circle in snapshot order) unless
// Config.Randomize is set, so an unchanged graph lays out the same way each
// time it is shown.
package layout
