package layout

import (
	"context"
	"math"
	"runtime"
	"time"

	"github.com/matzehuels/castgraph/pkg/graph"
)

// Stats summarizes a layout run.
type Stats struct {
	Iterations int
	Converged  bool
	FinalTemp  float64
	Duration   time.Duration
}

// Frame is an intermediate result reported between iteration batches.
type Frame struct {
	Positions Positions
	Iteration int
	Temp      float64
	Final     bool
}

// Compute runs the simulation to completion and returns the final positions.
//
// It yields between batches of Config.Refresh iterations and returns
// ctx.Err() together with the positions reached so far if ctx is cancelled.
// An empty snapshot yields empty positions.
func Compute(ctx context.Context, snap *graph.Snapshot, cfg Config) (Positions, Stats, error) {
	return Animate(ctx, snap, cfg, nil)
}

// Animate is [Compute] with a callback after every batch. The last frame
// has Final set. onFrame runs on the calling goroutine and may be nil.
func Animate(ctx context.Context, snap *graph.Snapshot, cfg Config, onFrame func(Frame)) (Positions, Stats, error) {
	if err := cfg.Validate(); err != nil {
		return nil, Stats{}, err
	}
	start := time.Now()
	sys := NewSystem(snap, cfg)
	st := sys.Initial()

	finish := func(err error) (Positions, Stats, error) {
		pos := sys.Positions(st)
		stats := Stats{
			Iterations: st.Iter,
			Converged:  sys.Converged(st),
			FinalTemp:  sys.Temperature(max(st.Iter-1, 0)),
			Duration:   time.Since(start),
		}
		if onFrame != nil && err == nil {
			onFrame(Frame{Positions: pos, Iteration: st.Iter, Temp: stats.FinalTemp, Final: true})
		}
		return pos, stats, err
	}

	for !sys.Done(st) {
		for range cfg.Refresh {
			st = sys.Step(st)
			if sys.Done(st) {
				break
			}
		}
		if sys.Done(st) {
			break
		}
		if onFrame != nil {
			onFrame(Frame{Positions: sys.Positions(st), Iteration: st.Iter, Temp: sys.Temperature(st.Iter - 1)})
		}
		runtime.Gosched()
		if err := ctx.Err(); err != nil {
			return finish(err)
		}
	}
	return finish(nil)
}

// Fit scales and translates pos so that every point lies inside a
// width x height frame inset by padding, preserving aspect ratio and
// centering the result. A single point (or a degenerate extent) is centered
// without scaling. pos is not modified.
func Fit(pos Positions, width, height, padding float64) Positions {
	out := make(Positions, len(pos))
	if len(pos) == 0 {
		return out
	}

	lo, hi, _ := Bounds(pos)
	minX, minY, maxX, maxY := lo.X, lo.Y, hi.X, hi.Y

	innerW := max(width-2*padding, 0)
	innerH := max(height-2*padding, 0)
	spanX, spanY := maxX-minX, maxY-minY

	scale := 1.0
	switch {
	case spanX > 0 && spanY > 0:
		scale = min(innerW/spanX, innerH/spanY)
	case spanX > 0:
		scale = innerW / spanX
	case spanY > 0:
		scale = innerH / spanY
	}

	cx, cy := (minX+maxX)/2, (minY+maxY)/2
	for id, p := range pos {
		out[id] = Point{
			X: width/2 + (p.X-cx)*scale,
			Y: height/2 + (p.Y-cy)*scale,
		}
	}
	return out
}

// Bounds returns the bounding box of pos. ok is false for an empty map.
func Bounds(pos Positions) (minPt, maxPt Point, ok bool) {
	if len(pos) == 0 {
		return Point{}, Point{}, false
	}
	minPt = Point{math.Inf(1), math.Inf(1)}
	maxPt = Point{math.Inf(-1), math.Inf(-1)}
	for _, p := range pos {
		minPt = Point{min(minPt.X, p.X), min(minPt.Y, p.Y)}
		maxPt = Point{max(maxPt.X, p.X), max(maxPt.Y, p.Y)}
	}
	return minPt, maxPt, true
}
