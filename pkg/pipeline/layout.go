package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/castgraph/pkg/graph"
	"github.com/matzehuels/castgraph/pkg/layout"
	"github.com/matzehuels/castgraph/pkg/observability"
)

// =============================================================================
// Layout Generation
// =============================================================================

// ComputeLayout runs the force-directed simulation on snap and fits the
// result to the options' frame.
//
// Callers that need caching use [Runner.ComputeLayoutWithCacheInfo].
func ComputeLayout(ctx context.Context, snap *graph.Snapshot, opts Options) (layout.Positions, layout.Stats, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return nil, layout.Stats{}, err
	}

	observability.Pipeline().OnLayoutStart(ctx, snap.NodeCount())
	start := time.Now()
	pos, stats, err := layout.Compute(ctx, snap, opts.Layout)
	observability.Pipeline().OnLayoutComplete(ctx, stats.Iterations, time.Since(start), err)
	if err != nil {
		return nil, stats, err
	}

	opts.Logger.Debug("layout finished",
		"iterations", stats.Iterations,
		"converged", stats.Converged,
		"temp", stats.FinalTemp)

	return layout.Fit(pos, opts.Width, opts.Height, opts.Layout.Padding), stats, nil
}
