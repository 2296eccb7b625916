package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/castgraph/pkg/cache"
	"github.com/matzehuels/castgraph/pkg/errors"
	"github.com/matzehuels/castgraph/pkg/fetch"
	"github.com/matzehuels/castgraph/pkg/graph"
	"github.com/matzehuels/castgraph/pkg/interaction"
	"github.com/matzehuels/castgraph/pkg/layout"
	"github.com/matzehuels/castgraph/pkg/observability"
	"github.com/matzehuels/castgraph/pkg/render"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache, the analyzer and the
// logger. Multiple goroutines can safely use the same Runner with different
// options.
type Runner struct {
	Cache    cache.Cache
	Keyer    cache.Keyer
	Analyzer fetch.Analyzer
	Logger   *log.Logger
}

// NewRunner creates a runner.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
// The analyzer may be nil when every run supplies Options.Graph.
func NewRunner(c cache.Cache, keyer cache.Keyer, analyzer fetch.Analyzer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:    c,
		Keyer:    keyer,
		Analyzer: analyzer,
		Logger:   logger,
	}
}

// Execute runs the complete load → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	opts.SetRenderDefaults()
	result := &Result{RunID: uuid.NewString()}
	logger := opts.Logger.With("run", result.RunID[:8])

	// Stage 1: Load
	loadStart := time.Now()
	snap, err := r.Load(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Snapshot = snap
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.NodeCount = snap.NodeCount()
	result.Stats.EdgeCount = snap.EdgeCount()
	result.GraphHash = GraphHash(snap)

	logger.Info("loaded graph",
		"characters", snap.NodeCount(),
		"relationships", snap.EdgeCount(),
		"duration", result.Stats.LoadTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	pos, iterations, layoutHit, err := r.ComputeLayoutWithCacheInfo(ctx, snap, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Positions = pos
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.Iterations = iterations
	result.CacheInfo.LayoutHit = layoutHit

	logger.Info("computed layout",
		"iterations", iterations,
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	l, err := r.Export(snap, pos, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Layout = l
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, l, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Load returns the snapshot of the graph named by opts.
func (r *Runner) Load(ctx context.Context, opts Options) (*graph.Snapshot, error) {
	if err := opts.ValidateForLoad(); err != nil {
		return nil, err
	}
	if opts.Graph != nil {
		return graph.BuildSnapshot(opts.Graph.Edges, opts.Graph.Nodes), nil
	}
	if r.Analyzer == nil {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "no analysis service configured")
	}
	res, err := r.Analyzer.Analyze(ctx, opts.BookID, opts.PartIndex)
	if err != nil {
		return nil, err
	}
	return graph.BuildSnapshot(res.Edges, res.Nodes), nil
}

// ComputeLayoutWithCacheInfo lays out snap, fitted to the frame, and reports
// the iteration count (zero on a cache hit) and whether the cache was hit.
func (r *Runner) ComputeLayoutWithCacheInfo(ctx context.Context, snap *graph.Snapshot, opts Options) (layout.Positions, int, bool, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return nil, 0, false, err
	}
	r.applyLogger(&opts)

	cacheKey := r.Keyer.LayoutKey(GraphHash(snap), opts.Layout.KeyOpts(opts.Width, opts.Height))

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var cached layout.Positions
			if err := json.Unmarshal(data, &cached); err == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				return cached, 0, true, nil
			}
			// If deserialization fails, fall through to recompute
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	pos, stats, err := ComputeLayout(ctx, snap, opts)
	if err != nil {
		return nil, 0, false, err
	}

	if data, err := json.Marshal(pos); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.LayoutTTL); err == nil {
			observability.Cache().OnCacheSet(ctx, "layout", len(data))
		}
	}
	return pos, stats.Iterations, false, nil
}

// ComputeLayout is a convenience wrapper that discards the cache information.
func (r *Runner) ComputeLayout(ctx context.Context, snap *graph.Snapshot, opts Options) (layout.Positions, error) {
	pos, _, _, err := r.ComputeLayoutWithCacheInfo(ctx, snap, opts)
	return pos, err
}

// Export applies the focus highlight and builds the drawable layout.
// A focus that names no character of snap is an ErrCodeNotFound error.
func (r *Runner) Export(snap *graph.Snapshot, pos layout.Positions, opts Options) (graph.Layout, error) {
	if err := opts.ValidateForRender(); err != nil {
		return graph.Layout{}, err
	}
	opts.SetLayoutDefaults()

	ctl := interaction.New()
	ctl.ReplaceGraph(snap)
	if opts.Focus != "" {
		if !snap.HasNode(opts.Focus) {
			return graph.Layout{}, errors.New(errors.ErrCodeNotFound, "character %q is not in the graph", opts.Focus)
		}
		ctl.Activate(opts.Focus)
	}
	return render.Export(snap, pos,
		render.WithFrame(opts.Width, opts.Height),
		render.WithSelection(ctl.Selection())), nil
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, l graph.Layout, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	// Compute cache key from layout data
	layoutData, err := graph.MarshalLayout(l)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(layoutData)

	// Try to get all formats from cache
	artifacts := make(map[string][]byte)
	if !opts.Refresh {
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(layoutHash, r.artifactKeyOpts(format, opts))
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil || !hit {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			observability.Cache().OnCacheHit(ctx, "artifact")
			return artifacts, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
	}

	rendered, err := Render(ctx, l, opts)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(layoutHash, r.artifactKeyOpts(format, opts))
		if err := r.Cache.Set(ctx, key, data, cache.LayoutTTL); err == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}
	return rendered, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) artifactKeyOpts(format string, opts Options) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{Format: format, Focus: opts.Focus, HideEdgeLabels: opts.HideEdgeLabels}
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// GraphHash is the content hash of a snapshot, used to key cached layouts.
func GraphHash(snap *graph.Snapshot) string {
	data, err := graph.MarshalResult(snap.Result())
	if err != nil {
		return ""
	}
	return cache.Hash(data)
}
