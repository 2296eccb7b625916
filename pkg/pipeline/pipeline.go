// Package pipeline provides the batch visualization pipeline for castgraph.
//
// This package implements the complete analyze → layout → render pipeline
// used by the CLI's analyze and render commands. The interactive explorer
// uses the same stages one at a time through the session package.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: obtain the relationship graph, from the analysis service or from
//     a graph given in the options, and build a snapshot
//  2. Layout: run the force-directed layout and fit it to the frame
//  3. Render: apply the focus highlight and produce artifacts (SVG, PNG,
//     DOT, JSON)
//
// Layouts and artifacts are cached by content hash, so re-rendering the same
// graph with a different focus reuses the layout.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, analysisClient, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    BookID:  "1342",
//	    Focus:   "Elizabeth Bennet",
//	    Formats: []string{"svg"},
//	})
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/castgraph/pkg/errors"
	"github.com/matzehuels/castgraph/pkg/fetch"
	"github.com/matzehuels/castgraph/pkg/graph"
	"github.com/matzehuels/castgraph/pkg/layout"
	"github.com/matzehuels/castgraph/pkg/render/nodelink"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultWidth is the default frame width in pixels.
	DefaultWidth = 800.0

	// DefaultHeight is the default frame height in pixels.
	DefaultHeight = 600.0
)

// Format constants for output formats.
const (
	FormatSVG  = nodelink.FormatSVG
	FormatPNG  = nodelink.FormatPNG
	FormatDOT  = nodelink.FormatDOT
	FormatJSON = "json"
)

// ValidFormats lists the supported output formats.
var ValidFormats = []string{FormatSVG, FormatPNG, FormatDOT, FormatJSON}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run.
type Options struct {
	// Source: Graph when set, otherwise BookID through the analyzer.
	BookID    string        `json:"book_id,omitempty"`
	PartIndex int           `json:"part_index"`
	Graph     *graph.Result `json:"graph,omitempty"`
	Refresh   bool          `json:"refresh,omitempty"` // Recompute the layout and artifacts

	// Layout options
	Layout layout.Config `json:"layout"`
	Width  float64       `json:"width,omitempty"`
	Height float64       `json:"height,omitempty"`

	// Render options
	Focus          string   `json:"focus,omitempty"` // Character to highlight
	Formats        []string `json:"formats,omitempty"`
	HideEdgeLabels bool     `json:"hide_edge_labels,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID identifies this run in logs.
	RunID string

	// Snapshot is the graph that was laid out.
	Snapshot *graph.Snapshot

	// GraphHash is the content hash of the snapshot's wire form.
	GraphHash string

	// Positions are the fitted node positions.
	Positions layout.Positions

	// Layout is the drawable graph with the focus highlight applied.
	Layout graph.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	Iterations int // Zero when the layout came from the cache
	LoadTime   time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !slices.Contains(ValidFormats, format) {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, dot, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateForLoad checks that the options name a graph source.
func (o *Options) ValidateForLoad() error {
	if o.Graph == nil && o.BookID == "" {
		return errors.New(errors.ErrCodeInvalidInput, "book id or graph is required")
	}
	if o.Graph == nil && o.PartIndex == 0 {
		o.PartIndex = fetch.DefaultPartIndex
	}
	o.setLogger()
	return nil
}

// SetLayoutDefaults sets default values for layout computation. A zero
// layout config means the default parameters.
func (o *Options) SetLayoutDefaults() {
	if o.Layout == (layout.Config{}) {
		o.Layout = layout.DefaultConfig()
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	o.setLogger()
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if o.Width < 0 || o.Height < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "frame size must not be negative, got %gx%g", o.Width, o.Height)
	}
	return o.Layout.Validate()
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	o.setLogger()
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := errors.ValidateCharacterID(o.Focus); err != nil {
		return err
	}
	return ValidateFormats(o.Formats)
}

func (o *Options) setLogger() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}
