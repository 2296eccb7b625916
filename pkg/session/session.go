package session

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/castgraph/pkg/errors"
	"github.com/matzehuels/castgraph/pkg/fetch"
	"github.com/matzehuels/castgraph/pkg/graph"
	"github.com/matzehuels/castgraph/pkg/interaction"
	"github.com/matzehuels/castgraph/pkg/layout"
	"github.com/matzehuels/castgraph/pkg/observability"
	"github.com/matzehuels/castgraph/pkg/render"
	"github.com/matzehuels/castgraph/pkg/viewport"
)

// DefaultWidth is the frame width used when none is configured.
const DefaultWidth = 960.0

// Options configures a [Session].
type Options struct {
	// PartIndex is passed to the analyzer with every request.
	// Zero uses fetch.DefaultPartIndex.
	PartIndex int

	// Layout holds the simulation parameters. The zero value means
	// layout.DefaultConfig().
	Layout layout.Config

	// Width is the frame width. Zero uses DefaultWidth.
	Width float64

	// Height is the configured canvas height ("600px"). Empty uses
	// viewport.DefaultHeight.
	Height string

	// Logger receives session logs. Nil uses log.Default().
	Logger *log.Logger
}

// Session is one viewer's exploration state.
//
// All methods are safe for concurrent use.
type Session struct {
	// ID identifies the session in logs.
	ID string

	fetch    *fetch.Controller
	interact *interaction.Controller
	viewport *viewport.Adapter
	events   *dispatcher

	cfg    layout.Config
	width  float64
	logger *log.Logger

	base context.Context
	stop context.CancelFunc

	// mu guards the fields below and orders every GraphReplaced and
	// TargetsMoved sent to the interaction controller.
	mu           sync.Mutex
	snap         *graph.Snapshot
	pos          layout.Positions
	stats        layout.Stats
	gen          uint64
	cancelLayout context.CancelFunc
	layoutDone   chan struct{}
	closed       bool
}

// New creates a session that analyzes books with analyzer. The session
// lives until ctx is cancelled or Close is called.
func New(ctx context.Context, analyzer fetch.Analyzer, opts Options) (*Session, error) {
	if opts.Layout == (layout.Config{}) {
		opts.Layout = layout.DefaultConfig()
	}
	if err := opts.Layout.Validate(); err != nil {
		return nil, err
	}
	if opts.Width < 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "frame width must not be negative, got %g", opts.Width)
	}
	if opts.Width == 0 {
		opts.Width = DefaultWidth
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	id := uuid.NewString()
	logger := opts.Logger.With("session", id[:8])
	base, stop := context.WithCancel(ctx)

	s := &Session{
		ID:       id,
		interact: interaction.New(),
		viewport: viewport.NewAdapter(opts.Height),
		events:   newDispatcher(),
		cfg:      opts.Layout,
		width:    opts.Width,
		logger:   logger,
		base:     base,
		stop:     stop,
	}
	s.fetch = fetch.New(analyzer, fetch.Options{PartIndex: opts.PartIndex, Logger: logger})
	s.fetch.OnChange(s.onFetch)
	s.interact.OnRelationship(func(r interaction.Relationship) {
		s.events.publish(RelationshipSelected{Relationship: r})
	})

	logger.Debug("session started", "part", s.fetch.PartIndex(), "height", s.viewport.Configured())
	return s, nil
}

// OnEvent registers a listener for session events.
func (s *Session) OnEvent(fn Listener) {
	s.events.subscribe(fn)
}

// =============================================================================
// Commands
// =============================================================================

// Load requests the relationship graph of bookID, superseding any request
// in flight.
func (s *Session) Load(bookID string) *fetch.Request {
	return s.fetch.RequestAnalysis(s.base, bookID)
}

// Reset returns to Idle and clears the graph.
func (s *Session) Reset() {
	s.fetch.Reset()
}

// Activate focuses the character id. Unknown ids leave the selection as it
// was.
func (s *Session) Activate(id string) {
	s.interact.Activate(id)
	s.events.publish(SelectionChanged{Selection: s.interact.Selection()})
}

// Tap handles a pointer tap at frame coordinates (x, y).
func (s *Session) Tap(x, y float64) {
	s.interact.Handle(interaction.PointerTapped{X: x, Y: y})
	s.events.publish(SelectionChanged{Selection: s.interact.Selection()})
}

// Resize recomputes the canvas height for a new window height and reports
// whether it changed.
func (s *Session) Resize(windowHeight int) (string, bool) {
	height, changed := s.viewport.Resize(windowHeight)
	if !changed {
		return height, false
	}
	s.mu.Lock()
	s.refreshTargetsLocked()
	s.mu.Unlock()

	s.logger.Debug("canvas resized", "window", windowHeight, "height", height)
	s.events.publish(HeightChanged{Height: height})
	return height, true
}

// Close stops the running layout and any request in flight, delivers the
// queued events and releases the dispatch goroutine. It must not be called
// from an event listener.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	done := s.layoutDone
	s.mu.Unlock()

	s.stop()
	if done != nil {
		<-done
	}
	s.events.close()
	s.logger.Debug("session closed")
}

// =============================================================================
// Queries
// =============================================================================

// State returns the current fetch state.
func (s *Session) State() fetch.State { return s.fetch.State() }

// Selection returns a copy of the current selection.
func (s *Session) Selection() interaction.Selection { return s.interact.Selection() }

// Height returns the current canvas height.
func (s *Session) Height() string { return s.viewport.Current() }

// Snapshot returns the displayed graph, or nil.
func (s *Session) Snapshot() *graph.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

// LayoutStats returns the statistics of the last completed layout run.
func (s *Session) LayoutStats() layout.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// View returns the drawable graph fitted to the current frame with the
// selection applied.
func (s *Session) View() graph.Layout {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

// FrameSize returns the frame the view is fitted to.
func (s *Session) FrameSize() (width, height float64) {
	return s.width, s.frameHeight()
}

// WaitLayout blocks until the current layout run ends or ctx is cancelled.
// It returns immediately when no layout is running.
func (s *Session) WaitLayout(ctx context.Context) error {
	s.mu.Lock()
	done := s.layoutDone
	s.mu.Unlock()
	if done == nil {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// =============================================================================
// Internals
// =============================================================================

func (s *Session) onFetch(st fetch.State) {
	start := func() {}
	switch st.Status {
	case fetch.Success:
		start = s.replaceGraph(st.Snapshot)
	case fetch.Idle:
		start = s.replaceGraph(nil)
	}
	s.events.publish(FetchChanged{State: st})
	start()
}

// replaceGraph swaps in snap, cancels the running layout and returns a func
// that starts the layout of snap.
func (s *Session) replaceGraph(snap *graph.Snapshot) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return func() {}
	}

	s.gen++
	if s.cancelLayout != nil {
		s.cancelLayout()
	}
	s.cancelLayout, s.layoutDone = nil, nil
	s.snap, s.pos, s.stats = snap, nil, layout.Stats{}
	s.interact.ReplaceGraph(snap)

	if snap.Empty() {
		return func() {}
	}

	ctx, cancel := context.WithCancel(s.base)
	done := make(chan struct{})
	s.cancelLayout, s.layoutDone = cancel, done
	gen := s.gen
	return func() { go s.runLayout(ctx, cancel, done, gen, snap) }
}

func (s *Session) runLayout(ctx context.Context, cancel context.CancelFunc, done chan struct{}, gen uint64, snap *graph.Snapshot) {
	defer close(done)
	defer cancel()

	observability.Pipeline().OnLayoutStart(ctx, snap.NodeCount())
	start := time.Now()
	_, stats, err := layout.Animate(ctx, snap, s.cfg, func(f layout.Frame) {
		if !s.storeFrame(gen, f.Positions) {
			return
		}
		s.events.publish(LayoutProgress{Iteration: f.Iteration, Final: f.Final})
	})
	observability.Pipeline().OnLayoutComplete(ctx, stats.Iterations, time.Since(start), err)
	if err != nil {
		s.logger.Debug("layout stopped", "iterations", stats.Iterations, "err", err)
		return
	}

	s.mu.Lock()
	if s.gen == gen {
		s.stats = stats
	}
	s.mu.Unlock()

	s.logger.Debug("layout finished",
		"nodes", snap.NodeCount(),
		"iterations", stats.Iterations,
		"converged", stats.Converged,
		"duration", stats.Duration)
}

// storeFrame records pos if gen is still the current graph.
func (s *Session) storeFrame(gen uint64, pos layout.Positions) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return false
	}
	s.pos = pos
	s.refreshTargetsLocked()
	return true
}

func (s *Session) refreshTargetsLocked() {
	if s.snap.Empty() {
		return
	}
	s.interact.Handle(interaction.TargetsMoved{Targets: render.Targets(s.viewLocked())})
}

func (s *Session) viewLocked() graph.Layout {
	w, h := s.width, s.frameHeight()
	pos := layout.Fit(s.pos, w, h, s.cfg.Padding)
	return render.Export(s.snap, pos,
		render.WithFrame(w, h),
		render.WithSelection(s.interact.Selection()))
}

func (s *Session) frameHeight() float64 {
	px, ok := viewport.Pixels(s.viewport.Current())
	if !ok {
		px, _ = viewport.Pixels(viewport.DefaultHeight)
	}
	return float64(px)
}
