package fetch

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/castgraph/pkg/errors"
	"github.com/matzehuels/castgraph/pkg/graph"
	"github.com/matzehuels/castgraph/pkg/observability"
)

// DefaultPartIndex is the part of the book requested when none is configured.
const DefaultPartIndex = 4

// Analyzer performs the remote analysis call.
//
// Implementations report failures as errors; the controller turns them into
// an Error state. [analysis.Client] is the production implementation.
//
// [analysis.Client]: github.com/matzehuels/castgraph/pkg/integrations/analysis.Client
type Analyzer interface {
	Analyze(ctx context.Context, bookID string, partIndex int) (graph.Result, error)
}

// AnalyzerFunc adapts a function to [Analyzer].
type AnalyzerFunc func(ctx context.Context, bookID string, partIndex int) (graph.Result, error)

// Analyze calls f.
func (f AnalyzerFunc) Analyze(ctx context.Context, bookID string, partIndex int) (graph.Result, error) {
	return f(ctx, bookID, partIndex)
}

// Options configures a [Controller].
type Options struct {
	// PartIndex is passed unchanged to the analyzer. Zero or negative uses
	// [DefaultPartIndex].
	PartIndex int

	// Logger receives debug logs for transitions and discarded results.
	// Nil uses log.Default().
	Logger *log.Logger
}

// Listener is called after every published transition.
type Listener func(State)

// Controller runs analysis requests and publishes the resulting [State].
//
// All methods are safe for concurrent use. Listeners are called
// synchronously, one at a time, in transition order; they must not call
// RequestAnalysis or Reset on the same controller.
type Controller struct {
	analyzer  Analyzer
	partIndex int
	logger    *log.Logger

	// notifyMu serializes transition + notification so listeners observe
	// transitions in the order they happened.
	notifyMu sync.Mutex

	mu        sync.Mutex
	state     State
	latest    uint64
	cancel    context.CancelFunc
	listeners []Listener
}

// New creates an Idle controller.
func New(analyzer Analyzer, opts Options) *Controller {
	if opts.PartIndex <= 0 {
		opts.PartIndex = DefaultPartIndex
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &Controller{
		analyzer:  analyzer,
		partIndex: opts.PartIndex,
		logger:    opts.Logger,
	}
}

// PartIndex returns the part index sent with every request.
func (c *Controller) PartIndex() int { return c.partIndex }

// State returns the latest published state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// OnChange registers a listener for state transitions.
func (c *Controller) OnChange(fn Listener) {
	if fn == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// RequestAnalysis supersedes any in-flight request, publishes Loading and
// starts the analyzer on its own goroutine. It never blocks on the previous
// request. Empty book ids are sent like any other.
//
// Cancelling ctx abandons the request; if it is still the latest one, the
// cancellation is published as an Error.
func (c *Controller) RequestAnalysis(ctx context.Context, bookID string) *Request {
	c.notifyMu.Lock()

	c.mu.Lock()
	c.latest++
	token := c.latest
	if c.cancel != nil {
		c.cancel()
	}
	reqCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.state = State{Status: Loading, Token: token, BookID: bookID}
	st, listeners := c.state, slices.Clone(c.listeners)
	c.mu.Unlock()

	c.logger.Debug("analysis requested", "book", bookID, "token", token, "part", c.partIndex)
	observability.Fetch().OnRequest(ctx, token, bookID, c.partIndex)
	notify(listeners, st)
	c.notifyMu.Unlock()

	req := &Request{token: token, done: make(chan struct{})}
	go c.run(reqCtx, cancel, req, bookID)
	return req
}

// Reset publishes Idle and makes every in-flight request stale.
func (c *Controller) Reset() {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()

	c.mu.Lock()
	c.latest++
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	changed := c.state.Status != Idle
	c.state = State{}
	listeners := slices.Clone(c.listeners)
	c.mu.Unlock()

	if changed {
		c.logger.Debug("fetch reset")
		notify(listeners, State{})
	}
}

func (c *Controller) run(ctx context.Context, cancel context.CancelFunc, req *Request, bookID string) {
	defer close(req.done)
	defer cancel()

	start := time.Now()
	result, err := c.analyzer.Analyze(ctx, bookID, c.partIndex)

	next := State{Token: req.token, BookID: bookID}
	if err != nil {
		next.Status = Error
		next.Message = errors.UserMessage(err)
	} else {
		next.Status = Success
		next.Snapshot = graph.BuildSnapshot(result.Edges, result.Nodes)
	}

	req.applied = c.complete(next)
	if req.applied {
		observability.Fetch().OnApplied(ctx, req.token, next.Status.String(), time.Since(start))
		if err != nil {
			c.logger.Debug("analysis failed", "book", bookID, "token", req.token, "err", err)
		} else {
			c.logger.Debug("analysis succeeded", "book", bookID, "token", req.token,
				"nodes", next.Snapshot.NodeCount(), "edges", next.Snapshot.EdgeCount())
		}
		return
	}
	observability.Fetch().OnStale(ctx, req.token)
	c.logger.Debug("discarded stale analysis result", "book", bookID, "token", req.token)
}

// complete publishes next if its token is still the latest.
func (c *Controller) complete(next State) bool {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()

	c.mu.Lock()
	if next.Token != c.latest {
		c.mu.Unlock()
		return false
	}
	c.state = next
	c.cancel = nil
	listeners := slices.Clone(c.listeners)
	c.mu.Unlock()

	notify(listeners, next)
	return true
}

func notify(listeners []Listener, s State) {
	for _, fn := range listeners {
		fn(s)
	}
}

// Request is a handle on one issued analysis request.
type Request struct {
	token   uint64
	done    chan struct{}
	applied bool
}

// Token returns the request's token.
func (r *Request) Token() uint64 { return r.token }

// Done is closed once the completion has been applied or discarded.
func (r *Request) Done() <-chan struct{} { return r.done }

// Wait blocks until Done or until ctx is cancelled.
func (r *Request) Wait(ctx context.Context) error {
	select {
	case <-r.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Applied reports whether the completion became the published state.
// It is only meaningful after Done is closed.
func (r *Request) Applied() bool {
	select {
	case <-r.done:
		return r.applied
	default:
		return false
	}
}
