package session

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/castgraph/pkg/errors"
	"github.com/matzehuels/castgraph/pkg/fetch"
	"github.com/matzehuels/castgraph/pkg/graph"
	"github.com/matzehuels/castgraph/pkg/interaction"
	"github.com/matzehuels/castgraph/pkg/layout"
	"github.com/matzehuels/castgraph/pkg/render"
)

var books = map[string]graph.Result{
	"1342": {
		Nodes: []graph.Node{{ID: "Elizabeth", Weight: 9}, {ID: "Darcy", Weight: 8}, {ID: "Jane", Weight: 5}},
		Edges: []graph.Edge{
			{Source: "Elizabeth", Target: "Darcy", Type: "romance", Description: "Eventually marry", Weight: 5},
			{Source: "Elizabeth", Target: "Jane", Type: "sibling", Description: "Sisters", Weight: 4},
		},
	},
	"84": {
		Edges: []graph.Edge{
			{Source: "Victor", Target: "Creature", Type: "creator", Description: "Brings it to life", Weight: 5},
		},
	},
}

func analyzer() fetch.Analyzer {
	return fetch.AnalyzerFunc(func(_ context.Context, bookID string, _ int) (graph.Result, error) {
		r, ok := books[bookID]
		if !ok {
			return graph.Result{}, errors.Server(404, "Book not found")
		}
		return r, nil
	})
}

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

func testConfig() layout.Config {
	cfg := layout.DefaultConfig()
	cfg.NumIter = 300
	return cfg
}

// recorder collects events in delivery order.
type recorder struct {
	mu     sync.Mutex
	events []Event
	ch     chan Event
}

func record(s *Session) *recorder {
	r := &recorder{ch: make(chan Event, 4096)}
	s.OnEvent(func(ev Event) {
		r.mu.Lock()
		r.events = append(r.events, ev)
		r.mu.Unlock()
		r.ch <- ev
	})
	return r
}

// waitFor returns the first event, starting now, that satisfies match.
func (r *recorder) waitFor(t *testing.T, match func(Event) bool) Event {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev := <-r.ch:
			if match(ev) {
				return ev
			}
		case <-timeout:
			t.Fatal("timed out waiting for event")
			return nil
		}
	}
}

func newSession(t *testing.T, opts Options) *Session {
	t.Helper()
	if opts.Layout == (layout.Config{}) {
		opts.Layout = testConfig()
	}
	opts.Logger = quietLogger()
	s, err := New(context.Background(), analyzer(), opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(s.Close)
	return s
}

func load(t *testing.T, s *Session, bookID string) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Load(bookID).Wait(ctx); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if err := s.WaitLayout(ctx); err != nil {
		t.Fatalf("WaitLayout: %v", err)
	}
}

func TestLoadLaysOutGraph(t *testing.T) {
	s := newSession(t, Options{})
	rec := record(s)

	load(t, s, "1342")

	if got := s.State().Status; got != fetch.Success {
		t.Fatalf("status = %s, want success", got)
	}
	if s.LayoutStats().Iterations == 0 {
		t.Error("layout reported no iterations")
	}

	v := s.View()
	w, h := s.FrameSize()
	if v.Width != w || v.Height != h {
		t.Errorf("view frame = %gx%g, want %gx%g", v.Width, v.Height, w, h)
	}
	if len(v.Nodes) != 3 || len(v.Edges) != 2 {
		t.Fatalf("view has %d nodes, %d edges", len(v.Nodes), len(v.Edges))
	}
	for _, n := range v.Nodes {
		if n.X < 0 || n.X > w || n.Y < 0 || n.Y > h {
			t.Errorf("%s at (%g, %g) lies outside the frame", n.ID, n.X, n.Y)
		}
	}

	rec.waitFor(t, func(ev Event) bool {
		p, ok := ev.(LayoutProgress)
		return ok && p.Final
	})

	rec.mu.Lock()
	defer rec.mu.Unlock()
	var statuses []fetch.Status
	for _, ev := range rec.events {
		if fc, ok := ev.(FetchChanged); ok {
			statuses = append(statuses, fc.State.Status)
		}
	}
	if len(statuses) != 2 || statuses[0] != fetch.Loading || statuses[1] != fetch.Success {
		t.Errorf("fetch events = %v, want [loading success]", statuses)
	}
}

func TestFetchChangedPrecedesLayoutProgress(t *testing.T) {
	s := newSession(t, Options{})
	rec := record(s)

	load(t, s, "1342")
	rec.waitFor(t, func(ev Event) bool {
		p, ok := ev.(LayoutProgress)
		return ok && p.Final
	})

	rec.mu.Lock()
	defer rec.mu.Unlock()
	sawSuccess := false
	for _, ev := range rec.events {
		switch e := ev.(type) {
		case FetchChanged:
			sawSuccess = sawSuccess || e.State.Status == fetch.Success
		case LayoutProgress:
			if !sawSuccess {
				t.Fatal("layout progress delivered before the success transition")
			}
		}
	}
}

func TestActivatePublishesRelationships(t *testing.T) {
	s := newSession(t, Options{})
	load(t, s, "1342")
	rec := record(s)

	s.Activate("Elizabeth")

	var got []interaction.Relationship
	rec.waitFor(t, func(ev Event) bool {
		switch e := ev.(type) {
		case RelationshipSelected:
			got = append(got, e.Relationship)
		case SelectionChanged:
			return true
		}
		return false
	})

	if len(got) != 2 {
		t.Fatalf("got %d relationships, want 2", len(got))
	}
	if got[0].Target != "Darcy" || got[1].Target != "Jane" {
		t.Errorf("relationships out of edge order: %+v", got)
	}

	sel := s.Selection()
	if sel.Focus != "Elizabeth" || len(sel.NodeIDs()) != 3 {
		t.Errorf("selection = %+v", sel)
	}
	n, _ := s.View().Node("Darcy")
	if !n.Highlighted || n.Focused {
		t.Errorf("Darcy highlighted=%v focused=%v, want true false", n.Highlighted, n.Focused)
	}
}

func TestTapHitsLaidOutNode(t *testing.T) {
	s := newSession(t, Options{})
	load(t, s, "1342")

	v := s.View()
	darcy, ok := v.Node("Darcy")
	if !ok {
		t.Fatal("Darcy missing from view")
	}
	want, ok := interaction.HitTest(render.Targets(v), darcy.X, darcy.Y)
	if !ok {
		t.Fatal("no target at Darcy's position")
	}

	s.Tap(darcy.X, darcy.Y)
	if got := s.Selection().Focus; got != want {
		t.Errorf("focus = %q, want %q", got, want)
	}

	// Far outside every node: the selection stays.
	s.Tap(-1000, -1000)
	if got := s.Selection().Focus; got != want {
		t.Errorf("canvas tap changed focus to %q", got)
	}
}

func TestNewGraphReplacesOld(t *testing.T) {
	s := newSession(t, Options{})
	load(t, s, "1342")
	s.Activate("Elizabeth")

	load(t, s, "84")

	if !s.Selection().Empty() {
		t.Error("selection should reset on a new graph")
	}
	v := s.View()
	if len(v.Nodes) != 2 {
		t.Fatalf("view has %d nodes, want 2", len(v.Nodes))
	}
	if _, ok := v.Node("Elizabeth"); ok {
		t.Error("old graph still in view")
	}
	if _, ok := v.Node("Creature"); !ok {
		t.Error("synthesized node missing from view")
	}
}

func TestSupersededLayoutIsDropped(t *testing.T) {
	cfg := layout.DefaultConfig()
	cfg.NumIter = 100000
	cfg.ConvergenceThreshold = 1e-12
	cfg.MinTemp = 1e-9
	s := newSession(t, Options{Layout: cfg})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Load("1342").Wait(ctx); err != nil {
		t.Fatal(err)
	}
	s.Reset()
	if err := s.WaitLayout(ctx); err != nil {
		t.Fatal(err)
	}

	if s.Snapshot() != nil {
		t.Error("reset should clear the graph")
	}
	if v := s.View(); len(v.Nodes) != 0 {
		t.Errorf("view has %d nodes after reset", len(v.Nodes))
	}
	if s.LayoutStats().Iterations != 0 {
		t.Error("stats of a cancelled run were recorded")
	}
}

func TestLoadError(t *testing.T) {
	s := newSession(t, Options{})
	load(t, s, "999999999")

	st := s.State()
	if st.Status != fetch.Error || st.Message != "Book not found" {
		t.Errorf("state = %s %q, want error %q", st.Status, st.Message, "Book not found")
	}
	if s.Snapshot() != nil {
		t.Error("failed request should not set a graph")
	}
}

func TestResize(t *testing.T) {
	s := newSession(t, Options{Height: "700px"})
	rec := record(s)

	if s.Height() != "700px" {
		t.Errorf("initial height = %q", s.Height())
	}

	h, changed := s.Resize(500)
	if h != "400px" || !changed {
		t.Errorf("Resize(500) = %q, %v", h, changed)
	}
	ev := rec.waitFor(t, func(ev Event) bool { _, ok := ev.(HeightChanged); return ok })
	if ev.(HeightChanged).Height != "400px" {
		t.Errorf("event height = %q", ev.(HeightChanged).Height)
	}
	if _, fh := s.FrameSize(); fh != 400 {
		t.Errorf("frame height = %g, want 400", fh)
	}

	if _, changed := s.Resize(600); changed {
		t.Error("staying below the breakpoint should not report a change")
	}
	if h, changed := s.Resize(1024); h != "700px" || !changed {
		t.Errorf("Resize(1024) = %q, %v", h, changed)
	}
}

func TestNewRejectsInvalidOptions(t *testing.T) {
	bad := layout.DefaultConfig()
	bad.NumIter = 0
	if _, err := New(context.Background(), analyzer(), Options{Layout: bad, Logger: quietLogger()}); err == nil {
		t.Error("invalid layout config should fail")
	}
	if _, err := New(context.Background(), analyzer(), Options{Width: -5, Logger: quietLogger()}); err == nil {
		t.Error("negative width should fail")
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	s, err := New(context.Background(), analyzer(), Options{Layout: testConfig(), Logger: quietLogger()})
	if err != nil {
		t.Fatal(err)
	}
	s.Load("1342")
	s.Close()
	s.Close()
	if s.ID == "" {
		t.Error("session id should be set")
	}
}
