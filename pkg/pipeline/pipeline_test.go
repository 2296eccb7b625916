package pipeline

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/castgraph/pkg/cache"
	"github.com/matzehuels/castgraph/pkg/errors"
	"github.com/matzehuels/castgraph/pkg/fetch"
	"github.com/matzehuels/castgraph/pkg/graph"
	"github.com/matzehuels/castgraph/pkg/layout"
)

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

func sampleGraph() *graph.Result {
	return &graph.Result{
		Nodes: []graph.Node{
			{ID: "Elizabeth", Weight: 9},
			{ID: "Darcy", Weight: 8},
			{ID: "Jane", Weight: 5},
			{ID: "Bingley", Weight: 4},
		},
		Edges: []graph.Edge{
			{Source: "Elizabeth", Target: "Darcy", Type: "romance", Description: "Eventually marry", Weight: 5},
			{Source: "Elizabeth", Target: "Jane", Type: "sibling", Description: "Sisters", Weight: 4},
			{Source: "Jane", Target: "Bingley", Type: "romance", Description: "Courtship", Weight: 3},
		},
	}
}

func testConfig() layout.Config {
	cfg := layout.DefaultConfig()
	cfg.NumIter = 200
	return cfg
}

type fakeAnalyzer struct {
	calls  int
	bookID string
	part   int
	result graph.Result
	err    error
}

func (f *fakeAnalyzer) Analyze(_ context.Context, bookID string, partIndex int) (graph.Result, error) {
	f.calls++
	f.bookID, f.part = bookID, partIndex
	return f.result, f.err
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"dot", false},
		{"json", false},
		{"pdf", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %s, want %s", tt.format, errors.GetCode(err), errors.ErrCodeInvalidFormat)
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "json"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestOptionsValidateForLoad(t *testing.T) {
	opts := Options{}
	if err := opts.ValidateForLoad(); err == nil {
		t.Error("Missing book id and graph should fail")
	}

	opts = Options{BookID: "1342"}
	if err := opts.ValidateForLoad(); err != nil {
		t.Fatalf("Valid options should pass: %v", err)
	}
	if opts.PartIndex != fetch.DefaultPartIndex {
		t.Errorf("PartIndex should default to %d, got %d", fetch.DefaultPartIndex, opts.PartIndex)
	}
	if opts.Logger == nil {
		t.Error("Logger should be set")
	}

	opts = Options{Graph: sampleGraph()}
	if err := opts.ValidateForLoad(); err != nil {
		t.Errorf("Graph alone should pass: %v", err)
	}
}

func TestOptionsLayoutDefaults(t *testing.T) {
	opts := Options{}
	if err := opts.ValidateForLayout(); err != nil {
		t.Fatalf("ValidateForLayout: %v", err)
	}
	if opts.Layout != layout.DefaultConfig() {
		t.Error("zero layout config should become the default")
	}
	if opts.Width != DefaultWidth || opts.Height != DefaultHeight {
		t.Errorf("frame = %gx%g, want %gx%g", opts.Width, opts.Height, DefaultWidth, DefaultHeight)
	}

	opts = Options{Width: -1}
	if err := opts.ValidateForLayout(); err == nil {
		t.Error("negative width should fail")
	}

	bad := layout.DefaultConfig()
	bad.CoolingFactor = 2
	opts = Options{Layout: bad}
	if err := opts.ValidateForLayout(); err == nil {
		t.Error("invalid layout config should fail")
	}
}

func TestOptionsValidateForRender(t *testing.T) {
	opts := Options{}
	if err := opts.ValidateForRender(); err != nil {
		t.Fatalf("ValidateForRender: %v", err)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("Formats = %v, want [svg]", opts.Formats)
	}

	opts = Options{Focus: "bad\x00id"}
	if err := opts.ValidateForRender(); err == nil {
		t.Error("focus with control characters should fail")
	}
}

func TestExecuteFromGraph(t *testing.T) {
	runner := NewRunner(nil, nil, nil, quietLogger())
	defer runner.Close()

	result, err := runner.Execute(context.Background(), Options{
		Graph:   sampleGraph(),
		Layout:  testConfig(),
		Formats: []string{FormatDOT, FormatJSON},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if result.RunID == "" {
		t.Error("RunID should be set")
	}
	if result.Stats.NodeCount != 4 || result.Stats.EdgeCount != 3 {
		t.Errorf("stats = %d nodes, %d edges; want 4, 3", result.Stats.NodeCount, result.Stats.EdgeCount)
	}
	if result.Stats.Iterations == 0 {
		t.Error("fresh layout should report iterations")
	}
	if result.GraphHash == "" {
		t.Error("GraphHash should be set")
	}

	for id, p := range result.Positions {
		if p.X < 0 || p.X > DefaultWidth || p.Y < 0 || p.Y > DefaultHeight {
			t.Errorf("%s at (%g, %g) lies outside the frame", id, p.X, p.Y)
		}
	}

	dot := string(result.Artifacts[FormatDOT])
	if !strings.Contains(dot, "layout=neato") || !strings.Contains(dot, `"Elizabeth" -> "Darcy"`) {
		t.Errorf("unexpected DOT output:\n%s", dot)
	}
	if strings.Contains(dot, `class="highlighted"`) {
		t.Error("no focus given, nothing should be highlighted")
	}

	l, err := graph.UnmarshalLayout(result.Artifacts[FormatJSON])
	if err != nil {
		t.Fatalf("UnmarshalLayout: %v", err)
	}
	if len(l.Nodes) != 4 || len(l.Edges) != 3 {
		t.Errorf("json layout has %d nodes, %d edges", len(l.Nodes), len(l.Edges))
	}
}

func TestExecuteFocus(t *testing.T) {
	runner := NewRunner(nil, nil, nil, quietLogger())

	result, err := runner.Execute(context.Background(), Options{
		Graph:   sampleGraph(),
		Layout:  testConfig(),
		Focus:   "Jane",
		Formats: []string{FormatJSON},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	want := map[string]bool{"Elizabeth": true, "Jane": true, "Bingley": true, "Darcy": false}
	for id, highlighted := range want {
		n, ok := result.Layout.Node(id)
		if !ok {
			t.Fatalf("node %s missing from layout", id)
		}
		if n.Highlighted != highlighted {
			t.Errorf("%s highlighted = %v, want %v", id, n.Highlighted, highlighted)
		}
		if n.Focused != (id == "Jane") {
			t.Errorf("%s focused = %v", id, n.Focused)
		}
	}
	for _, e := range result.Layout.Edges {
		touches := e.Source == "Jane" || e.Target == "Jane"
		if e.Highlighted != touches {
			t.Errorf("edge %s highlighted = %v, want %v", e.ID, e.Highlighted, touches)
		}
	}
}

func TestExecuteUnknownFocus(t *testing.T) {
	runner := NewRunner(nil, nil, nil, quietLogger())

	_, err := runner.Execute(context.Background(), Options{
		Graph:   sampleGraph(),
		Layout:  testConfig(),
		Focus:   "Wickham",
		Formats: []string{FormatJSON},
	})
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("err = %v, want %s", err, errors.ErrCodeNotFound)
	}
}

func TestExecuteUsesAnalyzer(t *testing.T) {
	analyzer := &fakeAnalyzer{result: *sampleGraph()}
	runner := NewRunner(nil, nil, analyzer, quietLogger())

	_, err := runner.Execute(context.Background(), Options{
		BookID:  "1342",
		Layout:  testConfig(),
		Formats: []string{FormatJSON},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if analyzer.calls != 1 || analyzer.bookID != "1342" || analyzer.part != fetch.DefaultPartIndex {
		t.Errorf("analyzer called %d times with (%q, %d)", analyzer.calls, analyzer.bookID, analyzer.part)
	}
}

func TestExecuteAnalyzerError(t *testing.T) {
	analyzer := &fakeAnalyzer{err: errors.Server(404, "Book not found")}
	runner := NewRunner(nil, nil, analyzer, quietLogger())

	_, err := runner.Execute(context.Background(), Options{BookID: "999999999"})
	if err == nil {
		t.Fatal("expected error")
	}
	if got := errors.UserMessage(err); got != "Book not found" {
		t.Errorf("UserMessage = %q", got)
	}
}

func TestExecuteWithoutAnalyzer(t *testing.T) {
	runner := NewRunner(nil, nil, nil, quietLogger())
	_, err := runner.Execute(context.Background(), Options{BookID: "1342"})
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("err = %v, want %s", err, errors.ErrCodeInvalidConfig)
	}
}

func TestExecuteCaching(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	runner := NewRunner(c, nil, nil, quietLogger())
	defer runner.Close()

	opts := Options{
		Graph:   sampleGraph(),
		Layout:  testConfig(),
		Formats: []string{FormatJSON, FormatDOT},
	}

	first, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("first Execute: %v", err)
	}
	if first.CacheInfo.LayoutHit || first.CacheInfo.RenderHit {
		t.Errorf("first run hit the cache: %+v", first.CacheInfo)
	}

	second, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("second Execute: %v", err)
	}
	if !second.CacheInfo.LayoutHit || !second.CacheInfo.RenderHit {
		t.Errorf("second run missed the cache: %+v", second.CacheInfo)
	}
	if second.Stats.Iterations != 0 {
		t.Errorf("cached layout reported %d iterations", second.Stats.Iterations)
	}
	if string(first.Artifacts[FormatDOT]) != string(second.Artifacts[FormatDOT]) {
		t.Error("cached DOT differs from the original")
	}

	// A new focus reuses the layout but renders fresh artifacts.
	focused := opts
	focused.Focus = "Darcy"
	third, err := runner.Execute(context.Background(), focused)
	if err != nil {
		t.Fatalf("focused Execute: %v", err)
	}
	if !third.CacheInfo.LayoutHit || third.CacheInfo.RenderHit {
		t.Errorf("focused run cache info = %+v, want layout hit only", third.CacheInfo)
	}

	// Refresh bypasses both caches.
	refreshed := opts
	refreshed.Refresh = true
	fourth, err := runner.Execute(context.Background(), refreshed)
	if err != nil {
		t.Fatalf("refresh Execute: %v", err)
	}
	if fourth.CacheInfo.LayoutHit || fourth.CacheInfo.RenderHit {
		t.Errorf("refresh run hit the cache: %+v", fourth.CacheInfo)
	}
}

func TestGraphHashStable(t *testing.T) {
	a := graph.BuildSnapshot(sampleGraph().Edges, sampleGraph().Nodes)
	b := graph.BuildSnapshot(sampleGraph().Edges, sampleGraph().Nodes)
	if GraphHash(a) != GraphHash(b) {
		t.Error("equal snapshots should hash equally")
	}

	other := sampleGraph()
	other.Edges[0].Weight = 1
	c := graph.BuildSnapshot(other.Edges, other.Nodes)
	if GraphHash(a) == GraphHash(c) {
		t.Error("different weights should change the hash")
	}
}
