package prometheus

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/matzehuels/castgraph/pkg/observability"
)

func TestRecorderCounts(t *testing.T) {
	ctx := context.Background()
	r := NewRecorder()

	r.OnAnalyzeComplete(ctx, 1342, 4, 12, time.Second, nil)
	r.OnAnalyzeComplete(ctx, 1342, 4, 0, time.Second, errors.New("boom"))
	r.OnRequest(ctx, 1, "1342", 4)
	r.OnRequest(ctx, 2, "84", 4)
	r.OnStale(ctx, 1)
	r.OnApplied(ctx, 2, "success", 2*time.Second)
	r.OnCacheHit(ctx, "analysis")
	r.OnCacheSet(ctx, "analysis", 512)

	if got := testutil.ToFloat64(r.analyzeTotal.WithLabelValues("true")); got != 1 {
		t.Errorf("analyze_total{success=true} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.analyzeTotal.WithLabelValues("false")); got != 1 {
		t.Errorf("analyze_total{success=false} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.fetchRequests); got != 2 {
		t.Errorf("fetch_requests_total = %v, want 2", got)
	}
	if got := testutil.ToFloat64(r.fetchStale); got != 1 {
		t.Errorf("fetch_stale_total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.fetchApplied.WithLabelValues("success")); got != 1 {
		t.Errorf("fetch_applied_total{status=success} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.cacheBytes.WithLabelValues("analysis")); got != 512 {
		t.Errorf("cache_written_bytes_total = %v, want 512", got)
	}
}

func TestRecorderHTTPHooks(t *testing.T) {
	ctx := context.Background()
	r := NewRecorder()
	h := r.HTTP()

	h.OnResponse(ctx, "GET", "www.gutenberg.org", "/files/1342/", 200, time.Second)
	h.OnError(ctx, "GET", "www.gutenberg.org", "/files/1342/", errors.New("timeout"))

	if got := testutil.ToFloat64(r.httpTotal.WithLabelValues("GET", "www.gutenberg.org", "200")); got != 1 {
		t.Errorf("http_client_requests_total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.httpErrors.WithLabelValues("GET", "www.gutenberg.org")); got != 1 {
		t.Errorf("http_client_errors_total = %v, want 1", got)
	}
}

func TestRecorderInstall(t *testing.T) {
	defer observability.Reset()

	r := NewRecorder()
	r.Install()

	if observability.Pipeline() != observability.PipelineHooks(r) {
		t.Error("Install should register pipeline hooks")
	}
	if observability.Fetch() != observability.FetchHooks(r) {
		t.Error("Install should register fetch hooks")
	}
	if _, ok := observability.HTTP().(httpHooks); !ok {
		t.Errorf("Install should register HTTP hooks, got %T", observability.HTTP())
	}
}

func TestRecorderHandler(t *testing.T) {
	r := NewRecorder()
	r.OnCacheMiss(context.Background(), "layout")

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `castgraph_cache_ops_total{key_type="layout",result="miss"} 1`) {
		t.Errorf("metrics output missing cache miss counter:\n%s", body)
	}
}
