// Package prometheus implements the observability hooks on top of the
// Prometheus client library.
//
// A [Recorder] implements the pipeline, fetch and cache hooks directly and
// the HTTP hooks through [Recorder.HTTP]. Register it once at startup and
// expose [Recorder.Handler] on the metrics endpoint:
//
//	rec := prometheus.NewRecorder()
//	rec.Install()
//	router.Handle("/metrics", rec.Handler())
package prometheus

import (
	"context"
	"net/http"
	"strconv"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	promhttp "github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/castgraph/pkg/observability"
)

const namespace = "castgraph"

// Recorder records hook events as Prometheus metrics on a private registry.
type Recorder struct {
	registry *prom.Registry

	analyzeTotal   *prom.CounterVec
	analyzeSeconds *prom.HistogramVec
	analyzeNodes   prom.Histogram
	layoutTotal    *prom.CounterVec
	layoutSeconds  prom.Histogram
	renderTotal    *prom.CounterVec
	renderSeconds  prom.Histogram

	fetchRequests prom.Counter
	fetchApplied  *prom.CounterVec
	fetchStale    prom.Counter
	fetchSeconds  prom.Histogram

	cacheOps   *prom.CounterVec
	cacheBytes *prom.CounterVec

	httpTotal   *prom.CounterVec
	httpSeconds *prom.HistogramVec
	httpErrors  *prom.CounterVec
}

// NewRecorder creates a Recorder with all metrics registered.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prom.NewRegistry(),
		analyzeTotal: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "analyze_total",
			Help:      "Total number of book analyses",
		}, []string{"success"}),
		analyzeSeconds: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "analyze_seconds",
			Help:      "Book analysis duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120},
		}, []string{"success"}),
		analyzeNodes: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "analyze_characters",
			Help:      "Number of characters in extracted graphs",
			Buckets:   prom.LinearBuckets(0, 5, 10),
		}),
		layoutTotal: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "layout_runs_total",
			Help:      "Total number of layout runs",
		}, []string{"success"}),
		layoutSeconds: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "layout_seconds",
			Help:      "Layout duration in seconds",
			Buckets:   prom.DefBuckets,
		}),
		renderTotal: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "render_total",
			Help:      "Total number of render calls",
		}, []string{"success"}),
		renderSeconds: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "render_seconds",
			Help:      "Render duration in seconds",
			Buckets:   prom.DefBuckets,
		}),
		fetchRequests: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_requests_total",
			Help:      "Total number of analysis requests issued",
		}),
		fetchApplied: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_applied_total",
			Help:      "Completions that became the visible fetch state",
		}, []string{"status"}),
		fetchStale: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_stale_total",
			Help:      "Completions discarded because a newer request existed",
		}),
		fetchSeconds: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_seconds",
			Help:      "Time from request to applied completion in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120},
		}),
		cacheOps: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "cache_ops_total",
			Help:      "Cache operations by key type and result",
		}, []string{"key_type", "result"}),
		cacheBytes: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "cache_written_bytes_total",
			Help:      "Bytes written to the cache by key type",
		}, []string{"key_type"}),
		httpTotal: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "http_client_requests_total",
			Help:      "Outgoing HTTP requests by host and status",
		}, []string{"method", "host", "status"}),
		httpSeconds: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "http_client_seconds",
			Help:      "Outgoing HTTP request duration in seconds",
			Buckets:   prom.DefBuckets,
		}, []string{"method", "host"}),
		httpErrors: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "http_client_errors_total",
			Help:      "Outgoing HTTP requests that failed without a response",
		}, []string{"method", "host"}),
	}

	r.registry.MustRegister(
		r.analyzeTotal, r.analyzeSeconds, r.analyzeNodes,
		r.layoutTotal, r.layoutSeconds,
		r.renderTotal, r.renderSeconds,
		r.fetchRequests, r.fetchApplied, r.fetchStale, r.fetchSeconds,
		r.cacheOps, r.cacheBytes,
		r.httpTotal, r.httpSeconds, r.httpErrors,
	)
	return r
}

// Install registers r for every hook category.
func (r *Recorder) Install() {
	observability.SetPipelineHooks(r)
	observability.SetFetchHooks(r)
	observability.SetCacheHooks(r)
	observability.SetHTTPHooks(r.HTTP())
}

// Handler serves the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (r *Recorder) Registry() *prom.Registry { return r.registry }

// =============================================================================
// Pipeline Hooks
// =============================================================================

func (r *Recorder) OnAnalyzeStart(context.Context, int, int) {}

func (r *Recorder) OnAnalyzeComplete(_ context.Context, _, _, nodeCount int, d time.Duration, err error) {
	ok := success(err)
	r.analyzeTotal.WithLabelValues(ok).Inc()
	r.analyzeSeconds.WithLabelValues(ok).Observe(d.Seconds())
	if err == nil {
		r.analyzeNodes.Observe(float64(nodeCount))
	}
}

func (r *Recorder) OnLayoutStart(context.Context, int) {}

func (r *Recorder) OnLayoutComplete(_ context.Context, _ int, d time.Duration, err error) {
	r.layoutTotal.WithLabelValues(success(err)).Inc()
	r.layoutSeconds.Observe(d.Seconds())
}

func (r *Recorder) OnRenderStart(context.Context, []string) {}

func (r *Recorder) OnRenderComplete(_ context.Context, _ []string, d time.Duration, err error) {
	r.renderTotal.WithLabelValues(success(err)).Inc()
	r.renderSeconds.Observe(d.Seconds())
}

// =============================================================================
// Fetch Hooks
// =============================================================================

func (r *Recorder) OnRequest(context.Context, uint64, string, int) {
	r.fetchRequests.Inc()
}

func (r *Recorder) OnApplied(_ context.Context, _ uint64, status string, d time.Duration) {
	r.fetchApplied.WithLabelValues(status).Inc()
	r.fetchSeconds.Observe(d.Seconds())
}

func (r *Recorder) OnStale(context.Context, uint64) {
	r.fetchStale.Inc()
}

// =============================================================================
// Cache Hooks
// =============================================================================

func (r *Recorder) OnCacheHit(_ context.Context, keyType string) {
	r.cacheOps.WithLabelValues(keyType, "hit").Inc()
}

func (r *Recorder) OnCacheMiss(_ context.Context, keyType string) {
	r.cacheOps.WithLabelValues(keyType, "miss").Inc()
}

func (r *Recorder) OnCacheSet(_ context.Context, keyType string, size int) {
	r.cacheOps.WithLabelValues(keyType, "set").Inc()
	r.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// httpHooks adapts the HTTP hook methods, whose names collide with the
// fetch hooks on Recorder.
type httpHooks struct{ r *Recorder }

// HTTP returns the Recorder's HTTP hook implementation.
func (r *Recorder) HTTP() observability.HTTPHooks { return httpHooks{r} }

func (h httpHooks) OnRequest(context.Context, string, string, string) {}

func (h httpHooks) OnResponse(_ context.Context, method, host, _ string, status int, d time.Duration) {
	h.r.httpTotal.WithLabelValues(method, host, strconv.Itoa(status)).Inc()
	h.r.httpSeconds.WithLabelValues(method, host).Observe(d.Seconds())
}

func (h httpHooks) OnError(_ context.Context, method, host, _ string, _ error) {
	h.r.httpErrors.WithLabelValues(method, host).Inc()
}

func success(err error) string {
	return strconv.FormatBool(err == nil)
}
