package http

import (
	"fmt"
	"net/http"
	"sync/atomic"
)

// metrics holds process counters exposed in Prometheus text format.
type metrics struct {
	requestsTotal    atomic.Int64
	errorsTotal      atomic.Int64
	rateLimitedTotal atomic.Int64
	cacheHits        atomic.Int64
	cacheMisses      atomic.Int64
}

func newMetrics() *metrics {
	return &metrics{}
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
	fmt.Fprintf(w, "# HELP clarity_http_requests_total Total HTTP API requests.\n")
	fmt.Fprintf(w, "# TYPE clarity_http_requests_total counter\n")
	fmt.Fprintf(w, "clarity_http_requests_total %d\n", s.metrics.requestsTotal.Load())
	fmt.Fprintf(w, "# HELP clarity_http_errors_total Total HTTP 5xx responses.\n")
	fmt.Fprintf(w, "# TYPE clarity_http_errors_total counter\n")
	fmt.Fprintf(w, "clarity_http_errors_total %d\n", s.metrics.errorsTotal.Load())
	fmt.Fprintf(w, "# HELP clarity_http_rate_limited_total Requests rejected by the rate limiter.\n")
	fmt.Fprintf(w, "# TYPE clarity_http_rate_limited_total counter\n")
	fmt.Fprintf(w, "clarity_http_rate_limited_total %d\n", s.metrics.rateLimitedTotal.Load())
	fmt.Fprintf(w, "# HELP clarity_view_cache_hits_total Dashboard and insight cache hits.\n")
	fmt.Fprintf(w, "# TYPE clarity_view_cache_hits_total counter\n")
	fmt.Fprintf(w, "clarity_view_cache_hits_total %d\n", s.metrics.cacheHits.Load())
	fmt.Fprintf(w, "# HELP clarity_view_cache_misses_total Dashboard and insight cache misses.\n")
	fmt.Fprintf(w, "# TYPE clarity_view_cache_misses_total counter\n")
	fmt.Fprintf(w, "clarity_view_cache_misses_total %d\n", s.metrics.cacheMisses.Load())
}
