package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"gamegraph/graphdb"
)

var (
	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gamegraph_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gamegraph_api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// Graph Metrics
	GraphVertices = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "gamegraph_graph_vertices",
			Help: "Number of vertices in the loaded graph by kind",
		},
		[]string{"kind"},
	)

	GraphEdges = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gamegraph_graph_edges",
			Help: "Number of edges in the loaded graph",
		},
	)
)

// RecordGraphSize publishes the size of a loaded graph
func RecordGraphSize(stats graphdb.Stats) {
	for kind, n := range stats.ByKind {
		GraphVertices.WithLabelValues(kind).Set(float64(n))
	}
	GraphEdges.Set(float64(stats.Edges))
}

// instrument records request counts and latency per route pattern
func instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		APIRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		APIRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
